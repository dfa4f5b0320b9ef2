package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dvaldez/storefront-backend/pkg/logger"
)

// AutoMigrate creates the catalog tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&ProductBrand{}, &ProductType{}, &Product{}, &DeliveryMethod{})
}

// SeedIfEmpty loads a starter catalog for dev environments.
func SeedIfEmpty(ctx context.Context, db *gorm.DB, logg *logger.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	brands := []ProductBrand{{Name: "Angular"}, {Name: "React"}, {Name: "VS Code"}}
	productTypes := []ProductType{{Name: "Boards"}, {Name: "Boots"}, {Name: "Hats"}}
	if err := db.WithContext(ctx).Create(&brands).Error; err != nil {
		return fmt.Errorf("seed brands: %w", err)
	}
	if err := db.WithContext(ctx).Create(&productTypes).Error; err != nil {
		return fmt.Errorf("seed types: %w", err)
	}

	products := []Product{
		{
			Name:           "Core Board Speed Rush 3",
			Description:    "A board built for speed.",
			Price:          decimal.NewFromInt(180),
			PictureURL:     "images/products/sb-core1.png",
			ProductBrandID: brands[0].ID,
			ProductTypeID:  productTypes[0].ID,
		},
		{
			Name:           "Purple React Woman Hat",
			Description:    "Lightweight and warm.",
			Price:          decimal.NewFromInt(15),
			PictureURL:     "images/products/hat-react2.png",
			ProductBrandID: brands[1].ID,
			ProductTypeID:  productTypes[2].ID,
		},
		{
			Name:           "Blue Code Gloves",
			Description:    "Grippy gloves for cold sessions.",
			Price:          decimal.NewFromFloat(25.50),
			PictureURL:     "images/products/glove-code1.png",
			ProductBrandID: brands[2].ID,
			ProductTypeID:  productTypes[1].ID,
		},
	}
	if err := db.WithContext(ctx).Create(&products).Error; err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	methods := []DeliveryMethod{
		{ShortName: "UPS1", DeliveryTime: "1-2 Days", Description: "Fastest delivery time", Price: decimal.NewFromInt(10)},
		{ShortName: "UPS2", DeliveryTime: "2-5 Days", Description: "Get it within 5 days", Price: decimal.NewFromInt(5)},
		{ShortName: "UPS3", DeliveryTime: "5-10 Days", Description: "Slower but cheap", Price: decimal.NewFromInt(2)},
		{ShortName: "FREE", DeliveryTime: "1-2 Weeks", Description: "Free! You get what you pay for", Price: decimal.Zero},
	}
	if err := db.WithContext(ctx).Create(&methods).Error; err != nil {
		return fmt.Errorf("seed delivery methods: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "catalog seeded")
	}
	return nil
}
