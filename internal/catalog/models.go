package catalog

import "github.com/shopspring/decimal"

// Product is a catalog entry. Baskets snapshot its display attributes and
// price at insertion time.
type Product struct {
	ID             int64           `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	PictureURL     string          `json:"pictureUrl"`
	ProductBrandID int64           `json:"-"`
	ProductBrand   ProductBrand    `json:"productBrand"`
	ProductTypeID  int64           `json:"-"`
	ProductType    ProductType     `json:"productType"`
}

type ProductBrand struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

type ProductType struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

// DeliveryMethod is a shipping option selectable during checkout.
type DeliveryMethod struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	ShortName    string          `gorm:"not null" json:"shortName"`
	DeliveryTime string          `json:"deliveryTime"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
}
