package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/dvaldez/storefront-backend/pkg/pagination"
)

// ListParams filters and pages the product listing.
type ListParams struct {
	BrandID int64
	TypeID  int64
	Search  string
	Sort    string
	Page    pagination.Params
}

// Repository exposes catalog reads.
type Repository interface {
	ListProducts(ctx context.Context, params ListParams) ([]Product, int64, error)
	FindProduct(ctx context.Context, id int64) (*Product, error)
	ListBrands(ctx context.Context) ([]ProductBrand, error)
	ListTypes(ctx context.Context) ([]ProductType, error)
	ListDeliveryMethods(ctx context.Context) ([]DeliveryMethod, error)
	FindDeliveryMethod(ctx context.Context, id int64) (*DeliveryMethod, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the GORM-backed catalog repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListProducts(ctx context.Context, params ListParams) ([]Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&Product{})

	if params.BrandID != 0 {
		query = query.Where("product_brand_id = ?", params.BrandID)
	}
	if params.TypeID != 0 {
		query = query.Where("product_type_id = ?", params.TypeID)
	}
	if params.Search != "" {
		query = query.Where("lower(name) LIKE ?", "%"+params.Search+"%")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	switch params.Sort {
	case "priceAsc":
		query = query.Order("price asc")
	case "priceDesc":
		query = query.Order("price desc")
	default:
		query = query.Order("name asc")
	}

	var products []Product
	err := query.
		Preload("ProductBrand").
		Preload("ProductType").
		Limit(params.Page.Limit()).
		Offset(params.Page.Offset()).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *repository) FindProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).
		Preload("ProductBrand").
		Preload("ProductType").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListBrands(ctx context.Context) ([]ProductBrand, error) {
	var brands []ProductBrand
	if err := r.db.WithContext(ctx).Order("name asc").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *repository) ListTypes(ctx context.Context) ([]ProductType, error) {
	var productTypes []ProductType
	if err := r.db.WithContext(ctx).Order("name asc").Find(&productTypes).Error; err != nil {
		return nil, err
	}
	return productTypes, nil
}

func (r *repository) ListDeliveryMethods(ctx context.Context) ([]DeliveryMethod, error) {
	var methods []DeliveryMethod
	if err := r.db.WithContext(ctx).Order("price asc").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *repository) FindDeliveryMethod(ctx context.Context, id int64) (*DeliveryMethod, error) {
	var method DeliveryMethod
	if err := r.db.WithContext(ctx).First(&method, id).Error; err != nil {
		return nil, err
	}
	return &method, nil
}
