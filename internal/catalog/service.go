package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/dvaldez/storefront-backend/internal/basket"
	pkgerrors "github.com/dvaldez/storefront-backend/pkg/errors"
)

// Service exposes the catalog to controllers and to the basket flow.
type Service interface {
	ListProducts(ctx context.Context, params ListParams) ([]Product, int64, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListBrands(ctx context.Context) ([]ProductBrand, error)
	ListTypes(ctx context.Context) ([]ProductType, error)
	ListDeliveryMethods(ctx context.Context) ([]DeliveryMethod, error)
	GetDeliveryMethod(ctx context.Context, id int64) (*DeliveryMethod, error)
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, params ListParams) ([]Product, int64, error) {
	params.Search = strings.ToLower(strings.TrimSpace(params.Search))
	params.Page = params.Page.Normalize()
	products, count, err := s.repo.ListProducts(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, count, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListBrands(ctx context.Context) ([]ProductBrand, error) {
	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return brands, nil
}

func (s *service) ListTypes(ctx context.Context) ([]ProductType, error) {
	productTypes, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list types")
	}
	return productTypes, nil
}

func (s *service) ListDeliveryMethods(ctx context.Context) ([]DeliveryMethod, error) {
	methods, err := s.repo.ListDeliveryMethods(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery methods")
	}
	return methods, nil
}

func (s *service) GetDeliveryMethod(ctx context.Context, id int64) (*DeliveryMethod, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery method id is required")
	}
	method, err := s.repo.FindDeliveryMethod(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery method not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery method")
	}
	return method, nil
}

// Snapshot copies the product's display attributes and current price into a
// basket item. Later catalog changes do not alter existing baskets.
func Snapshot(p *Product) basket.Item {
	return basket.Item{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		PictureURL:  p.PictureURL,
		Brand:       p.ProductBrand.Name,
		Type:        p.ProductType.Name,
	}
}
