package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvaldez/storefront-backend/pkg/types"
)

// Creator is the consumed order-creation contract.
type Creator interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
}

// CreateOrderRequest is the payload the order service expects.
type CreateOrderRequest struct {
	BasketID         string        `json:"basketId"`
	DeliveryMethodID int64         `json:"deliveryMethodId"`
	ShipToAddress    types.Address `json:"shipToAddress"`
}

// Order is the created order as returned by the order service.
type Order struct {
	ID               int64           `json:"id"`
	OrderDate        time.Time       `json:"orderDate"`
	Status           string          `json:"status"`
	DeliveryMethodID int64           `json:"deliveryMethodId"`
	ShipToAddress    types.Address   `json:"shipToAddress"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ShippingPrice    decimal.Decimal `json:"shippingPrice"`
	Total            decimal.Decimal `json:"total"`
	Items            []OrderItem     `json:"items"`
}

// OrderItem is one line of a created order.
type OrderItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	PictureURL  string          `json:"pictureUrl"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}
