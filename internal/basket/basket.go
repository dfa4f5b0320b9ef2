package basket

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one line of a basket. Display attributes and price are snapshotted
// from the product at insertion time and never re-read from the catalog.
type Item struct {
	ProductID   int64           `json:"id"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	PictureURL  string          `json:"pictureUrl"`
	Brand       string          `json:"brand"`
	Type        string          `json:"type"`
}

// Basket is the customer basket as persisted in the basket store.
type Basket struct {
	ID               string          `json:"id"`
	Items            []Item          `json:"items"`
	DeliveryMethodID *int64          `json:"deliveryMethodId,omitempty"`
	ShippingPrice    decimal.Decimal `json:"shippingPrice"`
	ClientSecret     *string         `json:"clientSecret,omitempty"`
	PaymentIntentID  *string         `json:"paymentIntentId,omitempty"`
}

// Totals are derived from the basket on every mutation, never persisted.
type Totals struct {
	Shipping decimal.Decimal `json:"shipping"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

// New creates an empty basket with a fresh identifier.
func New() *Basket {
	return &Basket{ID: uuid.NewString(), Items: []Item{}}
}

// Clone returns a deep copy so published baskets are never mutated in place.
func (b *Basket) Clone() *Basket {
	if b == nil {
		return nil
	}
	dup := *b
	dup.Items = make([]Item, len(b.Items))
	copy(dup.Items, b.Items)
	if b.DeliveryMethodID != nil {
		id := *b.DeliveryMethodID
		dup.DeliveryMethodID = &id
	}
	if b.ClientSecret != nil {
		secret := *b.ClientSecret
		dup.ClientSecret = &secret
	}
	if b.PaymentIntentID != nil {
		intent := *b.PaymentIntentID
		dup.PaymentIntentID = &intent
	}
	return &dup
}

// IsEmpty reports whether the basket holds no items.
func (b *Basket) IsEmpty() bool {
	return b == nil || len(b.Items) == 0
}
