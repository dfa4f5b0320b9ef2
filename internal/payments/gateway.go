package payments

import (
	"context"

	"github.com/dvaldez/storefront-backend/internal/basket"
)

// Intent identifies a payment intent held open at the gateway for a basket.
type Intent struct {
	ID           string
	ClientSecret string
}

// CardDetails carries the payment-method details collected from the checkout
// form. The raw card never reaches this service; the client tokenizes it.
type CardDetails struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
	NameOnCard    string `json:"nameOnCard" validate:"required"`
}

// ConfirmResult reports a completed payment confirmation.
type ConfirmResult struct {
	PaymentIntentID string
	Status          string
}

// Gateway is the consumed payment-gateway contract. Implementations return a
// PAYMENT_DECLINED typed error when the gateway rejects the charge and a
// DEPENDENCY_ERROR when it cannot be reached.
type Gateway interface {
	// CreateOrUpdateIntent opens an intent for the basket's current total, or
	// updates the existing one when the basket already carries an intent id.
	CreateOrUpdateIntent(ctx context.Context, b *basket.Basket) (*Intent, error)
	// ConfirmCardPayment confirms the intent behind clientSecret.
	ConfirmCardPayment(ctx context.Context, clientSecret string, details CardDetails) (*ConfirmResult, error)
}
