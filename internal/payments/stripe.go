package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/dvaldez/storefront-backend/internal/basket"
	"github.com/dvaldez/storefront-backend/pkg/config"
	pkgerrors "github.com/dvaldez/storefront-backend/pkg/errors"
	"github.com/dvaldez/storefront-backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"
)

var (
	errAPIKeyRequired   = errors.New("stripe api key is required")
	errInvalidStripeEnv = fmt.Errorf("stripe environment must be %q or %q", testEnv, liveEnv)

	minorUnits = decimal.NewFromInt(100)
)

// StripeGateway implements Gateway on Stripe payment intents.
type StripeGateway struct {
	api         *stripe.Client
	environment string
	currency    string
}

// NewStripeGateway initializes Stripe once with the configured secrets and env.
func NewStripeGateway(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*StripeGateway, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	if err := validateAPIKey(env, apiKey); err != nil {
		return nil, err
	}

	currency := strings.TrimSpace(strings.ToLower(cfg.Currency))
	if currency == "" {
		currency = "usd"
	}

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("stripe gateway initialized (%s)", env))
	}

	return &StripeGateway{
		api:         stripe.NewClient(apiKey),
		environment: env,
		currency:    currency,
	}, nil
}

// Environment reports the normalized Stripe environment in use.
func (g *StripeGateway) Environment() string {
	if g == nil {
		return ""
	}
	return g.environment
}

// CreateOrUpdateIntent opens or refreshes the intent for the basket total.
func (g *StripeGateway) CreateOrUpdateIntent(ctx context.Context, b *basket.Basket) (*Intent, error) {
	if b.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "basket has no items to pay for")
	}

	totals := basket.ComputeTotals(b)
	amount := totals.Total.Mul(minorUnits).IntPart()

	if b.PaymentIntentID != nil && *b.PaymentIntentID != "" {
		intent, err := g.api.V1PaymentIntents.Update(ctx, *b.PaymentIntentID, &stripe.PaymentIntentUpdateParams{
			Amount: stripe.Int64(amount),
		})
		if err != nil {
			return nil, mapStripeError(err, "update payment intent")
		}
		return &Intent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
	}

	intent, err := g.api.V1PaymentIntents.Create(ctx, &stripe.PaymentIntentCreateParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(g.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	})
	if err != nil {
		return nil, mapStripeError(err, "create payment intent")
	}
	return &Intent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

// ConfirmCardPayment confirms the intent referenced by clientSecret with the
// tokenized payment method from the checkout form.
func (g *StripeGateway) ConfirmCardPayment(ctx context.Context, clientSecret string, details CardDetails) (*ConfirmResult, error) {
	intentID := intentIDFromClientSecret(clientSecret)
	if intentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client secret is malformed")
	}

	intent, err := g.api.V1PaymentIntents.Confirm(ctx, intentID, &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(details.PaymentMethod),
	})
	if err != nil {
		return nil, mapStripeError(err, "confirm payment")
	}

	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusRequiresCapture:
		return &ConfirmResult{PaymentIntentID: intent.ID, Status: string(intent.Status)}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodePaymentDeclined,
			fmt.Sprintf("payment not completed (status %s)", intent.Status))
	}
}

func intentIDFromClientSecret(clientSecret string) string {
	trimmed := strings.TrimSpace(clientSecret)
	if trimmed == "" {
		return ""
	}
	return strings.SplitN(trimmed, "_secret", 2)[0]
}

func mapStripeError(err error, op string) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Type == stripe.ErrorTypeCard {
			msg := stripeErr.Msg
			if msg == "" {
				msg = "card was declined"
			}
			return pkgerrors.Wrap(pkgerrors.CodePaymentDeclined, err, msg).
				WithDetails(map[string]any{"decline_code": stripeErr.DeclineCode})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op+" failed")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op+" failed")
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidStripeEnv
	}
}

func validateAPIKey(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "sk_test") || strings.HasPrefix(key, "rk_test") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a test secret key (sk_test/rk_test)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "sk_live") || strings.HasPrefix(key, "rk_live") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a live secret key (sk_live/rk_live)", liveEnv)
	default:
		return errInvalidStripeEnv
	}
}
