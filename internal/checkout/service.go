package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dvaldez/storefront-backend/internal/basket"
	"github.com/dvaldez/storefront-backend/internal/orders"
	"github.com/dvaldez/storefront-backend/internal/payments"
	pkgerrors "github.com/dvaldez/storefront-backend/pkg/errors"
	"github.com/dvaldez/storefront-backend/pkg/logger"
	"github.com/dvaldez/storefront-backend/pkg/metrics"
	"github.com/dvaldez/storefront-backend/pkg/types"
)

// Form is the checkout form collected from the client.
type Form struct {
	DeliveryMethodID int64                `json:"deliveryMethodId" validate:"required"`
	ShipToAddress    types.Address        `json:"shipToAddress" validate:"required"`
	Payment          payments.CardDetails `json:"payment" validate:"required"`
}

// Orchestrator drives the two-phase checkout: create the order, confirm the
// payment, and only then retire the basket. A failure at either phase leaves
// the basket intact so checkout can be retried without re-entering items.
type Orchestrator struct {
	orders  orders.Creator
	gateway payments.Gateway
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
	states   map[string]State
}

// NewOrchestrator builds the checkout orchestrator.
func NewOrchestrator(creator orders.Creator, gateway payments.Gateway, m *metrics.CheckoutMetrics, logg *logger.Logger) (*Orchestrator, error) {
	if creator == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	return &Orchestrator{
		orders:   creator,
		gateway:  gateway,
		metrics:  m,
		logg:     logg,
		inFlight: map[string]struct{}{},
		states:   map[string]State{},
	}, nil
}

// State reports the last observed state for the given basket.
func (o *Orchestrator) State(basketID string) State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if state, ok := o.states[basketID]; ok {
		return state
	}
	return StateIdle
}

// Submit runs one checkout for the container's current basket. Submissions
// for a basket that already has one in flight are rejected, which keeps a
// double click from creating duplicate orders.
func (o *Orchestrator) Submit(ctx context.Context, container *basket.Container, form Form) (*orders.Order, error) {
	if container == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "basket container required")
	}

	current := container.Current()
	if err := validateSubmission(current, form); err != nil {
		return nil, err
	}

	if err := o.acquire(current.ID); err != nil {
		return nil, err
	}
	defer o.release(current.ID)

	ctx = o.withBasketContext(ctx, current.ID)
	started := time.Now()

	o.setState(current.ID, StateCreatingOrder)
	order, err := o.orders.CreateOrder(ctx, orders.CreateOrderRequest{
		BasketID:         current.ID,
		DeliveryMethodID: form.DeliveryMethodID,
		ShipToAddress:    form.ShipToAddress,
	})
	if err != nil {
		o.fail(ctx, current.ID, "create_order", started, err)
		return nil, err
	}

	o.setState(current.ID, StateConfirmingPayment)
	result, err := o.gateway.ConfirmCardPayment(ctx, *current.ClientSecret, form.Payment)
	if err != nil {
		stage := "confirm_payment"
		if pkgerrors.Is(err, pkgerrors.CodePaymentDeclined) {
			stage = "payment_declined"
		}
		o.fail(ctx, current.ID, stage, started, err)
		return nil, err
	}

	// Both phases succeeded; the basket may now be retired. A failure here is
	// logged, not surfaced: the charge went through and the order exists.
	if err := container.Retire(ctx); err != nil && o.logg != nil {
		o.logg.Error(ctx, "checkout.retire_basket_failed", err)
	}

	o.setState(current.ID, StateSucceeded)
	o.metrics.IncSuccess()
	o.metrics.ObserveDuration("succeeded", time.Since(started))
	if o.logg != nil {
		o.logg.Info(o.logg.WithField(ctx, "payment_intent_id", result.PaymentIntentID), "checkout.succeeded")
	}
	return order, nil
}

func validateSubmission(current *basket.Basket, form Form) error {
	if current.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "basket is empty")
	}
	if current.ClientSecret == nil || strings.TrimSpace(*current.ClientSecret) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent has not been created for this basket")
	}
	if form.DeliveryMethodID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery method is required")
	}
	if err := form.ShipToAddress.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "shipping address is incomplete")
	}
	if strings.TrimSpace(form.Payment.PaymentMethod) == "" || strings.TrimSpace(form.Payment.NameOnCard) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment details are required")
	}
	return nil
}

func (o *Orchestrator) acquire(basketID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[basketID]; busy {
		return pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress for this basket")
	}
	o.inFlight[basketID] = struct{}{}
	return nil
}

func (o *Orchestrator) release(basketID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, basketID)
}

func (o *Orchestrator) setState(basketID string, state State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states[basketID] = state
}

func (o *Orchestrator) fail(ctx context.Context, basketID, stage string, started time.Time, err error) {
	o.setState(basketID, StateFailed)
	o.metrics.IncFailure(stage)
	o.metrics.ObserveDuration("failed", time.Since(started))
	if o.logg != nil {
		o.logg.Error(o.logg.WithField(ctx, "stage", stage), "checkout.failed", err)
	}
}

func (o *Orchestrator) withBasketContext(ctx context.Context, basketID string) context.Context {
	if o.logg == nil {
		return ctx
	}
	return o.logg.WithBasketID(ctx, basketID)
}
