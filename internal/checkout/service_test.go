package checkout

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvaldez/storefront-backend/internal/basket"
	"github.com/dvaldez/storefront-backend/internal/orders"
	"github.com/dvaldez/storefront-backend/internal/payments"
	pkgerrors "github.com/dvaldez/storefront-backend/pkg/errors"
	"github.com/dvaldez/storefront-backend/pkg/types"
)

type memStore struct {
	mu      sync.Mutex
	baskets map[string]*basket.Basket
}

func newMemStore() *memStore {
	return &memStore{baskets: map[string]*basket.Basket{}}
}

func (s *memStore) Get(_ context.Context, id string) (*basket.Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baskets[id].Clone(), nil
}

func (s *memStore) Put(_ context.Context, b *basket.Basket) (*basket.Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baskets[b.ID] = b.Clone()
	return b, nil
}

func (s *memStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.baskets[id]
	delete(s.baskets, id)
	return ok, nil
}

func (s *memStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.baskets[id]
	return ok
}

type stubCreator struct {
	mu    sync.Mutex
	calls int
	err   error
	order *orders.Order
}

func (s *stubCreator) CreateOrder(context.Context, orders.CreateOrderRequest) (*orders.Order, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.order != nil {
		return s.order, nil
	}
	return &orders.Order{ID: 1, Status: "Pending"}, nil
}

func (s *stubCreator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubGateway struct {
	mu      sync.Mutex
	calls   int
	err     error
	entered chan struct{}
	proceed chan struct{}
}

func (s *stubGateway) CreateOrUpdateIntent(context.Context, *basket.Basket) (*payments.Intent, error) {
	return &payments.Intent{ID: "pi_1", ClientSecret: "pi_1_secret_x"}, nil
}

func (s *stubGateway) ConfirmCardPayment(context.Context, string, payments.CardDetails) (*payments.ConfirmResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.proceed
	}
	if s.err != nil {
		return nil, s.err
	}
	return &payments.ConfirmResult{PaymentIntentID: "pi_1", Status: "succeeded"}, nil
}

func (s *stubGateway) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func validForm() Form {
	return Form{
		DeliveryMethodID: 2,
		ShipToAddress: types.Address{
			FirstName:  "Ada",
			LastName:   "Lovelace",
			Street:     "1 Main St",
			City:       "Springfield",
			State:      "IL",
			PostalCode: "62701",
		},
		Payment: payments.CardDetails{PaymentMethod: "pm_card_visa", NameOnCard: "Ada Lovelace"},
	}
}

func seedContainer(t *testing.T) (*basket.Container, *memStore, *basket.MemoryIdentity, string) {
	t.Helper()
	store := newMemStore()
	identity := basket.NewMemoryIdentity()
	container, err := basket.NewContainer(store, identity, nil)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	b := basket.Add(nil, basket.Item{ProductID: 1, ProductName: "boots", Price: decimal.NewFromInt(50)}, 1)
	b.ShippingPrice = decimal.NewFromInt(5)
	secret := "pi_1_secret_x"
	b.ClientSecret = &secret
	if _, err := container.Replace(context.Background(), b); err != nil {
		t.Fatalf("seed basket: %v", err)
	}
	return container, store, identity, b.ID
}

func newOrchestrator(t *testing.T, creator orders.Creator, gateway payments.Gateway) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(creator, gateway, nil, nil)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return o
}

func TestSubmitSuccessRetiresBasketAfterBothPhases(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	container, store, identity, basketID := seedContainer(t)
	creator := &stubCreator{}
	gateway := &stubGateway{}
	o := newOrchestrator(t, creator, gateway)

	order, err := o.Submit(ctx, container, validForm())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if order == nil || order.ID != 1 {
		t.Fatalf("expected created order, got %+v", order)
	}
	if o.State(basketID) != StateSucceeded {
		t.Fatalf("expected succeeded, got %s", o.State(basketID))
	}
	if store.has(basketID) {
		t.Fatal("basket should be deleted from the store after success")
	}
	if held, _ := identity.Get(ctx); held != "" {
		t.Fatalf("identity should be cleared, got %q", held)
	}
	if container.Current() != nil {
		t.Fatal("container should publish no-basket after success")
	}
}

func TestSubmitOrderFailureSkipsPaymentAndKeepsBasket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	container, store, _, basketID := seedContainer(t)
	creator := &stubCreator{err: pkgerrors.New(pkgerrors.CodeOrderCreation, "order rejected")}
	gateway := &stubGateway{}
	o := newOrchestrator(t, creator, gateway)

	_, err := o.Submit(ctx, container, validForm())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeOrderCreation {
		t.Fatalf("expected ORDER_CREATION_FAILED, got %v", err)
	}
	if gateway.callCount() != 0 {
		t.Fatal("payment must not be attempted when order creation fails")
	}
	if o.State(basketID) != StateFailed {
		t.Fatalf("expected failed, got %s", o.State(basketID))
	}
	if !store.has(basketID) {
		t.Fatal("basket must be preserved on order failure")
	}
}

func TestSubmitPaymentDeclinedKeepsBasketAndSurfacesMessage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	container, store, _, basketID := seedContainer(t)
	creator := &stubCreator{}
	gateway := &stubGateway{err: pkgerrors.New(pkgerrors.CodePaymentDeclined, "insufficient funds")}
	o := newOrchestrator(t, creator, gateway)

	_, err := o.Submit(ctx, container, validForm())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePaymentDeclined {
		t.Fatalf("expected PAYMENT_DECLINED, got %v", err)
	}
	if typed.Message() != "insufficient funds" {
		t.Fatalf("gateway message not surfaced: %q", typed.Message())
	}
	if creator.callCount() != 1 {
		t.Fatalf("expected exactly one order creation, got %d", creator.callCount())
	}
	if o.State(basketID) != StateFailed {
		t.Fatalf("expected failed, got %s", o.State(basketID))
	}
	if !store.has(basketID) {
		t.Fatal("basket must be preserved on a declined payment")
	}
	if container.Current() == nil {
		t.Fatal("container must keep publishing the basket after a decline")
	}
}

func TestSubmitRejectsConcurrentInvocationForSameBasket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	container, _, _, _ := seedContainer(t)
	creator := &stubCreator{}
	gateway := &stubGateway{entered: make(chan struct{}), proceed: make(chan struct{})}
	o := newOrchestrator(t, creator, gateway)

	done := make(chan error, 1)
	go func() {
		_, err := o.Submit(ctx, container, validForm())
		done <- err
	}()

	<-gateway.entered // first submission is mid-flight

	_, err := o.Submit(ctx, container, validForm())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT for re-entrant submit, got %v", err)
	}
	if creator.callCount() != 1 {
		t.Fatalf("duplicate order creation: %d calls", creator.callCount())
	}

	close(gateway.proceed)
	if err := <-done; err != nil {
		t.Fatalf("first submission should succeed: %v", err)
	}
}

func TestSubmitValidationBlocksBeforeAnyNetworkCall(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	creator := &stubCreator{}
	gateway := &stubGateway{}
	o := newOrchestrator(t, creator, gateway)

	store := newMemStore()
	container, err := basket.NewContainer(store, basket.NewMemoryIdentity(), nil)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	// Empty basket.
	_, err = o.Submit(ctx, container, validForm())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for empty basket, got %v", err)
	}

	// Missing delivery method.
	container2, _, _, _ := seedContainer(t)
	form := validForm()
	form.DeliveryMethodID = 0
	_, err = o.Submit(ctx, container2, form)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for missing delivery method, got %v", err)
	}

	if creator.callCount() != 0 || gateway.callCount() != 0 {
		t.Fatal("validation failures must not reach collaborators")
	}
}

func TestSubmitRequiresPaymentIntent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore()
	container, err := basket.NewContainer(store, basket.NewMemoryIdentity(), nil)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	b := basket.Add(nil, basket.Item{ProductID: 1, Price: decimal.NewFromInt(10)}, 1)
	if _, err := container.Replace(ctx, b); err != nil {
		t.Fatalf("seed: %v", err)
	}

	o := newOrchestrator(t, &stubCreator{}, &stubGateway{})
	_, err = o.Submit(ctx, container, validForm())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR without client secret, got %v", err)
	}
}
