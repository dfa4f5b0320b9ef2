package basket

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

type memStore struct {
	mu      sync.Mutex
	baskets map[string]*Basket
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{baskets: map[string]*Basket{}}
}

func (s *memStore) Get(_ context.Context, id string) (*Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baskets[id].Clone(), nil
}

func (s *memStore) Put(_ context.Context, b *Basket) (*Basket, error) {
	if s.putErr != nil {
		return nil, s.putErr
	}
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

func newTestContainer(t *testing.T) (*Container, *memStore, *MemoryIdentity) {
	t.Helper()
	store := newMemStore()
	identity := NewMemoryIdentity()
	c, err := NewContainer(store, identity, nil)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	return c, store, identity
}

func TestReplaceThenLoadRoundTrips(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _, identity := newTestContainer(t)

	b := Add(nil, item(1, 10), 2)
	b.ShippingPrice = decimal.NewFromInt(4)
	if _, err := c.Replace(ctx, b); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	held, err := identity.Get(ctx)
	if err != nil || held != b.ID {
		t.Fatalf("identity should hold %s, got %q (%v)", b.ID, held, err)
	}

	loaded, err := c.Load(ctx, b.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != b.ID || len(loaded.Items) != 1 || loaded.Items[0].Quantity != 2 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
	if !loaded.ShippingPrice.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("shipping price lost in round trip: %s", loaded.ShippingPrice)
	}

	totals := c.Totals()
	if totals == nil || !totals.Total.Equal(decimal.NewFromInt(24)) {
		t.Fatalf("expected total 24, got %+v", totals)
	}
}

func TestLoadUnknownIDIsNoBasketNotError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _, _ := newTestContainer(t)

	loaded, err := c.Load(ctx, "missing")
	if err != nil {
		t.Fatalf("missing basket must not error: %v", err)
	}
	if loaded != nil || c.Current() != nil {
		t.Fatal("expected no-basket state")
	}
}

func TestRemovingLastItemRetiresBasket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, store, identity := newTestContainer(t)

	created, err := c.Apply(ctx, func(cur *Basket) *Basket {
		return Add(cur, item(1, 10), 1)
	})
	if err != nil {
		t.Fatalf("Apply add: %v", err)
	}

	result, err := c.Apply(ctx, func(cur *Basket) *Basket {
		return Decrement(cur, 1)
	})
	if err != nil {
		t.Fatalf("Apply decrement: %v", err)
	}
	if result != nil {
		t.Fatalf("expected no-basket after last decrement, got %+v", result)
	}

	if c.Current() != nil || c.Totals() != nil {
		t.Fatal("container should publish no-basket and no-totals")
	}
	if _, ok := store.baskets[created.ID]; ok {
		t.Fatal("store entry should be deleted")
	}
	if held, _ := identity.Get(ctx); held != "" {
		t.Fatalf("identity should be cleared, got %q", held)
	}
}

func TestApplySerializesReadModifyPublish(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _, _ := newTestContainer(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Apply(ctx, func(cur *Basket) *Basket {
				return Add(cur, item(1, 10), 1)
			})
		}()
	}
	wg.Wait()

	current := c.Current()
	if current == nil || len(current.Items) != 1 {
		t.Fatalf("expected one merged line, got %+v", current)
	}
	if current.Items[0].Quantity != 20 {
		t.Fatalf("lost increments under concurrency: qty %d", current.Items[0].Quantity)
	}
}

func TestSubscribeReplaysLatestThenUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _, _ := newTestContainer(t)

	if _, err := c.Apply(ctx, func(cur *Basket) *Basket {
		return Add(cur, item(1, 10), 1)
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	var mu sync.Mutex
	var quantities []int
	unsubscribe := c.BasketFeed().Subscribe(func(b *Basket) {
		mu.Lock()
		defer mu.Unlock()
		if b == nil {
			quantities = append(quantities, 0)
			return
		}
		quantities = append(quantities, b.Items[0].Quantity)
	})
	defer unsubscribe()

	if _, err := c.Apply(ctx, func(cur *Basket) *Basket {
		return Increment(cur, 1)
	}); err != nil {
		t.Fatalf("Apply increment: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(quantities) != 2 || quantities[0] != 1 || quantities[1] != 2 {
		t.Fatalf("expected replay then update [1 2], got %v", quantities)
	}
}

func TestSetShippingPricePersistsOntoBasket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _, _ := newTestContainer(t)

	if _, err := c.Apply(ctx, func(cur *Basket) *Basket {
		return Add(cur, item(1, 5), 2)
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	updated, err := c.SetShippingPrice(ctx, 3, decimal.NewFromInt(3))
	if err != nil {
		t.Fatalf("SetShippingPrice: %v", err)
	}
	if updated.DeliveryMethodID == nil || *updated.DeliveryMethodID != 3 {
		t.Fatalf("delivery method not stamped: %+v", updated)
	}

	totals := c.Totals()
	if !totals.Subtotal.Equal(decimal.NewFromInt(10)) || !totals.Total.Equal(decimal.NewFromInt(13)) {
		t.Fatalf("expected totals 10/13, got %+v", totals)
	}
}

func TestRetireWithoutBasketIsSafe(t *testing.T) {
	t.Parallel()
	c, _, _ := newTestContainer(t)

	if err := c.Retire(context.Background()); err != nil {
		t.Fatalf("Retire on empty container: %v", err)
	}
}
