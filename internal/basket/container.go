package basket

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/dvaldez/storefront-backend/pkg/logger"
)

// Container holds at most one current basket and its derived totals, exposed
// as replayed feeds. It is the single source of truth for one client session:
// every mutation flows through it as a read-modify-publish unit under one
// mutex, and every successful persist is mirrored to the identity holder.
type Container struct {
	store    Store
	identity IdentityHolder
	logg     *logger.Logger

	mu       sync.Mutex
	basket   *Feed[*Basket]
	totals   *Feed[*Totals]
	shipping decimal.Decimal
}

// NewContainer builds a container bound to one session's identity slot.
func NewContainer(store Store, identity IdentityHolder, logg *logger.Logger) (*Container, error) {
	if store == nil {
		return nil, fmt.Errorf("basket store required")
	}
	if identity == nil {
		return nil, fmt.Errorf("identity holder required")
	}
	return &Container{
		store:    store,
		identity: identity,
		logg:     logg,
		basket:   NewFeed[*Basket](),
		totals:   NewFeed[*Totals](),
	}, nil
}

// BasketFeed exposes the observable basket stream.
func (c *Container) BasketFeed() *Feed[*Basket] {
	return c.basket
}

// TotalsFeed exposes the observable totals stream.
func (c *Container) TotalsFeed() *Feed[*Totals] {
	return c.totals
}

// Current returns a copy of the last published basket, or nil.
func (c *Container) Current() *Basket {
	return c.basket.Current().Clone()
}

// Totals returns the last published totals, or nil.
func (c *Container) Totals() *Totals {
	return c.totals.Current()
}

// Load fetches a basket by id and publishes it as current, adopting its
// stored shipping price. An unknown id is treated as no-basket, not an error.
func (c *Container) Load(ctx context.Context, id string) (*Basket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		c.basket.Publish(nil)
		c.totals.Publish(nil)
		return nil, nil
	}

	c.shipping = stored.ShippingPrice
	c.publishLocked(stored)
	return stored.Clone(), nil
}

// LoadCurrent resolves the identity holder's basket id and loads it.
func (c *Container) LoadCurrent(ctx context.Context) (*Basket, error) {
	id, err := c.identity.Get(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return c.Load(ctx, id)
}

// Replace persists the basket, mirrors its id to the identity holder, then
// publishes it with recomputed totals. An emptied basket is retired instead
// of being persisted empty.
func (c *Container) Replace(ctx context.Context, b *Basket) (*Basket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.replaceLocked(ctx, b)
}

// Apply runs a pure transform against the current basket and persists the
// result, all under the container's mutex so no two mutations interleave
// their read and publish steps.
func (c *Container) Apply(ctx context.Context, mutate func(current *Basket) *Basket) (*Basket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.basket.Current()
	next := mutate(current.Clone())
	if next == nil {
		return nil, nil
	}
	if current == nil && next.ShippingPrice.IsZero() && !c.shipping.IsZero() {
		// A delivery method chosen before the first add still applies.
		next.ShippingPrice = c.shipping
	}
	return c.replaceLocked(ctx, next)
}

// SetShippingPrice records the selected delivery method's price and, when a
// basket is held, stamps it onto the basket and persists.
func (c *Container) SetShippingPrice(ctx context.Context, deliveryMethodID int64, price decimal.Decimal) (*Basket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shipping = price
	current := c.basket.Current()
	if current == nil {
		return nil, nil
	}
	next := current.Clone()
	next.DeliveryMethodID = &deliveryMethodID
	next.ShippingPrice = price
	return c.replaceLocked(ctx, next)
}

// Retire deletes the current basket from the store, clears the identity
// holder, and publishes no-basket and no-totals.
func (c *Container) Retire(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retireLocked(ctx)
}

func (c *Container) replaceLocked(ctx context.Context, b *Basket) (*Basket, error) {
	if b == nil {
		return nil, fmt.Errorf("basket required")
	}
	if b.IsEmpty() {
		// A basket with zero items is never left persisted.
		return nil, c.retireLocked(ctx)
	}

	stored, err := c.store.Put(ctx, b)
	if err != nil {
		return nil, err
	}
	if err := c.identity.Set(ctx, stored.ID); err != nil {
		return nil, err
	}
	c.publishLocked(stored)
	return stored.Clone(), nil
}

func (c *Container) retireLocked(ctx context.Context) error {
	current := c.basket.Current()
	if current != nil {
		if _, err := c.store.Delete(ctx, current.ID); err != nil {
			return err
		}
	}

	err := multierr.Append(nil, c.identity.Clear(ctx))
	c.basket.Publish(nil)
	c.totals.Publish(nil)
	c.shipping = decimal.Zero
	if c.logg != nil && current != nil {
		c.logg.Info(c.logg.WithBasketID(ctx, current.ID), "basket.retired")
	}
	return err
}

func (c *Container) publishLocked(b *Basket) {
	c.basket.Publish(b.Clone())
	c.totals.Publish(ComputeTotals(b))
}
