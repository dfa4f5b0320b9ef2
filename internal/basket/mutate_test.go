package basket

import (
	"testing"

	"github.com/shopspring/decimal"
)

func item(id int64, price int64) Item {
	return Item{
		ProductID:   id,
		ProductName: "product",
		Price:       decimal.NewFromInt(price),
	}
}

func TestAddCreatesBasketWhenNoneExists(t *testing.T) {
	t.Parallel()

	b := Add(nil, item(1, 10), 1)
	if b == nil || b.ID == "" {
		t.Fatal("expected a fresh basket with an id")
	}
	if len(b.Items) != 1 || b.Items[0].Quantity != 1 {
		t.Fatalf("unexpected items: %+v", b.Items)
	}

	totals := ComputeTotals(b)
	if totals == nil || !totals.Subtotal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected subtotal 10, got %+v", totals)
	}
}

func TestAddMergesQuantityForExistingItem(t *testing.T) {
	t.Parallel()

	b := Add(nil, item(1, 10), 1)
	b = Add(b, item(1, 10), 2)

	if len(b.Items) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(b.Items))
	}
	if b.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", b.Items[0].Quantity)
	}
	if totals := ComputeTotals(b); !totals.Subtotal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected subtotal 30, got %s", totals.Subtotal)
	}
}

func TestAddDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	original := Add(nil, item(1, 10), 1)
	_ = Add(original, item(1, 10), 5)

	if original.Items[0].Quantity != 1 {
		t.Fatalf("input basket was mutated: %+v", original.Items)
	}
}

func TestIncrementUnknownItemIsNoop(t *testing.T) {
	t.Parallel()

	b := Add(nil, item(1, 10), 1)
	next := Increment(b, 99)
	if len(next.Items) != 1 || next.Items[0].Quantity != 1 {
		t.Fatalf("unexpected items after no-op increment: %+v", next.Items)
	}
}

func TestDecrementAboveOneLowersQuantity(t *testing.T) {
	t.Parallel()

	b := Add(nil, item(1, 10), 3)
	next := Decrement(b, 1)
	if next.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", next.Items[0].Quantity)
	}
}

func TestDecrementAtOneRemovesItem(t *testing.T) {
	t.Parallel()

	b := Add(nil, item(1, 10), 1)
	b = Add(b, item(2, 5), 1)

	next := Decrement(b, 1)
	if len(next.Items) != 1 || next.Items[0].ProductID != 2 {
		t.Fatalf("expected item 1 removed, got %+v", next.Items)
	}

	// Equivalent to Remove, and a second decrement on the gone id is a no-op.
	again := Decrement(next, 1)
	if len(again.Items) != 1 {
		t.Fatalf("decrement of absent item should be a no-op, got %+v", again.Items)
	}
}

func TestRemoveLastItemYieldsEmptyBasket(t *testing.T) {
	t.Parallel()

	b := Add(nil, item(1, 10), 2)
	next := Remove(b, 1)
	if !next.IsEmpty() {
		t.Fatalf("expected empty basket, got %+v", next.Items)
	}
	if totals := ComputeTotals(next); totals != nil {
		t.Fatalf("empty basket must have absent totals, got %+v", totals)
	}
}

func TestMutationSequencesKeepInvariants(t *testing.T) {
	t.Parallel()

	var b *Basket
	b = Add(b, item(1, 10), 2)
	b = Add(b, item(2, 5), 1)
	b = Increment(b, 2)
	b = Decrement(b, 1)
	b = Add(b, item(3, 7), 1)
	b = Remove(b, 2)
	b = Decrement(b, 3)

	seen := map[int64]bool{}
	for _, it := range b.Items {
		if seen[it.ProductID] {
			t.Fatalf("duplicate item id %d", it.ProductID)
		}
		seen[it.ProductID] = true
		if it.Quantity < 1 {
			t.Fatalf("item %d has quantity %d", it.ProductID, it.Quantity)
		}
	}
}

func TestComputeTotalsIncludesShipping(t *testing.T) {
	t.Parallel()

	b := Add(nil, item(1, 5), 2)
	b.ShippingPrice = decimal.NewFromInt(3)

	totals := ComputeTotals(b)
	if !totals.Subtotal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected subtotal 10, got %s", totals.Subtotal)
	}
	if !totals.Shipping.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected shipping 3, got %s", totals.Shipping)
	}
	if !totals.Total.Equal(decimal.NewFromInt(13)) {
		t.Fatalf("expected total 13, got %s", totals.Total)
	}
}
