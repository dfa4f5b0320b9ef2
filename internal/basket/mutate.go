package basket

import "github.com/shopspring/decimal"

// Pure transforms over a basket's item list. Every function clones its input
// and returns the next state; callers decide how the result is persisted.
// Operations on an absent item id are no-ops, never errors, and an item's
// quantity never drops below 1 while it remains in the list.

// Add merges quantity of the given snapshot into the basket, creating a fresh
// basket when none exists and appending a new line for unseen products.
func Add(b *Basket, snapshot Item, quantity int) *Basket {
	if quantity < 1 {
		quantity = 1
	}
	next := b.Clone()
	if next == nil {
		next = New()
	}
	for i := range next.Items {
		if next.Items[i].ProductID == snapshot.ProductID {
			next.Items[i].Quantity += quantity
			return next
		}
	}
	snapshot.Quantity = quantity
	next.Items = append(next.Items, snapshot)
	return next
}

// Increment raises the quantity of the matching item by one.
func Increment(b *Basket, productID int64) *Basket {
	next := b.Clone()
	if next == nil {
		return nil
	}
	for i := range next.Items {
		if next.Items[i].ProductID == productID {
			next.Items[i].Quantity++
			break
		}
	}
	return next
}

// Decrement lowers the quantity of the matching item by one; at quantity 1 the
// item is removed instead.
func Decrement(b *Basket, productID int64) *Basket {
	next := b.Clone()
	if next == nil {
		return nil
	}
	for i := range next.Items {
		if next.Items[i].ProductID != productID {
			continue
		}
		if next.Items[i].Quantity > 1 {
			next.Items[i].Quantity--
			return next
		}
		return Remove(next, productID)
	}
	return next
}

// Remove drops the matching item. The result may be empty; persisting versus
// retiring an emptied basket is the container's decision.
func Remove(b *Basket, productID int64) *Basket {
	next := b.Clone()
	if next == nil {
		return nil
	}
	filtered := next.Items[:0]
	for _, item := range next.Items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	next.Items = filtered
	return next
}

// ComputeTotals derives subtotal and total from the items and the shipping
// price. An empty basket has no totals, not zero totals.
func ComputeTotals(b *Basket) *Totals {
	if b.IsEmpty() {
		return nil
	}
	subtotal := decimal.Zero
	for _, item := range b.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return &Totals{
		Shipping: b.ShippingPrice,
		Subtotal: subtotal,
		Total:    subtotal.Add(b.ShippingPrice),
	}
}
