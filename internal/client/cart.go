package client

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/example/partstock/internal/record"
)

// CartEntry accumulates pending deltas for one part. Entries disappear when
// the accumulator returns to zero.
type CartEntry struct {
	Item         record.InventoryRecord
	ChangeAmount int
}

// Cart batches multiple pending deltas into a single store round trip. It is
// purely client-side state: nothing hits the network until Submit.
type Cart struct {
	gw StoreGateway

	mu      sync.Mutex
	entries map[string]CartEntry
}

func NewCart(gw StoreGateway) *Cart {
	return &Cart{gw: gw, entries: make(map[string]CartEntry)}
}

// Add folds delta into the part's accumulator. A withdrawal that would
// exceed the item's last-known quantity is rejected and leaves the cart
// unchanged. An accumulator reaching exactly zero removes the entry.
func (c *Cart) Add(item record.InventoryRecord, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	newAmount := c.entries[item.PartNumber].ChangeAmount + delta
	if newAmount < 0 && -newAmount > item.Quantity {
		return fmt.Errorf("%w: %s has %d on hand", ErrInsufficientStock, item.PartNumber, item.Quantity)
	}

	if newAmount == 0 {
		delete(c.entries, item.PartNumber)
		return nil
	}
	c.entries[item.PartNumber] = CartEntry{Item: item, ChangeAmount: newAmount}
	return nil
}

// Clear empties the cart unconditionally. Confirmation is the UI's problem.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]CartEntry)
}

// Entries returns the pending entries ordered by part number.
func (c *Cart) Entries() []CartEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CartEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Item.PartNumber < out[j].Item.PartNumber
	})
	return out
}

// TotalItems is the badge count: the sum of absolute pending amounts.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, e := range c.entries {
		if e.ChangeAmount < 0 {
			total -= e.ChangeAmount
		} else {
			total += e.ChangeAmount
		}
	}
	return total
}

// Submit sends the pending entries as one batch transaction. An empty cart
// is a no-op. On success the submitted entries are removed — anything added
// while the batch was in flight stays pending — and refresh=true tells the
// caller to re-fetch inventory; on failure the cart is left intact.
func (c *Cart) Submit(ctx context.Context, employeeID string) (refresh bool, err error) {
	c.mu.Lock()
	batch := make([]record.BatchEntry, 0, len(c.entries))
	for _, e := range c.entries {
		batch = append(batch, record.BatchEntry{
			PartNumber:   e.Item.PartNumber,
			ChangeAmount: e.ChangeAmount,
		})
	}
	c.mu.Unlock()

	if len(batch) == 0 {
		return false, nil
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].PartNumber < batch[j].PartNumber })

	if err := c.gw.BatchAdjust(ctx, employeeID, batch); err != nil {
		return false, err
	}

	c.mu.Lock()
	for _, e := range batch {
		delete(c.entries, e.PartNumber)
	}
	c.mu.Unlock()
	return true, nil
}
