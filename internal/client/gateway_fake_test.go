package client

import (
	"context"
	"sync"

	"github.com/example/partstock/internal/record"
)

// fakeGateway is an in-memory StoreGateway with per-call hooks so tests can
// inject failures and delays.
type fakeGateway struct {
	mu    sync.Mutex
	items []record.InventoryRecord
	logs  []record.LedgerEntry
	users map[string]string

	batchCalls  [][]record.BatchEntry
	adjustCalls []adjustCall
	loginCalls  []string

	listErr   error
	adjustErr error
	batchErr  error

	// onList runs while ListInventory is "in flight", before the snapshot
	// is taken, letting tests interleave user actions with a poll.
	onList func()

	// onBatch runs while BatchAdjust is "in flight", before the batch is
	// applied.
	onBatch func()
}

type adjustCall struct {
	employeeID string
	partNumber string
	delta      int
}

func newFakeGateway(items ...record.InventoryRecord) *fakeGateway {
	return &fakeGateway{items: items, users: map[string]string{"EMP-001": "Administrator"}}
}

func (f *fakeGateway) ListInventory(ctx context.Context) ([]record.InventoryRecord, error) {
	if f.onList != nil {
		f.onList()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]record.InventoryRecord, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeGateway) ListLogs(ctx context.Context) ([]record.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]record.LedgerEntry, len(f.logs))
	copy(out, f.logs)
	return out, nil
}

func (f *fakeGateway) VerifyUser(ctx context.Context, employeeID string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.users[employeeID]
	if !ok {
		return "", "", ErrAccessDenied
	}
	return name, "test-token", nil
}

func (f *fakeGateway) RecordLogin(ctx context.Context, employeeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls = append(f.loginCalls, employeeID)
	return nil
}

func (f *fakeGateway) CreateItem(ctx context.Context, employeeID string, item record.InventoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.PartNumber == item.PartNumber {
			return ErrDuplicateKey
		}
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeGateway) AdjustQuantity(ctx context.Context, employeeID, partNumber string, delta int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adjustCalls = append(f.adjustCalls, adjustCall{employeeID, partNumber, delta})
	if f.adjustErr != nil {
		return 0, f.adjustErr
	}
	for i := range f.items {
		if f.items[i].PartNumber == partNumber {
			newQty := f.items[i].Quantity + delta
			if newQty < 0 {
				return 0, ErrInsufficientStock
			}
			f.items[i].Quantity = newQty
			return newQty, nil
		}
	}
	return 0, ErrNotFound
}

func (f *fakeGateway) BatchAdjust(ctx context.Context, employeeID string, entries []record.BatchEntry) error {
	if f.onBatch != nil {
		f.onBatch()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := make([]record.BatchEntry, len(entries))
	copy(batch, entries)
	f.batchCalls = append(f.batchCalls, batch)
	if f.batchErr != nil {
		return f.batchErr
	}
	for _, e := range entries {
		for i := range f.items {
			if f.items[i].PartNumber == e.PartNumber {
				f.items[i].Quantity += e.ChangeAmount
				if f.items[i].Quantity < 0 {
					f.items[i].Quantity = 0
				}
			}
		}
	}
	return nil
}
