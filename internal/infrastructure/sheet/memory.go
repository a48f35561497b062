package sheet

import (
	"context"
	"sync"

	"github.com/example/partstock/internal/record"
)

// Memory is an in-process Store with the same row semantics as Workbook.
// Used by tests and as a scratch store when no workbook path is configured.
type Memory struct {
	mu    sync.Mutex
	items []record.InventoryRecord
	logs  []record.LedgerEntry
	users map[string]string
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]string)}
}

func (m *Memory) ListInventory(ctx context.Context) ([]record.InventoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]record.InventoryRecord, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *Memory) ListLogs(ctx context.Context, limit int) ([]record.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.logs)
	if n > limit {
		n = limit
	}
	out := make([]record.LedgerEntry, n)
	copy(out, m.logs[:n])
	return out, nil
}

func (m *Memory) FindItem(ctx context.Context, partNumber string) (record.InventoryRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.PartNumber == partNumber {
			return it, true, nil
		}
	}
	return record.InventoryRecord{}, false, nil
}

func (m *Memory) AppendItem(ctx context.Context, item record.InventoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, item)
	return nil
}

func (m *Memory) SetQuantity(ctx context.Context, partNumber string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].PartNumber == partNumber {
			m.items[i].Quantity = quantity
			return nil
		}
	}
	return nil
}

func (m *Memory) InsertLog(ctx context.Context, entry record.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append([]record.LedgerEntry{entry}, m.logs...)
	return nil
}

func (m *Memory) LookupUser(ctx context.Context, employeeID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.users[employeeID]
	return name, ok, nil
}

// AddUser whitelists an employee.
func (m *Memory) AddUser(employeeID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[employeeID] = name
}
