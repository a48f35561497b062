package sheet

import (
	"context"

	"github.com/example/partstock/internal/record"
)

// Store is the row-level contract over the spreadsheet. Implementations hold
// no business rules; validation (duplicate keys, negative stock) lives in the
// stockroom service, which also serializes writes.
type Store interface {
	// ListInventory returns every inventory row in sheet order.
	ListInventory(ctx context.Context) ([]record.InventoryRecord, error)

	// ListLogs returns up to limit ledger rows, newest first.
	ListLogs(ctx context.Context, limit int) ([]record.LedgerEntry, error)

	// FindItem returns the row for partNumber, or ok=false.
	FindItem(ctx context.Context, partNumber string) (record.InventoryRecord, bool, error)

	// AppendItem adds a new inventory row at the bottom of the sheet.
	AppendItem(ctx context.Context, item record.InventoryRecord) error

	// SetQuantity overwrites the quantity cell of an existing row.
	SetQuantity(ctx context.Context, partNumber string, quantity int) error

	// InsertLog inserts a ledger row above all existing data rows, keeping
	// the Logs sheet newest-first.
	InsertLog(ctx context.Context, entry record.LedgerEntry) error

	// LookupUser consults the whitelist and returns the display name.
	LookupUser(ctx context.Context, employeeID string) (string, bool, error)
}
