package record

import "time"

// Ledger action types. Every mutating action writes exactly one ledger row
// per affected part; batch submissions write one row per applied entry.
const (
	ActionLogin    = "LOGIN"
	ActionCreate   = "CREATE"
	ActionCheckIn  = "CHECK_IN"
	ActionCheckOut = "CHECK_OUT"
	ActionBatchIn  = "BATCH_IN"
	ActionBatchOut = "BATCH_OUT"
)

// Placeholder fills ledger cells that do not apply to an action (e.g. LOGIN).
const Placeholder = "-"

// InventoryRecord is one row of the Inventory sheet. PartNumber is the
// unique key; Quantity never goes negative.
type InventoryRecord struct {
	PartNumber string `json:"partNumber"`
	Name       string `json:"name"`
	Brand      string `json:"brand"`
	Spec       string `json:"spec"`
	Location   string `json:"location"`
	Quantity   int    `json:"quantity"`
}

// LedgerEntry is one row of the Logs sheet. Rows are append-only and stored
// newest-first. PartNumber, ChangeAmount and Balance carry Placeholder for
// actions that do not affect stock.
type LedgerEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	EmployeeID   string    `json:"employeeId"`
	Action       string    `json:"action"`
	PartNumber   string    `json:"partNumber"`
	ChangeAmount string    `json:"changeAmount"`
	Balance      string    `json:"balance"`
}

// BatchEntry is one delta of a batch transaction. Entries are applied
// independently; the group is not atomic.
type BatchEntry struct {
	PartNumber   string `json:"partNumber"`
	ChangeAmount int    `json:"changeAmount"`
}
