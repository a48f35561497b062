package sheet

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/partstock/internal/record"
)

// Sheet names inside the workbook.
const (
	SheetInventory = "Inventory"
	SheetLogs      = "Logs"
	SheetUsers     = "Users"
)

var (
	inventoryHeader = []string{"PartNumber", "Name", "Brand", "Spec", "Location", "Quantity"}
	logsHeader      = []string{"Timestamp", "EmployeeID", "ActionType", "PartNumber", "ChangeAmount", "Balance"}
	usersHeader     = []string{"EmployeeID", "Name"}
)

// Workbook is the .xlsx-backed Store. The file is the source of truth and is
// externally editable; every write saves the whole workbook back to disk.
// The mutex only protects the in-process excelize handle — cross-process
// write serialization is the stockroom service's job.
type Workbook struct {
	mu   sync.Mutex
	path string
	f    *excelize.File
}

// Open loads an existing workbook, creating any missing sheets and headers.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	wb := &Workbook{path: path, f: f}
	if err := wb.ensureSheets(); err != nil {
		return nil, err
	}
	return wb, nil
}

// Create writes a fresh workbook with headers only.
func Create(path string) (*Workbook, error) {
	f := excelize.NewFile()
	wb := &Workbook{path: path, f: f}
	if err := wb.ensureSheets(); err != nil {
		return nil, err
	}
	// Drop the default sheet excelize creates.
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx >= 0 {
		_ = f.DeleteSheet("Sheet1")
	}
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save workbook: %w", err)
	}
	return wb, nil
}

// Close releases the excelize handle.
func (wb *Workbook) Close() error {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.f.Close()
}

func (wb *Workbook) ensureSheets() error {
	for sheet, header := range map[string][]string{
		SheetInventory: inventoryHeader,
		SheetLogs:      logsHeader,
		SheetUsers:     usersHeader,
	} {
		idx, err := wb.f.GetSheetIndex(sheet)
		if err != nil {
			return fmt.Errorf("sheet index %s: %w", sheet, err)
		}
		if idx >= 0 {
			continue
		}
		if _, err := wb.f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		for col, title := range header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := wb.f.SetCellValue(sheet, cell, title); err != nil {
				return fmt.Errorf("write header %s: %w", sheet, err)
			}
		}
	}
	return nil
}

func (wb *Workbook) ListInventory(ctx context.Context) ([]record.InventoryRecord, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	rows, err := wb.f.GetRows(SheetInventory)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	items := make([]record.InventoryRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}
		items = append(items, rowToItem(row))
	}
	return items, nil
}

func (wb *Workbook) ListLogs(ctx context.Context, limit int) ([]record.LedgerEntry, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	rows, err := wb.f.GetRows(SheetLogs)
	if err != nil {
		return nil, fmt.Errorf("read logs: %w", err)
	}
	entries := make([]record.LedgerEntry, 0, limit)
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}
		if len(entries) == limit {
			break
		}
		entries = append(entries, rowToEntry(row))
	}
	return entries, nil
}

func (wb *Workbook) FindItem(ctx context.Context, partNumber string) (record.InventoryRecord, bool, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	_, item, found, err := wb.findRow(partNumber)
	return item, found, err
}

// findRow returns the 1-based sheet row of partNumber. Caller holds wb.mu.
func (wb *Workbook) findRow(partNumber string) (int, record.InventoryRecord, bool, error) {
	rows, err := wb.f.GetRows(SheetInventory)
	if err != nil {
		return 0, record.InventoryRecord{}, false, fmt.Errorf("read inventory: %w", err)
	}
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if row[0] == partNumber {
			return i + 1, rowToItem(row), true, nil
		}
	}
	return 0, record.InventoryRecord{}, false, nil
}

func (wb *Workbook) AppendItem(ctx context.Context, item record.InventoryRecord) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	rows, err := wb.f.GetRows(SheetInventory)
	if err != nil {
		return fmt.Errorf("read inventory: %w", err)
	}
	next := len(rows) + 1
	values := []any{item.PartNumber, item.Name, item.Brand, item.Spec, item.Location, item.Quantity}
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, next)
		if err := wb.f.SetCellValue(SheetInventory, cell, v); err != nil {
			return fmt.Errorf("append item: %w", err)
		}
	}
	return wb.save()
}

func (wb *Workbook) SetQuantity(ctx context.Context, partNumber string, quantity int) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	rowIdx, _, found, err := wb.findRow(partNumber)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("set quantity: no row for %s", partNumber)
	}
	cell, _ := excelize.CoordinatesToCellName(6, rowIdx)
	if err := wb.f.SetCellValue(SheetInventory, cell, quantity); err != nil {
		return fmt.Errorf("set quantity: %w", err)
	}
	return wb.save()
}

func (wb *Workbook) InsertLog(ctx context.Context, entry record.LedgerEntry) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	// Insert above existing data rows so the newest entry sits at row 2.
	if err := wb.f.InsertRows(SheetLogs, 2, 1); err != nil {
		return fmt.Errorf("insert log row: %w", err)
	}
	values := []any{
		entry.Timestamp.Format(time.RFC3339),
		entry.EmployeeID,
		entry.Action,
		entry.PartNumber,
		entry.ChangeAmount,
		entry.Balance,
	}
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		if err := wb.f.SetCellValue(SheetLogs, cell, v); err != nil {
			return fmt.Errorf("write log row: %w", err)
		}
	}
	return wb.save()
}

func (wb *Workbook) LookupUser(ctx context.Context, employeeID string) (string, bool, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	rows, err := wb.f.GetRows(SheetUsers)
	if err != nil {
		return "", false, fmt.Errorf("read users: %w", err)
	}
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if row[0] == employeeID {
			name := employeeID
			if len(row) > 1 && row[1] != "" {
				name = row[1]
			}
			return name, true, nil
		}
	}
	return "", false, nil
}

// AppendUser adds a whitelist row. Used by the seed tool.
func (wb *Workbook) AppendUser(ctx context.Context, employeeID, name string) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	rows, err := wb.f.GetRows(SheetUsers)
	if err != nil {
		return fmt.Errorf("read users: %w", err)
	}
	next := len(rows) + 1
	for col, v := range []any{employeeID, name} {
		cell, _ := excelize.CoordinatesToCellName(col+1, next)
		if err := wb.f.SetCellValue(SheetUsers, cell, v); err != nil {
			return fmt.Errorf("append user: %w", err)
		}
	}
	return wb.save()
}

func (wb *Workbook) save() error {
	if err := wb.f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func rowToItem(row []string) record.InventoryRecord {
	return record.InventoryRecord{
		PartNumber: cellAt(row, 0),
		Name:       cellAt(row, 1),
		Brand:      cellAt(row, 2),
		Spec:       cellAt(row, 3),
		Location:   cellAt(row, 4),
		Quantity:   intAt(row, 5),
	}
}

func rowToEntry(row []string) record.LedgerEntry {
	ts, err := time.Parse(time.RFC3339, cellAt(row, 0))
	if err != nil {
		ts = time.Time{}
	}
	return record.LedgerEntry{
		Timestamp:    ts,
		EmployeeID:   cellAt(row, 1),
		Action:       cellAt(row, 2),
		PartNumber:   cellAt(row, 3),
		ChangeAmount: cellAt(row, 4),
		Balance:      cellAt(row, 5),
	}
}

func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// intAt tolerates hand-edited cells: anything unparseable counts as zero,
// matching how the original store coerced quantities.
func intAt(row []string, idx int) int {
	n, err := strconv.Atoi(cellAt(row, idx))
	if err != nil {
		return 0
	}
	return n
}
