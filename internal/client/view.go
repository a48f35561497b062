package client

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/partstock/internal/record"
)

// Sortable fields for the item grid.
const (
	SortByPartNumber = "partNumber"
	SortByName       = "name"
	SortByQuantity   = "quantity"
	SortByLocation   = "location"
)

// SortItems orders a copy of items by field. Unknown fields fall back to
// part number. ascending=false reverses the order.
func SortItems(items []record.InventoryRecord, field string, ascending bool) []record.InventoryRecord {
	out := make([]record.InventoryRecord, len(items))
	copy(out, items)

	less := func(a, b record.InventoryRecord) bool {
		switch field {
		case SortByName:
			return a.Name < b.Name
		case SortByQuantity:
			return a.Quantity < b.Quantity
		case SortByLocation:
			return a.Location < b.Location
		default:
			return a.PartNumber < b.PartNumber
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

// FilterItems keeps items whose part number, name, brand or location
// contains the query, case-insensitively. An empty query keeps everything.
func FilterItems(items []record.InventoryRecord, query string) []record.InventoryRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]record.InventoryRecord, len(items))
		copy(out, items)
		return out
	}

	out := make([]record.InventoryRecord, 0, len(items))
	for _, it := range items {
		haystack := strings.ToLower(it.PartNumber + " " + it.Name + " " + it.Brand + " " + it.Location)
		if strings.Contains(haystack, query) {
			out = append(out, it)
		}
	}
	return out
}

// TrendPoint is one balance observation for a part, taken from the ledger.
type TrendPoint struct {
	Timestamp time.Time
	Balance   int
}

// BalanceTrend extracts the balance history of one part from ledger rows,
// oldest first. Rows with placeholder balances are skipped.
func BalanceTrend(logs []record.LedgerEntry, partNumber string) []TrendPoint {
	points := make([]TrendPoint, 0)
	for _, entry := range logs {
		if entry.PartNumber != partNumber {
			continue
		}
		balance, err := strconv.Atoi(entry.Balance)
		if err != nil {
			continue
		}
		points = append(points, TrendPoint{Timestamp: entry.Timestamp, Balance: balance})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points
}
