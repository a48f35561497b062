package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/partstock/internal/record"
)

func TestSortItems(t *testing.T) {
	items := []record.InventoryRecord{
		{PartNumber: "P-2", Name: "Beta", Quantity: 3, Location: "B-1"},
		{PartNumber: "P-1", Name: "Alpha", Quantity: 9, Location: "A-1"},
		{PartNumber: "P-3", Name: "Gamma", Quantity: 1, Location: "C-1"},
	}

	tests := []struct {
		name      string
		field     string
		ascending bool
		wantFirst string
	}{
		{"part number ascending", SortByPartNumber, true, "P-1"},
		{"part number descending", SortByPartNumber, false, "P-3"},
		{"name ascending", SortByName, true, "P-1"},
		{"quantity ascending", SortByQuantity, true, "P-3"},
		{"quantity descending", SortByQuantity, false, "P-1"},
		{"location ascending", SortByLocation, true, "P-1"},
		{"unknown field falls back to part number", "bogus", true, "P-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted := SortItems(items, tt.field, tt.ascending)
			assert.Equal(t, tt.wantFirst, sorted[0].PartNumber)
		})
	}

	// Sorting must not reorder the caller's slice.
	assert.Equal(t, "P-2", items[0].PartNumber)
}

func TestFilterItems(t *testing.T) {
	items := []record.InventoryRecord{
		{PartNumber: "P-1", Name: "Core Chip", Brand: "Acme", Location: "A-1"},
		{PartNumber: "P-2", Name: "Power Cell", Brand: "Volta", Location: "B-3"},
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"empty keeps all", "", 2},
		{"whitespace keeps all", "   ", 2},
		{"matches name case-insensitively", "core", 1},
		{"matches brand", "volta", 1},
		{"matches location", "b-3", 1},
		{"matches part number", "P-2", 1},
		{"no match", "flux capacitor", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, FilterItems(items, tt.query), tt.want)
		})
	}
}

func TestBalanceTrend(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	logs := []record.LedgerEntry{
		{Timestamp: base.Add(2 * time.Hour), PartNumber: "P-1", Action: record.ActionCheckOut, Balance: "3"},
		{Timestamp: base.Add(time.Hour), PartNumber: "P-1", Action: record.ActionCheckIn, Balance: "4"},
		{Timestamp: base, PartNumber: "P-2", Action: record.ActionCheckIn, Balance: "9"},
		{Timestamp: base, PartNumber: record.Placeholder, Action: record.ActionLogin, Balance: record.Placeholder},
	}

	points := BalanceTrend(logs, "P-1")

	require.Len(t, points, 2)
	assert.Equal(t, 4, points[0].Balance, "oldest observation comes first")
	assert.Equal(t, 3, points[1].Balance)
	assert.True(t, points[0].Timestamp.Before(points[1].Timestamp))
}

func TestBalanceTrend_NoRowsForPart(t *testing.T) {
	points := BalanceTrend(nil, "P-404")
	assert.Empty(t, points)
}
