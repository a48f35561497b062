package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/example/partstock/internal/infrastructure/sheet"
	"github.com/example/partstock/internal/record"
)

// Sample rows for a fresh install, matching the demo data the original
// deployment shipped with.
var sampleItems = []record.InventoryRecord{
	{PartNumber: "P-001", Name: "Core Control Chip", Brand: "CEC", Spec: "v2.4", Location: "A-01", Quantity: 10},
	{PartNumber: "P-002", Name: "Coolant Canister", Brand: "Vault-Tec", Spec: "5L", Location: "B-03", Quantity: 2},
	{PartNumber: "P-003", Name: "Steam Valve", Brand: "Valve Corp", Spec: "Iron", Location: "D-04", Quantity: 15},
	{PartNumber: "P-004", Name: "Power Node", Brand: "CEC", Spec: "v5", Location: "C-03", Quantity: 0},
}

var sampleUsers = [][2]string{
	{"EMP-001", "Administrator"},
	{"EMP-002", "Stockkeeper"},
}

func main() {
	_ = godotenv.Load()

	path := os.Getenv("WORKBOOK_PATH")
	if path == "" {
		path = "partstock.xlsx"
	}
	if _, err := os.Stat(path); err == nil {
		log.Fatalf("[Seed] %s already exists, refusing to overwrite", path)
	}

	wb, err := sheet.Create(path)
	if err != nil {
		log.Fatalf("[Seed] Failed to create workbook: %v", err)
	}
	defer wb.Close()

	ctx := context.Background()
	for _, item := range sampleItems {
		if err := wb.AppendItem(ctx, item); err != nil {
			log.Fatalf("[Seed] Failed to append %s: %v", item.PartNumber, err)
		}
	}
	for _, u := range sampleUsers {
		if err := wb.AppendUser(ctx, u[0], u[1]); err != nil {
			log.Fatalf("[Seed] Failed to append user %s: %v", u[0], err)
		}
	}

	log.Printf("[Seed] Wrote %s: %d items, %d users", path, len(sampleItems), len(sampleUsers))
}
