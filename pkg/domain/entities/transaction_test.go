package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestReceiptTransaction_StampsBaseUnitAndCost(t *testing.T) {
	item, err := NewItem("MAT-PLA-RED", "Red PLA filament", "G", decimal.RequireFromString("0.02"), Buy, 7)
	if err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	if _, err := item.WithPurchaseUnit("KG", decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("Failed to set purchase unit: %v", err)
	}

	// Receiving 3 KG at $20/KG must stamp 3000 G at $0.02/G, $60.00 total.
	tx, err := NewReceiptTransaction(
		item,
		Quantity{Amount: decimal.NewFromInt(3), Unit: "KG"},
		Cost{PerUnit: decimal.NewFromInt(20), Unit: "KG"},
		"PO-1001",
		time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("NewReceiptTransaction failed: %v", err)
	}

	if !tx.Quantity.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Expected quantity 3000, got %s", tx.Quantity)
	}
	if tx.Unit != "G" {
		t.Errorf("Expected unit G, got %s", tx.Unit)
	}
	if !tx.CostPerUnit.Equal(decimal.RequireFromString("0.02")) {
		t.Errorf("Expected cost per unit 0.02, got %s", tx.CostPerUnit)
	}
	if !tx.TotalCost.Equal(decimal.NewFromInt(60)) {
		t.Errorf("Expected total cost 60, got %s", tx.TotalCost)
	}
}

func TestReceiptTransaction_RejectsWrongUnits(t *testing.T) {
	item, err := NewItem("MAT-PLA-RED", "Red PLA filament", "G", decimal.RequireFromString("0.02"), Buy, 7)
	if err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	if _, err := item.WithPurchaseUnit("KG", decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("Failed to set purchase unit: %v", err)
	}

	now := time.Now()

	// Quantity in base unit when the item is purchased in KG.
	_, err = NewReceiptTransaction(item,
		Quantity{Amount: decimal.NewFromInt(3000), Unit: "G"},
		Cost{PerUnit: decimal.RequireFromString("0.02"), Unit: "G"},
		"PO-1002", now)
	if err == nil {
		t.Error("Expected error for quantity in wrong unit")
	}

	// Cost basis differing from the quantity unit.
	_, err = NewReceiptTransaction(item,
		Quantity{Amount: decimal.NewFromInt(3), Unit: "KG"},
		Cost{PerUnit: decimal.RequireFromString("0.02"), Unit: "G"},
		"PO-1003", now)
	if err == nil {
		t.Error("Expected error for mismatched cost basis")
	}
}

func TestConsumptionTransaction_UsesStandardCost(t *testing.T) {
	item, err := NewItem("MAT-PLA-RED", "Red PLA filament", "G", decimal.RequireFromString("0.02"), Buy, 7)
	if err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}

	tx, err := NewConsumptionTransaction(item, decimal.RequireFromString("388.5"), "MO-2001", time.Now())
	if err != nil {
		t.Fatalf("NewConsumptionTransaction failed: %v", err)
	}

	if tx.Unit != "G" {
		t.Errorf("Expected unit G, got %s", tx.Unit)
	}
	if !tx.TotalCost.Equal(decimal.RequireFromString("7.77")) {
		t.Errorf("Expected total cost 7.77, got %s", tx.TotalCost)
	}
}

func TestPurchaseCostToBase_Inversion(t *testing.T) {
	item, err := NewItem("MAT-PLA-RED", "Red PLA filament", "G", decimal.RequireFromString("0.02"), Buy, 7)
	if err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	if _, err := item.WithPurchaseUnit("KG", decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("Failed to set purchase unit: %v", err)
	}

	// Quantity multiplies by the factor; cost divides by it.
	qty, err := item.PurchaseToBase(decimal.NewFromInt(2))
	if err != nil {
		t.Fatalf("PurchaseToBase failed: %v", err)
	}
	if !qty.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected 2000, got %s", qty)
	}

	cost, err := item.PurchaseCostToBase(decimal.NewFromInt(20))
	if err != nil {
		t.Fatalf("PurchaseCostToBase failed: %v", err)
	}
	if !cost.Equal(decimal.RequireFromString("0.02")) {
		t.Errorf("Expected 0.02, got %s", cost)
	}
}
