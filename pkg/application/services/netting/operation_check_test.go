package netting

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
	testhelpers "github.com/printforge/planning/pkg/infrastructure/testing"
)

func TestCheckOperation_BlockedOnFilament(t *testing.T) {
	scenario, err := testhelpers.BuildPrintShopScenario()
	if err != nil {
		t.Fatalf("Failed to build scenario: %v", err)
	}
	// 100g free is not enough to print 10 widgets (388.5g planned).
	if err := scenario.WithBalance("PLA-RED", "MAIN", "100", "0"); err != nil {
		t.Fatalf("Failed to add balance: %v", err)
	}
	if err := scenario.WithReceipt("PLA-RED", "1", "KG", entities.PurchaseSupply, "PO-500", testhelpers.Day(4)); err != nil {
		t.Fatalf("Failed to add receipt: %v", err)
	}

	netter := NewNetter(scenario.Catalog, scenario.Registry)
	snapshot, err := scenario.Inventory.Snapshot()
	if err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}

	check, err := netter.CheckOperation(context.Background(), "WIDGET", d("10"), "PRINT", snapshot)
	if err != nil {
		t.Fatalf("CheckOperation failed: %v", err)
	}

	if check.CanStart {
		t.Error("Expected PRINT to be blocked")
	}
	if len(check.Blocking) != 1 {
		t.Fatalf("Expected 1 blocking issue, got %d", len(check.Blocking))
	}

	blocking := check.Blocking[0]
	if blocking.SKU != "PLA-RED" {
		t.Errorf("Expected PLA-RED blocking, got %s", blocking.SKU)
	}
	if !blocking.Required.Amount.Equal(d("388.5")) {
		t.Errorf("Expected required 388.5, got %s", blocking.Required.Amount)
	}
	if !blocking.Short.Amount.Equal(d("288.5")) {
		t.Errorf("Expected short 288.5, got %s", blocking.Short.Amount)
	}
	if blocking.FirstIncoming == nil {
		t.Fatal("Expected a pointer to the incoming receipt")
	}
	if blocking.FirstIncoming.Reference != "PO-500" {
		t.Errorf("Expected first incoming PO-500, got %s", blocking.FirstIncoming.Reference)
	}
}

func TestCheckOperation_OptionalShortageNeverBlocks(t *testing.T) {
	scenario, err := testhelpers.BuildPrintShopScenario()
	if err != nil {
		t.Fatalf("Failed to build scenario: %v", err)
	}
	// Plenty of filament, no PVA supports at all.
	if err := scenario.WithBalance("PLA-RED", "MAIN", "5000", "0"); err != nil {
		t.Fatalf("Failed to add balance: %v", err)
	}

	netter := NewNetter(scenario.Catalog, scenario.Registry)
	snapshot, err := scenario.Inventory.Snapshot()
	if err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}

	check, err := netter.CheckOperation(context.Background(), "WIDGET", d("10"), "PRINT", snapshot)
	if err != nil {
		t.Fatalf("CheckOperation failed: %v", err)
	}

	if !check.CanStart {
		t.Error("Expected PRINT to start; the only shortage is optional")
	}
	if len(check.Blocking) != 0 {
		t.Errorf("Expected no blocking issues, got %d", len(check.Blocking))
	}

	var pvaIssue *MaterialIssue
	for i := range check.Issues {
		if check.Issues[i].SKU == "PVA-SUPPORT" {
			pvaIssue = &check.Issues[i]
		}
	}
	if pvaIssue == nil {
		t.Fatal("Expected PVA-SUPPORT to appear as an issue")
	}
	if !pvaIssue.IsOptional {
		t.Error("Expected PVA-SUPPORT issue to be optional")
	}
	if !pvaIssue.Short.Amount.Equal(d("40")) {
		t.Errorf("Expected short 40, got %s", pvaIssue.Short.Amount)
	}
}

func TestCheckOperation_ScopedToOperation(t *testing.T) {
	scenario, err := testhelpers.BuildPrintShopScenario()
	if err != nil {
		t.Fatalf("Failed to build scenario: %v", err)
	}
	// PACK material only; no boxes on hand, but PRINT is not asked about.
	if err := scenario.WithBalance("PLA-RED", "MAIN", "5000", "0"); err != nil {
		t.Fatalf("Failed to add balance: %v", err)
	}

	netter := NewNetter(scenario.Catalog, scenario.Registry)
	snapshot, err := scenario.Inventory.Snapshot()
	if err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}

	check, err := netter.CheckOperation(context.Background(), "WIDGET", d("10"), "PACK", snapshot)
	if err != nil {
		t.Fatalf("CheckOperation failed: %v", err)
	}

	if check.CanStart {
		t.Error("Expected PACK blocked on boxes")
	}
	for _, issue := range check.Issues {
		if issue.SKU == "PLA-RED" {
			t.Error("PRINT materials must not appear in a PACK check")
		}
	}
}

func TestCheckOperation_NothingRemainingCanStart(t *testing.T) {
	scenario, err := testhelpers.BuildPrintShopScenario()
	if err != nil {
		t.Fatalf("Failed to build scenario: %v", err)
	}

	netter := NewNetter(scenario.Catalog, scenario.Registry)
	snapshot, err := scenario.Inventory.Snapshot()
	if err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}

	check, err := netter.CheckOperation(context.Background(), "WIDGET", decimal.Zero, "PRINT", snapshot)
	if err != nil {
		t.Fatalf("CheckOperation failed: %v", err)
	}
	if !check.CanStart {
		t.Error("Expected a finished run to report CanStart")
	}
}
