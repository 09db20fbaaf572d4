package csv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadItems(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "items.csv",
		"sku,description,base_unit,standard_cost,procurement,lead_time_days,purchase_unit,purchase_factor,min_order_qty,order_multiple,safety_stock\n"+
			"PLA-RED,Red PLA filament,G,0.02,Buy,7,KG,1000,1000,500,0\n"+
			"WIDGET,Printed widget,EA,1.85,Make,2,,,,,\n")

	items, err := NewLoader().LoadItems(path)
	if err != nil {
		t.Fatalf("LoadItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	pla := items[0]
	if pla.SKU != "PLA-RED" {
		t.Errorf("Expected PLA-RED, got %s", pla.SKU)
	}
	if pla.PurchaseUnit != "KG" || !pla.PurchaseFactor.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected purchase unit KG factor 1000, got %s factor %s", pla.PurchaseUnit, pla.PurchaseFactor)
	}
	if !pla.MinOrderQty.Equal(decimal.NewFromInt(1000)) || !pla.OrderMultiple.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected lot sizing 1000/500, got %s/%s", pla.MinOrderQty, pla.OrderMultiple)
	}

	widget := items[1]
	if widget.Procurement != entities.Make {
		t.Errorf("Expected Make, got %s", widget.Procurement)
	}
	if string(widget.PurchaseUnit) != "" {
		t.Errorf("Expected no purchase unit, got %s", widget.PurchaseUnit)
	}
}

func TestLoadItems_RejectsBadHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "items.csv",
		"part_number,description\nX,Y\n")

	if _, err := NewLoader().LoadItems(path); err == nil {
		t.Error("Expected header mismatch error")
	}
}

func TestLoadBOM(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bom.csv",
		"parent_sku,component_sku,quantity_per,unit,scrap_factor,operation,consume_stage,is_optional,is_cost_only\n"+
			"WIDGET,PLA-RED,37,G,0.05,PRINT,production,false,false\n"+
			"WIDGET,BOX-S,1,EA,,PACK,shipping,false,false\n"+
			"WIDGET,LABEL-STD,1,EA,,,,false,true\n")

	lines, err := NewLoader().LoadBOM(path)
	if err != nil {
		t.Fatalf("LoadBOM failed: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}

	pla := lines[0]
	if !pla.ScrapFactor.Equal(decimal.RequireFromString("0.05")) {
		t.Errorf("Expected scrap 0.05, got %s", pla.ScrapFactor)
	}
	if pla.Operation != "PRINT" || pla.ConsumeStage != entities.ConsumeAtProduction {
		t.Errorf("Expected PRINT at production, got %s at %s", pla.Operation, pla.ConsumeStage)
	}

	box := lines[1]
	if box.ConsumeStage != entities.ConsumeAtShipping {
		t.Errorf("Expected shipping stage, got %s", box.ConsumeStage)
	}

	label := lines[2]
	if !label.IsCostOnly {
		t.Error("Expected label line cost-only")
	}
}

func TestLoadConversions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "conversions.csv",
		"from_unit,to_unit,factor,effective_from\n"+
			"SPOOL,G,750,2025-06-01\n"+
			"KG,G,1000,\n")

	edges, err := NewLoader().LoadConversions(path)
	if err != nil {
		t.Fatalf("LoadConversions failed: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges, got %d", len(edges))
	}
	if edges[0].From != "SPOOL" || !edges[0].Factor.Equal(decimal.NewFromInt(750)) {
		t.Errorf("Expected SPOOL factor 750, got %s factor %s", edges[0].From, edges[0].Factor)
	}
	if !edges[1].EffectiveFrom.IsZero() {
		t.Errorf("Expected zero effective date, got %v", edges[1].EffectiveFrom)
	}
}

func TestLoadInventoryAndReceipts(t *testing.T) {
	dir := t.TempDir()
	invPath := writeFile(t, dir, "inventory.csv",
		"sku,location,on_hand,allocated\n"+
			"PLA-RED,MAIN,500,200\n"+
			"BOX-S,MAIN,-5,0\n")
	rcptPath := writeFile(t, dir, "receipts.csv",
		"sku,quantity,unit,source,reference,expected_date\n"+
			"PLA-RED,2,KG,purchase,PO-100,2025-09-05\n")

	loader := NewLoader()

	balances, err := loader.LoadInventory(invPath)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("Expected 2 balances, got %d", len(balances))
	}
	// Negative on-hand loads as-is; netting reports it as a defect.
	if !balances[1].OnHand.Equal(decimal.NewFromInt(-5)) {
		t.Errorf("Expected -5 on hand, got %s", balances[1].OnHand)
	}

	receipts, err := loader.LoadReceipts(rcptPath)
	if err != nil {
		t.Fatalf("LoadReceipts failed: %v", err)
	}
	if len(receipts) != 1 {
		t.Fatalf("Expected 1 receipt, got %d", len(receipts))
	}
	if receipts[0].Source != entities.PurchaseSupply {
		t.Errorf("Expected purchase source, got %s", receipts[0].Source)
	}
	if receipts[0].Unit != "KG" {
		t.Errorf("Expected unit KG, got %s", receipts[0].Unit)
	}
}

func TestLoadSalesOrders_FoldsLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales_orders.csv",
		"order_id,order_number,status,required_by,sku,ordered,shipped\n"+
			"SO-1001,SO-1001,Open,2025-09-15,WIDGET,10,0\n"+
			"SO-1001,SO-1001,Open,2025-09-15,BOX-S,10,0\n"+
			"SO-1002,SO-1002,Shipped,2025-09-01,WIDGET,5,5\n")

	orders, err := NewLoader().LoadSalesOrders(path)
	if err != nil {
		t.Fatalf("LoadSalesOrders failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(orders))
	}
	if len(orders[0].Lines) != 2 {
		t.Errorf("Expected 2 lines on SO-1001, got %d", len(orders[0].Lines))
	}
	if orders[1].Status != entities.OrderShipped {
		t.Errorf("Expected SO-1002 shipped, got %s", orders[1].Status)
	}
}

func TestLoadDemands(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demands.csv",
		"sku,quantity,required_by,source\n"+
			"WIDGET,10,2025-09-15,SO-1001\n")

	demands, err := NewLoader().LoadDemands(path)
	if err != nil {
		t.Fatalf("LoadDemands failed: %v", err)
	}
	if len(demands) != 1 {
		t.Fatalf("Expected 1 demand, got %d", len(demands))
	}
	if demands[0].SKU != "WIDGET" || !demands[0].Quantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Unexpected demand: %+v", demands[0])
	}
}

func TestLoadInventory_HeaderOnlyLoadsNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "inventory.csv",
		"sku,location,on_hand,allocated\n")

	balances, err := NewLoader().LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(balances) != 0 {
		t.Errorf("Expected no balances, got %d", len(balances))
	}
}

func TestLoadReceipts_HeaderOnlyLoadsNothing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "receipts.csv",
		"sku,quantity,unit,source,reference,expected_date\n")

	receipts, err := NewLoader().LoadReceipts(path)
	if err != nil {
		t.Fatalf("LoadReceipts failed: %v", err)
	}
	if len(receipts) != 0 {
		t.Errorf("Expected no receipts, got %d", len(receipts))
	}
}
