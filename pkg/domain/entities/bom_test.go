package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBOMLine_Validation(t *testing.T) {
	validLine, err := NewBOMLine("WIDGET", "PLA-RED", decimal.NewFromInt(37), "G", decimal.RequireFromString("0.05"))
	if err != nil {
		t.Fatalf("Expected valid BOM line creation to succeed: %v", err)
	}
	if validLine.ConsumeStage != ConsumeAtProduction {
		t.Errorf("Expected default consume stage Production, got %s", validLine.ConsumeStage)
	}

	testCases := []struct {
		name        string
		parent      SKU
		component   SKU
		quantityPer string
		unit        UnitCode
		scrapFactor string
		expectError string
	}{
		{"empty parent", "", "PLA-RED", "1", "G", "0", "parent SKU cannot be empty"},
		{"empty component", "WIDGET", "", "1", "G", "0", "component SKU cannot be empty"},
		{"self reference", "WIDGET", "WIDGET", "1", "G", "0", "parent and component SKUs cannot be the same: WIDGET"},
		{"zero quantity", "WIDGET", "PLA-RED", "0", "G", "0", "quantity per must be positive, got 0"},
		{"negative quantity", "WIDGET", "PLA-RED", "-1", "G", "0", "quantity per must be positive, got -1"},
		{"empty unit", "WIDGET", "PLA-RED", "1", "", "0", "unit cannot be empty"},
		{"negative scrap", "WIDGET", "PLA-RED", "1", "G", "-0.1", "scrap factor must be in [0, 1), got -0.1"},
		{"scrap of one", "WIDGET", "PLA-RED", "1", "G", "1", "scrap factor must be in [0, 1), got 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBOMLine(tc.parent, tc.component, decimal.RequireFromString(tc.quantityPer), tc.unit, decimal.RequireFromString(tc.scrapFactor))
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error %q, got %q", tc.expectError, err.Error())
			}
		})
	}
}

func TestBOMLine_EffectiveQuantityPer(t *testing.T) {
	line, err := NewBOMLine("WIDGET", "PLA-RED", decimal.NewFromInt(37), "G", decimal.RequireFromString("0.05"))
	if err != nil {
		t.Fatalf("Failed to create BOM line: %v", err)
	}

	// 37g with 5% scrap is 38.85g per widget.
	expected := decimal.RequireFromString("38.85")
	if !line.EffectiveQuantityPer().Equal(expected) {
		t.Errorf("Expected effective quantity %s, got %s", expected, line.EffectiveQuantityPer())
	}
}

func TestBOMLine_ConsumptionQuantity(t *testing.T) {
	line, err := NewBOMLine("WIDGET", "PLA-RED", decimal.NewFromInt(37), "G", decimal.RequireFromString("0.05"))
	if err != nil {
		t.Fatalf("Failed to create BOM line: %v", err)
	}

	planned := decimal.NewFromInt(10)
	good := decimal.NewFromInt(8)

	testCases := []struct {
		name     string
		policy   ScrapPolicy
		expected string
	}{
		{"full planned includes scrap allowance", ConsumeFullPlanned, "388.5"},
		{"prorated follows good units", ProrateToGood, "310.8"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := line.ConsumptionQuantity(tc.policy, planned, good)
			if !got.Equal(decimal.RequireFromString(tc.expected)) {
				t.Errorf("Expected consumption %s, got %s", tc.expected, got)
			}
		})
	}
}
