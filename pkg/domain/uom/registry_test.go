package uom

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
)

func mustStandardRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := StandardRegistry()
	if err != nil {
		t.Fatalf("Failed to build standard registry: %v", err)
	}
	return reg
}

func TestRegistry_Convert(t *testing.T) {
	reg := mustStandardRegistry(t)

	testCases := []struct {
		name     string
		qty      string
		from     entities.UnitCode
		to       entities.UnitCode
		expected string
	}{
		{"kg to g", "3", Kilogram, Gram, "3000"},
		{"g to kg", "500", Gram, Kilogram, "0.5"},
		{"lb to g", "1", Pound, Gram, "453.592"},
		{"lb to kg via base", "2", Pound, Kilogram, "0.907184"},
		{"oz to g", "1", Ounce, Gram, "28.3495"},
		{"mm to m", "1500", Millimeter, Meter, "1.5"},
		{"ft to in via base", "1", Foot, Inch, "12"},
		{"ml to l", "250", Milliliter, Liter, "0.25"},
		{"identity", "42", Gram, Gram, "42"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reg.Convert(decimal.RequireFromString(tc.qty), tc.from, tc.to)
			if err != nil {
				t.Fatalf("Convert(%s, %s, %s) failed: %v", tc.qty, tc.from, tc.to, err)
			}
			if !got.Equal(decimal.RequireFromString(tc.expected)) {
				t.Errorf("Convert(%s, %s, %s) = %s, expected %s", tc.qty, tc.from, tc.to, got, tc.expected)
			}
		})
	}
}

func TestRegistry_RoundTrip(t *testing.T) {
	reg := mustStandardRegistry(t)
	tolerance := decimal.RequireFromString("0.0000001")

	pairs := []struct {
		u, v entities.UnitCode
	}{
		{Kilogram, Gram},
		{Pound, Ounce},
		{Inch, Millimeter},
		{Foot, Centimeter},
		{Liter, Milliliter},
	}

	qty := decimal.RequireFromString("37.5")
	for _, p := range pairs {
		converted, err := reg.Convert(qty, p.u, p.v)
		if err != nil {
			t.Fatalf("Convert(%s -> %s) failed: %v", p.u, p.v, err)
		}
		back, err := reg.Convert(converted, p.v, p.u)
		if err != nil {
			t.Fatalf("Convert(%s -> %s) failed: %v", p.v, p.u, err)
		}
		if back.Sub(qty).Abs().GreaterThan(tolerance) {
			t.Errorf("Round trip %s -> %s -> %s: got %s, expected %s", p.u, p.v, p.u, back, qty)
		}
	}
}

func TestRegistry_CostInversion(t *testing.T) {
	reg := mustStandardRegistry(t)

	// 1 KG = 1000 G, so quantity multiplies by 1000 while cost divides.
	factor, err := reg.Factor(Kilogram, Gram)
	if err != nil {
		t.Fatalf("Factor(KG, G) failed: %v", err)
	}
	if !factor.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("Factor(KG, G) = %s, expected 1000", factor)
	}

	qty, err := reg.Convert(decimal.NewFromInt(3), Kilogram, Gram)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !qty.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Convert(3, KG, G) = %s, expected 3000", qty)
	}

	costPerGram, err := reg.ConvertCost(decimal.NewFromInt(20), Kilogram, Gram)
	if err != nil {
		t.Fatalf("ConvertCost failed: %v", err)
	}
	if !costPerGram.Equal(decimal.RequireFromString("0.02")) {
		t.Errorf("ConvertCost(20, KG, G) = %s, expected 0.02", costPerGram)
	}
}

func TestRegistry_IncompatibleDimension(t *testing.T) {
	reg := mustStandardRegistry(t)

	_, err := reg.Convert(decimal.NewFromInt(10), Gram, Each)
	if err == nil {
		t.Fatal("Expected error converting grams to each")
	}

	var dimErr *IncompatibleDimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("Expected IncompatibleDimensionError, got %T: %v", err, err)
	}
	if dimErr.FromDimension != entities.Weight || dimErr.ToDimension != entities.Count {
		t.Errorf("Expected Weight -> Count mismatch, got %s -> %s", dimErr.FromDimension, dimErr.ToDimension)
	}
}

func TestRegistry_UndefinedConversion(t *testing.T) {
	reg := mustStandardRegistry(t)

	// EA and BOX share the count dimension but no generic edge exists:
	// eaches-per-box is item data, not catalog data.
	_, err := reg.Convert(decimal.NewFromInt(5), Box, Each)
	if err == nil {
		t.Fatal("Expected error converting BOX to EA")
	}

	var undefErr *UndefinedConversionError
	if !errors.As(err, &undefErr) {
		t.Fatalf("Expected UndefinedConversionError, got %T: %v", err, err)
	}
}

func TestRegistry_UnknownUnit(t *testing.T) {
	reg := mustStandardRegistry(t)

	_, err := reg.Convert(decimal.NewFromInt(1), "FURLONG", Meter)
	var undefErr *UndefinedConversionError
	if !errors.As(err, &undefErr) {
		t.Fatalf("Expected UndefinedConversionError for unknown unit, got %T: %v", err, err)
	}
}

func TestRegistry_EffectiveDating(t *testing.T) {
	units := []*entities.Unit{
		{Code: "SPOOL", Dimension: entities.Weight},
		{Code: "G", Dimension: entities.Weight},
	}
	bases := map[entities.Dimension]entities.UnitCode{entities.Weight: "G"}

	// The spool weight was corrected from 1000g to 750g on 2025-06-01.
	// Edges are append-only: the correction is a new edge, not a mutation.
	edges := []*entities.ConversionEdge{
		{From: "SPOOL", To: "G", Factor: decimal.NewFromInt(1000), EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{From: "SPOOL", To: "G", Factor: decimal.NewFromInt(750), EffectiveFrom: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	testCases := []struct {
		name     string
		asOf     time.Time
		expected string
	}{
		{"before correction", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), "1000"},
		{"after correction", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), "750"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg, err := NewRegistry(units, bases, edges, tc.asOf)
			if err != nil {
				t.Fatalf("Failed to build registry: %v", err)
			}
			got, err := reg.Convert(decimal.NewFromInt(1), "SPOOL", "G")
			if err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tc.expected)) {
				t.Errorf("As of %s: Convert(1, SPOOL, G) = %s, expected %s", tc.asOf, got, tc.expected)
			}
		})
	}
}

func TestRegistry_RejectsCrossDimensionEdge(t *testing.T) {
	units := []*entities.Unit{
		{Code: "G", Dimension: entities.Weight},
		{Code: "EA", Dimension: entities.Count},
	}
	bases := map[entities.Dimension]entities.UnitCode{
		entities.Weight: "G",
		entities.Count:  "EA",
	}
	edges := []*entities.ConversionEdge{
		{From: "G", To: "EA", Factor: decimal.NewFromInt(1)},
	}

	_, err := NewRegistry(units, bases, edges, time.Now())
	var dimErr *IncompatibleDimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("Expected IncompatibleDimensionError at build time, got %T: %v", err, err)
	}
}

func TestRegistry_ConvertQuantityTagged(t *testing.T) {
	reg, err := StandardRegistry()
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}

	got, err := reg.ConvertQuantity(entities.NewQuantity(decimal.NewFromInt(2), "KG"), "G")
	if err != nil {
		t.Fatalf("ConvertQuantity failed: %v", err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected 2000, got %s", got.Amount)
	}
	if got.Unit != "G" {
		t.Errorf("Expected unit G, got %s", got.Unit)
	}

	if _, err := reg.ConvertQuantity(entities.NewQuantity(decimal.NewFromInt(1), "KG"), "EA"); err == nil {
		t.Error("Expected cross-dimension conversion to fail")
	}
}
