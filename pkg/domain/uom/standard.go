package uom

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
)

// Standard unit codes used throughout the catalog
const (
	Each  entities.UnitCode = "EA"
	Pack  entities.UnitCode = "PK"
	Box   entities.UnitCode = "BOX"
	Roll  entities.UnitCode = "ROLL"
	Spool entities.UnitCode = "SPOOL"

	Gram     entities.UnitCode = "G"
	Kilogram entities.UnitCode = "KG"
	Pound    entities.UnitCode = "LB"
	Ounce    entities.UnitCode = "OZ"

	Millimeter entities.UnitCode = "MM"
	Centimeter entities.UnitCode = "CM"
	Meter      entities.UnitCode = "M"
	Inch       entities.UnitCode = "IN"
	Foot       entities.UnitCode = "FT"

	Milliliter entities.UnitCode = "ML"
	Liter      entities.UnitCode = "L"

	Hour entities.UnitCode = "HR"
)

// StandardUnits returns the stock unit catalog. Packaging units (PK, BOX,
// ROLL, SPOOL) are count-dimensioned but carry no edge to EA: how many
// eaches a box holds is an item property, so a generic EA<->BOX conversion
// is deliberately undefined.
func StandardUnits() []*entities.Unit {
	return []*entities.Unit{
		{Code: Each, Dimension: entities.Count},
		{Code: Pack, Dimension: entities.Count},
		{Code: Box, Dimension: entities.Count},
		{Code: Roll, Dimension: entities.Count},
		{Code: Spool, Dimension: entities.Count},
		{Code: Gram, Dimension: entities.Weight},
		{Code: Kilogram, Dimension: entities.Weight},
		{Code: Pound, Dimension: entities.Weight},
		{Code: Ounce, Dimension: entities.Weight},
		{Code: Millimeter, Dimension: entities.Length},
		{Code: Centimeter, Dimension: entities.Length},
		{Code: Meter, Dimension: entities.Length},
		{Code: Inch, Dimension: entities.Length},
		{Code: Foot, Dimension: entities.Length},
		{Code: Milliliter, Dimension: entities.Volume},
		{Code: Liter, Dimension: entities.Volume},
		{Code: Hour, Dimension: entities.Duration},
	}
}

// StandardBases returns the canonical base unit per dimension. Weight is
// tracked in grams: filament consumption is metered in grams even though
// spools are bought by the kilogram.
func StandardBases() map[entities.Dimension]entities.UnitCode {
	return map[entities.Dimension]entities.UnitCode{
		entities.Count:    Each,
		entities.Weight:   Gram,
		entities.Length:   Meter,
		entities.Volume:   Liter,
		entities.Duration: Hour,
	}
}

// StandardEdges returns the stock conversion edges, effective from the
// zero time so they apply at any as-of date.
func StandardEdges() []*entities.ConversionEdge {
	factor := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	edges := []struct {
		from, to entities.UnitCode
		factor   decimal.Decimal
	}{
		{Kilogram, Gram, factor("1000")},
		{Pound, Gram, factor("453.592")},
		{Ounce, Gram, factor("28.3495")},
		{Millimeter, Meter, factor("0.001")},
		{Centimeter, Meter, factor("0.01")},
		{Inch, Meter, factor("0.0254")},
		{Foot, Meter, factor("0.3048")},
		{Milliliter, Liter, factor("0.001")},
	}

	result := make([]*entities.ConversionEdge, 0, len(edges))
	for _, e := range edges {
		result = append(result, &entities.ConversionEdge{
			From:   e.from,
			To:     e.to,
			Factor: e.factor,
		})
	}
	return result
}

// StandardRegistry builds a registry over the stock catalog as of now
func StandardRegistry() (*Registry, error) {
	return NewRegistry(StandardUnits(), StandardBases(), StandardEdges(), time.Now())
}
