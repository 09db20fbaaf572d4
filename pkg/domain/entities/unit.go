package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// UnitCode identifies a unit of measure (e.g. "G", "KG", "EA", "SPOOL")
type UnitCode string

// Dimension classifies units into incomparable measurement classes
type Dimension int

const (
	Count Dimension = iota
	Weight
	Length
	Volume
	Duration
)

// String method for Dimension enum
func (d Dimension) String() string {
	switch d {
	case Count:
		return "Count"
	case Weight:
		return "Weight"
	case Length:
		return "Length"
	case Volume:
		return "Volume"
	case Duration:
		return "Duration"
	default:
		return "Unknown"
	}
}

// Unit pairs a unit code with its dimension class. Units of different
// dimensions are never comparable or convertible.
type Unit struct {
	Code      UnitCode
	Dimension Dimension
}

// Quantity is an amount tagged with the unit it is expressed in.
// Bare decimals never cross component boundaries.
type Quantity struct {
	Amount decimal.Decimal
	Unit   UnitCode
}

// NewQuantity creates a unit-tagged quantity
func NewQuantity(amount decimal.Decimal, unit UnitCode) Quantity {
	return Quantity{Amount: amount, Unit: unit}
}

// String method for Quantity
func (q Quantity) String() string {
	return fmt.Sprintf("%s %s", q.Amount.String(), q.Unit)
}

// Cost is a per-unit cost tagged with the unit basis it was computed
// against. A cost without its basis is meaningless.
type Cost struct {
	PerUnit decimal.Decimal
	Unit    UnitCode
}

// String method for Cost
func (c Cost) String() string {
	return fmt.Sprintf("%s/%s", c.PerUnit.String(), c.Unit)
}

// ConversionEdge declares that 1 From = Factor To. Edges are append-only
// reference data; superseding a factor means adding a new edge with a
// later EffectiveFrom, never mutating an existing one.
type ConversionEdge struct {
	From          UnitCode
	To            UnitCode
	Factor        decimal.Decimal
	EffectiveFrom time.Time
}

// NewConversionEdge creates a validated ConversionEdge
func NewConversionEdge(from, to UnitCode, factor decimal.Decimal, effectiveFrom time.Time) (*ConversionEdge, error) {
	if string(from) == "" {
		return nil, fmt.Errorf("from unit cannot be empty")
	}
	if string(to) == "" {
		return nil, fmt.Errorf("to unit cannot be empty")
	}
	if from == to {
		return nil, fmt.Errorf("conversion edge cannot map a unit to itself: %s", from)
	}
	if !factor.IsPositive() {
		return nil, fmt.Errorf("conversion factor must be positive, got %s", factor)
	}

	return &ConversionEdge{
		From:          from,
		To:            to,
		Factor:        factor,
		EffectiveFrom: effectiveFrom,
	}, nil
}
