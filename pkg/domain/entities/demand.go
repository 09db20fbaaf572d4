package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandLine represents a requirement for an item, either stated directly
// by a sales order line or derived by BOM explosion. Quantity is always in
// the item's base unit by the time a DemandLine exists.
type DemandLine struct {
	SKU        SKU
	Quantity   decimal.Decimal
	Unit       UnitCode
	RequiredBy time.Time
	Source     string
	Level      int
	Operation  string
	IsOptional bool
	IsCostOnly bool
}

// UnresolvedLine is a demand line that could not be normalized into its
// item's base unit. It is excluded from netting and reported separately;
// a missing conversion is a catalog defect, never an assumed factor of 1.
type UnresolvedLine struct {
	SKU    SKU
	Source string
	Reason error
}

// NetRequirement is the computed netting result for one item, entirely in
// the item's base unit. It is ephemeral: recomputed on every invocation,
// never stored.
type NetRequirement struct {
	SKU        SKU
	Unit       UnitCode
	Gross      decimal.Decimal
	Available  decimal.Decimal
	Incoming   decimal.Decimal
	Net        decimal.Decimal
	RequiredBy time.Time
	Sources    []string
	Operations []string
}

// IsShort reports whether the item has an uncovered requirement
func (n *NetRequirement) IsShort() bool {
	return n.Net.IsPositive()
}

// ShortageQty returns the uncovered quantity, never negative
func (n *NetRequirement) ShortageQty() decimal.Decimal {
	if n.Net.IsPositive() {
		return n.Net
	}
	return decimal.Zero
}

// GrossQuantity returns the gross requirement as a unit-tagged quantity
func (n *NetRequirement) GrossQuantity() Quantity {
	return Quantity{Amount: n.Gross, Unit: n.Unit}
}

// ShortageQuantity returns the shortage as a unit-tagged quantity
func (n *NetRequirement) ShortageQuantity() Quantity {
	return Quantity{Amount: n.ShortageQty(), Unit: n.Unit}
}
