package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SupplySource represents the origin of incoming supply
type SupplySource int

const (
	PurchaseSupply SupplySource = iota
	ProductionSupply
)

// String method for SupplySource enum
func (s SupplySource) String() string {
	switch s {
	case PurchaseSupply:
		return "Purchase"
	case ProductionSupply:
		return "Production"
	default:
		return "Unknown"
	}
}

// OnHandBalance is the stock position for an item at a location, in the
// item's base unit. Allocated is the portion already promised to open demand.
type OnHandBalance struct {
	SKU       SKU
	Location  string
	OnHand    decimal.Decimal
	Allocated decimal.Decimal
}

// NewOnHandBalance creates a validated OnHandBalance. A negative on-hand
// quantity is accepted here because snapshots reflect whatever upstream
// recorded; the netting engine reports the violation rather than hiding it.
func NewOnHandBalance(sku SKU, location string, onHand, allocated decimal.Decimal) (*OnHandBalance, error) {
	if string(sku) == "" {
		return nil, fmt.Errorf("SKU cannot be empty")
	}
	if location == "" {
		return nil, fmt.Errorf("location cannot be empty")
	}
	if allocated.IsNegative() {
		return nil, fmt.Errorf("allocated quantity cannot be negative, got %s", allocated)
	}

	return &OnHandBalance{
		SKU:       sku,
		Location:  location,
		OnHand:    onHand,
		Allocated: allocated,
	}, nil
}

// ScheduledReceipt is open, not-yet-received supply: a purchase-order line
// awaiting receipt or a production order awaiting completion. Quantity is
// expressed in Unit, which for purchase lines is the purchase unit.
type ScheduledReceipt struct {
	SKU       SKU
	Quantity  decimal.Decimal
	Unit      UnitCode
	Source    SupplySource
	Reference string
	Expected  time.Time
}

// NewScheduledReceipt creates a validated ScheduledReceipt
func NewScheduledReceipt(
	sku SKU,
	quantity decimal.Decimal,
	unit UnitCode,
	source SupplySource,
	reference string,
	expected time.Time,
) (*ScheduledReceipt, error) {
	if string(sku) == "" {
		return nil, fmt.Errorf("SKU cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("receipt quantity must be positive, got %s", quantity)
	}
	if string(unit) == "" {
		return nil, fmt.Errorf("unit cannot be empty")
	}
	if reference == "" {
		return nil, fmt.Errorf("reference cannot be empty")
	}

	return &ScheduledReceipt{
		SKU:       sku,
		Quantity:  quantity,
		Unit:      unit,
		Source:    source,
		Reference: reference,
		Expected:  expected,
	}, nil
}

// SupplySnapshot is the immutable supply picture the engine computes
// against: balances and open receipts read once by the caller. Nothing in
// the engine mutates it, so independent computations may share one snapshot.
type SupplySnapshot struct {
	Balances []*OnHandBalance
	Receipts []*ScheduledReceipt
}

// OnHandFor sums on-hand and allocated quantities for an item across locations
func (s *SupplySnapshot) OnHandFor(sku SKU) (onHand, allocated decimal.Decimal) {
	for _, bal := range s.Balances {
		if bal.SKU == sku {
			onHand = onHand.Add(bal.OnHand)
			allocated = allocated.Add(bal.Allocated)
		}
	}
	return onHand, allocated
}

// ReceiptsFor returns the open receipts for an item, in snapshot order
func (s *SupplySnapshot) ReceiptsFor(sku SKU) []*ScheduledReceipt {
	var receipts []*ScheduledReceipt
	for _, r := range s.Receipts {
		if r.SKU == sku {
			receipts = append(receipts, r)
		}
	}
	return receipts
}

// DefectKind classifies snapshot invariant violations found during netting
type DefectKind int

const (
	NegativeOnHand DefectKind = iota
	OverAllocated
)

// String method for DefectKind enum
func (k DefectKind) String() string {
	switch k {
	case NegativeOnHand:
		return "NegativeOnHand"
	case OverAllocated:
		return "OverAllocated"
	default:
		return "Unknown"
	}
}

// SnapshotDefect reports a supply snapshot that violates an inventory
// invariant. The engine surfaces these beside its results; correcting the
// underlying records is the caller's job.
type SnapshotDefect struct {
	SKU      SKU
	Location string
	Kind     DefectKind
	Quantity Quantity
}

// Err returns the typed error describing this defect, matchable with
// errors.As.
func (d *SnapshotDefect) Err() error {
	switch d.Kind {
	case NegativeOnHand:
		return &NegativeInventoryError{SKU: d.SKU, Location: d.Location, OnHand: d.Quantity.Amount}
	case OverAllocated:
		return fmt.Errorf("item %s at %s: allocated exceeds on-hand by %s", d.SKU, d.Location, d.Quantity.Amount)
	default:
		return fmt.Errorf("item %s at %s: unclassified snapshot defect", d.SKU, d.Location)
	}
}

// NegativeInventoryError indicates an on-hand snapshot below zero
type NegativeInventoryError struct {
	SKU      SKU
	Location string
	OnHand   decimal.Decimal
}

func (e *NegativeInventoryError) Error() string {
	return fmt.Sprintf("item %s at %s: on-hand quantity %s is negative", e.SKU, e.Location, e.OnHand)
}
