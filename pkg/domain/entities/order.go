package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvalidLotSizingError indicates non-positive lot-sizing parameters
type InvalidLotSizingError struct {
	SKU           SKU
	MinOrderQty   decimal.Decimal
	OrderMultiple decimal.Decimal
}

func (e *InvalidLotSizingError) Error() string {
	return fmt.Sprintf("item %s: invalid lot sizing (min order qty %s, order multiple %s)",
		e.SKU, e.MinOrderQty, e.OrderMultiple)
}

// PlannedOrder is a suggested purchase or production order covering a net
// shortage. It is a suggestion only; the engine never writes orders.
type PlannedOrder struct {
	ID          uuid.UUID
	SKU         SKU
	Quantity    decimal.Decimal
	Unit        UnitCode
	NeedDate    time.Time
	ReleaseDate time.Time
	Type        Procurement
	Covers      []string
}

// NewPlannedOrder creates a validated PlannedOrder
func NewPlannedOrder(
	sku SKU,
	quantity decimal.Decimal,
	unit UnitCode,
	needDate, releaseDate time.Time,
	orderType Procurement,
	covers []string,
) (*PlannedOrder, error) {
	if string(sku) == "" {
		return nil, fmt.Errorf("SKU cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive, got %s", quantity)
	}
	if string(unit) == "" {
		return nil, fmt.Errorf("unit cannot be empty")
	}
	if releaseDate.After(needDate) {
		return nil, fmt.Errorf("release date %v cannot be after need date %v", releaseDate, needDate)
	}

	return &PlannedOrder{
		ID:          uuid.New(),
		SKU:         sku,
		Quantity:    quantity,
		Unit:        unit,
		NeedDate:    needDate,
		ReleaseDate: releaseDate,
		Type:        orderType,
		Covers:      covers,
	}, nil
}

// OrderStatus represents the stored lifecycle status of a sales order
type OrderStatus int

const (
	OrderOpen OrderStatus = iota
	OrderShipped
	OrderCancelled
)

// String method for OrderStatus enum
func (s OrderStatus) String() string {
	switch s {
	case OrderOpen:
		return "Open"
	case OrderShipped:
		return "Shipped"
	case OrderCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// SalesOrderLine is one line of a sales order, in the item's base unit
type SalesOrderLine struct {
	SKU        SKU
	Ordered    decimal.Decimal
	Shipped    decimal.Decimal
	RequiredBy time.Time
}

// Remaining returns the quantity still to ship
func (l *SalesOrderLine) Remaining() decimal.Decimal {
	rem := l.Ordered.Sub(l.Shipped)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// SalesOrder is a read-only view of a customer order as provided by the
// order service
type SalesOrder struct {
	ID         string
	Number     string
	Status     OrderStatus
	RequiredBy time.Time
	Lines      []SalesOrderLine
}

// FulfillmentState classifies a sales order's readiness to ship
type FulfillmentState int

const (
	ReadyToShip FulfillmentState = iota + 1
	PartiallyReady
	Blocked
	Shipped
	Cancelled
)

// String method for FulfillmentState enum
func (s FulfillmentState) String() string {
	switch s {
	case ReadyToShip:
		return "ReadyToShip"
	case PartiallyReady:
		return "PartiallyReady"
	case Blocked:
		return "Blocked"
	case Shipped:
		return "Shipped"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// PriorityKey orders states by actionability: ready orders sort first,
// terminal orders last.
func (s FulfillmentState) PriorityKey() int {
	return int(s)
}

// LineStatus is the computed readiness of one sales order line
type LineStatus struct {
	SKU       SKU
	Remaining decimal.Decimal
	Allocated decimal.Decimal
	Shortage  decimal.Decimal
	IsReady   bool
}

// FulfillmentSummary is the computed readiness of a whole sales order.
// It is derived from per-line allocation results on every call and never
// independently mutated.
type FulfillmentSummary struct {
	OrderID            string
	State              FulfillmentState
	LinesTotal         int
	LinesReady         int
	FulfillmentPercent decimal.Decimal
	CanShipPartial     bool
	CanShipComplete    bool
	Lines              []LineStatus
}
