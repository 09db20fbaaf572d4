package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SKU represents a unique item identifier
type SKU string

// Procurement represents how an item is replenished
type Procurement int

const (
	Buy Procurement = iota
	Make
)

// String method for Procurement enum
func (p Procurement) String() string {
	switch p {
	case Buy:
		return "Buy"
	case Make:
		return "Make"
	default:
		return "Unknown"
	}
}

// ScrapPolicy controls how planned scrap is consumed during production
type ScrapPolicy int

const (
	// ConsumeFullPlanned consumes the full planned quantity including scrap
	ConsumeFullPlanned ScrapPolicy = iota
	// ProrateToGood consumes material proportionally to good units produced
	ProrateToGood
)

// String method for ScrapPolicy enum
func (s ScrapPolicy) String() string {
	switch s {
	case ConsumeFullPlanned:
		return "ConsumeFullPlanned"
	case ProrateToGood:
		return "ProrateToGood"
	default:
		return "Unknown"
	}
}

// MissingConversionFactorError indicates an item declares a purchase unit
// different from its base unit without a conversion factor. This is a
// catalog defect; it is never silently treated as 1:1.
type MissingConversionFactorError struct {
	SKU          SKU
	BaseUnit     UnitCode
	PurchaseUnit UnitCode
}

func (e *MissingConversionFactorError) Error() string {
	return fmt.Sprintf("item %s: purchase unit %s differs from base unit %s but no purchase factor is set",
		e.SKU, e.PurchaseUnit, e.BaseUnit)
}

// Item represents the catalog master data for a stocked or manufactured item.
// Inventory and BOM requirements are tracked in BaseUnit; StandardCost is
// per one BaseUnit. Items purchased in a different unit carry an explicit
// PurchaseFactor (1 PurchaseUnit = PurchaseFactor BaseUnit).
type Item struct {
	SKU            SKU
	Description    string
	BaseUnit       UnitCode
	StandardCost   decimal.Decimal
	PurchaseUnit   UnitCode
	PurchaseFactor decimal.Decimal
	Procurement    Procurement
	LeadTimeDays   int
	MinOrderQty    decimal.Decimal
	OrderMultiple  decimal.Decimal
	SafetyStock    decimal.Decimal
	ScrapPolicy    ScrapPolicy
}

// NewItem creates a validated Item
func NewItem(
	sku SKU,
	description string,
	baseUnit UnitCode,
	standardCost decimal.Decimal,
	procurement Procurement,
	leadTimeDays int,
) (*Item, error) {
	if string(sku) == "" {
		return nil, fmt.Errorf("SKU cannot be empty")
	}
	if description == "" {
		return nil, fmt.Errorf("description cannot be empty")
	}
	if string(baseUnit) == "" {
		return nil, fmt.Errorf("base unit cannot be empty")
	}
	if standardCost.IsNegative() {
		return nil, fmt.Errorf("standard cost cannot be negative, got %s", standardCost)
	}
	if leadTimeDays < 0 {
		return nil, fmt.Errorf("lead time cannot be negative, got %d", leadTimeDays)
	}

	return &Item{
		SKU:          sku,
		Description:  description,
		BaseUnit:     baseUnit,
		StandardCost: standardCost,
		Procurement:  procurement,
		LeadTimeDays: leadTimeDays,
		ScrapPolicy:  ConsumeFullPlanned,
	}, nil
}

// WithPurchaseUnit declares the unit the item is bought in and the factor
// converting one purchase unit to base units (1 KG = 1000 G -> factor 1000).
// A differing purchase unit without a positive factor is rejected.
func (i *Item) WithPurchaseUnit(purchaseUnit UnitCode, factor decimal.Decimal) (*Item, error) {
	if string(purchaseUnit) == "" {
		return nil, fmt.Errorf("purchase unit cannot be empty")
	}
	if purchaseUnit != i.BaseUnit && !factor.IsPositive() {
		return nil, &MissingConversionFactorError{
			SKU:          i.SKU,
			BaseUnit:     i.BaseUnit,
			PurchaseUnit: purchaseUnit,
		}
	}
	if purchaseUnit == i.BaseUnit && factor.IsZero() {
		factor = decimal.NewFromInt(1)
	}

	i.PurchaseUnit = purchaseUnit
	i.PurchaseFactor = factor
	return i, nil
}

// WithLotSizing sets the lot-sizing parameters applied by planning
func (i *Item) WithLotSizing(minOrderQty, orderMultiple decimal.Decimal) *Item {
	i.MinOrderQty = minOrderQty
	i.OrderMultiple = orderMultiple
	return i
}

// WithSafetyStock sets the on-hand floor reserved from netting
func (i *Item) WithSafetyStock(qty decimal.Decimal) *Item {
	i.SafetyStock = qty
	return i
}

// PurchaseToBase converts a quantity expressed in the item's purchase unit
// to its base unit using the item's declared factor.
func (i *Item) PurchaseToBase(qty decimal.Decimal) (decimal.Decimal, error) {
	if string(i.PurchaseUnit) == "" || i.PurchaseUnit == i.BaseUnit {
		return qty, nil
	}
	if !i.PurchaseFactor.IsPositive() {
		return decimal.Zero, &MissingConversionFactorError{
			SKU:          i.SKU,
			BaseUnit:     i.BaseUnit,
			PurchaseUnit: i.PurchaseUnit,
		}
	}
	return qty.Mul(i.PurchaseFactor), nil
}
