package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of inventory movement
type TransactionType int

const (
	Receipt TransactionType = iota
	Consumption
)

// String method for TransactionType enum
func (t TransactionType) String() string {
	switch t {
	case Receipt:
		return "Receipt"
	case Consumption:
		return "Consumption"
	default:
		return "Unknown"
	}
}

// InventoryTransaction records a realized inventory movement. Quantity,
// unit, cost per unit, and total cost are all stamped at creation time in
// the item's base unit; no consumer ever recomputes cost from a qty and a
// rate expressed in different units.
type InventoryTransaction struct {
	SKU         SKU
	Type        TransactionType
	Quantity    decimal.Decimal
	Unit        UnitCode
	CostPerUnit decimal.Decimal
	TotalCost   decimal.Decimal
	Reference   string
	OccurredAt  time.Time
}

// QuantityTagged returns the moved quantity as a unit-tagged value
func (t *InventoryTransaction) QuantityTagged() Quantity {
	return Quantity{Amount: t.Quantity, Unit: t.Unit}
}

// UnitCost returns the stamped per-unit cost with its unit basis
func (t *InventoryTransaction) UnitCost() Cost {
	return Cost{PerUnit: t.CostPerUnit, Unit: t.Unit}
}

// PurchaseCostToBase converts a cost per purchase unit to a cost per base
// unit. This is the inverse of the quantity conversion: if 1 purchase unit
// is factor base units, one base unit costs 1/factor of the purchase price.
func (i *Item) PurchaseCostToBase(costPerPurchaseUnit decimal.Decimal) (decimal.Decimal, error) {
	if string(i.PurchaseUnit) == "" || i.PurchaseUnit == i.BaseUnit {
		return costPerPurchaseUnit, nil
	}
	if !i.PurchaseFactor.IsPositive() {
		return decimal.Zero, &MissingConversionFactorError{
			SKU:          i.SKU,
			BaseUnit:     i.BaseUnit,
			PurchaseUnit: i.PurchaseUnit,
		}
	}
	return costPerPurchaseUnit.Div(i.PurchaseFactor), nil
}

// NewReceiptTransaction records receiving stock purchased in the item's
// purchase unit. The quantity is converted to base units and the cost per
// unit inverted to a base-unit cost exactly once, here. Receiving 3 KG at
// $20/KG for an item tracked in G with factor 1000 stamps 3000 G at
// $0.02/G, total $60.00.
func NewReceiptTransaction(
	item *Item,
	qty Quantity,
	costPer Cost,
	reference string,
	occurredAt time.Time,
) (*InventoryTransaction, error) {
	if !qty.Amount.IsPositive() {
		return nil, fmt.Errorf("receipt quantity must be positive, got %s", qty.Amount)
	}
	expectedUnit := item.PurchaseUnit
	if string(expectedUnit) == "" {
		expectedUnit = item.BaseUnit
	}
	if qty.Unit != expectedUnit {
		return nil, fmt.Errorf("item %s is purchased in %s, got quantity in %s", item.SKU, expectedUnit, qty.Unit)
	}
	if costPer.Unit != qty.Unit {
		return nil, fmt.Errorf("cost basis %s does not match quantity unit %s", costPer.Unit, qty.Unit)
	}

	baseQty, err := item.PurchaseToBase(qty.Amount)
	if err != nil {
		return nil, err
	}
	baseCost, err := item.PurchaseCostToBase(costPer.PerUnit)
	if err != nil {
		return nil, err
	}

	return &InventoryTransaction{
		SKU:         item.SKU,
		Type:        Receipt,
		Quantity:    baseQty,
		Unit:        item.BaseUnit,
		CostPerUnit: baseCost,
		TotalCost:   baseQty.Mul(baseCost).Round(4),
		Reference:   reference,
		OccurredAt:  occurredAt,
	}, nil
}

// NewConsumptionTransaction records material consumed by production, in
// the item's base unit at its standard cost.
func NewConsumptionTransaction(
	item *Item,
	baseQty decimal.Decimal,
	reference string,
	occurredAt time.Time,
) (*InventoryTransaction, error) {
	if !baseQty.IsPositive() {
		return nil, fmt.Errorf("consumption quantity must be positive, got %s", baseQty)
	}

	return &InventoryTransaction{
		SKU:         item.SKU,
		Type:        Consumption,
		Quantity:    baseQty,
		Unit:        item.BaseUnit,
		CostPerUnit: item.StandardCost,
		TotalCost:   baseQty.Mul(item.StandardCost).Round(4),
		Reference:   reference,
		OccurredAt:  occurredAt,
	}, nil
}
