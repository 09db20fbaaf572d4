package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ConsumeStage represents when a BOM line's material is consumed
type ConsumeStage int

const (
	ConsumeAtProduction ConsumeStage = iota
	ConsumeAtShipping
)

// String method for ConsumeStage enum
func (c ConsumeStage) String() string {
	switch c {
	case ConsumeAtProduction:
		return "Production"
	case ConsumeAtShipping:
		return "Shipping"
	default:
		return "Unknown"
	}
}

// BOMLine represents a single line in a Bill of Materials. QuantityPer is
// the amount of the component needed per one base unit of the parent,
// expressed in Unit (which may differ from the component's base unit).
type BOMLine struct {
	ParentSKU    SKU
	ComponentSKU SKU
	QuantityPer  decimal.Decimal
	Unit         UnitCode
	ScrapFactor  decimal.Decimal
	IsOptional   bool
	IsCostOnly   bool
	ConsumeStage ConsumeStage
	Operation    string
}

// NewBOMLine creates a validated BOMLine. ScrapFactor is a fraction in
// [0, 1): 0.05 means 5% expected scrap on top of the nominal quantity.
func NewBOMLine(
	parentSKU, componentSKU SKU,
	quantityPer decimal.Decimal,
	unit UnitCode,
	scrapFactor decimal.Decimal,
) (*BOMLine, error) {
	if string(parentSKU) == "" {
		return nil, fmt.Errorf("parent SKU cannot be empty")
	}
	if string(componentSKU) == "" {
		return nil, fmt.Errorf("component SKU cannot be empty")
	}
	if parentSKU == componentSKU {
		return nil, fmt.Errorf("parent and component SKUs cannot be the same: %s", parentSKU)
	}
	if !quantityPer.IsPositive() {
		return nil, fmt.Errorf("quantity per must be positive, got %s", quantityPer)
	}
	if string(unit) == "" {
		return nil, fmt.Errorf("unit cannot be empty")
	}
	if scrapFactor.IsNegative() || scrapFactor.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("scrap factor must be in [0, 1), got %s", scrapFactor)
	}

	return &BOMLine{
		ParentSKU:    parentSKU,
		ComponentSKU: componentSKU,
		QuantityPer:  quantityPer,
		Unit:         unit,
		ScrapFactor:  scrapFactor,
		ConsumeStage: ConsumeAtProduction,
	}, nil
}

// WithFlags marks the line cost-only and/or optional. Cost-only lines are
// included in cost rollups but consume no inventory; optional lines never
// block an order on shortage.
func (l *BOMLine) WithFlags(costOnly, optional bool) *BOMLine {
	l.IsCostOnly = costOnly
	l.IsOptional = optional
	return l
}

// WithOperation ties the line to the routing operation that consumes it
func (l *BOMLine) WithOperation(operation string, stage ConsumeStage) *BOMLine {
	l.Operation = operation
	l.ConsumeStage = stage
	return l
}

// EffectiveQuantityPer returns the quantity per parent unit with planned
// scrap included: QuantityPer * (1 + ScrapFactor).
func (l *BOMLine) EffectiveQuantityPer() decimal.Decimal {
	return l.QuantityPer.Mul(decimal.NewFromInt(1).Add(l.ScrapFactor))
}

// ConsumptionQuantity returns the component quantity consumed when the
// parent's production order completes. ConsumeFullPlanned books the full
// planned quantity including scrap allowance; ProrateToGood books only in
// proportion to the good units actually produced.
func (l *BOMLine) ConsumptionQuantity(policy ScrapPolicy, plannedQty, goodQty decimal.Decimal) decimal.Decimal {
	if policy == ProrateToGood {
		return l.EffectiveQuantityPer().Mul(goodQty)
	}
	return l.EffectiveQuantityPer().Mul(plannedQty)
}
