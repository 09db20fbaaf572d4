package netting

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
)

// MaterialIssue reports one component's supply position for an operation
type MaterialIssue struct {
	SKU           entities.SKU
	Required      entities.Quantity
	Available     entities.Quantity
	Short         entities.Quantity
	IsOptional    bool
	FirstIncoming *entities.ScheduledReceipt
}

// OperationCheck is the material readiness verdict for one routing
// operation of a production run. A blocked operation names the exact
// materials holding it up, so a shortage reads "needed by PRINT" rather
// than "needed somewhere in the order".
type OperationCheck struct {
	SKU       entities.SKU
	Operation string
	CanStart  bool
	Issues    []MaterialIssue
	Blocking  []MaterialIssue
}

// CheckOperation checks whether one operation of a production run has its
// materials. Only BOM lines tied to the operation are considered;
// cost-only lines consume nothing and optional lines never block.
func (n *Netter) CheckOperation(
	ctx context.Context,
	parent entities.SKU,
	qtyRemaining decimal.Decimal,
	operation string,
	snapshot *entities.SupplySnapshot,
) (*OperationCheck, error) {
	if !qtyRemaining.IsPositive() {
		return &OperationCheck{SKU: parent, Operation: operation, CanStart: true}, nil
	}

	lines, err := n.catalog.GetBOMLines(parent)
	if err != nil {
		return nil, fmt.Errorf("failed to get BOM for %s: %w", parent, err)
	}

	check := &OperationCheck{SKU: parent, Operation: operation, CanStart: true}
	scratch := &Result{}

	for _, line := range lines {
		if line.IsCostOnly {
			continue
		}
		if operation != "" && line.Operation != operation {
			continue
		}

		component, err := n.catalog.GetItem(line.ComponentSKU)
		if err != nil {
			return nil, fmt.Errorf("failed to get item %s: %w", line.ComponentSKU, err)
		}

		required, err := n.registry.ConvertQuantity(
			entities.NewQuantity(line.EffectiveQuantityPer().Mul(qtyRemaining), line.Unit),
			component.BaseUnit)
		if err != nil {
			return nil, fmt.Errorf("operation check for %s: %w", parent, err)
		}

		available := n.availableFor(component, snapshot, scratch)
		short := required.Amount.Sub(available)
		if short.IsNegative() {
			short = decimal.Zero
		}

		issue := MaterialIssue{
			SKU:        line.ComponentSKU,
			Required:   required,
			Available:  entities.NewQuantity(available, component.BaseUnit),
			Short:      entities.NewQuantity(short, component.BaseUnit),
			IsOptional: line.IsOptional,
		}

		if short.IsPositive() {
			// Point at the first incoming supply so purchasing sees when
			// relief arrives.
			for _, receipt := range snapshot.ReceiptsFor(line.ComponentSKU) {
				if issue.FirstIncoming == nil || receipt.Expected.Before(issue.FirstIncoming.Expected) {
					issue.FirstIncoming = receipt
				}
			}
		}

		check.Issues = append(check.Issues, issue)

		if short.IsPositive() && !line.IsOptional {
			check.CanStart = false
			check.Blocking = append(check.Blocking, issue)
		}
	}

	return check, nil
}
