package planning

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/application/dto"
	"github.com/printforge/planning/pkg/domain/entities"
	"github.com/printforge/planning/pkg/domain/repositories"
)

// Result is the outcome of one planning pass. A misconfigured item fails
// only itself: its error is recorded in Errors and its requirement
// buckets skipped, while every other item is still planned.
type Result struct {
	Orders []*entities.PlannedOrder
	Errors []dto.ItemError
}

// Planner converts net shortages into suggested purchase or production
// orders. It only computes suggestions; releasing them is the caller's
// decision and write.
type Planner struct {
	catalog repositories.CatalogRepository
}

// NewPlanner creates a planned order generator over the given catalog
func NewPlanner(catalog repositories.CatalogRepository) *Planner {
	return &Planner{catalog: catalog}
}

// Plan generates planned orders covering the shortages in the given net
// requirements. openOrders are previously generated planned or firm
// orders still open: their quantities count as coverage, so running Plan
// twice against an unchanged snapshot suggests nothing the second time.
func (p *Planner) Plan(
	ctx context.Context,
	requirements []*entities.NetRequirement,
	openOrders []*entities.PlannedOrder,
) (*Result, error) {
	// Remaining open coverage per item, consumed chronologically.
	coverage := make(map[entities.SKU]decimal.Decimal)
	for _, order := range openOrders {
		coverage[order.SKU] = coverage[order.SKU].Add(order.Quantity)
	}

	sorted := make([]*entities.NetRequirement, len(requirements))
	copy(sorted, requirements)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].RequiredBy.Equal(sorted[j].RequiredBy) {
			return sorted[i].RequiredBy.Before(sorted[j].RequiredBy)
		}
		return sorted[i].SKU < sorted[j].SKU
	})

	result := &Result{}
	failed := make(map[entities.SKU]bool)
	for _, req := range sorted {
		if failed[req.SKU] {
			continue
		}

		shortage := req.ShortageQty()
		if !shortage.IsPositive() {
			continue
		}

		covered := decimal.Min(shortage, coverage[req.SKU])
		coverage[req.SKU] = coverage[req.SKU].Sub(covered)
		shortage = shortage.Sub(covered)
		if !shortage.IsPositive() {
			continue
		}

		item, err := p.catalog.GetItem(req.SKU)
		if err != nil {
			result.Errors = append(result.Errors, dto.ItemError{
				SKU: req.SKU,
				Err: fmt.Errorf("failed to get item %s: %w", req.SKU, err),
			})
			failed[req.SKU] = true
			continue
		}

		qty, err := applyLotSizing(item, shortage)
		if err != nil {
			result.Errors = append(result.Errors, dto.ItemError{SKU: req.SKU, Err: err})
			failed[req.SKU] = true
			continue
		}

		release := req.RequiredBy.AddDate(0, 0, -item.LeadTimeDays)
		order, err := entities.NewPlannedOrder(
			req.SKU,
			qty,
			item.BaseUnit,
			req.RequiredBy,
			release,
			item.Procurement,
			append([]string{}, req.Sources...),
		)
		if err != nil {
			result.Errors = append(result.Errors, dto.ItemError{
				SKU: req.SKU,
				Err: fmt.Errorf("failed to create planned order for %s: %w", req.SKU, err),
			})
			failed[req.SKU] = true
			continue
		}
		result.Orders = append(result.Orders, order)

		// Lot sizing can over-order; the surplus covers later buckets.
		surplus := qty.Sub(shortage)
		if surplus.IsPositive() {
			coverage[req.SKU] = coverage[req.SKU].Add(surplus)
		}
	}

	return result, nil
}

// applyLotSizing rounds a raw shortage up to an orderable quantity: at
// least the item's minimum order quantity, and a whole number of order
// multiples.
func applyLotSizing(item *entities.Item, shortage decimal.Decimal) (decimal.Decimal, error) {
	if item.MinOrderQty.IsNegative() || item.OrderMultiple.IsNegative() {
		return decimal.Zero, &entities.InvalidLotSizingError{
			SKU:           item.SKU,
			MinOrderQty:   item.MinOrderQty,
			OrderMultiple: item.OrderMultiple,
		}
	}

	qty := shortage
	if item.MinOrderQty.IsPositive() && qty.LessThan(item.MinOrderQty) {
		qty = item.MinOrderQty
	}
	if item.OrderMultiple.IsPositive() {
		multiples := qty.Div(item.OrderMultiple).Ceil()
		qty = multiples.Mul(item.OrderMultiple)
	}
	return qty, nil
}
