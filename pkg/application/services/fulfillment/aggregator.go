package fulfillment

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
)

// AllocationView reports the quantity allocated to a specific order line.
// It is the read side of the netting engine's allocation results; the
// aggregator never computes allocations of its own.
type AllocationView interface {
	AllocatedFor(orderID string, sku entities.SKU) decimal.Decimal
}

// Aggregator classifies sales orders by shipment readiness. State is
// always computed from per-line allocation, never stored or mutated.
type Aggregator struct{}

// NewAggregator creates a fulfillment status aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Status computes the fulfillment summary for one sales order. Shipped
// and cancelled orders short-circuit to their terminal state without
// touching line allocation.
func (a *Aggregator) Status(order *entities.SalesOrder, view AllocationView) *entities.FulfillmentSummary {
	switch order.Status {
	case entities.OrderShipped:
		return terminalSummary(order, entities.Shipped)
	case entities.OrderCancelled:
		return terminalSummary(order, entities.Cancelled)
	}

	summary := &entities.FulfillmentSummary{
		OrderID:    order.ID,
		LinesTotal: len(order.Lines),
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		remaining := line.Remaining()
		allocated := view.AllocatedFor(order.ID, line.SKU)

		shortage := remaining.Sub(allocated)
		if shortage.IsNegative() {
			shortage = decimal.Zero
		}

		summary.Lines = append(summary.Lines, entities.LineStatus{
			SKU:       line.SKU,
			Remaining: remaining,
			Allocated: allocated,
			Shortage:  shortage,
			IsReady:   allocated.GreaterThanOrEqual(remaining),
		})
	}

	summary.LinesReady = lo.CountBy(summary.Lines, func(l entities.LineStatus) bool { return l.IsReady })

	// A zero-line order has nothing shippable: 0%, blocked, no division.
	if summary.LinesTotal == 0 {
		summary.State = entities.Blocked
		summary.FulfillmentPercent = decimal.Zero
		return summary
	}

	summary.FulfillmentPercent = decimal.NewFromInt(int64(summary.LinesReady)).
		Div(decimal.NewFromInt(int64(summary.LinesTotal))).
		Mul(decimal.NewFromInt(100)).
		Round(1)

	switch {
	case summary.LinesReady == summary.LinesTotal:
		summary.State = entities.ReadyToShip
	case summary.LinesReady > 0:
		summary.State = entities.PartiallyReady
	default:
		summary.State = entities.Blocked
	}

	summary.CanShipComplete = summary.State == entities.ReadyToShip
	summary.CanShipPartial = summary.LinesReady > 0

	return summary
}

// StatusBatch computes summaries for many orders in one pass over a
// shared allocation view, keyed by order id for list views.
func (a *Aggregator) StatusBatch(
	orders []*entities.SalesOrder,
	view AllocationView,
) map[string]*entities.FulfillmentSummary {
	summaries := make(map[string]*entities.FulfillmentSummary, len(orders))
	for _, order := range orders {
		summaries[order.ID] = a.Status(order, view)
	}
	return summaries
}

// SortByPriority orders summaries most-actionable first: ready orders
// before partial, partial before blocked, terminal states last. Ties
// break on order id so the ordering is stable across runs.
func SortByPriority(summaries []*entities.FulfillmentSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].State != summaries[j].State {
			return summaries[i].State.PriorityKey() < summaries[j].State.PriorityKey()
		}
		return summaries[i].OrderID < summaries[j].OrderID
	})
}

func terminalSummary(order *entities.SalesOrder, state entities.FulfillmentState) *entities.FulfillmentSummary {
	return &entities.FulfillmentSummary{
		OrderID:            order.ID,
		State:              state,
		LinesTotal:         len(order.Lines),
		FulfillmentPercent: decimal.Zero,
	}
}
