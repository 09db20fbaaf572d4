package fulfillment

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
)

// SnapshotAllocator distributes the free on-hand pool across a batch of
// open sales orders in one pass, earliest required-by first, and serves
// the per-line results as an AllocationView. The snapshot's Allocated
// quantities represent demand outside this batch and are subtracted from
// the pool before distribution.
type SnapshotAllocator struct {
	allocations map[string]decimal.Decimal
}

// Verify interface compliance
var _ AllocationView = (*SnapshotAllocator)(nil)

// NewSnapshotAllocator runs the batched allocation pass
func NewSnapshotAllocator(
	orders []*entities.SalesOrder,
	snapshot *entities.SupplySnapshot,
) *SnapshotAllocator {
	pool := make(map[entities.SKU]decimal.Decimal)
	for _, bal := range snapshot.Balances {
		onHand := bal.OnHand
		if onHand.IsNegative() {
			onHand = decimal.Zero
		}
		free := onHand.Sub(bal.Allocated)
		if free.IsNegative() {
			free = decimal.Zero
		}
		pool[bal.SKU] = pool[bal.SKU].Add(free)
	}

	sorted := make([]*entities.SalesOrder, len(orders))
	copy(sorted, orders)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].RequiredBy.Equal(sorted[j].RequiredBy) {
			return sorted[i].RequiredBy.Before(sorted[j].RequiredBy)
		}
		return sorted[i].ID < sorted[j].ID
	})

	alloc := &SnapshotAllocator{allocations: make(map[string]decimal.Decimal)}
	for _, order := range sorted {
		if order.Status != entities.OrderOpen {
			continue
		}
		for i := range order.Lines {
			line := &order.Lines[i]
			granted := decimal.Min(line.Remaining(), pool[line.SKU])
			if granted.IsNegative() {
				granted = decimal.Zero
			}
			pool[line.SKU] = pool[line.SKU].Sub(granted)
			key := makeKey(order.ID, line.SKU)
			alloc.allocations[key] = alloc.allocations[key].Add(granted)
		}
	}

	return alloc
}

// AllocatedFor returns the quantity granted to one order line
func (a *SnapshotAllocator) AllocatedFor(orderID string, sku entities.SKU) decimal.Decimal {
	return a.allocations[makeKey(orderID, sku)]
}

func makeKey(orderID string, sku entities.SKU) string {
	return fmt.Sprintf("%s|%s", orderID, sku)
}

// StaticView serves allocation quantities recorded upstream, for callers
// whose order service already tracks per-line allocations.
type StaticView map[string]decimal.Decimal

// Verify interface compliance
var _ AllocationView = (StaticView)(nil)

// Set records the allocation for one order line
func (v StaticView) Set(orderID string, sku entities.SKU, qty decimal.Decimal) {
	v[makeKey(orderID, sku)] = qty
}

// AllocatedFor returns the recorded allocation for one order line
func (v StaticView) AllocatedFor(orderID string, sku entities.SKU) decimal.Decimal {
	return v[makeKey(orderID, sku)]
}
