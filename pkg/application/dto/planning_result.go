package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
)

// RootDemand is an external top-level demand to plan: a quantity of a
// product needed by a date, traced back to its originating order.
type RootDemand struct {
	SKU        entities.SKU
	Quantity   decimal.Decimal
	RequiredBy time.Time
	Source     string
}

// ItemError records a per-item failure during a batch run. A cyclic BOM
// or a misconfigured item fails only itself; the rest of the batch
// proceeds.
type ItemError struct {
	SKU entities.SKU
	Err error
}

// PlanningResult contains the complete output of a planning run
type PlanningResult struct {
	Demands       []*entities.DemandLine
	Requirements  []*entities.NetRequirement
	PlannedOrders []*entities.PlannedOrder
	Defects       []*entities.SnapshotDefect
	Unresolved    []*entities.UnresolvedLine
	Summaries     map[string]*entities.FulfillmentSummary
	Errors        []ItemError
	PlanningDate  time.Time
}

// ShortageCount returns the number of items with uncovered requirements
func (r *PlanningResult) ShortageCount() int {
	count := 0
	for _, req := range r.Requirements {
		if req.IsShort() {
			count++
		}
	}
	return count
}
