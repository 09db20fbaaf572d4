package orchestration

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/printforge/planning/pkg/application/dto"
	"github.com/printforge/planning/pkg/application/services/explosion"
	"github.com/printforge/planning/pkg/application/services/fulfillment"
	"github.com/printforge/planning/pkg/application/services/netting"
	"github.com/printforge/planning/pkg/application/services/planning"
	"github.com/printforge/planning/pkg/domain/repositories"
)

// PlanningOrchestrator runs the full explode -> net -> plan pipeline over
// one snapshot and computes fulfillment summaries from the same pass. It
// owns the batch error policy: a failing root item is recorded and
// skipped, never allowed to abort unrelated roots.
type PlanningOrchestrator struct {
	exploder   *explosion.Exploder
	netter     *netting.Netter
	planner    *planning.Planner
	aggregator *fulfillment.Aggregator

	inventoryRepo repositories.InventoryRepository
	orderRepo     repositories.OrderRepository

	logger *zap.Logger
}

// NewPlanningOrchestrator creates a planning orchestrator. A nil logger
// disables logging.
func NewPlanningOrchestrator(
	exploder *explosion.Exploder,
	netter *netting.Netter,
	planner *planning.Planner,
	aggregator *fulfillment.Aggregator,
	inventoryRepo repositories.InventoryRepository,
	orderRepo repositories.OrderRepository,
	logger *zap.Logger,
) *PlanningOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningOrchestrator{
		exploder:      exploder,
		netter:        netter,
		planner:       planner,
		aggregator:    aggregator,
		inventoryRepo: inventoryRepo,
		orderRepo:     orderRepo,
		logger:        logger,
	}
}

// RunPlanning plans a batch of root demands against one consistent
// snapshot: explosion per root (fail-fast per root), one netting pass,
// planned orders netted against open planned orders, and fulfillment
// summaries for all open sales orders.
func (po *PlanningOrchestrator) RunPlanning(
	ctx context.Context,
	demands []*dto.RootDemand,
) (*dto.PlanningResult, error) {
	if len(demands) == 0 {
		return nil, fmt.Errorf("no demands provided for planning")
	}

	snapshot, err := po.inventoryRepo.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to capture supply snapshot: %w", err)
	}

	result := &dto.PlanningResult{PlanningDate: time.Now()}

	for _, demand := range demands {
		exploded, err := po.exploder.Explode(ctx, demand.SKU, demand.Quantity, demand.RequiredBy, demand.Source)
		if err != nil {
			po.logger.Warn("demand explosion failed",
				zap.String("sku", string(demand.SKU)),
				zap.Error(err))
			result.Errors = append(result.Errors, dto.ItemError{SKU: demand.SKU, Err: err})
			continue
		}
		result.Demands = append(result.Demands, exploded.Demands...)
		result.Unresolved = append(result.Unresolved, exploded.Unresolved...)
	}

	netted, err := po.netter.Net(ctx, result.Demands, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to net requirements: %w", err)
	}
	result.Requirements = netted.Requirements
	result.Defects = netted.Defects
	result.Unresolved = append(result.Unresolved, netted.Unresolved...)

	openOrders, err := po.orderRepo.GetAllOpenPlannedOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to get open planned orders: %w", err)
	}
	planned, err := po.planner.Plan(ctx, result.Requirements, openOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to generate planned orders: %w", err)
	}
	result.PlannedOrders = planned.Orders
	for _, itemErr := range planned.Errors {
		po.logger.Warn("item planning failed",
			zap.String("sku", string(itemErr.SKU)),
			zap.Error(itemErr.Err))
	}
	result.Errors = append(result.Errors, planned.Errors...)

	salesOrders, err := po.orderRepo.GetAllSalesOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to get sales orders: %w", err)
	}
	view := fulfillment.NewSnapshotAllocator(salesOrders, snapshot)
	result.Summaries = po.aggregator.StatusBatch(salesOrders, view)

	po.logger.Info("planning run complete",
		zap.Int("roots", len(demands)),
		zap.Int("demand_lines", len(result.Demands)),
		zap.Int("shortages", result.ShortageCount()),
		zap.Int("planned_orders", len(result.PlannedOrders)),
		zap.Int("item_errors", len(result.Errors)),
		zap.Int("snapshot_defects", len(result.Defects)),
		zap.Int("unresolved_lines", len(result.Unresolved)))

	return result, nil
}
