package explosion

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
	"github.com/printforge/planning/pkg/domain/repositories"
	"github.com/printforge/planning/pkg/domain/uom"
)

// CyclicBOMError indicates a BOM graph in which an item transitively
// requires itself. The path runs from the traversal root to the repeated
// item.
type CyclicBOMError struct {
	Path []entities.SKU
}

func (e *CyclicBOMError) Error() string {
	return fmt.Sprintf("cyclic BOM detected: %v", e.Path)
}

// Result is the outcome of exploding one root demand: the aggregated
// demand lines plus any lines that could not be normalized into their
// component's base unit. Unresolved lines are excluded from Demands and
// must surface as configuration errors, not shortages.
type Result struct {
	Demands    []*entities.DemandLine
	Unresolved []*entities.UnresolvedLine
}

// Exploder expands a product's BOM tree into a flat demand list. All
// quantities in the output are in each component's base unit, converted
// through the shared registry; the exploder holds no conversion table of
// its own.
type Exploder struct {
	catalog  repositories.CatalogRepository
	registry *uom.Registry
}

// NewExploder creates a BOM exploder over the given catalog and registry
func NewExploder(catalog repositories.CatalogRepository, registry *uom.Registry) *Exploder {
	return &Exploder{catalog: catalog, registry: registry}
}

// demandKey buckets aggregated demand by item and required-by day. A
// component used at two operations on the same day nets once against the
// same inventory pool.
type demandKey struct {
	sku      entities.SKU
	day      string
	costOnly bool
}

// Explode expands root demand into aggregated component demand lines.
// The root itself appears at level 0. A cycle anywhere in the tree fails
// the whole root: a looping BOM has no meaningful partial answer.
func (e *Exploder) Explode(
	ctx context.Context,
	root entities.SKU,
	quantity decimal.Decimal,
	requiredBy time.Time,
	source string,
) (*Result, error) {
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("explosion quantity must be positive, got %s", quantity)
	}

	rootItem, err := e.catalog.GetItem(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get item %s: %w", root, err)
	}

	acc := &accumulator{
		demands: make(map[demandKey]*entities.DemandLine),
	}

	rootLine := &entities.DemandLine{
		SKU:        root,
		Quantity:   quantity,
		Unit:       rootItem.BaseUnit,
		RequiredBy: requiredBy,
		Source:     source,
		Level:      0,
	}
	acc.add(rootLine)

	ancestors := []entities.SKU{root}
	onPath := map[entities.SKU]bool{root: true}

	if err := e.explodeChildren(ctx, rootItem, quantity, requiredBy, source, 1, ancestors, onPath, false, acc); err != nil {
		return nil, err
	}

	return &Result{
		Demands:    acc.sorted(),
		Unresolved: acc.unresolved,
	}, nil
}

// explodeChildren walks one level of BOM lines depth-first. The ancestor
// chain carries the active path by item identity; revisiting a member of
// the chain is a cycle, not a deep tree.
func (e *Exploder) explodeChildren(
	ctx context.Context,
	parent *entities.Item,
	parentQty decimal.Decimal,
	requiredBy time.Time,
	source string,
	level int,
	ancestors []entities.SKU,
	onPath map[entities.SKU]bool,
	inheritedOptional bool,
	acc *accumulator,
) error {
	lines, err := e.catalog.GetBOMLines(parent.SKU)
	if err != nil {
		return fmt.Errorf("failed to get BOM for %s: %w", parent.SKU, err)
	}

	childDate := requiredBy.AddDate(0, 0, -parent.LeadTimeDays)

	for _, line := range lines {
		if onPath[line.ComponentSKU] {
			return &CyclicBOMError{Path: append(append([]entities.SKU{}, ancestors...), line.ComponentSKU)}
		}

		component, err := e.catalog.GetItem(line.ComponentSKU)
		if err != nil {
			return fmt.Errorf("failed to get item %s: %w", line.ComponentSKU, err)
		}

		// Quantity per parent unit including planned scrap, in the BOM
		// line's declared unit.
		lineQty := line.EffectiveQuantityPer().Mul(parentQty)

		baseQty, err := e.registry.Convert(lineQty, line.Unit, component.BaseUnit)
		if err != nil {
			// An unconvertible unit is a reportable catalog defect,
			// never a guessed factor of 1.
			acc.unresolved = append(acc.unresolved, &entities.UnresolvedLine{
				SKU:    line.ComponentSKU,
				Source: source,
				Reason: err,
			})
			continue
		}

		optional := inheritedOptional || line.IsOptional

		acc.add(&entities.DemandLine{
			SKU:        line.ComponentSKU,
			Quantity:   baseQty,
			Unit:       component.BaseUnit,
			RequiredBy: childDate,
			Source:     source,
			Level:      level,
			Operation:  line.Operation,
			IsOptional: optional,
			IsCostOnly: line.IsCostOnly,
		})

		// Cost-only lines consume no inventory, so their subtrees add
		// nothing to physical demand.
		if line.IsCostOnly {
			continue
		}

		childAncestors := append(append([]entities.SKU{}, ancestors...), line.ComponentSKU)
		onPath[line.ComponentSKU] = true
		err = e.explodeChildren(ctx, component, baseQty, childDate, source, level+1, childAncestors, onPath, optional, acc)
		delete(onPath, line.ComponentSKU)
		if err != nil {
			return err
		}
	}

	return nil
}

// RollupCost computes the standard material cost of one base unit of an
// item by walking its BOM. Cost-only lines are included here even though
// they never net against inventory. The result is per one base unit of
// the root.
func (e *Exploder) RollupCost(ctx context.Context, root entities.SKU) (entities.Cost, error) {
	item, err := e.catalog.GetItem(root)
	if err != nil {
		return entities.Cost{}, fmt.Errorf("failed to get item %s: %w", root, err)
	}

	total, err := e.rollup(ctx, item, map[entities.SKU]bool{root: true}, []entities.SKU{root})
	if err != nil {
		return entities.Cost{}, err
	}
	return entities.Cost{PerUnit: total, Unit: item.BaseUnit}, nil
}

func (e *Exploder) rollup(
	ctx context.Context,
	item *entities.Item,
	onPath map[entities.SKU]bool,
	ancestors []entities.SKU,
) (decimal.Decimal, error) {
	lines, err := e.catalog.GetBOMLines(item.SKU)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get BOM for %s: %w", item.SKU, err)
	}
	if len(lines) == 0 {
		return item.StandardCost, nil
	}

	total := decimal.Zero
	for _, line := range lines {
		if onPath[line.ComponentSKU] {
			return decimal.Zero, &CyclicBOMError{Path: append(append([]entities.SKU{}, ancestors...), line.ComponentSKU)}
		}

		component, err := e.catalog.GetItem(line.ComponentSKU)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to get item %s: %w", line.ComponentSKU, err)
		}

		baseQty, err := e.registry.Convert(line.EffectiveQuantityPer(), line.Unit, component.BaseUnit)
		if err != nil {
			return decimal.Zero, fmt.Errorf("cost rollup for %s: %w", item.SKU, err)
		}

		onPath[line.ComponentSKU] = true
		componentCost, err := e.rollup(ctx, component, onPath, append(append([]entities.SKU{}, ancestors...), line.ComponentSKU))
		delete(onPath, line.ComponentSKU)
		if err != nil {
			return decimal.Zero, err
		}

		total = total.Add(baseQty.Mul(componentCost))
	}

	return total, nil
}

// accumulator aggregates demand lines per (item, required-by day)
type accumulator struct {
	demands    map[demandKey]*entities.DemandLine
	unresolved []*entities.UnresolvedLine
}

func (a *accumulator) add(line *entities.DemandLine) {
	key := demandKey{sku: line.SKU, day: line.RequiredBy.UTC().Format("2006-01-02"), costOnly: line.IsCostOnly}
	existing, ok := a.demands[key]
	if !ok {
		copied := *line
		a.demands[key] = &copied
		return
	}

	existing.Quantity = existing.Quantity.Add(line.Quantity)
	if line.Level < existing.Level {
		existing.Level = line.Level
	}
	if line.Operation != "" && line.Operation != existing.Operation {
		if existing.Operation == "" {
			existing.Operation = line.Operation
		} else {
			existing.Operation = existing.Operation + "," + line.Operation
		}
	}
	// A bucket is optional only if every contributing line is.
	existing.IsOptional = existing.IsOptional && line.IsOptional
}

// sorted returns demand lines in a deterministic order regardless of
// traversal order: by level, then SKU, then required-by day.
func (a *accumulator) sorted() []*entities.DemandLine {
	result := make([]*entities.DemandLine, 0, len(a.demands))
	for _, line := range a.demands {
		result = append(result, line)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Level != result[j].Level {
			return result[i].Level < result[j].Level
		}
		if result[i].SKU != result[j].SKU {
			return result[i].SKU < result[j].SKU
		}
		return result[i].RequiredBy.Before(result[j].RequiredBy)
	})
	return result
}
