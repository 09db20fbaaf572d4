package netting

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

// Result is the outcome of one netting pass: per-item requirements plus
// any snapshot invariant violations and supply records that could not be
// normalized. Defects are reported, never corrected.
type Result struct {
	Requirements []*entities.NetRequirement
	Defects      []*entities.SnapshotDefect
	Unresolved   []*entities.UnresolvedLine
}

// Netter resolves demand lines against a supply snapshot, entirely in
// each item's base unit. It is a pure function over its inputs: the same
// snapshot always yields the same result, and nothing is mutated, so a
// caller may re-run it freely for previews.
type Netter struct {
	catalog  repositories.CatalogRepository
	registry *uom.Registry
}

// NewNetter creates a netting engine over the given catalog and registry
func NewNetter(catalog repositories.CatalogRepository, registry *uom.Registry) *Netter {
	return &Netter{catalog: catalog, registry: registry}
}

// Net computes net requirements for the given demand lines against the
// snapshot. Cost-only demand consumes no inventory and is skipped.
// Incoming supply is only counted toward a requirement when its expected
// date is on or before the requirement date; supply that arrives too late
// surfaces as a shortage at the earlier bucket.
func (n *Netter) Net(
	ctx context.Context,
	demands []*entities.DemandLine,
	snapshot *entities.SupplySnapshot,
) (*Result, error) {
	result := &Result{}

	byItem := make(map[entities.SKU][]*entities.DemandLine)
	var itemOrder []entities.SKU
	for _, demand := range demands {
		if demand.IsCostOnly {
			continue
		}
		if _, seen := byItem[demand.SKU]; !seen {
			itemOrder = append(itemOrder, demand.SKU)
		}
		byItem[demand.SKU] = append(byItem[demand.SKU], demand)
	}
	sort.Slice(itemOrder, func(i, j int) bool { return itemOrder[i] < itemOrder[j] })

	for _, sku := range itemOrder {
		item, err := n.catalog.GetItem(sku)
		if err != nil {
			return nil, fmt.Errorf("failed to get item %s: %w", sku, err)
		}

		available := n.availableFor(item, snapshot, result)
		receipts := n.incomingFor(item, snapshot, result)

		lines := byItem[sku]
		sort.Slice(lines, func(i, j int) bool { return lines[i].RequiredBy.Before(lines[j].RequiredBy) })

		remainingAvailable := available
		consumedIncoming := decimal.Zero

		for _, line := range lines {
			eligibleIncoming := decimal.Zero
			for _, receipt := range receipts {
				if !line.RequiredBy.IsZero() && receipt.expected.After(line.RequiredBy) {
					continue
				}
				eligibleIncoming = eligibleIncoming.Add(receipt.baseQty)
			}
			eligibleIncoming = eligibleIncoming.Sub(consumedIncoming)
			if eligibleIncoming.IsNegative() {
				eligibleIncoming = decimal.Zero
			}

			req := &entities.NetRequirement{
				SKU:        sku,
				Unit:       item.BaseUnit,
				Gross:      line.Quantity,
				Available:  remainingAvailable,
				Incoming:   eligibleIncoming,
				Net:        line.Quantity.Sub(remainingAvailable).Sub(eligibleIncoming),
				RequiredBy: line.RequiredBy,
				Sources:    []string{line.Source},
			}
			if line.Operation != "" {
				req.Operations = []string{line.Operation}
			}
			result.Requirements = append(result.Requirements, req)

			// Consume supply in order: on-hand first, then incoming.
			need := line.Quantity
			fromAvailable := decimal.Min(need, remainingAvailable)
			remainingAvailable = remainingAvailable.Sub(fromAvailable)
			need = need.Sub(fromAvailable)

			fromIncoming := decimal.Min(need, eligibleIncoming)
			consumedIncoming = consumedIncoming.Add(fromIncoming)
		}
	}

	return result, nil
}

// availableFor computes the unallocated on-hand for an item, clamped at
// zero. Negative on-hand and over-allocation are snapshot defects: they
// are reported beside the results, and the excess shortage they imply is
// visible through the clamped availability, never hidden.
func (n *Netter) availableFor(
	item *entities.Item,
	snapshot *entities.SupplySnapshot,
	result *Result,
) decimal.Decimal {
	available := decimal.Zero
	for _, bal := range snapshot.Balances {
		if bal.SKU != item.SKU {
			continue
		}

		onHand := bal.OnHand
		if onHand.IsNegative() {
			result.Defects = append(result.Defects, &entities.SnapshotDefect{
				SKU:      bal.SKU,
				Location: bal.Location,
				Kind:     entities.NegativeOnHand,
				Quantity: entities.Quantity{Amount: onHand, Unit: item.BaseUnit},
			})
			onHand = decimal.Zero
		}

		free := onHand.Sub(bal.Allocated)
		if free.IsNegative() {
			result.Defects = append(result.Defects, &entities.SnapshotDefect{
				SKU:      bal.SKU,
				Location: bal.Location,
				Kind:     entities.OverAllocated,
				Quantity: entities.Quantity{Amount: free.Neg(), Unit: item.BaseUnit},
			})
			free = decimal.Zero
		}

		available = available.Add(free)
	}

	// Safety stock is a reserved floor: demand nets against what sits
	// above it, never into it.
	if item.SafetyStock.IsPositive() {
		available = available.Sub(item.SafetyStock)
		if available.IsNegative() {
			available = decimal.Zero
		}
	}
	return available
}

// incomingReceipt is a scheduled receipt normalized to the item's base unit
type incomingReceipt struct {
	baseQty  decimal.Decimal
	expected time.Time
}

// incomingFor normalizes an item's open receipts into its base unit. The
// conversion happens exactly once, here at the ingestion boundary:
// purchase-unit quantities use the item's declared purchase factor, all
// others go through the registry. A receipt that cannot be converted is
// excluded and reported, never assumed 1:1.
func (n *Netter) incomingFor(
	item *entities.Item,
	snapshot *entities.SupplySnapshot,
	result *Result,
) []incomingReceipt {
	var receipts []incomingReceipt
	for _, receipt := range snapshot.Receipts {
		if receipt.SKU != item.SKU {
			continue
		}

		var baseQty decimal.Decimal
		var err error
		if receipt.Unit == item.BaseUnit {
			baseQty = receipt.Quantity
		} else if receipt.Unit == item.PurchaseUnit {
			baseQty, err = item.PurchaseToBase(receipt.Quantity)
		} else {
			var converted entities.Quantity
			converted, err = n.registry.ConvertQuantity(
				entities.NewQuantity(receipt.Quantity, receipt.Unit), item.BaseUnit)
			baseQty = converted.Amount
		}
		if err != nil {
			result.Unresolved = append(result.Unresolved, &entities.UnresolvedLine{
				SKU:    receipt.SKU,
				Source: receipt.Reference,
				Reason: err,
			})
			continue
		}

		receipts = append(receipts, incomingReceipt{baseQty: baseQty, expected: receipt.Expected})
	}

	sort.Slice(receipts, func(i, j int) bool { return receipts[i].expected.Before(receipts[j].expected) })
	return receipts
}
