package uom

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
)

// Registry is the single source of truth for unit conversions. Every
// component converts through it; nothing else is permitted to hold a
// conversion table. It is immutable once built, so concurrent readers
// need no synchronization. Superseding a factor means building a new
// registry from the edge set at a later as-of time, never mutating one
// in flight.
type Registry struct {
	units  map[entities.UnitCode]entities.Unit
	bases  map[entities.Dimension]entities.UnitCode
	toBase map[entities.UnitCode]decimal.Decimal
}

// NewRegistry builds a registry from registered units, the canonical base
// unit per dimension, and effective-dated conversion edges. Where several
// edges define the same conversion, the one with the latest effective date
// on or before asOf wins; later-dated edges are ignored.
func NewRegistry(
	units []*entities.Unit,
	bases map[entities.Dimension]entities.UnitCode,
	edges []*entities.ConversionEdge,
	asOf time.Time,
) (*Registry, error) {
	r := &Registry{
		units:  make(map[entities.UnitCode]entities.Unit, len(units)),
		bases:  make(map[entities.Dimension]entities.UnitCode, len(bases)),
		toBase: make(map[entities.UnitCode]decimal.Decimal, len(units)),
	}

	for _, u := range units {
		if _, exists := r.units[u.Code]; exists {
			return nil, fmt.Errorf("unit %s registered twice", u.Code)
		}
		r.units[u.Code] = *u
	}

	for dimension, base := range bases {
		u, ok := r.units[base]
		if !ok {
			return nil, fmt.Errorf("base unit %s for %s is not registered", base, dimension)
		}
		if u.Dimension != dimension {
			return nil, fmt.Errorf("base unit %s has dimension %s, expected %s", base, u.Dimension, dimension)
		}
		r.bases[dimension] = base
		r.toBase[base] = decimal.NewFromInt(1)
	}

	effective, err := r.selectEffectiveEdges(edges, asOf)
	if err != nil {
		return nil, err
	}

	if err := r.resolveFactors(effective); err != nil {
		return nil, err
	}

	return r, nil
}

// selectEffectiveEdges keeps, per (from, to) pair, the edge with the
// latest effective date on or before asOf.
func (r *Registry) selectEffectiveEdges(
	edges []*entities.ConversionEdge,
	asOf time.Time,
) ([]*entities.ConversionEdge, error) {
	type pair struct {
		from, to entities.UnitCode
	}
	chosen := make(map[pair]*entities.ConversionEdge)

	for _, edge := range edges {
		from, ok := r.units[edge.From]
		if !ok {
			return nil, fmt.Errorf("conversion edge references unregistered unit %s", edge.From)
		}
		to, ok := r.units[edge.To]
		if !ok {
			return nil, fmt.Errorf("conversion edge references unregistered unit %s", edge.To)
		}
		if from.Dimension != to.Dimension {
			return nil, &IncompatibleDimensionError{
				From:          edge.From,
				To:            edge.To,
				FromDimension: from.Dimension,
				ToDimension:   to.Dimension,
			}
		}
		if edge.EffectiveFrom.After(asOf) {
			continue
		}

		key := pair{edge.From, edge.To}
		if current, exists := chosen[key]; !exists || edge.EffectiveFrom.After(current.EffectiveFrom) {
			chosen[key] = edge
		}
	}

	result := make([]*entities.ConversionEdge, 0, len(chosen))
	for _, edge := range chosen {
		result = append(result, edge)
	}
	return result, nil
}

// resolveFactors propagates to-base factors outward from each dimension's
// base unit until no edge adds a new unit. Edges are usable in either
// direction: 1 From = Factor To implies 1 To = 1/Factor From.
func (r *Registry) resolveFactors(edges []*entities.ConversionEdge) error {
	for {
		progressed := false
		for _, edge := range edges {
			fromFactor, fromKnown := r.toBase[edge.From]
			toFactor, toKnown := r.toBase[edge.To]

			switch {
			case fromKnown && !toKnown:
				// 1 To = 1/Factor From = fromFactor/Factor base
				r.toBase[edge.To] = fromFactor.Div(edge.Factor)
				progressed = true
			case toKnown && !fromKnown:
				// 1 From = Factor To = Factor*toFactor base
				r.toBase[edge.From] = edge.Factor.Mul(toFactor)
				progressed = true
			case fromKnown && toKnown:
				implied := edge.Factor.Mul(toFactor)
				if !implied.Equal(fromFactor) {
					return fmt.Errorf("conflicting conversion for %s -> %s: edge implies factor %s, resolved %s",
						edge.From, edge.To, implied, fromFactor)
				}
			}
		}
		if !progressed {
			break
		}
	}
	return nil
}

// Unit returns the registered unit for a code
func (r *Registry) Unit(code entities.UnitCode) (entities.Unit, bool) {
	u, ok := r.units[code]
	return u, ok
}

// Factor returns the multiplier converting quantities from one unit to
// another: qty_in_to = qty_in_from * factor.
func (r *Registry) Factor(from, to entities.UnitCode) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	fromUnit, ok := r.units[from]
	if !ok {
		return decimal.Zero, &UndefinedConversionError{From: from, To: to}
	}
	toUnit, ok := r.units[to]
	if !ok {
		return decimal.Zero, &UndefinedConversionError{From: from, To: to}
	}
	if fromUnit.Dimension != toUnit.Dimension {
		return decimal.Zero, &IncompatibleDimensionError{
			From:          from,
			To:            to,
			FromDimension: fromUnit.Dimension,
			ToDimension:   toUnit.Dimension,
		}
	}

	fromFactor, ok := r.toBase[from]
	if !ok {
		return decimal.Zero, &UndefinedConversionError{From: from, To: to}
	}
	toFactor, ok := r.toBase[to]
	if !ok {
		return decimal.Zero, &UndefinedConversionError{From: from, To: to}
	}

	return fromFactor.Div(toFactor), nil
}

// Convert converts a quantity between two units of the same dimension
func (r *Registry) Convert(qty decimal.Decimal, from, to entities.UnitCode) (decimal.Decimal, error) {
	factor, err := r.Factor(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return qty.Mul(factor), nil
}

// ConvertQuantity converts a unit-tagged quantity into a target unit
func (r *Registry) ConvertQuantity(q entities.Quantity, to entities.UnitCode) (entities.Quantity, error) {
	amount, err := r.Convert(q.Amount, q.Unit, to)
	if err != nil {
		return entities.Quantity{}, err
	}
	return entities.Quantity{Amount: amount, Unit: to}, nil
}

// ConvertCost converts a per-unit cost between units. Cost conversion is
// the inverse of quantity conversion: if 1 from-unit is factor to-units,
// a to-unit costs 1/factor of a from-unit. Quantity and cost factors must
// never be applied in the same direction.
func (r *Registry) ConvertCost(costPerFrom decimal.Decimal, from, to entities.UnitCode) (decimal.Decimal, error) {
	factor, err := r.Factor(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return costPerFrom.Div(factor), nil
}
