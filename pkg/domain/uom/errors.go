package uom

import (
	"fmt"

	"github.com/printforge/planning/pkg/domain/entities"
)

// IncompatibleDimensionError indicates a conversion between units of
// different dimension classes, e.g. grams to each.
type IncompatibleDimensionError struct {
	From          entities.UnitCode
	To            entities.UnitCode
	FromDimension entities.Dimension
	ToDimension   entities.Dimension
}

func (e *IncompatibleDimensionError) Error() string {
	return fmt.Sprintf("cannot convert %s (%s) to %s (%s): dimensions differ",
		e.From, e.FromDimension, e.To, e.ToDimension)
}

// UndefinedConversionError indicates no edge chain connects two units of
// the same dimension, or a unit is not registered at all.
type UndefinedConversionError struct {
	From entities.UnitCode
	To   entities.UnitCode
}

func (e *UndefinedConversionError) Error() string {
	return fmt.Sprintf("no conversion defined from %s to %s", e.From, e.To)
}
