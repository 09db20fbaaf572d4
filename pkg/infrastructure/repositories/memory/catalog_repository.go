package memory

import (
	"fmt"

	"github.com/printforge/planning/pkg/domain/entities"
	"github.com/printforge/planning/pkg/domain/repositories"
)

// CatalogRepository provides in-memory catalog storage: items, BOM lines,
// units, and conversion edges loaded once from upstream.
type CatalogRepository struct {
	items    map[entities.SKU]*entities.Item
	bomLines map[entities.SKU][]*entities.BOMLine
	units    []*entities.Unit
	edges    []*entities.ConversionEdge
}

// NewCatalogRepository creates a new in-memory catalog repository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		items:    make(map[entities.SKU]*entities.Item),
		bomLines: make(map[entities.SKU][]*entities.BOMLine),
	}
}

// Verify interface compliance
var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// LoadItems loads items into the repository
func (r *CatalogRepository) LoadItems(items []*entities.Item) error {
	for _, item := range items {
		if _, exists := r.items[item.SKU]; exists {
			return fmt.Errorf("item %s already loaded", item.SKU)
		}
		r.items[item.SKU] = item
	}
	return nil
}

// LoadBOMLines loads BOM lines into the repository
func (r *CatalogRepository) LoadBOMLines(lines []*entities.BOMLine) error {
	for _, line := range lines {
		r.bomLines[line.ParentSKU] = append(r.bomLines[line.ParentSKU], line)
	}
	return nil
}

// LoadUnits loads units into the repository
func (r *CatalogRepository) LoadUnits(units []*entities.Unit) error {
	r.units = append(r.units, units...)
	return nil
}

// LoadConversionEdges loads conversion edges into the repository
func (r *CatalogRepository) LoadConversionEdges(edges []*entities.ConversionEdge) error {
	r.edges = append(r.edges, edges...)
	return nil
}

// GetItem returns the item for a SKU
func (r *CatalogRepository) GetItem(sku entities.SKU) (*entities.Item, error) {
	item, exists := r.items[sku]
	if !exists {
		return nil, fmt.Errorf("item not found: %s", sku)
	}
	return item, nil
}

// GetAllItems returns all loaded items
func (r *CatalogRepository) GetAllItems() ([]*entities.Item, error) {
	items := make([]*entities.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	return items, nil
}

// GetBOMLines returns the BOM lines for a parent item. An item without a
// BOM returns an empty slice, not an error.
func (r *CatalogRepository) GetBOMLines(parent entities.SKU) ([]*entities.BOMLine, error) {
	return r.bomLines[parent], nil
}

// GetAllBOMLines returns all loaded BOM lines
func (r *CatalogRepository) GetAllBOMLines() ([]*entities.BOMLine, error) {
	var lines []*entities.BOMLine
	for _, parentLines := range r.bomLines {
		lines = append(lines, parentLines...)
	}
	return lines, nil
}

// GetUnits returns all loaded units
func (r *CatalogRepository) GetUnits() ([]*entities.Unit, error) {
	return r.units, nil
}

// GetConversionEdges returns all loaded conversion edges
func (r *CatalogRepository) GetConversionEdges() ([]*entities.ConversionEdge, error) {
	return r.edges, nil
}
