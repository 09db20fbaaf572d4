package repositories

import "github.com/printforge/planning/pkg/domain/entities"

// CatalogRepository provides read access to reference data owned by the
// upstream catalog service: items, BOM structures, units, and conversion
// edges. The engine never writes catalog data.
type CatalogRepository interface {
	GetItem(sku entities.SKU) (*entities.Item, error)
	GetAllItems() ([]*entities.Item, error)
	GetBOMLines(parent entities.SKU) ([]*entities.BOMLine, error)
	GetAllBOMLines() ([]*entities.BOMLine, error)
	GetUnits() ([]*entities.Unit, error)
	GetConversionEdges() ([]*entities.ConversionEdge, error)

	LoadItems(items []*entities.Item) error
	LoadBOMLines(lines []*entities.BOMLine) error
	LoadUnits(units []*entities.Unit) error
	LoadConversionEdges(edges []*entities.ConversionEdge) error
}
