package repositories

import "github.com/printforge/planning/pkg/domain/entities"

// OrderRepository provides read access to sales orders and to previously
// generated planned orders that are still open. Open planned orders feed
// back into planning so re-running it never duplicates coverage.
type OrderRepository interface {
	GetSalesOrder(id string) (*entities.SalesOrder, error)
	GetAllSalesOrders() ([]*entities.SalesOrder, error)
	GetOpenPlannedOrders(sku entities.SKU) ([]*entities.PlannedOrder, error)
	GetAllOpenPlannedOrders() ([]*entities.PlannedOrder, error)

	LoadSalesOrders(orders []*entities.SalesOrder) error
	LoadPlannedOrders(orders []*entities.PlannedOrder) error
}
