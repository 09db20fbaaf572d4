package memory

import (
	"fmt"

	"github.com/printforge/planning/pkg/domain/entities"
	"github.com/printforge/planning/pkg/domain/repositories"
)

// OrderRepository provides in-memory storage for sales orders and open
// planned orders.
type OrderRepository struct {
	salesOrders   map[string]*entities.SalesOrder
	orderIDs      []string
	plannedOrders []*entities.PlannedOrder
}

// NewOrderRepository creates a new in-memory order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		salesOrders: make(map[string]*entities.SalesOrder),
	}
}

// Verify interface compliance
var _ repositories.OrderRepository = (*OrderRepository)(nil)

// LoadSalesOrders loads sales orders into the repository
func (r *OrderRepository) LoadSalesOrders(orders []*entities.SalesOrder) error {
	for _, order := range orders {
		if _, exists := r.salesOrders[order.ID]; exists {
			return fmt.Errorf("sales order %s already loaded", order.ID)
		}
		r.salesOrders[order.ID] = order
		r.orderIDs = append(r.orderIDs, order.ID)
	}
	return nil
}

// LoadPlannedOrders loads open planned orders into the repository
func (r *OrderRepository) LoadPlannedOrders(orders []*entities.PlannedOrder) error {
	r.plannedOrders = append(r.plannedOrders, orders...)
	return nil
}

// GetSalesOrder returns a sales order by id
func (r *OrderRepository) GetSalesOrder(id string) (*entities.SalesOrder, error) {
	order, exists := r.salesOrders[id]
	if !exists {
		return nil, fmt.Errorf("sales order not found: %s", id)
	}
	return order, nil
}

// GetAllSalesOrders returns all loaded sales orders in load order
func (r *OrderRepository) GetAllSalesOrders() ([]*entities.SalesOrder, error) {
	orders := make([]*entities.SalesOrder, 0, len(r.orderIDs))
	for _, id := range r.orderIDs {
		orders = append(orders, r.salesOrders[id])
	}
	return orders, nil
}

// GetOpenPlannedOrders returns open planned orders for an item
func (r *OrderRepository) GetOpenPlannedOrders(sku entities.SKU) ([]*entities.PlannedOrder, error) {
	var result []*entities.PlannedOrder
	for _, order := range r.plannedOrders {
		if order.SKU == sku {
			result = append(result, order)
		}
	}
	return result, nil
}

// GetAllOpenPlannedOrders returns all open planned orders
func (r *OrderRepository) GetAllOpenPlannedOrders() ([]*entities.PlannedOrder, error) {
	return r.plannedOrders, nil
}
