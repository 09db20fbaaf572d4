package memory

import (
	"github.com/printforge/planning/pkg/domain/entities"
	"github.com/printforge/planning/pkg/domain/repositories"
)

// InventoryRepository provides in-memory storage for on-hand balances and
// open scheduled receipts.
type InventoryRepository struct {
	balances []*entities.OnHandBalance
	receipts []*entities.ScheduledReceipt
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// LoadBalances loads on-hand balances into the repository
func (r *InventoryRepository) LoadBalances(balances []*entities.OnHandBalance) error {
	r.balances = append(r.balances, balances...)
	return nil
}

// LoadReceipts loads scheduled receipts into the repository
func (r *InventoryRepository) LoadReceipts(receipts []*entities.ScheduledReceipt) error {
	r.receipts = append(r.receipts, receipts...)
	return nil
}

// GetBalances returns the balances for an item across locations
func (r *InventoryRepository) GetBalances(sku entities.SKU) ([]*entities.OnHandBalance, error) {
	var result []*entities.OnHandBalance
	for _, bal := range r.balances {
		if bal.SKU == sku {
			result = append(result, bal)
		}
	}
	return result, nil
}

// GetAllBalances returns all loaded balances
func (r *InventoryRepository) GetAllBalances() ([]*entities.OnHandBalance, error) {
	return r.balances, nil
}

// GetReceipts returns the open receipts for an item
func (r *InventoryRepository) GetReceipts(sku entities.SKU) ([]*entities.ScheduledReceipt, error) {
	var result []*entities.ScheduledReceipt
	for _, receipt := range r.receipts {
		if receipt.SKU == sku {
			result = append(result, receipt)
		}
	}
	return result, nil
}

// GetAllReceipts returns all loaded receipts
func (r *InventoryRepository) GetAllReceipts() ([]*entities.ScheduledReceipt, error) {
	return r.receipts, nil
}

// Snapshot captures the current supply picture as one immutable value
func (r *InventoryRepository) Snapshot() (*entities.SupplySnapshot, error) {
	balances := make([]*entities.OnHandBalance, len(r.balances))
	copy(balances, r.balances)
	receipts := make([]*entities.ScheduledReceipt, len(r.receipts))
	copy(receipts, r.receipts)

	return &entities.SupplySnapshot{
		Balances: balances,
		Receipts: receipts,
	}, nil
}
