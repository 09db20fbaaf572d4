package repositories

import "github.com/printforge/planning/pkg/domain/entities"

// InventoryRepository provides read access to the inventory position:
// on-hand balances and open scheduled receipts from purchasing and
// production.
type InventoryRepository interface {
	GetBalances(sku entities.SKU) ([]*entities.OnHandBalance, error)
	GetAllBalances() ([]*entities.OnHandBalance, error)
	GetReceipts(sku entities.SKU) ([]*entities.ScheduledReceipt, error)
	GetAllReceipts() ([]*entities.ScheduledReceipt, error)

	// Snapshot captures the full supply picture as one immutable value
	// for a netting run.
	Snapshot() (*entities.SupplySnapshot, error)

	LoadBalances(balances []*entities.OnHandBalance) error
	LoadReceipts(receipts []*entities.ScheduledReceipt) error
}
