// Package sqlite persists supply snapshots and planned orders in a local
// SQLite database, so successive planning runs share open-order coverage
// without a server-side system of record.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
)

// Store wraps a SQLite database holding inventory balances, scheduled
// receipts, and previously suggested planned orders. Quantities are
// stored as TEXT so decimal values round-trip exactly.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS balances (
			sku TEXT,
			location TEXT,
			on_hand TEXT,
			allocated TEXT,
			PRIMARY KEY (sku, location)
		);`,
		`CREATE TABLE IF NOT EXISTS receipts (
			reference TEXT PRIMARY KEY,
			sku TEXT,
			quantity TEXT,
			unit TEXT,
			source INTEGER,
			expected TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS planned_orders (
			id TEXT PRIMARY KEY,
			sku TEXT,
			quantity TEXT,
			unit TEXT,
			need_date TEXT,
			release_date TEXT,
			order_type INTEGER,
			open INTEGER
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// SaveBalances replaces the stored on-hand balances
func (s *Store) SaveBalances(balances []*entities.OnHandBalance) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM balances`); err != nil {
		return err
	}
	for _, bal := range balances {
		_, err := tx.Exec(`INSERT INTO balances (sku, location, on_hand, allocated) VALUES (?, ?, ?, ?)`,
			string(bal.SKU), bal.Location, bal.OnHand.String(), bal.Allocated.String())
		if err != nil {
			return fmt.Errorf("failed to save balance for %s: %w", bal.SKU, err)
		}
	}
	return tx.Commit()
}

// LoadBalances reads all stored on-hand balances
func (s *Store) LoadBalances() ([]*entities.OnHandBalance, error) {
	rows, err := s.db.Query(`SELECT sku, location, on_hand, allocated FROM balances ORDER BY sku, location`)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	var balances []*entities.OnHandBalance
	for rows.Next() {
		var sku, location, onHandStr, allocatedStr string
		if err := rows.Scan(&sku, &location, &onHandStr, &allocatedStr); err != nil {
			return nil, err
		}

		onHand, err := decimal.NewFromString(onHandStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt on_hand for %s: %w", sku, err)
		}
		allocated, err := decimal.NewFromString(allocatedStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt allocated for %s: %w", sku, err)
		}

		balances = append(balances, &entities.OnHandBalance{
			SKU:       entities.SKU(sku),
			Location:  location,
			OnHand:    onHand,
			Allocated: allocated,
		})
	}
	return balances, rows.Err()
}

// SaveReceipts replaces the stored open scheduled receipts
func (s *Store) SaveReceipts(receipts []*entities.ScheduledReceipt) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM receipts`); err != nil {
		return err
	}
	for _, receipt := range receipts {
		_, err := tx.Exec(`INSERT INTO receipts (reference, sku, quantity, unit, source, expected) VALUES (?, ?, ?, ?, ?, ?)`,
			receipt.Reference, string(receipt.SKU), receipt.Quantity.String(), string(receipt.Unit),
			int(receipt.Source), receipt.Expected.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to save receipt %s: %w", receipt.Reference, err)
		}
	}
	return tx.Commit()
}

// LoadReceipts reads all stored open scheduled receipts
func (s *Store) LoadReceipts() ([]*entities.ScheduledReceipt, error) {
	rows, err := s.db.Query(`SELECT reference, sku, quantity, unit, source, expected FROM receipts ORDER BY expected, reference`)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*entities.ScheduledReceipt
	for rows.Next() {
		var reference, sku, quantityStr, unit, expectedStr string
		var source int
		if err := rows.Scan(&reference, &sku, &quantityStr, &unit, &source, &expectedStr); err != nil {
			return nil, err
		}

		quantity, err := decimal.NewFromString(quantityStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt quantity for receipt %s: %w", reference, err)
		}
		expected, err := time.Parse(time.RFC3339, expectedStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt expected date for receipt %s: %w", reference, err)
		}

		receipt, err := entities.NewScheduledReceipt(
			entities.SKU(sku), quantity, entities.UnitCode(unit),
			entities.SupplySource(source), reference, expected)
		if err != nil {
			return nil, fmt.Errorf("corrupt receipt %s: %w", reference, err)
		}
		receipts = append(receipts, receipt)
	}
	return receipts, rows.Err()
}

// SavePlannedOrders persists suggested orders as open coverage for
// subsequent planning runs
func (s *Store) SavePlannedOrders(orders []*entities.PlannedOrder) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, order := range orders {
		_, err := tx.Exec(`INSERT OR REPLACE INTO planned_orders (id, sku, quantity, unit, need_date, release_date, order_type, open) VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
			order.ID.String(), string(order.SKU), order.Quantity.String(), string(order.Unit),
			order.NeedDate.UTC().Format(time.RFC3339), order.ReleaseDate.UTC().Format(time.RFC3339),
			int(order.Type))
		if err != nil {
			return fmt.Errorf("failed to save planned order %s: %w", order.ID, err)
		}
	}
	return tx.Commit()
}

// LoadOpenPlannedOrders reads all planned orders still marked open
func (s *Store) LoadOpenPlannedOrders() ([]*entities.PlannedOrder, error) {
	rows, err := s.db.Query(`SELECT id, sku, quantity, unit, need_date, release_date, order_type FROM planned_orders WHERE open = 1 ORDER BY need_date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query planned orders: %w", err)
	}
	defer rows.Close()

	var orders []*entities.PlannedOrder
	for rows.Next() {
		var idStr, sku, quantityStr, unit, needStr, releaseStr string
		var orderType int
		if err := rows.Scan(&idStr, &sku, &quantityStr, &unit, &needStr, &releaseStr, &orderType); err != nil {
			return nil, err
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt planned order id %s: %w", idStr, err)
		}
		quantity, err := decimal.NewFromString(quantityStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt quantity for planned order %s: %w", idStr, err)
		}
		needDate, err := time.Parse(time.RFC3339, needStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt need date for planned order %s: %w", idStr, err)
		}
		releaseDate, err := time.Parse(time.RFC3339, releaseStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt release date for planned order %s: %w", idStr, err)
		}

		orders = append(orders, &entities.PlannedOrder{
			ID:          id,
			SKU:         entities.SKU(sku),
			Quantity:    quantity,
			Unit:        entities.UnitCode(unit),
			NeedDate:    needDate,
			ReleaseDate: releaseDate,
			Type:        entities.Procurement(orderType),
		})
	}
	return orders, rows.Err()
}

// CloseOrder marks an open planned order closed, removing it from
// future coverage. Closing an order that is not open is an error.
func (s *Store) CloseOrder(id uuid.UUID) error {
	result, err := s.db.Exec(`UPDATE planned_orders SET open = 0 WHERE id = ? AND open = 1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to close planned order %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("planned order %s is not open", id)
	}
	return nil
}
