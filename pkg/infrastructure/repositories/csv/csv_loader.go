package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
)

// Loader handles loading planning data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadItems loads the item catalog from a CSV file
func (l *Loader) LoadItems(filename string) ([]*entities.Item, error) {
	records, err := readAll(filename, "items")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"sku", "description", "base_unit", "standard_cost", "procurement", "lead_time_days", "purchase_unit", "purchase_factor", "min_order_qty", "order_multiple", "safety_stock"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("items CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var items []*entities.Item
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("items CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		item, err := parseItem(record)
		if err != nil {
			return nil, fmt.Errorf("items CSV row %d: %w", i+2, err)
		}

		items = append(items, item)
	}

	return items, nil
}

// LoadBOM loads BOM lines from a CSV file
func (l *Loader) LoadBOM(filename string) ([]*entities.BOMLine, error) {
	records, err := readAll(filename, "BOM")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"parent_sku", "component_sku", "quantity_per", "unit", "scrap_factor", "operation", "consume_stage", "is_optional", "is_cost_only"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("BOM CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var lines []*entities.BOMLine
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("BOM CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		line, err := parseBOMLine(record)
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: %w", i+2, err)
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// LoadConversions loads unit conversion edges from a CSV file
func (l *Loader) LoadConversions(filename string) ([]*entities.ConversionEdge, error) {
	records, err := readAll(filename, "conversions")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"from_unit", "to_unit", "factor", "effective_from"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("conversions CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var edges []*entities.ConversionEdge
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("conversions CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		factor, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("conversions CSV row %d: invalid factor: %s", i+2, record[2])
		}

		effectiveFrom := time.Time{}
		if record[3] != "" {
			effectiveFrom, err = time.Parse("2006-01-02", record[3])
			if err != nil {
				return nil, fmt.Errorf("conversions CSV row %d: invalid effective_from: %s (expected YYYY-MM-DD)", i+2, record[3])
			}
		}

		edge, err := entities.NewConversionEdge(entities.UnitCode(record[0]), entities.UnitCode(record[1]), factor, effectiveFrom)
		if err != nil {
			return nil, fmt.Errorf("conversions CSV row %d: %w", i+2, err)
		}

		edges = append(edges, edge)
	}

	return edges, nil
}

// LoadInventory loads on-hand balances from a CSV file
func (l *Loader) LoadInventory(filename string) ([]*entities.OnHandBalance, error) {
	records, err := readAll(filename, "inventory")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"sku", "location", "on_hand", "allocated"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("inventory CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var balances []*entities.OnHandBalance
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("inventory CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		onHand, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: invalid on_hand: %s", i+2, record[2])
		}
		allocated, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: invalid allocated: %s", i+2, record[3])
		}

		balances = append(balances, &entities.OnHandBalance{
			SKU:       entities.SKU(record[0]),
			Location:  record[1],
			OnHand:    onHand,
			Allocated: allocated,
		})
	}

	return balances, nil
}

// LoadReceipts loads open scheduled receipts from a CSV file
func (l *Loader) LoadReceipts(filename string) ([]*entities.ScheduledReceipt, error) {
	records, err := readAll(filename, "receipts")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"sku", "quantity", "unit", "source", "reference", "expected_date"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("receipts CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var receipts []*entities.ScheduledReceipt
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("receipts CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		quantity, err := decimal.NewFromString(record[1])
		if err != nil {
			return nil, fmt.Errorf("receipts CSV row %d: invalid quantity: %s", i+2, record[1])
		}

		source, err := parseSupplySource(record[3])
		if err != nil {
			return nil, fmt.Errorf("receipts CSV row %d: %w", i+2, err)
		}

		expected, err := time.Parse("2006-01-02", record[5])
		if err != nil {
			return nil, fmt.Errorf("receipts CSV row %d: invalid expected_date: %s (expected YYYY-MM-DD)", i+2, record[5])
		}

		receipt, err := entities.NewScheduledReceipt(entities.SKU(record[0]), quantity, entities.UnitCode(record[2]), source, record[4], expected)
		if err != nil {
			return nil, fmt.Errorf("receipts CSV row %d: %w", i+2, err)
		}

		receipts = append(receipts, receipt)
	}

	return receipts, nil
}

// LoadSalesOrders loads sales orders from a CSV file, one row per order
// line. Rows sharing an order_id fold into one order.
func (l *Loader) LoadSalesOrders(filename string) ([]*entities.SalesOrder, error) {
	records, err := readAll(filename, "sales orders")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"order_id", "order_number", "status", "required_by", "sku", "ordered", "shipped"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("sales orders CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	byID := make(map[string]*entities.SalesOrder)
	var order []string
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("sales orders CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		status, err := parseOrderStatus(record[2])
		if err != nil {
			return nil, fmt.Errorf("sales orders CSV row %d: %w", i+2, err)
		}

		requiredBy, err := time.Parse("2006-01-02", record[3])
		if err != nil {
			return nil, fmt.Errorf("sales orders CSV row %d: invalid required_by: %s (expected YYYY-MM-DD)", i+2, record[3])
		}

		ordered, err := decimal.NewFromString(record[5])
		if err != nil {
			return nil, fmt.Errorf("sales orders CSV row %d: invalid ordered: %s", i+2, record[5])
		}
		shipped, err := decimal.NewFromString(record[6])
		if err != nil {
			return nil, fmt.Errorf("sales orders CSV row %d: invalid shipped: %s", i+2, record[6])
		}

		id := record[0]
		so, ok := byID[id]
		if !ok {
			so = &entities.SalesOrder{
				ID:         id,
				Number:     record[1],
				Status:     status,
				RequiredBy: requiredBy,
			}
			byID[id] = so
			order = append(order, id)
		}

		so.Lines = append(so.Lines, entities.SalesOrderLine{
			SKU:        entities.SKU(record[4]),
			Ordered:    ordered,
			Shipped:    shipped,
			RequiredBy: requiredBy,
		})
	}

	orders := make([]*entities.SalesOrder, 0, len(order))
	for _, id := range order {
		orders = append(orders, byID[id])
	}
	return orders, nil
}

// LoadDemands loads root demand lines from a CSV file
func (l *Loader) LoadDemands(filename string) ([]*entities.DemandLine, error) {
	records, err := readAll(filename, "demands")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"sku", "quantity", "required_by", "source"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("demands CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var demands []*entities.DemandLine
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("demands CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		quantity, err := decimal.NewFromString(record[1])
		if err != nil {
			return nil, fmt.Errorf("demands CSV row %d: invalid quantity: %s", i+2, record[1])
		}

		requiredBy, err := time.Parse("2006-01-02", record[2])
		if err != nil {
			return nil, fmt.Errorf("demands CSV row %d: invalid required_by: %s (expected YYYY-MM-DD)", i+2, record[2])
		}

		demands = append(demands, &entities.DemandLine{
			SKU:        entities.SKU(record[0]),
			Quantity:   quantity,
			RequiredBy: requiredBy,
			Source:     record[3],
		})
	}

	return demands, nil
}

// Helper functions for parsing CSV records

func readAll(filename, kind string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}
	return records, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseItem(record []string) (*entities.Item, error) {
	standardCost, err := decimal.NewFromString(record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid standard_cost: %s", record[3])
	}

	procurement, err := parseProcurement(record[4])
	if err != nil {
		return nil, err
	}

	leadTimeDays, err := strconv.Atoi(record[5])
	if err != nil {
		return nil, fmt.Errorf("invalid lead_time_days: %s", record[5])
	}

	item, err := entities.NewItem(entities.SKU(record[0]), record[1], entities.UnitCode(record[2]), standardCost, procurement, leadTimeDays)
	if err != nil {
		return nil, err
	}

	if record[6] != "" {
		factor := decimal.Zero
		if record[7] != "" {
			factor, err = decimal.NewFromString(record[7])
			if err != nil {
				return nil, fmt.Errorf("invalid purchase_factor: %s", record[7])
			}
		}
		if _, err := item.WithPurchaseUnit(entities.UnitCode(record[6]), factor); err != nil {
			return nil, err
		}
	}

	minOrderQty, err := parseOptionalDecimal(record[8], "min_order_qty")
	if err != nil {
		return nil, err
	}
	orderMultiple, err := parseOptionalDecimal(record[9], "order_multiple")
	if err != nil {
		return nil, err
	}
	item.WithLotSizing(minOrderQty, orderMultiple)

	item.SafetyStock, err = parseOptionalDecimal(record[10], "safety_stock")
	if err != nil {
		return nil, err
	}

	return item, nil
}

func parseBOMLine(record []string) (*entities.BOMLine, error) {
	quantityPer, err := decimal.NewFromString(record[2])
	if err != nil {
		return nil, fmt.Errorf("invalid quantity_per: %s", record[2])
	}

	scrapFactor, err := parseOptionalDecimal(record[4], "scrap_factor")
	if err != nil {
		return nil, err
	}

	line, err := entities.NewBOMLine(entities.SKU(record[0]), entities.SKU(record[1]), quantityPer, entities.UnitCode(record[3]), scrapFactor)
	if err != nil {
		return nil, err
	}

	stage, err := parseConsumeStage(record[6])
	if err != nil {
		return nil, err
	}
	line.WithOperation(record[5], stage)

	costOnly, err := parseBool(record[8], "is_cost_only")
	if err != nil {
		return nil, err
	}
	optional, err := parseBool(record[7], "is_optional")
	if err != nil {
		return nil, err
	}
	line.WithFlags(costOnly, optional)

	return line, nil
}

func parseOptionalDecimal(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, s)
	}
	return value, nil
}

func parseBool(s, field string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0", "no":
		return false, nil
	case "true", "1", "yes":
		return true, nil
	default:
		return false, fmt.Errorf("invalid %s: %s (expected true or false)", field, s)
	}
}

func parseProcurement(s string) (entities.Procurement, error) {
	switch strings.ToLower(s) {
	case "buy":
		return entities.Buy, nil
	case "make":
		return entities.Make, nil
	default:
		return entities.Buy, fmt.Errorf("invalid procurement: %s (expected: Buy or Make)", s)
	}
}

func parseConsumeStage(s string) (entities.ConsumeStage, error) {
	switch strings.ToLower(s) {
	case "", "production":
		return entities.ConsumeAtProduction, nil
	case "shipping":
		return entities.ConsumeAtShipping, nil
	default:
		return entities.ConsumeAtProduction, fmt.Errorf("invalid consume_stage: %s (expected: production or shipping)", s)
	}
}

func parseSupplySource(s string) (entities.SupplySource, error) {
	switch strings.ToLower(s) {
	case "purchase":
		return entities.PurchaseSupply, nil
	case "production":
		return entities.ProductionSupply, nil
	default:
		return entities.PurchaseSupply, fmt.Errorf("invalid source: %s (expected: purchase or production)", s)
	}
}

func parseOrderStatus(s string) (entities.OrderStatus, error) {
	switch strings.ToLower(s) {
	case "open":
		return entities.OrderOpen, nil
	case "shipped":
		return entities.OrderShipped, nil
	case "cancelled":
		return entities.OrderCancelled, nil
	default:
		return entities.OrderOpen, fmt.Errorf("invalid status: %s (expected: Open, Shipped, or Cancelled)", s)
	}
}
