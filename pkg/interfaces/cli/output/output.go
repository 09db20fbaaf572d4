package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/printforge/planning/pkg/application/dto"
	"github.com/printforge/planning/pkg/application/services/fulfillment"
	"github.com/printforge/planning/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Elapsed   time.Duration
}

// Generate creates output in the specified format
func Generate(result *dto.PlanningResult, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	case "excel":
		return generateExcelOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result *dto.PlanningResult, config Config) error {
	fmt.Printf("Planning Results Summary\n")
	fmt.Printf("========================\n\n")

	fmt.Printf("Demand Lines: %d\n", len(result.Demands))
	fmt.Printf("Shortages: %d\n", result.ShortageCount())
	fmt.Printf("Planned Orders: %d\n", len(result.PlannedOrders))
	fmt.Printf("Snapshot Defects: %d\n", len(result.Defects))
	fmt.Printf("Unresolved Lines: %d\n", len(result.Unresolved))
	fmt.Printf("Item Errors: %d\n", len(result.Errors))
	fmt.Printf("Elapsed: %v\n\n", config.Elapsed)

	if shortages := shortRequirements(result); len(shortages) > 0 {
		fmt.Printf("Shortages:\n")
		fmt.Printf("%-18s %-12s %-12s %-12s %-12s %-12s %-6s\n",
			"SKU", "Gross", "Available", "Incoming", "Net", "Required By", "Unit")
		fmt.Printf("%-18s %-12s %-12s %-12s %-12s %-12s %-6s\n",
			"------------------", "------------", "------------", "------------", "------------", "------------", "------")

		for _, req := range shortages {
			fmt.Printf("%-18s %-12s %-12s %-12s %-12s %-12s %-6s\n",
				req.SKU,
				req.Gross.String(),
				req.Available.String(),
				req.Incoming.String(),
				req.Net.String(),
				req.RequiredBy.Format("2006-01-02"),
				req.Unit)
		}
		fmt.Println()
	}

	if len(result.PlannedOrders) > 0 {
		fmt.Printf("Planned Orders:\n")
		fmt.Printf("%-18s %-12s %-6s %-12s %-12s %-6s\n",
			"SKU", "Qty", "Unit", "Release", "Need By", "Type")
		fmt.Printf("%-18s %-12s %-6s %-12s %-12s %-6s\n",
			"------------------", "------------", "------", "------------", "------------", "------")

		for _, order := range result.PlannedOrders {
			fmt.Printf("%-18s %-12s %-6s %-12s %-12s %-6s\n",
				order.SKU,
				order.Quantity.String(),
				order.Unit,
				order.ReleaseDate.Format("2006-01-02"),
				order.NeedDate.Format("2006-01-02"),
				order.Type)
		}
		fmt.Println()
	}

	if len(result.Summaries) > 0 {
		fmt.Printf("Order Fulfillment:\n")
		fmt.Printf("%-14s %-16s %-8s %-8s %-10s\n",
			"Order", "State", "Ready", "Lines", "Percent")
		fmt.Printf("%-14s %-16s %-8s %-8s %-10s\n",
			"--------------", "----------------", "--------", "--------", "----------")

		for _, summary := range sortedSummaries(result.Summaries) {
			fmt.Printf("%-14s %-16s %-8d %-8d %-10s\n",
				summary.OrderID,
				summary.State,
				summary.LinesReady,
				summary.LinesTotal,
				summary.FulfillmentPercent.String()+"%")
		}
		fmt.Println()
	}

	if len(result.Defects) > 0 {
		fmt.Printf("Snapshot Defects:\n")
		for _, defect := range result.Defects {
			fmt.Printf("  [%s] %v\n", defect.Kind, defect.Err())
		}
		fmt.Println()
	}

	if len(result.Unresolved) > 0 {
		fmt.Printf("Unresolved Lines:\n")
		for _, line := range result.Unresolved {
			fmt.Printf("  %s (%s): %v\n", line.SKU, line.Source, line.Reason)
		}
		fmt.Println()
	}

	if len(result.Errors) > 0 {
		fmt.Printf("Item Errors:\n")
		for _, itemErr := range result.Errors {
			fmt.Printf("  %s: %v\n", itemErr.SKU, itemErr.Err)
		}
		fmt.Println()
	}

	return nil
}

// jsonUnresolved is the serializable view of an unresolved line; errors
// do not marshal as JSON on their own.
type jsonUnresolved struct {
	SKU    entities.SKU `json:"sku"`
	Source string       `json:"source"`
	Reason string       `json:"reason"`
}

type jsonItemError struct {
	SKU   entities.SKU `json:"sku"`
	Error string       `json:"error"`
}

type jsonResult struct {
	PlanningDate  time.Time                               `json:"planning_date"`
	Demands       []*entities.DemandLine                  `json:"demands"`
	Requirements  []*entities.NetRequirement              `json:"requirements"`
	PlannedOrders []*entities.PlannedOrder                `json:"planned_orders"`
	Defects       []*entities.SnapshotDefect              `json:"defects,omitempty"`
	Unresolved    []jsonUnresolved                        `json:"unresolved,omitempty"`
	Summaries     map[string]*entities.FulfillmentSummary `json:"summaries,omitempty"`
	Errors        []jsonItemError                         `json:"errors,omitempty"`
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result *dto.PlanningResult, config Config) error {
	view := jsonResult{
		PlanningDate:  result.PlanningDate,
		Demands:       result.Demands,
		Requirements:  result.Requirements,
		PlannedOrders: result.PlannedOrders,
		Defects:       result.Defects,
		Summaries:     result.Summaries,
	}
	for _, line := range result.Unresolved {
		view.Unresolved = append(view.Unresolved, jsonUnresolved{
			SKU:    line.SKU,
			Source: line.Source,
			Reason: line.Reason.Error(),
		})
	}
	for _, itemErr := range result.Errors {
		view.Errors = append(view.Errors, jsonItemError{SKU: itemErr.SKU, Error: itemErr.Err.Error()})
	}

	jsonData, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "planning_results.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Printf("JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput creates CSV output files
func generateCSVOutput(result *dto.PlanningResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ordersFile := filepath.Join(config.OutputDir, "planned_orders.csv")
	if err := writeOrdersCSV(result.PlannedOrders, ordersFile); err != nil {
		return fmt.Errorf("failed to write planned orders CSV: %w", err)
	}

	requirementsFile := filepath.Join(config.OutputDir, "requirements.csv")
	if err := writeRequirementsCSV(result.Requirements, requirementsFile); err != nil {
		return fmt.Errorf("failed to write requirements CSV: %w", err)
	}

	fulfillmentFile := filepath.Join(config.OutputDir, "fulfillment.csv")
	if err := writeFulfillmentCSV(result.Summaries, fulfillmentFile); err != nil {
		return fmt.Errorf("failed to write fulfillment CSV: %w", err)
	}

	if config.Verbose {
		fmt.Printf("CSV results saved to:\n")
		fmt.Printf("  Planned Orders: %s\n", ordersFile)
		fmt.Printf("  Requirements: %s\n", requirementsFile)
		fmt.Printf("  Fulfillment: %s\n", fulfillmentFile)
	}
	return nil
}

func writeOrdersCSV(orders []*entities.PlannedOrder, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"id", "sku", "quantity", "unit", "release_date", "need_date", "type", "covers"}); err != nil {
		return err
	}
	for _, order := range orders {
		covers := ""
		for i, source := range order.Covers {
			if i > 0 {
				covers += ";"
			}
			covers += source
		}
		record := []string{
			order.ID.String(),
			string(order.SKU),
			order.Quantity.String(),
			string(order.Unit),
			order.ReleaseDate.Format("2006-01-02"),
			order.NeedDate.Format("2006-01-02"),
			order.Type.String(),
			covers,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeRequirementsCSV(requirements []*entities.NetRequirement, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"sku", "unit", "gross", "available", "incoming", "net", "required_by", "short"}); err != nil {
		return err
	}
	for _, req := range requirements {
		record := []string{
			string(req.SKU),
			string(req.Unit),
			req.Gross.String(),
			req.Available.String(),
			req.Incoming.String(),
			req.Net.String(),
			req.RequiredBy.Format("2006-01-02"),
			fmt.Sprintf("%t", req.IsShort()),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeFulfillmentCSV(summaries map[string]*entities.FulfillmentSummary, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"order_id", "state", "lines_ready", "lines_total", "percent", "can_ship_partial", "can_ship_complete"}); err != nil {
		return err
	}
	for _, summary := range sortedSummaries(summaries) {
		record := []string{
			summary.OrderID,
			summary.State.String(),
			fmt.Sprintf("%d", summary.LinesReady),
			fmt.Sprintf("%d", summary.LinesTotal),
			summary.FulfillmentPercent.String(),
			fmt.Sprintf("%t", summary.CanShipPartial),
			fmt.Sprintf("%t", summary.CanShipComplete),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func shortRequirements(result *dto.PlanningResult) []*entities.NetRequirement {
	var shortages []*entities.NetRequirement
	for _, req := range result.Requirements {
		if req.IsShort() {
			shortages = append(shortages, req)
		}
	}
	return shortages
}

func sortedSummaries(summaries map[string]*entities.FulfillmentSummary) []*entities.FulfillmentSummary {
	sorted := make([]*entities.FulfillmentSummary, 0, len(summaries))
	for _, summary := range summaries {
		sorted = append(sorted, summary)
	}
	fulfillment.SortByPriority(sorted)
	return sorted
}
