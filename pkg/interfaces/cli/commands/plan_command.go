package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/printforge/planning/pkg/application/dto"
	"github.com/printforge/planning/pkg/application/services/explosion"
	"github.com/printforge/planning/pkg/application/services/fulfillment"
	"github.com/printforge/planning/pkg/application/services/netting"
	"github.com/printforge/planning/pkg/application/services/orchestration"
	"github.com/printforge/planning/pkg/application/services/planning"
	"github.com/printforge/planning/pkg/domain/uom"
	"github.com/printforge/planning/pkg/infrastructure/repositories/csv"
	"github.com/printforge/planning/pkg/infrastructure/repositories/memory"
	"github.com/printforge/planning/pkg/infrastructure/repositories/sqlite"
	"github.com/printforge/planning/pkg/interfaces/cli/output"
)

// Config holds configuration for the plan command. Env vars provide
// defaults so a shop can pin its scenario directory and database once;
// flags override them per run.
type Config struct {
	ScenarioDir     string `env:"PLANNING_SCENARIO"`
	ItemsFile       string `env:"PLANNING_ITEMS"`
	BOMFile         string `env:"PLANNING_BOM"`
	ConversionsFile string `env:"PLANNING_CONVERSIONS"`
	InventoryFile   string `env:"PLANNING_INVENTORY"`
	ReceiptsFile    string `env:"PLANNING_RECEIPTS"`
	SalesOrdersFile string `env:"PLANNING_SALES_ORDERS"`
	DemandsFile     string `env:"PLANNING_DEMANDS"`
	DatabaseFile    string `env:"PLANNING_DB"`
	OutputDir       string `env:"PLANNING_OUTPUT"`
	Format          string `env:"PLANNING_FORMAT" envDefault:"text"`
	Verbose         bool   `env:"PLANNING_VERBOSE"`
	Help            bool   `env:"-"`
}

// LoadConfigDefaults reads config defaults from the environment. A .env
// file beside the binary is honored when present; a missing one is not
// an error.
func LoadConfigDefaults() (Config, error) {
	_ = godotenv.Load()

	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return config, nil
}

// PlanCommand handles the main planning execution logic
type PlanCommand struct {
	config Config
	logger *zap.Logger
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config) (*PlanCommand, error) {
	var logger *zap.Logger
	var err error
	if config.Verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &PlanCommand{config: config, logger: logger}, nil
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}
	defer c.logger.Sync()

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	loader := csv.NewLoader()

	items, err := loader.LoadItems(files["Items"])
	if err != nil {
		return fmt.Errorf("error loading items: %w", err)
	}

	bomLines, err := loader.LoadBOM(files["BOM"])
	if err != nil {
		return fmt.Errorf("error loading BOM: %w", err)
	}

	demands, err := loader.LoadDemands(files["Demands"])
	if err != nil {
		return fmt.Errorf("error loading demands: %w", err)
	}

	edges := uom.StandardEdges()
	if path, ok := files["Conversions"]; ok {
		custom, err := loader.LoadConversions(path)
		if err != nil {
			return fmt.Errorf("error loading conversions: %w", err)
		}
		edges = append(edges, custom...)
	}

	registry, err := uom.NewRegistry(uom.StandardUnits(), uom.StandardBases(), edges, time.Now())
	if err != nil {
		return fmt.Errorf("error building unit registry: %w", err)
	}

	// Items must stay inside the unit catalog; an unknown code would
	// otherwise only surface deep in the run as an unresolved line.
	for _, item := range items {
		if _, ok := registry.Unit(item.BaseUnit); !ok {
			return fmt.Errorf("item %s uses unregistered base unit %s", item.SKU, item.BaseUnit)
		}
		if string(item.PurchaseUnit) != "" {
			if _, ok := registry.Unit(item.PurchaseUnit); !ok {
				return fmt.Errorf("item %s uses unregistered purchase unit %s", item.SKU, item.PurchaseUnit)
			}
		}
	}

	catalog := memory.NewCatalogRepository()
	if err := catalog.LoadUnits(uom.StandardUnits()); err != nil {
		return fmt.Errorf("failed to load units into catalog: %w", err)
	}
	if err := catalog.LoadConversionEdges(edges); err != nil {
		return fmt.Errorf("failed to load conversions into catalog: %w", err)
	}
	if err := catalog.LoadItems(items); err != nil {
		return fmt.Errorf("failed to load items into catalog: %w", err)
	}
	if err := catalog.LoadBOMLines(bomLines); err != nil {
		return fmt.Errorf("failed to load BOM lines into catalog: %w", err)
	}

	inventory := memory.NewInventoryRepository()
	orders := memory.NewOrderRepository()

	if err := c.loadSupply(loader, files, inventory); err != nil {
		return err
	}
	if err := c.loadOrders(loader, files, orders); err != nil {
		return err
	}

	// Open suggestions from earlier runs count as coverage, so reruns
	// against an unchanged snapshot suggest nothing new.
	var store *sqlite.Store
	if c.config.DatabaseFile != "" {
		store, err = sqlite.Open(c.config.DatabaseFile)
		if err != nil {
			return fmt.Errorf("error opening planning database: %w", err)
		}
		defer store.Close()

		open, err := store.LoadOpenPlannedOrders()
		if err != nil {
			return fmt.Errorf("error loading open planned orders: %w", err)
		}
		if err := orders.LoadPlannedOrders(open); err != nil {
			return fmt.Errorf("failed to load planned orders: %w", err)
		}
		c.logger.Info("loaded open planned orders", zap.Int("count", len(open)))
	}

	orchestrator := orchestration.NewPlanningOrchestrator(
		explosion.NewExploder(catalog, registry),
		netting.NewNetter(catalog, registry),
		planning.NewPlanner(catalog),
		fulfillment.NewAggregator(),
		inventory,
		orders,
		c.logger,
	)

	roots := make([]*dto.RootDemand, 0, len(demands))
	for _, demand := range demands {
		roots = append(roots, &dto.RootDemand{
			SKU:        demand.SKU,
			Quantity:   demand.Quantity,
			RequiredBy: demand.RequiredBy,
			Source:     demand.Source,
		})
	}

	started := time.Now()
	result, err := orchestrator.RunPlanning(ctx, roots)
	if err != nil {
		return fmt.Errorf("error running planning: %w", err)
	}
	elapsed := time.Since(started)

	if store != nil && len(result.PlannedOrders) > 0 {
		if err := store.SavePlannedOrders(result.PlannedOrders); err != nil {
			return fmt.Errorf("error saving planned orders: %w", err)
		}
		c.logger.Info("saved planned orders", zap.Int("count", len(result.PlannedOrders)))
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Elapsed:   elapsed,
	}
	if err := output.Generate(result, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

// loadSupply loads optional inventory and receipt files. A scenario with
// no inventory file plans from an empty snapshot.
func (c *PlanCommand) loadSupply(loader *csv.Loader, files map[string]string, inventory *memory.InventoryRepository) error {
	if path, ok := files["Inventory"]; ok {
		balances, err := loader.LoadInventory(path)
		if err != nil {
			return fmt.Errorf("error loading inventory: %w", err)
		}
		if err := inventory.LoadBalances(balances); err != nil {
			return fmt.Errorf("failed to load balances: %w", err)
		}
	}
	if path, ok := files["Receipts"]; ok {
		receipts, err := loader.LoadReceipts(path)
		if err != nil {
			return fmt.Errorf("error loading receipts: %w", err)
		}
		if err := inventory.LoadReceipts(receipts); err != nil {
			return fmt.Errorf("failed to load receipts: %w", err)
		}
	}
	return nil
}

// loadOrders loads the optional sales orders file
func (c *PlanCommand) loadOrders(loader *csv.Loader, files map[string]string, orders *memory.OrderRepository) error {
	path, ok := files["SalesOrders"]
	if !ok {
		return nil
	}
	salesOrders, err := loader.LoadSalesOrders(path)
	if err != nil {
		return fmt.Errorf("error loading sales orders: %w", err)
	}
	if err := orders.LoadSalesOrders(salesOrders); err != nil {
		return fmt.Errorf("failed to load sales orders: %w", err)
	}
	return nil
}

// validateInputs validates the command configuration
func (c *PlanCommand) validateInputs() error {
	if c.config.ScenarioDir == "" &&
		(c.config.ItemsFile == "" || c.config.BOMFile == "" || c.config.DemandsFile == "") {
		return fmt.Errorf("must specify either a scenario directory or at least items, BOM, and demands files")
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use. Items, BOM,
// and demands are required; the rest are included when present.
func (c *PlanCommand) resolveInputFiles() (map[string]string, error) {
	required := map[string]string{
		"Items":   c.config.ItemsFile,
		"BOM":     c.config.BOMFile,
		"Demands": c.config.DemandsFile,
	}
	optional := map[string]string{
		"Conversions": c.config.ConversionsFile,
		"Inventory":   c.config.InventoryFile,
		"Receipts":    c.config.ReceiptsFile,
		"SalesOrders": c.config.SalesOrdersFile,
	}

	if c.config.ScenarioDir != "" {
		required = map[string]string{
			"Items":   filepath.Join(c.config.ScenarioDir, "items.csv"),
			"BOM":     filepath.Join(c.config.ScenarioDir, "bom.csv"),
			"Demands": filepath.Join(c.config.ScenarioDir, "demands.csv"),
		}
		optional = map[string]string{
			"Conversions": filepath.Join(c.config.ScenarioDir, "conversions.csv"),
			"Inventory":   filepath.Join(c.config.ScenarioDir, "inventory.csv"),
			"Receipts":    filepath.Join(c.config.ScenarioDir, "receipts.csv"),
			"SalesOrders": filepath.Join(c.config.ScenarioDir, "sales_orders.csv"),
		}
	}

	files := make(map[string]string)
	for name, path := range required {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
		files[name] = path
	}
	for name, path := range optional {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			files[name] = path
		} else if c.config.ScenarioDir == "" {
			// An explicitly named file must exist.
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	return files, nil
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Printf(`Requirements Planning CLI - netting, lot sizing, and order suggestions

USAGE:
    planner -scenario <directory>             # Use a scenario directory of CSV files
    planner -items <file> -bom <file> ...     # Use individual CSV files

OPTIONS:
    -scenario <dir>      Path to scenario directory containing CSV files
    -items <file>        Path to item catalog CSV file
    -bom <file>          Path to BOM CSV file
    -conversions <file>  Path to unit conversions CSV file (optional)
    -inventory <file>    Path to on-hand balances CSV file (optional)
    -receipts <file>     Path to scheduled receipts CSV file (optional)
    -sales-orders <file> Path to sales orders CSV file (optional)
    -demands <file>      Path to root demands CSV file
    -db <file>           SQLite database for planned-order persistence (optional)
    -output <dir>        Output directory for results (optional)
    -format <fmt>        Output format: text, json, csv, excel (default: text)
    -verbose             Enable verbose output
    -help                Show this help message

Environment variables (PLANNING_SCENARIO, PLANNING_DB, PLANNING_FORMAT, ...)
supply defaults for every option; flags override them. A .env file in the
working directory is loaded first.

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── items.csv         # Item catalog (required)
    ├── bom.csv           # Bill of materials (required)
    ├── demands.csv       # Root demands (required)
    ├── conversions.csv   # Extra unit conversions (optional)
    ├── inventory.csv     # On-hand balances (optional)
    ├── receipts.csv      # Open scheduled receipts (optional)
    └── sales_orders.csv  # Sales orders for fulfillment status (optional)

CSV FILE FORMATS:

items.csv:
    sku,description,base_unit,standard_cost,procurement,lead_time_days,purchase_unit,purchase_factor,min_order_qty,order_multiple,safety_stock
    PLA-RED,Red PLA filament,G,0.02,Buy,7,KG,1000,1000,500,0

bom.csv:
    parent_sku,component_sku,quantity_per,unit,scrap_factor,operation,consume_stage,is_optional,is_cost_only
    WIDGET,PLA-RED,37,G,0.05,PRINT,production,false,false

demands.csv:
    sku,quantity,required_by,source
    WIDGET,10,2025-09-15,SO-1001

inventory.csv:
    sku,location,on_hand,allocated
    PLA-RED,MAIN,500,200

receipts.csv:
    sku,quantity,unit,source,reference,expected_date
    PLA-RED,2,KG,purchase,PO-100,2025-09-05

sales_orders.csv:
    order_id,order_number,status,required_by,sku,ordered,shipped
    SO-1001,SO-1001,Open,2025-09-15,WIDGET,10,0

EXAMPLES:
    # Plan a scenario directory
    planner -scenario scenarios/print_shop -verbose

    # Persist suggestions so reruns are idempotent
    planner -scenario scenarios/print_shop -db planning.db

    # Export an Excel workbook for purchasing
    planner -scenario scenarios/print_shop -format excel -output results/
`)
}
