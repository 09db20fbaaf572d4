package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/printforge/planning/pkg/interfaces/cli/commands"
)

func main() {
	defaults, err := commands.LoadConfigDefaults()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var (
		scenarioDir = flag.String(
			"scenario",
			defaults.ScenarioDir,
			"Path to scenario directory containing CSV files",
		)
		itemsFile       = flag.String("items", defaults.ItemsFile, "Path to item catalog CSV file")
		bomFile         = flag.String("bom", defaults.BOMFile, "Path to BOM CSV file")
		conversionsFile = flag.String("conversions", defaults.ConversionsFile, "Path to unit conversions CSV file")
		inventoryFile   = flag.String("inventory", defaults.InventoryFile, "Path to on-hand balances CSV file")
		receiptsFile    = flag.String("receipts", defaults.ReceiptsFile, "Path to scheduled receipts CSV file")
		salesOrdersFile = flag.String("sales-orders", defaults.SalesOrdersFile, "Path to sales orders CSV file")
		demandsFile     = flag.String("demands", defaults.DemandsFile, "Path to root demands CSV file")
		databaseFile    = flag.String("db", defaults.DatabaseFile, "SQLite database for planned-order persistence")
		outputDir       = flag.String("output", defaults.OutputDir, "Output directory for results (optional)")
		format          = flag.String("format", defaults.Format, "Output format: text, json, csv, excel")
		verbose         = flag.Bool("verbose", defaults.Verbose, "Enable verbose output")
		help            = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	config := commands.Config{
		ScenarioDir:     *scenarioDir,
		ItemsFile:       *itemsFile,
		BOMFile:         *bomFile,
		ConversionsFile: *conversionsFile,
		InventoryFile:   *inventoryFile,
		ReceiptsFile:    *receiptsFile,
		SalesOrdersFile: *salesOrdersFile,
		DemandsFile:     *demandsFile,
		DatabaseFile:    *databaseFile,
		OutputDir:       *outputDir,
		Format:          *format,
		Verbose:         *verbose,
		Help:            *help,
	}

	cmd, err := commands.NewPlanCommand(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
