package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/printforge/planning/pkg/domain/entities"
	"github.com/printforge/planning/pkg/domain/uom"
	"github.com/printforge/planning/pkg/infrastructure/repositories/memory"
)

// Scenario bundles the repositories and registry for a test fixture
type Scenario struct {
	Catalog   *memory.CatalogRepository
	Inventory *memory.InventoryRepository
	Orders    *memory.OrderRepository
	Registry  *uom.Registry
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Day returns midnight UTC of a fixed scenario date plus an offset
func Day(offset int) time.Time {
	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

// BuildPrintShopScenario builds the print-shop fixture used across the
// service tests: a printed widget consuming filament by the gram (bought
// by the kilogram spool), packed in boxes, with a printer kit
// sub-assembly tree on top.
func BuildPrintShopScenario() (*Scenario, error) {
	catalog := memory.NewCatalogRepository()
	inventory := memory.NewInventoryRepository()
	orders := memory.NewOrderRepository()

	registry, err := uom.StandardRegistry()
	if err != nil {
		return nil, err
	}

	if err := catalog.LoadUnits(uom.StandardUnits()); err != nil {
		return nil, err
	}
	if err := catalog.LoadConversionEdges(uom.StandardEdges()); err != nil {
		return nil, err
	}

	widget, err := entities.NewItem("WIDGET", "Printed widget", uom.Each, d("1.85"), entities.Make, 2)
	if err != nil {
		return nil, err
	}

	pla, err := entities.NewItem("PLA-RED", "Red PLA filament", uom.Gram, d("0.02"), entities.Buy, 7)
	if err != nil {
		return nil, err
	}
	if _, err := pla.WithPurchaseUnit(uom.Kilogram, d("1000")); err != nil {
		return nil, err
	}
	pla.WithLotSizing(d("1000"), d("500"))

	box, err := entities.NewItem("BOX-S", "Small shipping box", uom.Each, d("0.40"), entities.Buy, 3)
	if err != nil {
		return nil, err
	}
	box.WithLotSizing(d("50"), decimal.Zero)

	label, err := entities.NewItem("LABEL-STD", "Standard label sheet", uom.Each, d("0.05"), entities.Buy, 3)
	if err != nil {
		return nil, err
	}

	pva, err := entities.NewItem("PVA-SUPPORT", "PVA support filament", uom.Gram, d("0.08"), entities.Buy, 10)
	if err != nil {
		return nil, err
	}
	if _, err := pva.WithPurchaseUnit(uom.Kilogram, d("1000")); err != nil {
		return nil, err
	}

	kit, err := entities.NewItem("PRINTER-KIT", "Printer starter kit", uom.Each, d("0"), entities.Make, 5)
	if err != nil {
		return nil, err
	}

	frame, err := entities.NewItem("FRAME-KIT", "Frame sub-assembly", uom.Each, d("0"), entities.Make, 4)
	if err != nil {
		return nil, err
	}

	extrusion, err := entities.NewItem("EXTRUSION-2020", "2020 aluminum extrusion", uom.Meter, d("3.20"), entities.Buy, 14)
	if err != nil {
		return nil, err
	}

	if err := catalog.LoadItems([]*entities.Item{widget, pla, box, label, pva, kit, frame, extrusion}); err != nil {
		return nil, err
	}

	// WIDGET: 37g PLA at PRINT (5% scrap), box and label at PACK,
	// optional PVA supports, label is cost-only.
	widgetPLA, err := entities.NewBOMLine("WIDGET", "PLA-RED", d("37"), uom.Gram, d("0.05"))
	if err != nil {
		return nil, err
	}
	widgetPLA.WithOperation("PRINT", entities.ConsumeAtProduction)

	widgetPVA, err := entities.NewBOMLine("WIDGET", "PVA-SUPPORT", d("4"), uom.Gram, decimal.Zero)
	if err != nil {
		return nil, err
	}
	widgetPVA.WithOperation("PRINT", entities.ConsumeAtProduction).WithFlags(false, true)

	widgetBox, err := entities.NewBOMLine("WIDGET", "BOX-S", d("1"), uom.Each, decimal.Zero)
	if err != nil {
		return nil, err
	}
	widgetBox.WithOperation("PACK", entities.ConsumeAtShipping)

	widgetLabel, err := entities.NewBOMLine("WIDGET", "LABEL-STD", d("1"), uom.Each, decimal.Zero)
	if err != nil {
		return nil, err
	}
	widgetLabel.WithFlags(true, false)

	// PRINTER-KIT: two widgets plus a frame; the frame consumes 1.2m of
	// extrusion declared in centimeters to exercise the registry.
	kitWidget, err := entities.NewBOMLine("PRINTER-KIT", "WIDGET", d("2"), uom.Each, decimal.Zero)
	if err != nil {
		return nil, err
	}
	kitFrame, err := entities.NewBOMLine("PRINTER-KIT", "FRAME-KIT", d("1"), uom.Each, decimal.Zero)
	if err != nil {
		return nil, err
	}
	frameExtrusion, err := entities.NewBOMLine("FRAME-KIT", "EXTRUSION-2020", d("120"), uom.Centimeter, decimal.Zero)
	if err != nil {
		return nil, err
	}
	frameExtrusion.WithOperation("ASSEMBLE", entities.ConsumeAtProduction)

	err = catalog.LoadBOMLines([]*entities.BOMLine{
		widgetPLA, widgetPVA, widgetBox, widgetLabel,
		kitWidget, kitFrame, frameExtrusion,
	})
	if err != nil {
		return nil, err
	}

	return &Scenario{
		Catalog:   catalog,
		Inventory: inventory,
		Orders:    orders,
		Registry:  registry,
	}, nil
}

// WithBalance adds an on-hand balance to the scenario
func (s *Scenario) WithBalance(sku entities.SKU, location, onHand, allocated string) error {
	bal := &entities.OnHandBalance{
		SKU:       sku,
		Location:  location,
		OnHand:    d(onHand),
		Allocated: d(allocated),
	}
	return s.Inventory.LoadBalances([]*entities.OnHandBalance{bal})
}

// WithReceipt adds an open scheduled receipt to the scenario
func (s *Scenario) WithReceipt(sku entities.SKU, qty string, unit entities.UnitCode, source entities.SupplySource, reference string, expected time.Time) error {
	receipt, err := entities.NewScheduledReceipt(sku, d(qty), unit, source, reference, expected)
	if err != nil {
		return err
	}
	return s.Inventory.LoadReceipts([]*entities.ScheduledReceipt{receipt})
}
