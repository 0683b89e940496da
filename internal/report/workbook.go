package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/i474232898/commodity-dashboard/internal/market"
)

const (
	SheetView    = "Vue_Filtree"
	SheetSummary = "Synthese"

	WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var workbookHeaders = []string{"Date", "Région", "Produit", "Prix_GNF", "Stock_T", "Besoin_Hebdo", "lat", "lon", "Couverture_Jours", "Taille_Carte"}

// WriteWorkbook writes the view rows and its summary as an XLSX workbook.
func WriteWorkbook(w io.Writer, view market.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetView); err != nil {
		return err
	}

	for i, header := range workbookHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetView, cell, header); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetView, "A", "J", 16); err != nil {
		return err
	}

	for i, r := range view.Rows {
		row := i + 2
		values := []interface{}{
			r.Date.Format("2006-01-02 15:04:05"),
			r.Region,
			r.Product,
			r.PriceGNF,
			r.StockTons,
			r.WeeklyNeedTons,
			r.Lat,
			r.Lon,
			nil,
			r.MarkerSize,
		}
		if r.Date.IsZero() {
			values[0] = ""
		}
		if r.CoverageDays != nil {
			values[8] = *r.CoverageDays
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetView, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Produit", view.Product},
		{"Lignes", view.Summary.Rows},
		{"Prix moyen (GNF)", optionalCell(view.Summary.AveragePrice)},
		{"Stock total (T)", optionalCell(view.Summary.TotalStock)},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "B", 22); err != nil {
		return err
	}

	return f.Write(w)
}

func optionalCell(v *float64) interface{} {
	if v == nil {
		return "Aucune donnée"
	}
	return *v
}
