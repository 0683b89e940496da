package report

import (
	"fmt"
	"io"
	"strings"

	"codeberg.org/go-fonts/liberation/liberationsansbold"
	"codeberg.org/go-fonts/liberation/liberationsansitalic"
	"codeberg.org/go-fonts/liberation/liberationsansregular"
	"codeberg.org/go-pdf/fpdf"
)

// fontFamily is embedded as UTF-8 TrueType so text outside cp1252 is kept verbatim.
const fontFamily = "LiberationSans"

var tableColumns = []struct {
	header string
	width  float64
}{
	{"Région", 40},
	{"Prix (GNF)", 35},
	{"Stock (T)", 30},
	{"Besoin hebdo (T)", 35},
	{"Couverture (j)", 30},
}

// WritePDF renders the note as an A4 PDF document.
func WritePDF(w io.Writer, n Note) error {
	pdf := renderPDF(n)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

func newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", liberationsansregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", liberationsansbold.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", liberationsansitalic.TTF)
	return pdf
}

func renderPDF(n Note) *fpdf.Fpdf {
	pdf := newDocument()
	pdf.SetTitle(Title, true)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 18)
	pdf.SetTextColor(0x00, 0x94, 0x60)
	pdf.CellFormat(0, 10, Title, "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s | Analyse du : %s", Ministry, n.Date.Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 8, "Produit : "+n.View.Product, "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.CellFormat(0, 6, "Zones : "+strings.Join(n.View.Regions, ", "), "", 1, "L", false, 0, "")

	s := n.View.Summary
	pdf.CellFormat(0, 6, "Prix moyen : "+formatOptional(s.AveragePrice, "GNF"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Stock total : "+formatOptional(s.TotalStock, "T"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 8, "Observations du Cabinet", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(0, 6, n.Commentary, "", "L", false)
	pdf.Ln(4)

	if len(n.View.Rows) == 0 {
		pdf.SetFont(fontFamily, "I", 11)
		pdf.CellFormat(0, 6, "Aucune donnée pour la sélection.", "", 1, "L", false, 0, "")
	} else {
		writeTable(pdf, n)
	}
	return pdf
}

func writeTable(pdf *fpdf.Fpdf, n Note) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(0xfc, 0xd1, 0x16)
	for _, col := range tableColumns {
		pdf.CellFormat(col.width, 7, col.header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 10)
	for _, r := range n.View.Rows {
		coverage := "n/a"
		if r.CoverageDays != nil {
			coverage = fmt.Sprintf("%.1f", *r.CoverageDays)
		}
		cells := []string{
			r.Region,
			formatAmount(r.PriceGNF),
			formatAmount(r.StockTons),
			formatAmount(r.WeeklyNeedTons),
			coverage,
		}
		for i, col := range tableColumns {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(col.width, 6, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}
