// Package charts renders PNG charts of a filtered market view.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/i474232898/commodity-dashboard/internal/market"
)

// Kind names a chart.
type Kind string

const (
	KindPrice    Kind = "price"
	KindCoverage Kind = "coverage"
	KindStock    Kind = "stock"
	KindMap      Kind = "map"
)

// Kinds lists every chart in display order.
var Kinds = []Kind{KindPrice, KindCoverage, KindStock, KindMap}

var (
	// ErrNoData is returned when asked to chart an empty view.
	ErrNoData = errors.New("no data to chart")
	// ErrUnknownKind is returned for an unsupported chart name.
	ErrUnknownKind = errors.New("unknown chart kind")
)

var (
	guineaRed   = color.RGBA{R: 0xce, G: 0x11, B: 0x26, A: 255}
	guineaGreen = color.RGBA{R: 0x00, G: 0x94, B: 0x60, A: 255}
	guineaGold  = color.RGBA{R: 0xfc, G: 0xd1, B: 0x16, A: 255}
)

const (
	width  = 10 * vg.Inch
	height = 6 * vg.Inch
)

// ParseKind validates a chart name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// WritePNG renders the chart of the given kind for view as a PNG image.
func WritePNG(w io.Writer, kind Kind, view market.View) error {
	if len(view.Rows) == 0 {
		return ErrNoData
	}

	var (
		p   *plot.Plot
		err error
	)
	switch kind {
	case KindPrice:
		p, err = priceByRegion(view)
	case KindCoverage:
		p, err = coverageByRegion(view)
	case KindStock:
		p, err = stockByRegion(view)
	case KindMap:
		p, err = tensionMap(view)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render %s chart: %w", kind, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func regionLabels(rows []market.ViewRow) []string {
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Region
	}
	return labels
}

// barPlot builds a bar chart with one bar per row and a text label above each bar.
func barPlot(title, yLabel string, rows []market.ViewRow, values plotter.Values, valueLabels []string, fill color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = yLabel

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = fill
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.Add(plotter.NewGrid())

	p.NominalX(regionLabels(rows)...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight

	maxVal := 0.0
	for _, v := range values {
		maxVal = math.Max(maxVal, v)
	}
	p.Y.Min = 0
	if maxVal > 0 {
		p.Y.Max = maxVal * 1.15
	} else {
		p.Y.Max = 1
	}

	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v + p.Y.Max*0.02}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: valueLabels})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(labels)

	return p, nil
}

func priceByRegion(view market.View) (*plot.Plot, error) {
	values := make(plotter.Values, len(view.Rows))
	labels := make([]string, len(view.Rows))
	for i, r := range view.Rows {
		values[i] = r.PriceGNF
		labels[i] = fmt.Sprintf("%.0f", r.PriceGNF)
	}
	return barPlot("Comparatif des Prix par Région - "+view.Product, "Prix (GNF)", view.Rows, values, labels, guineaRed)
}

func coverageByRegion(view market.View) (*plot.Plot, error) {
	values := make(plotter.Values, len(view.Rows))
	labels := make([]string, len(view.Rows))
	for i, r := range view.Rows {
		if r.CoverageDays == nil {
			labels[i] = "n/a"
			continue
		}
		values[i] = *r.CoverageDays
		labels[i] = fmt.Sprintf("%.1f j", *r.CoverageDays)
	}
	return barPlot("Autonomie en jours (par Région) - "+view.Product, "Couverture (jours)", view.Rows, values, labels, guineaGreen)
}

func stockByRegion(view market.View) (*plot.Plot, error) {
	total := 0.0
	for _, r := range view.Rows {
		total += r.StockTons
	}

	values := make(plotter.Values, len(view.Rows))
	labels := make([]string, len(view.Rows))
	for i, r := range view.Rows {
		if total > 0 {
			values[i] = r.StockTons / total * 100
		}
		labels[i] = fmt.Sprintf("%.1f%%", values[i])
	}
	return barPlot("Répartition des Stocks - "+view.Product, "Part du stock total (%)", view.Rows, values, labels, guineaGold)
}

// tensionMap places one marker per region at its coordinates, sized by price.
func tensionMap(view market.View) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Carte des Tensions - " + view.Product
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	points := make(plotter.XYs, len(view.Rows))
	maxSize := 0.0
	for i, r := range view.Rows {
		points[i] = plotter.XY{X: r.Lon, Y: r.Lat}
		maxSize = math.Max(maxSize, r.MarkerSize)
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		radius := vg.Points(4)
		if maxSize > 0 {
			radius = vg.Points(4 + 14*view.Rows[i].MarkerSize/maxSize)
		}
		return draw.GlyphStyle{Color: guineaRed, Radius: radius, Shape: draw.CircleGlyph{}}
	}
	p.Add(scatter)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: regionLabels(view.Rows)})
	if err != nil {
		return nil, err
	}
	labels.Offset = vg.Point{X: vg.Points(8), Y: vg.Points(8)}
	p.Add(labels)
	p.Add(plotter.NewGrid())

	// pad so markers at the edges are not clipped
	p.X.Min, p.X.Max = padRange(p.X.Min, p.X.Max)
	p.Y.Min, p.Y.Max = padRange(p.Y.Min, p.Y.Max)

	return p, nil
}

func padRange(lo, hi float64) (float64, float64) {
	pad := (hi - lo) * 0.15
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}
