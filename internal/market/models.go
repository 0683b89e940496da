package market

import (
	"time"

	"github.com/i474232898/commodity-dashboard/internal/common"
)

// Observation is a single price/stock reading for one product in one region.
type Observation struct {
	Date           time.Time `json:"date"`
	Region         string    `json:"region"`
	Product        string    `json:"product"`
	PriceGNF       float64   `json:"priceGnf"`
	StockTons      float64   `json:"stockTons"`
	WeeklyNeedTons float64   `json:"weeklyNeedTons"`
	Lat            float64   `json:"lat"`
	Lon            float64   `json:"lon"`
}

// Table is an ordered set of observations. Row order is significant and is
// preserved by every operation in this package.
type Table []Observation

// Products returns the distinct products of the table in order of first appearance.
func (t Table) Products() []string {
	names := make([]string, 0, len(t))
	for _, o := range t {
		names = append(names, o.Product)
	}
	return common.Unique(names)
}

// Regions returns the distinct regions of the table in order of first appearance.
func (t Table) Regions() []string {
	names := make([]string, 0, len(t))
	for _, o := range t {
		names = append(names, o.Region)
	}
	return common.Unique(names)
}

// Dataset is one loaded table together with where and when it came from.
// A dataset is never modified after it is stored.
type Dataset struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loadedAt"` // always UTC
	Table    Table     `json:"-"`
}

// DatasetInfo is the listing view of a Dataset.
type DatasetInfo struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loadedAt"`
	Rows     int       `json:"rows"`
}

// Info summarises the dataset without its rows.
func (d Dataset) Info() DatasetInfo {
	return DatasetInfo{
		ID:       d.ID,
		Source:   d.Source,
		LoadedAt: d.LoadedAt,
		Rows:     len(d.Table),
	}
}
