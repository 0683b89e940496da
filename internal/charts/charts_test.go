package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/commodity-dashboard/internal/market"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleView() market.View {
	return market.BuildView(market.Table{
		{Region: "Conakry", Product: "Riz Local", PriceGNF: 8500, StockTons: 700, WeeklyNeedTons: 700, Lat: 9.53, Lon: -13.67},
		{Region: "Kankan", Product: "Riz Local", PriceGNF: 11000, StockTons: 300, WeeklyNeedTons: 0, Lat: 10.38, Lon: -9.3},
		{Region: "Labé", Product: "Riz Local", PriceGNF: 9200, StockTons: 0, WeeklyNeedTons: 150, Lat: 11.31, Lon: -12.28},
	}, "Riz Local", []string{"Conakry", "Kankan", "Labé"})
}

func TestWritePNG_AllKinds(t *testing.T) {
	view := sampleView()
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WritePNG(&buf, kind, view))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestWritePNG_SingleRegion(t *testing.T) {
	view := sampleView()
	view.Rows = view.Rows[:1]

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, KindMap, view))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestWritePNG_EmptyView(t *testing.T) {
	view := market.BuildView(nil, "Riz Local", nil)

	var buf bytes.Buffer
	assert.ErrorIs(t, WritePNG(&buf, KindPrice, view), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestWritePNG_UnknownKind(t *testing.T) {
	assert.ErrorIs(t, WritePNG(&bytes.Buffer{}, Kind("pie"), sampleView()), ErrUnknownKind)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("coverage")
	require.NoError(t, err)
	assert.Equal(t, KindCoverage, k)

	_, err = ParseKind("Coverage")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
