package market

// Region is a fixed administrative zone used to partition all data.
type Region struct {
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Remote bool    `json:"remote"` // remote zones carry a transport surcharge
}

// Product is a tracked commodity with its reference price in GNF.
type Product struct {
	Name      string  `json:"name"`
	BasePrice float64 `json:"basePrice"`
}

const (
	remoteDistanceFactor = 1.3
	localDistanceFactor  = 1.0

	minPriceFactor = 0.9
	maxPriceFactor = 1.1
)

// Catalog is the enumeration the generator iterates over.
type Catalog struct {
	Regions  []Region  `json:"regions"`
	Products []Product `json:"products"`
}

// DefaultCatalog returns the reference enumeration: 8 regions by 6 products.
func DefaultCatalog() Catalog {
	return Catalog{
		Regions: []Region{
			{Name: "Conakry", Lat: 9.53, Lon: -13.67},
			{Name: "Kindia", Lat: 10.04, Lon: -12.86},
			{Name: "Boké", Lat: 10.93, Lon: -14.29},
			{Name: "Mamou", Lat: 10.37, Lon: -12.09},
			{Name: "Labé", Lat: 11.31, Lon: -12.28},
			{Name: "Faranah", Lat: 10.04, Lon: -10.74},
			{Name: "Kankan", Lat: 10.38, Lon: -9.30, Remote: true},
			{Name: "Nzérékoré", Lat: 7.75, Lon: -8.81, Remote: true},
		},
		Products: []Product{
			{Name: "Riz Local", BasePrice: 8500},
			{Name: "Riz Importé", BasePrice: 12500},
			{Name: "Sucre", BasePrice: 14000},
			{Name: "Huile Végétale", BasePrice: 250000},
			{Name: "Farine", BasePrice: 7500},
			{Name: "Ciment", BasePrice: 950000},
		},
	}
}

// Size is the number of rows one generation produces.
func (c Catalog) Size() int {
	return len(c.Regions) * len(c.Products)
}

// Region looks a region up by name.
func (c Catalog) Region(name string) (Region, bool) {
	for _, r := range c.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

// Product looks a product up by name.
func (c Catalog) Product(name string) (Product, bool) {
	for _, p := range c.Products {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}

// DistanceFactor is the transport multiplier applied to base prices in a region.
func (r Region) DistanceFactor() float64 {
	if r.Remote {
		return remoteDistanceFactor
	}
	return localDistanceFactor
}

// PriceRange returns the bounds a generated price for product in region falls within.
func PriceRange(p Product, r Region) (lo, hi float64) {
	base := p.BasePrice * r.DistanceFactor()
	return base * minPriceFactor, base * maxPriceFactor
}
