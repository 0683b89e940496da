package market

import "fmt"

// Briefing is the narrative block shown next to the charts. None of its
// figures are computed from data: they are fixed editorial placeholders and
// are flagged as such so clients do not present them as measurements.
type Briefing struct {
	Product           string      `json:"product"`
	Placeholder       bool        `json:"placeholder"`
	PriceTrend        string      `json:"priceTrend"`
	ZonesOnAlert      string      `json:"zonesOnAlert"`
	Headline          string      `json:"headline"`
	Forecast          string      `json:"forecast"`
	RecommendedAction string      `json:"recommendedAction"`
	WorldIndex        []IndexStep `json:"worldIndex"`
}

// IndexStep is one month of the freight and raw-material index.
type IndexStep struct {
	Month int     `json:"month"`
	Index float64 `json:"index"`
}

var worldIndex = []float64{100, 105, 120, 150, 140, 160}

// NewBriefing returns the placeholder briefing for a product.
func NewBriefing(product string) Briefing {
	steps := make([]IndexStep, len(worldIndex))
	for i, v := range worldIndex {
		steps[i] = IndexStep{Month: i + 1, Index: v}
	}
	return Briefing{
		Product:           product,
		Placeholder:       true,
		PriceTrend:        "+2.5%",
		ZonesOnAlert:      "2 Zones",
		Headline:          fmt.Sprintf("Le segment %s subit une pression logistique majeure.", product),
		Forecast:          "Prévision de hausse : +12% sous 15 jours.",
		RecommendedAction: "Libérer les stocks régulateurs.",
		WorldIndex:        steps,
	}
}

// DefaultCommentary is the note text proposed before the user edits it.
func DefaultCommentary(product string) string {
	return fmt.Sprintf("Analyse du %s : Les stocks sont suffisants à Conakry mais critiques en Haute-Guinée...", product)
}
