package sources

import (
	"context"
	"fmt"

	"github.com/ppiankov/clearview/internal/route"
)

// Pink Sheet indicator ids for the commodities the router knows about
var commodityIndicators = map[string]struct {
	ID    string
	Label string
}{
	"oil":         {"POILWTIUSDM", "Crude Oil (WTI), $/barrel"},
	"oil_brent":   {"POILBREUSDM", "Crude Oil (Brent), $/barrel"},
	"natural_gas": {"PNGASUSDM", "Natural Gas (US), $/mmbtu"},
	"coal":        {"PCOALAUUSDM", "Coal (Australia), $/mt"},
	"gold":        {"PGOLDUSDM", "Gold, $/troy oz"},
	"wheat":       {"PWHEAMTUSDM", "Wheat (US HRW), $/mt"},
}

// Commodity queries the World Bank commodity price data (Pink Sheet)
type Commodity struct {
	client  *Client
	baseURL string
}

// NewCommodity creates the Pink Sheet adapter
func NewCommodity(client *Client) *Commodity {
	return &Commodity{client: client, baseURL: worldBankDefaultBaseURL}
}

// Name returns the source name
func (c *Commodity) Name() string { return route.SourceCommodity }

// Fetch retrieves recent monthly prices for a commodity.
// Required params: commodity (router key). Unknown keys fall back to oil.
func (c *Commodity) Fetch(ctx context.Context, params map[string]string) (*Observation, error) {
	key := params["commodity"]
	indicator, ok := commodityIndicators[key]
	if !ok {
		key = "oil"
		indicator = commodityIndicators[key]
	}

	reqURL := fmt.Sprintf("%s/v2/country/WLD/indicator/%s?format=json&per_page=6&mrv=6",
		c.baseURL, indicator.ID)
	records, err := fetchWBSeries(ctx, c.client, reqURL)
	if err != nil {
		return nil, err
	}

	var recent []DataPoint
	for _, r := range records {
		recent = append(recent, DataPoint{Date: r.Date, Value: *r.Value})
		if len(recent) == 4 {
			break
		}
	}

	latest := records[0]
	return &Observation{
		SourceName: "World Bank Commodity Price Data (Pink Sheet)",
		Label:      indicator.Label,
		Value:      *latest.Value,
		HasValue:   true,
		Unit:       UnitCurrency,
		Date:       latest.Date,
		URL:        "https://www.worldbank.org/en/research/commodity-markets",
		Recent:     recent,
		Raw: map[string]interface{}{
			"commodity":     key,
			"indicator_id":  indicator.ID,
			"recent_values": recent,
		},
	}, nil
}
