package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppiankov/clearview/internal/route"
)

const worldBankDefaultBaseURL = "https://api.worldbank.org"

// Indicator keys the router emits, mapped to World Bank indicator ids
var wbIndicators = map[string]struct {
	ID    string
	Label string
	Unit  string
}{
	"gdp_current_usd":     {"NY.GDP.MKTP.CD", "GDP (Current USD)", UnitCurrency},
	"gdp_growth":          {"NY.GDP.MKTP.KD.ZG", "GDP Growth Rate (%)", UnitPercent},
	"inflation_cpi":       {"FP.CPI.TOTL.ZG", "Inflation Rate, Consumer Prices (%)", UnitPercent},
	"unemployment":        {"SL.UEM.TOTL.ZS", "Unemployment Rate (% of labour force)", UnitPercent},
	"trade_pct_gdp":       {"NE.TRD.GNFS.ZS", "Trade (% of GDP)", UnitPercent},
	"exports_pct_gdp":     {"NE.EXP.GNFS.ZS", "Exports of Goods & Services (% of GDP)", UnitPercent},
	"imports_pct_gdp":     {"NE.IMP.GNFS.ZS", "Imports of Goods & Services (% of GDP)", UnitPercent},
	"current_account_gdp": {"BN.CAB.XOKA.GD.ZS", "Current Account Balance (% of GDP)", UnitPercent},
	"military_expend_gdp": {"MS.MIL.XPND.GD.ZS", "Military Expenditure (% of GDP)", UnitPercent},
	"population":          {"SP.POP.TOTL", "Total Population", UnitCount},
	"gni_per_capita":      {"NY.GNP.PCAP.CD", "GNI Per Capita (USD)", UnitCurrency},
	"debt_pct_gdp":        {"GC.DOD.TOTL.GD.ZS", "Central Government Debt (% of GDP)", UnitPercent},
}

// WorldBank queries the World Bank Open Data indicator API
type WorldBank struct {
	client  *Client
	baseURL string
}

// NewWorldBank creates the World Bank adapter. No API key required.
func NewWorldBank(client *Client) *WorldBank {
	return &WorldBank{client: client, baseURL: worldBankDefaultBaseURL}
}

// Name returns the source name
func (w *WorldBank) Name() string { return route.SourceWorldBank }

type wbRecord struct {
	Country struct {
		Value string `json:"value"`
	} `json:"country"`
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// fetchWBSeries handles the World Bank response envelope: a two-element
// array of [metadata, records] where values may be null
func fetchWBSeries(ctx context.Context, client *Client, reqURL string) ([]wbRecord, error) {
	var envelope []json.RawMessage
	if err := client.GetJSON(ctx, reqURL, &envelope); err != nil {
		return nil, err
	}
	if len(envelope) < 2 {
		return nil, fmt.Errorf("no data returned")
	}

	var records []wbRecord
	if err := json.Unmarshal(envelope[1], &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	var nonNull []wbRecord
	for _, r := range records {
		if r.Value != nil {
			nonNull = append(nonNull, r)
		}
	}
	if len(nonNull) == 0 {
		return nil, fmt.Errorf("no non-null values found")
	}
	return nonNull, nil
}

// Fetch retrieves the most recent values of an indicator for a country.
// Required params: country (ISO2), indicator (router key).
func (w *WorldBank) Fetch(ctx context.Context, params map[string]string) (*Observation, error) {
	country := params["country"]
	if country == "" {
		return nil, fmt.Errorf("missing country")
	}
	indicator, ok := wbIndicators[params["indicator"]]
	if !ok {
		return nil, fmt.Errorf("unknown indicator: %q", params["indicator"])
	}

	reqURL := fmt.Sprintf("%s/v2/country/%s/indicator/%s?format=json&per_page=5&mrv=5",
		w.baseURL, country, indicator.ID)
	records, err := fetchWBSeries(ctx, w.client, reqURL)
	if err != nil {
		return nil, err
	}

	var recent []DataPoint
	for _, r := range records {
		recent = append(recent, DataPoint{Date: r.Date, Value: *r.Value})
		if len(recent) == 3 {
			break
		}
	}

	latest := records[0]
	countryName := latest.Country.Value
	if countryName == "" {
		countryName = country
	}

	return &Observation{
		SourceName: "World Bank Open Data",
		Label:      fmt.Sprintf("%s, %s", indicator.Label, countryName),
		Value:      *latest.Value,
		HasValue:   true,
		Unit:       indicator.Unit,
		Date:       latest.Date,
		URL:        fmt.Sprintf("https://data.worldbank.org/indicator/%s?locations=%s", indicator.ID, country),
		Recent:     recent,
		Raw: map[string]interface{}{
			"indicator_id":  indicator.ID,
			"country":       countryName,
			"recent_values": recent,
		},
	}, nil
}
