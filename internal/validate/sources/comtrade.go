package sources

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/clearview/internal/route"
)

const comtradeDefaultBaseURL = "https://comtradeapi.un.org"

// UN numeric reporter codes for the countries the router can name
var comtradeReporterCodes = map[string]string{
	"US": "842", "CN": "156", "RU": "643", "IN": "356", "DE": "276",
	"FR": "251", "GB": "826", "JP": "392", "BR": "76", "CA": "124",
	"AU": "36", "KR": "410", "SA": "682", "IR": "364", "TR": "792",
	"UA": "804", "NG": "566", "ZA": "710", "EG": "818", "NL": "528",
}

// HS commodity codes keyed the way the router emits them
var comtradeCommodityCodes = map[string]string{
	"crude_oil":          "2709",
	"natural_gas":        "2711",
	"petroleum_products": "2710",
	"coal":               "2701",
	"iron_steel":         "72",
	"wheat":              "1001",
	"arms_weapons":       "93",
	"semiconductors":     "8542",
	"vehicles":           "87",
	"total_trade":        "TOTAL",
}

// Comtrade queries the UN Comtrade public preview API for bilateral trade
// flows. No API key is required for preview queries.
type Comtrade struct {
	client  *Client
	baseURL string
	year    string
}

// NewComtrade creates the UN Comtrade adapter
func NewComtrade(client *Client) *Comtrade {
	return &Comtrade{client: client, baseURL: comtradeDefaultBaseURL, year: "2023"}
}

// Name returns the source name
func (c *Comtrade) Name() string { return route.SourceComtrade }

type comtradeRecord struct {
	PartnerCode  int     `json:"partnerCode"`
	PartnerDesc  string  `json:"partnerDesc"`
	FlowDesc     string  `json:"flowDesc"`
	PrimaryValue float64 `json:"primaryValue"`
}

type comtradeResponse struct {
	Data []comtradeRecord `json:"data"`
}

// Fetch retrieves import flows for a reporter country and commodity.
// Required params: reporter (ISO2). Optional: partner (ISO2 or WLD), commodity.
func (c *Comtrade) Fetch(ctx context.Context, params map[string]string) (*Observation, error) {
	reporter := strings.ToUpper(params["reporter"])
	reporterCode, ok := comtradeReporterCodes[reporter]
	if !ok {
		return nil, fmt.Errorf("unknown reporter country code: %q", params["reporter"])
	}

	commodityKey := params["commodity"]
	commodityCode, ok := comtradeCommodityCodes[commodityKey]
	if !ok {
		commodityCode = commodityKey
	}

	q := url.Values{}
	q.Set("reporterCode", reporterCode)
	q.Set("period", c.year)
	q.Set("cmdCode", commodityCode)
	q.Set("flowCode", "M")
	q.Set("format", "JSON")

	var resp comtradeResponse
	reqURL := c.baseURL + "/public/v1/preview/C/A/HS?" + q.Encode()
	if err := c.client.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no trade data found for these parameters")
	}

	records := resp.Data
	partner := strings.ToUpper(params["partner"])
	if partner != "" && partner != "WLD" {
		if partnerCode, ok := comtradeReporterCodes[partner]; ok {
			var filtered []comtradeRecord
			for _, rec := range records {
				if strconv.Itoa(rec.PartnerCode) == partnerCode {
					filtered = append(filtered, rec)
				}
			}
			// Fall back to all flows when the partner never shows up
			if len(filtered) > 0 {
				records = filtered
			}
		}
	} else {
		partner = "World"
	}

	var total float64
	for i, rec := range records {
		if i == 5 {
			break
		}
		total += rec.PrimaryValue
	}

	sorted := make([]comtradeRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PrimaryValue > sorted[j].PrimaryValue })

	topFlows := make([]map[string]interface{}, 0, 3)
	for i, rec := range sorted {
		if i == 3 {
			break
		}
		topFlows = append(topFlows, map[string]interface{}{
			"partner":   rec.PartnerDesc,
			"value_usd": rec.PrimaryValue,
			"flow":      rec.FlowDesc,
		})
	}

	return &Observation{
		SourceName: "UN Comtrade Database",
		Label:      fmt.Sprintf("%s imports of %s (%s)", reporter, commodityKey, c.year),
		Value:      total,
		HasValue:   true,
		Unit:       UnitCurrency,
		Date:       c.year,
		URL:        "https://comtradeplus.un.org/",
		Raw: map[string]interface{}{
			"reporter":        reporter,
			"partner":         partner,
			"commodity":       commodityKey,
			"commodity_code":  commodityCode,
			"total_value_usd": total,
			"top_flows":       topFlows,
		},
	}, nil
}
