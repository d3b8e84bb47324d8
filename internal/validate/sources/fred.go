package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ppiankov/clearview/internal/route"
)

const fredDefaultBaseURL = "https://api.stlouisfed.org"

// FRED queries the Federal Reserve Bank of St. Louis economic data API
type FRED struct {
	client  *Client
	apiKey  string
	baseURL string
}

// NewFRED creates the FRED adapter. The API key is free but mandatory.
func NewFRED(client *Client, apiKey string) *FRED {
	return &FRED{client: client, apiKey: apiKey, baseURL: fredDefaultBaseURL}
}

// Name returns the source name
func (f *FRED) Name() string { return route.SourceFRED }

// What each supported series measures. CPIAUCSL is an index level, not an
// inflation rate, so a percentage claim must never be value-compared to it.
var fredSeriesUnits = map[string]string{
	"A191RL1Q225SBEA": UnitPercent,
	"UNRATE":          UnitPercent,
	"FEDFUNDS":        UnitPercent,
	"CPIAUCSL":        UnitIndex,
	"DTWEXBGS":        UnitIndex,
	"GDP":             UnitCurrency,
	"BOPGSTB":         UnitCurrency,
	"DCOILWTICO":      UnitCurrency,
	"DCOILBRENTEU":    UnitCurrency,
	"GFDEBTN":         UnitCurrency,
	"M2SL":            UnitCurrency,
	"EXPGS":           UnitCurrency,
	"IMPGS":           UnitCurrency,
}

type fredResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Fetch retrieves the most recent observations for a series.
// Required params: series_id, series_label.
func (f *FRED) Fetch(ctx context.Context, params map[string]string) (*Observation, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("FRED API key not configured")
	}
	seriesID := params["series_id"]
	if seriesID == "" {
		return nil, fmt.Errorf("missing series_id")
	}

	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", f.apiKey)
	q.Set("file_type", "json")
	q.Set("sort_order", "desc")
	q.Set("limit", "5")
	q.Set("observation_start", "2020-01-01")

	var resp fredResponse
	reqURL := f.baseURL + "/fred/series/observations?" + q.Encode()
	if err := f.client.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}

	// FRED reports gaps as "."
	var recent []DataPoint
	for _, o := range resp.Observations {
		if o.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		recent = append(recent, DataPoint{Date: o.Date, Value: v})
		if len(recent) == 3 {
			break
		}
	}
	if len(recent) == 0 {
		return nil, fmt.Errorf("no data returned for series %s", seriesID)
	}

	latest := recent[0]
	return &Observation{
		SourceName: "FRED, Federal Reserve Bank of St. Louis",
		Label:      params["series_label"],
		Value:      latest.Value,
		HasValue:   true,
		Unit:       fredSeriesUnits[seriesID],
		Date:       latest.Date,
		URL:        "https://fred.stlouisfed.org/series/" + seriesID,
		Recent:     recent,
		Raw: map[string]interface{}{
			"series_id":     seriesID,
			"recent_values": recent,
		},
	}, nil
}
