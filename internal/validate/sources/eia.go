package sources

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ppiankov/clearview/internal/route"
)

const eiaDefaultBaseURL = "https://api.eia.gov"

// EIA queries the US Energy Information Administration open data API,
// mainly for bilateral energy trade series. Many series work without a
// key, so the key is optional.
type EIA struct {
	client  *Client
	apiKey  string
	baseURL string
}

// NewEIA creates the EIA adapter
func NewEIA(client *Client, apiKey string) *EIA {
	return &EIA{client: client, apiKey: apiKey, baseURL: eiaDefaultBaseURL}
}

// Name returns the source name
func (e *EIA) Name() string { return route.SourceEIA }

type eiaResponse struct {
	Response struct {
		Data []struct {
			Period string   `json:"period"`
			Value  *float64 `json:"value"`
		} `json:"data"`
	} `json:"response"`
}

// Fetch retrieves the most recent values for a series.
// Required params: series_id, series_label.
func (e *EIA) Fetch(ctx context.Context, params map[string]string) (*Observation, error) {
	seriesID := params["series_id"]
	if seriesID == "" {
		return nil, fmt.Errorf("missing series_id")
	}

	q := url.Values{}
	if e.apiKey != "" {
		q.Set("api_key", e.apiKey)
	}
	q.Set("data[0]", "value")
	q.Set("sort[0][column]", "period")
	q.Set("sort[0][direction]", "desc")
	q.Set("length", "12")

	var resp eiaResponse
	reqURL := e.baseURL + "/v2/seriesid/" + url.PathEscape(seriesID) + "?" + q.Encode()
	if err := e.client.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}

	var recent []DataPoint
	for _, rec := range resp.Response.Data {
		if rec.Value == nil {
			continue
		}
		recent = append(recent, DataPoint{Date: rec.Period, Value: *rec.Value})
		if len(recent) == 6 {
			break
		}
	}
	if len(recent) == 0 {
		return nil, fmt.Errorf("no data returned for series %s", seriesID)
	}

	latest := recent[0]
	return &Observation{
		SourceName: "EIA, US Energy Information Administration",
		Label:      params["series_label"],
		Value:      latest.Value,
		HasValue:   true,
		Unit:       UnitVolume,
		Date:       latest.Date,
		URL:        "https://www.eia.gov/opendata/",
		Recent:     recent,
		Raw: map[string]interface{}{
			"series_id":     seriesID,
			"recent_values": recent,
		},
	}, nil
}
