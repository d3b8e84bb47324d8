package sources

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/ppiankov/clearview/internal/route"
)

const eurostatDefaultBaseURL = "https://ec.europa.eu/eurostat/api/dissemination/statistics/1.0/data"

// Dataset keys the router emits, mapped to Eurostat datasets with the
// dimension filters that pin each one down to a single series
var eurostatDatasets = map[string]struct {
	Dataset string
	Params  map[string]string
	Label   string
	Unit    string
}{
	"eu_gas_supply":        {"nrg_t_gasgov", map[string]string{"geo": "EU"}, "EU Natural Gas Supply by Source (TJ)", UnitVolume},
	"eu_gas_russia":        {"nrg_t_gasgov", map[string]string{"geo": "EU", "partner": "RU"}, "EU Gas Imports from Russia (TJ)", UnitVolume},
	"eu_electricity_price": {"nrg_pc_205", map[string]string{"geo": "DE", "consom": "4161903"}, "Germany Industrial Electricity Price (EUR/kWh)", UnitCurrency},
	"eu_energy_dependency": {"nrg_ind_id", map[string]string{"geo": "EU"}, "EU Energy Import Dependency (%)", UnitPercent},
	"de_manufacturing":     {"sts_inpr_m", map[string]string{"geo": "DE", "nace_r2": "C"}, "Germany Manufacturing Output Index", UnitIndex},
}

// Eurostat queries the EU statistical office dissemination API.
// No API key required.
type Eurostat struct {
	client  *Client
	baseURL string
}

// NewEurostat creates the Eurostat adapter
func NewEurostat(client *Client) *Eurostat {
	return &Eurostat{client: client, baseURL: eurostatDefaultBaseURL}
}

// Name returns the source name
func (e *Eurostat) Name() string { return route.SourceEurostat }

// eurostatResponse is the slice of the JSON-stat envelope we need: the
// flat value map plus the time dimension's label-to-position index
type eurostatResponse struct {
	Value     map[string]float64 `json:"value"`
	Dimension struct {
		Time struct {
			Category struct {
				Index map[string]int `json:"index"`
			} `json:"category"`
		} `json:"time"`
	} `json:"dimension"`
}

// Fetch retrieves the most recent periods of a dataset.
// Required params: dataset (router key).
func (e *Eurostat) Fetch(ctx context.Context, params map[string]string) (*Observation, error) {
	ds, ok := eurostatDatasets[params["dataset"]]
	if !ok {
		return nil, fmt.Errorf("unknown dataset: %q", params["dataset"])
	}

	q := url.Values{}
	q.Set("format", "JSON")
	q.Set("lang", "EN")
	q.Set("lastTimePeriod", "4")
	for k, v := range ds.Params {
		q.Set(k, v)
	}

	var resp eurostatResponse
	reqURL := e.baseURL + "/" + ds.Dataset + "?" + q.Encode()
	if err := e.client.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}
	if len(resp.Value) == 0 || len(resp.Dimension.Time.Category.Index) == 0 {
		return nil, fmt.Errorf("no data returned for dataset %s", ds.Dataset)
	}

	// The other dimensions are filtered to one category each, so the time
	// position doubles as the key into the flat value map. Newest first.
	type period struct {
		label string
		pos   int
	}
	var periods []period
	for label, pos := range resp.Dimension.Time.Category.Index {
		periods = append(periods, period{label, pos})
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].pos > periods[j].pos })

	var recent []DataPoint
	for _, p := range periods {
		v, ok := resp.Value[strconv.Itoa(p.pos)]
		if !ok {
			continue
		}
		recent = append(recent, DataPoint{Date: p.label, Value: v})
		if len(recent) == 4 {
			break
		}
	}
	if len(recent) == 0 {
		return nil, fmt.Errorf("no values found for dataset %s", ds.Dataset)
	}

	latest := recent[0]
	return &Observation{
		SourceName: "Eurostat, European Union Statistical Office",
		Label:      ds.Label,
		Value:      latest.Value,
		HasValue:   true,
		Unit:       ds.Unit,
		Date:       latest.Date,
		URL:        "https://ec.europa.eu/eurostat/databrowser/view/" + ds.Dataset,
		Recent:     recent,
		Raw: map[string]interface{}{
			"dataset":       ds.Dataset,
			"recent_values": recent,
		},
	}, nil
}
