package sources

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ppiankov/clearview/internal/route"
)

const restCountriesDefaultBaseURL = "https://restcountries.com"

// RESTCountries queries the REST Countries API for basic geopolitical
// facts: population, capital, region, borders, area.
type RESTCountries struct {
	client  *Client
	baseURL string
}

// NewRESTCountries creates the REST Countries adapter
func NewRESTCountries(client *Client) *RESTCountries {
	return &RESTCountries{client: client, baseURL: restCountriesDefaultBaseURL}
}

// Name returns the source name
func (r *RESTCountries) Name() string { return route.SourceRESTCountries }

type restCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Capital    []string `json:"capital"`
	Population float64  `json:"population"`
	Region     string   `json:"region"`
	Subregion  string   `json:"subregion"`
	Borders    []string `json:"borders"`
	Area       float64  `json:"area"`
}

// Fetch retrieves country facts. Required params: country (common name).
func (r *RESTCountries) Fetch(ctx context.Context, params map[string]string) (*Observation, error) {
	country := params["country"]
	if country == "" {
		return nil, fmt.Errorf("missing country")
	}

	reqURL := fmt.Sprintf("%s/v3.1/name/%s?fields=name,capital,population,region,subregion,borders,area",
		r.baseURL, url.PathEscape(country))

	var countries []restCountry
	if err := r.client.GetJSON(ctx, reqURL, &countries); err != nil {
		return nil, err
	}
	if len(countries) == 0 {
		return nil, fmt.Errorf("country not found: %q", country)
	}

	c := countries[0]
	capital := "Unknown"
	if len(c.Capital) > 0 {
		capital = c.Capital[0]
	}

	// Population is the one reliably numeric fact, so it becomes the value
	// the verdict engine compares against.
	return &Observation{
		SourceName: "REST Countries API",
		Label:      fmt.Sprintf("Population, %s", c.Name.Common),
		Value:      c.Population,
		HasValue:   c.Population > 0,
		Unit:       UnitCount,
		URL:        "https://restcountries.com/",
		Raw: map[string]interface{}{
			"name":       c.Name.Common,
			"capital":    capital,
			"population": c.Population,
			"region":     c.Region,
			"subregion":  c.Subregion,
			"borders":    c.Borders,
			"area_km2":   c.Area,
		},
	}, nil
}
