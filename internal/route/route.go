// Package route turns checkable claims into ordered data-source query plans.
// Routing is purely keyword-based and deterministic so identical claims
// always hit identical sources.
package route

import (
	"regexp"
	"strings"

	"github.com/ppiankov/clearview/internal/model"
)

// Data source names. The validate registry keys its adapters by these.
const (
	SourceFRED          = "fred"
	SourceWorldBank     = "worldbank"
	SourceComtrade      = "uncomtrade"
	SourceCommodity     = "worldbank_commodity"
	SourceRESTCountries = "rest_countries"
	SourceEIA           = "eia"
	SourceEurostat      = "eurostat"
)

// Query describes one data-source lookup for a claim
type Query struct {
	Source string
	Params map[string]string
}

// Plan holds the ordered queries for one claim. The multiplexer tries them
// in order and stops at the first source that yields data.
type Plan struct {
	ClaimID string
	Queries []Query
}

// FRED series matched from claim text, most specific first
var fredSeries = []struct {
	keywords []string
	id       string
	label    string
}{
	{[]string{"gdp growth", "economic growth", "gdp rate"}, "A191RL1Q225SBEA", "US Real GDP Growth Rate (%)"},
	{[]string{"gdp", "gross domestic product", "economy size"}, "GDP", "US Real GDP (Billions, Chained 2017 Dollars)"},
	{[]string{"inflation", "cpi", "consumer price", "price level"}, "CPIAUCSL", "US Consumer Price Index"},
	{[]string{"unemployment", "jobless", "jobs", "employment rate"}, "UNRATE", "US Unemployment Rate (%)"},
	{[]string{"interest rate", "federal funds", "fed rate", "borrowing"}, "FEDFUNDS", "US Federal Funds Rate (%)"},
	{[]string{"trade balance", "trade deficit", "trade surplus"}, "BOPGSTB", "US Trade Balance ($M)"},
	{[]string{"wti", "west texas", "oil price us"}, "DCOILWTICO", "WTI Crude Oil Price ($/barrel)"},
	{[]string{"brent", "brent crude", "global oil"}, "DCOILBRENTEU", "Brent Crude Oil Price ($/barrel)"},
	{[]string{"dollar index", "dollar", "usd", "currency"}, "DTWEXBGS", "US Dollar Index (Broad)"},
	{[]string{"national debt", "government debt", "federal debt"}, "GFDEBTN", "US National Debt ($M)"},
	{[]string{"money supply", "m2", "monetary"}, "M2SL", "US M2 Money Supply ($B)"},
	{[]string{"exports", "export"}, "EXPGS", "US Exports of Goods & Services ($B)"},
	{[]string{"imports", "import"}, "IMPGS", "US Imports of Goods & Services ($B)"},
}

// World Bank indicator keys matched from claim text
var wbIndicators = []struct {
	keywords  []string
	indicator string
}{
	{[]string{"gdp growth", "economic growth", "growth rate"}, "gdp_growth"},
	{[]string{"gdp", "economy size", "output"}, "gdp_current_usd"},
	{[]string{"inflation", "price"}, "inflation_cpi"},
	{[]string{"unemployment", "employment"}, "unemployment"},
	{[]string{"exports", "export"}, "exports_pct_gdp"},
	{[]string{"imports", "import"}, "imports_pct_gdp"},
	{[]string{"trade"}, "trade_pct_gdp"},
	{[]string{"military", "defence", "defense", "arms spending"}, "military_expend_gdp"},
	{[]string{"debt", "government deficit"}, "debt_pct_gdp"},
	{[]string{"population", "people", "demographic"}, "population"},
}

// ISO2 codes for countries commonly named in geopolitical articles
var countryCodes = []struct {
	name string
	code string
}{
	{"united states", "US"}, {"usa", "US"}, {"america", "US"},
	{"united kingdom", "GB"}, {"uk", "GB"}, {"britain", "GB"},
	{"south korea", "KR"}, {"north korea", "KP"}, {"korea", "KR"},
	{"saudi arabia", "SA"}, {"south africa", "ZA"},
	{"china", "CN"}, {"prc", "CN"},
	{"russia", "RU"}, {"india", "IN"}, {"germany", "DE"}, {"france", "FR"},
	{"japan", "JP"}, {"brazil", "BR"}, {"canada", "CA"}, {"australia", "AU"},
	{"iran", "IR"}, {"turkey", "TR"}, {"ukraine", "UA"}, {"israel", "IL"},
	{"pakistan", "PK"}, {"indonesia", "ID"}, {"mexico", "MX"}, {"italy", "IT"},
	{"spain", "ES"}, {"netherlands", "NL"}, {"poland", "PL"}, {"taiwan", "TW"},
	{"venezuela", "VE"}, {"nigeria", "NG"}, {"egypt", "EG"}, {"ethiopia", "ET"},
	{"eurozone", "EMU"}, {"europe", "EMU"},
}

var tradeCommodities = []struct {
	keywords []string
	key      string
}{
	{[]string{"oil", "crude", "petroleum"}, "crude_oil"},
	{[]string{"natural gas", "lng", "gas"}, "natural_gas"},
	{[]string{"coal"}, "coal"},
	{[]string{"wheat", "grain", "food"}, "wheat"},
	{[]string{"weapons", "arms", "military"}, "arms_weapons"},
	{[]string{"semiconductors", "chips"}, "semiconductors"},
	{[]string{"steel", "iron"}, "iron_steel"},
}

// EIA series for bilateral energy trade, matched most specific first
var eiaSeries = []struct {
	keywords []string
	id       string
	label    string
}{
	{[]string{"india russian oil", "india russia crude", "indian russian crude"}, "PET.MTTIM_NUS-NIN_1.M", "US Petroleum Trade, India Context (Monthly)"},
	{[]string{"europe lng", "european lng import", "lng to europe"}, "NG.N9132EU2.M", "US LNG Exports to Europe (Bcf/month)"},
	{[]string{"us lng export", "us lng", "american lng", "us liquefied natural gas export"}, "NG.N9130US2.M", "US LNG Exports (Bcf/month)"},
	{[]string{"us natural gas export", "us gas export", "us energy export"}, "NG.N9130US2.M", "US Natural Gas Exports (Bcf/month)"},
}

// Bare "us" cannot be substring-matched safely ("russia", "because"),
// so it gets a word-boundary pattern of its own
var usPattern = regexp.MustCompile(`(?i)\b(u\.s\.|us|usa|america|united states)\b`)

// European terms that pull an energy claim toward Eurostat. Same boundary
// caveat as "us": bare "eu" appears inside too many English words.
var euPattern = regexp.MustCompile(`(?i)\b(eu|europe|european|eurozone|germany|german|france|french|norway|netherlands|dutch|italy|spain)\b`)

// MatchEIASeries maps claim text to an EIA bilateral energy trade series
func MatchEIASeries(text string) (id, label string, ok bool) {
	lower := strings.ToLower(text)
	for _, entry := range eiaSeries {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.id, entry.label, true
			}
		}
	}
	return "", "", false
}

// MatchEurostatDataset maps claim text to a Eurostat dataset key.
// Falls back to the EU gas supply balance, the broadest energy dataset.
func MatchEurostatDataset(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "electricity", "power price", "industrial price"):
		return "eu_electricity_price"
	case containsAny(lower, "manufactur", "industrial output", "factory", "production index"):
		return "de_manufacturing"
	case containsAny(lower, "depend", "import share", "import percent", "supply share"):
		return "eu_energy_dependency"
	case containsAny(lower, "russia", "russian"):
		return "eu_gas_russia"
	default:
		return "eu_gas_supply"
	}
}

// MatchFREDSeries maps claim text to the best FRED series
func MatchFREDSeries(text string) (id, label string, ok bool) {
	lower := strings.ToLower(text)
	for _, entry := range fredSeries {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.id, entry.label, true
			}
		}
	}
	return "", "", false
}

// MatchWBIndicator maps claim text to a World Bank indicator key.
// Falls back to GDP growth, the safest general-purpose indicator.
func MatchWBIndicator(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range wbIndicators {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.indicator
			}
		}
	}
	return "gdp_growth"
}

// ExtractCountryCode finds the first known country mentioned in text
func ExtractCountryCode(text string) (string, bool) {
	if usPattern.MatchString(text) {
		return "US", true
	}
	lower := strings.ToLower(text)
	for _, entry := range countryCodes {
		if strings.Contains(lower, entry.name) {
			return entry.code, true
		}
	}
	return "", false
}

// ExtractCountryName finds the first known country name mentioned in text
func ExtractCountryName(text string) (string, bool) {
	if usPattern.MatchString(text) {
		return "united states", true
	}
	lower := strings.ToLower(text)
	for _, entry := range countryCodes {
		if strings.Contains(lower, entry.name) {
			return entry.name, true
		}
	}
	return "", false
}

// ParseTradeQuery extracts (reporter, partner, commodity) for a trade claim.
// The reporter defaults to US and the partner to the whole world.
func ParseTradeQuery(text string) (reporter, partner, commodity string) {
	lower := strings.ToLower(text)

	reporter = "US"
	if code, ok := ExtractCountryCode(text); ok {
		reporter = code
	}

	partner = "WLD"
	for _, entry := range countryCodes {
		if strings.Contains(lower, "from "+entry.name) ||
			strings.Contains(lower, "to "+entry.name) ||
			strings.Contains(lower, "with "+entry.name) {
			partner = entry.code
			break
		}
	}

	commodity = "total_trade"
	for _, entry := range tradeCommodities {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				commodity = entry.key
				return
			}
		}
	}
	return
}

// MatchCommodity maps claim text to a Pink Sheet commodity key
func MatchCommodity(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "brent") || strings.Contains(lower, "global oil"):
		return "oil_brent"
	case strings.Contains(lower, "oil") || strings.Contains(lower, "crude") ||
		strings.Contains(lower, "petroleum") || strings.Contains(lower, "wti"):
		return "oil"
	case strings.Contains(lower, "natural gas") || strings.Contains(lower, "lng") ||
		strings.Contains(lower, "gas"):
		return "natural_gas"
	case strings.Contains(lower, "coal"):
		return "coal"
	case strings.Contains(lower, "gold"):
		return "gold"
	case strings.Contains(lower, "wheat") || strings.Contains(lower, "grain"):
		return "wheat"
	default:
		return "oil"
	}
}

// ClassifyDomain infers a domain from claim text when the extractor left it
// unset or unknown
func ClassifyDomain(text string) model.Domain {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "oil", "gas", "coal", "energy", "barrel", "opec", "pipeline"):
		return model.DomainEnergy
	case containsAny(lower, "gdp", "inflation", "unemployment", "interest rate", "trade", "tariff", "export", "import", "debt", "economy", "economic"):
		return model.DomainEconomics
	case containsAny(lower, "military", "border", "sanction", "war", "treaty", "alliance", "population", "territory"):
		return model.DomainGeopolitics
	default:
		return model.DomainOther
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// PlanFor builds the ordered query plan for one checkable claim. An empty
// plan means no source can serve the claim and it will be reported as
// insufficient data.
func PlanFor(claim model.Claim) Plan {
	plan := Plan{ClaimID: claim.ID}
	if !claim.IsCheckable {
		return plan
	}

	domain := claim.Domain
	if !domain.Valid() || domain == model.DomainOther {
		domain = ClassifyDomain(claim.Text)
	}

	text := claim.Text
	countryCode, hasCountry := ExtractCountryCode(text)
	foreign := hasCountry && countryCode != "US"

	switch domain {
	case model.DomainEconomics:
		if id, label, ok := MatchFREDSeries(text); ok && !foreign {
			plan.Queries = append(plan.Queries, Query{
				Source: SourceFRED,
				Params: map[string]string{"series_id": id, "series_label": label},
			})
		}
		if hasCountry || foreign {
			plan.Queries = append(plan.Queries, Query{
				Source: SourceWorldBank,
				Params: map[string]string{"country": countryCode, "indicator": MatchWBIndicator(text)},
			})
		} else if len(plan.Queries) > 0 {
			// US fallback when FRED matched but has no data
			plan.Queries = append(plan.Queries, Query{
				Source: SourceWorldBank,
				Params: map[string]string{"country": "US", "indicator": MatchWBIndicator(text)},
			})
		}

	case model.DomainEnergy:
		// European energy claims go to Eurostat first and never to the
		// global commodity sheet, which cannot speak to EU supply or
		// dependency questions.
		european := euPattern.MatchString(text)
		if european {
			plan.Queries = append(plan.Queries, Query{
				Source: SourceEurostat,
				Params: map[string]string{"dataset": MatchEurostatDataset(text)},
			})
		}
		if id, label, ok := MatchEIASeries(text); ok {
			plan.Queries = append(plan.Queries, Query{
				Source: SourceEIA,
				Params: map[string]string{"series_id": id, "series_label": label},
			})
		}
		if !european {
			plan.Queries = append(plan.Queries, Query{
				Source: SourceCommodity,
				Params: map[string]string{"commodity": MatchCommodity(text)},
			})
		}
		if id, label, ok := MatchFREDSeries(text); ok {
			plan.Queries = append(plan.Queries, Query{
				Source: SourceFRED,
				Params: map[string]string{"series_id": id, "series_label": label},
			})
		}

	case model.DomainGeopolitics:
		lower := strings.ToLower(text)
		if containsAny(lower, "trade", "export", "import", "tariff") {
			reporter, partner, commodity := ParseTradeQuery(text)
			plan.Queries = append(plan.Queries, Query{
				Source: SourceComtrade,
				Params: map[string]string{"reporter": reporter, "partner": partner, "commodity": commodity},
			})
		}
		if name, ok := ExtractCountryName(text); ok {
			plan.Queries = append(plan.Queries, Query{
				Source: SourceRESTCountries,
				Params: map[string]string{"country": name},
			})
			if containsAny(lower, "military", "defence", "defense", "debt", "gdp", "population") {
				plan.Queries = append(plan.Queries, Query{
					Source: SourceWorldBank,
					Params: map[string]string{"country": countryCode, "indicator": MatchWBIndicator(text)},
				})
			}
		}
	}

	return plan
}
