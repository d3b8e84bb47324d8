package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/clearview/internal/model"
	"github.com/ppiankov/clearview/internal/validate/sources"
)

// Quantities in claim text: a number optionally followed by a percent sign
// or a scale word
var quantityPattern = regexp.MustCompile(`(?i)(-?\d+(?:,\d{3})*(?:\.\d+)?)\s*(%|percent|thousand|million|billion|trillion)?`)

var scaleFactors = map[string]float64{
	"thousand": 1e3,
	"million":  1e6,
	"billion":  1e9,
	"trillion": 1e12,
}

// ParseClaimValue extracts the first usable quantity from claim text.
// Bare four-digit integers in the calendar range are treated as years and
// skipped, so "fell 30% since 2000" yields 30.
func ParseClaimValue(text string) (float64, bool) {
	v, _, ok := parseQuantity(text)
	return v, ok
}

// parseQuantity also reports the unit token the quantity carried
func parseQuantity(text string) (float64, string, bool) {
	for _, m := range quantityPattern.FindAllStringSubmatch(text, -1) {
		raw := strings.ReplaceAll(m[1], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		unit := strings.ToLower(m[2])
		if unit == "" && v == math.Trunc(v) && v >= 1900 && v <= 2100 {
			continue
		}
		if f, ok := scaleFactors[unit]; ok {
			v *= f
		}
		return v, unit, true
	}
	return 0, "", false
}

// comparableUnits reports whether a claimed quantity and an observed
// series measure the same kind of thing. A percentage claim against an
// index or dollar level is apples to oranges no matter how close the
// numbers look.
func comparableUnits(claimUnit, obsUnit string) bool {
	if obsUnit == "" {
		return true
	}
	claimIsPercent := claimUnit == "%" || claimUnit == "percent"
	return claimIsPercent == (obsUnit == sources.UnitPercent)
}

var upPattern = regexp.MustCompile(`(?i)\b(rose|risen|rises?|rising|increased?|increasing|grew|grow[ns]?|growing|climb(?:ed|ing|s)?|surge[ds]?|surging|jump(?:ed|ing|s)?|doubled|higher|up)\b`)
var downPattern = regexp.MustCompile(`(?i)\b(fell|fallen|falls?|falling|decline[ds]?|declining|dropp?(?:ed|ing)?|drops|shrank|shrunk|shrinking|plunge[ds]?|plunging|halved|lower|down)\b`)

// TrendDirection reports the direction a claim asserts: +1 up, -1 down, 0 none
func TrendDirection(text string) int {
	if upPattern.MatchString(text) {
		return 1
	}
	if downPattern.MatchString(text) {
		return -1
	}
	return 0
}

// seriesDirection reports the direction of an observed series (newest
// first): +1 up, -1 down, 0 flat within one percent
func seriesDirection(recent []sources.DataPoint) int {
	if len(recent) < 2 {
		return 0
	}
	newest := recent[0].Value
	oldest := recent[len(recent)-1].Value
	delta := newest - oldest
	if math.Abs(delta) <= 0.01*math.Abs(oldest) {
		return 0
	}
	if delta > 0 {
		return 1
	}
	return -1
}

func relativeError(claimed, observed float64) float64 {
	denom := math.Abs(observed)
	if denom < 1e-9 {
		denom = 1e-9
	}
	return math.Abs(claimed-observed) / denom
}

// Verdict compares a claim against an observation deterministically.
// The value comparison runs only when the claim and the series measure
// the same kind of quantity; a unit mismatch falls through to the trend
// comparison. Returns ok=false when no comparison is possible and the
// caller should fall back to language-model synthesis.
func Verdict(claim model.Claim, obs *sources.Observation, cfg model.ValidationConfig) (model.ValidationStatus, string, bool) {
	if claimed, claimUnit, parsed := parseQuantity(claim.Text); parsed && obs.HasValue && comparableUnits(claimUnit, obs.Unit) {
		status, note := compareValues(claimed, obs.Value, cfg)
		summary := fmt.Sprintf("%s reports %s at %s as of %s. The claim's figure of %s %s.",
			obs.SourceName, obs.Label, formatValue(obs.Value), obs.Date, formatValue(claimed), note)
		return status, summary, true
	}

	if dir := TrendDirection(claim.Text); dir != 0 && len(obs.Recent) >= 2 {
		observed := seriesDirection(obs.Recent)
		var status model.ValidationStatus
		var note string
		switch {
		case observed == dir:
			status, note = model.StatusSupported, "moves in the direction the claim describes"
		case observed == 0:
			status, note = model.StatusPartiallySupported, "has been roughly flat over the recent observations"
		default:
			status, note = model.StatusContradicted, "moves opposite to the direction the claim describes"
		}
		summary := fmt.Sprintf("%s reports %s at %s as of %s; the recent series %s.",
			obs.SourceName, obs.Label, formatValue(obs.Value), obs.Date, note)
		return status, summary, true
	}

	return "", "", false
}

// compareValues applies the tolerance bands. A claim off by an exact power
// of a thousand is almost always a units mismatch rather than a falsehood,
// so it lands on partially_supported with a caveat.
func compareValues(claimed, observed float64, cfg model.ValidationConfig) (model.ValidationStatus, string) {
	supportTol := cfg.SupportTolerance
	if supportTol == 0 {
		supportTol = 0.10
	}
	partialTol := cfg.PartialTolerance
	if partialTol == 0 {
		partialTol = 0.35
	}

	relErr := relativeError(claimed, observed)
	switch {
	case relErr <= supportTol:
		return model.StatusSupported, fmt.Sprintf("is within %.0f%% of the observed value, which supports the claim", relErr*100)
	case relErr <= partialTol:
		return model.StatusPartiallySupported, fmt.Sprintf("differs from the observed value by %.0f%%, which partially supports the claim", relErr*100)
	}

	for _, scale := range []float64{1e3, 1e6, 1e9, 1e12} {
		if relativeError(claimed*scale, observed) <= supportTol || relativeError(claimed/scale, observed) <= supportTol {
			return model.StatusPartiallySupported, "matches the observed value up to a change of units, which partially supports the claim pending a units check"
		}
	}

	return model.StatusContradicted, fmt.Sprintf("differs from the observed value by %.0f%%, which contradicts the claim", relErr*100)
}

func formatValue(v float64) string {
	switch {
	case math.Abs(v) >= 1e12:
		return fmt.Sprintf("%.2f trillion", v/1e12)
	case math.Abs(v) >= 1e9:
		return fmt.Sprintf("%.2f billion", v/1e9)
	case math.Abs(v) >= 1e6:
		return fmt.Sprintf("%.2f million", v/1e6)
	default:
		return strconv.FormatFloat(v, 'g', 4, 64)
	}
}

// InferStatus maps a synthesized prose verdict onto the status taxonomy.
// Negative phrasings are checked first because they contain the positive
// keywords.
func InferStatus(summary string) model.ValidationStatus {
	lower := strings.ToLower(summary)
	switch {
	case strings.Contains(lower, "does not support") ||
		strings.Contains(lower, "contradict") ||
		strings.Contains(lower, "refute") ||
		strings.Contains(lower, "inconsistent with"):
		return model.StatusContradicted
	case strings.Contains(lower, "partially") ||
		strings.Contains(lower, "partly") ||
		strings.Contains(lower, "mixed") ||
		strings.Contains(lower, "somewhat"):
		return model.StatusPartiallySupported
	case strings.Contains(lower, "support") ||
		strings.Contains(lower, "consistent with") ||
		strings.Contains(lower, "confirm") ||
		strings.Contains(lower, "align"):
		return model.StatusSupported
	default:
		return model.StatusInsufficientData
	}
}
