package validate

import (
	"testing"

	"github.com/ppiankov/clearview/internal/model"
	"github.com/ppiankov/clearview/internal/validate/sources"
)

func TestParseClaimValue(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"unemployment fell to 3.5%", 3.5, true},
		{"manufacturing employment fell 30% since 2000", 30, true},
		{"population has fallen below 40 million", 40e6, true},
		{"GDP reached $27 trillion", 27e12, true},
		{"imports totalled 1,250 million dollars", 1.25e9, true},
		{"the war started in 2022", 0, false},
		{"no numbers here at all", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseClaimValue(tt.text)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseClaimValue(%q) = %v, %v; want %v, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTrendDirection(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"oil prices surged last month", 1},
		{"exports have declined steadily", -1},
		{"the rate is unchanged", 0},
		{"consumer prices are up", 1},
		{"factory output is down", -1},
		{"the update was published yesterday", 0},
		{"download volumes were reported", 0},
	}
	for _, tt := range tests {
		if got := TrendDirection(tt.text); got != tt.want {
			t.Errorf("TrendDirection(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func numObs(value float64, recent ...sources.DataPoint) *sources.Observation {
	return &sources.Observation{
		SourceName: "Test Source",
		Label:      "Test Series",
		Value:      value,
		HasValue:   true,
		Date:       "2025-06-01",
		Recent:     recent,
	}
}

func claimOf(text string) model.Claim {
	return model.Claim{ID: "C1", Text: text, Type: model.ClaimTypeExplicitFact, IsCheckable: true}
}

func TestVerdictToleranceBands(t *testing.T) {
	cfg := model.ValidationConfig{SupportTolerance: 0.10, PartialTolerance: 0.35}

	tests := []struct {
		name     string
		claim    string
		observed float64
		want     model.ValidationStatus
	}{
		{"exact match", "unemployment is 4.0%", 4.0, model.StatusSupported},
		{"within support band", "unemployment is 4.0%", 4.3, model.StatusSupported},
		{"within partial band", "unemployment is 4.0%", 5.0, model.StatusPartiallySupported},
		{"beyond partial band", "unemployment is 4.0%", 8.0, model.StatusContradicted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, summary, ok := Verdict(claimOf(tt.claim), numObs(tt.observed), cfg)
			if !ok {
				t.Fatal("expected a deterministic verdict")
			}
			if status != tt.want {
				t.Errorf("status = %q, want %q (summary: %s)", status, tt.want, summary)
			}
		})
	}
}

func TestVerdictUnitsMismatch(t *testing.T) {
	cfg := model.ValidationConfig{SupportTolerance: 0.10, PartialTolerance: 0.35}

	// Claim says 27 trillion, the series is published in billions
	status, _, ok := Verdict(claimOf("GDP reached 27 trillion dollars"), numObs(27000), cfg)
	if !ok {
		t.Fatal("expected a verdict")
	}
	if status != model.StatusPartiallySupported {
		t.Errorf("power-of-thousand mismatch should be partially_supported, got %q", status)
	}
}

func TestVerdictPercentClaimAgainstIndexSeries(t *testing.T) {
	cfg := model.ValidationConfig{SupportTolerance: 0.10, PartialTolerance: 0.35}

	// A rate claim must not be compared numerically against an index level
	obs := numObs(315.6,
		sources.DataPoint{Date: "2025-06", Value: 315.6},
		sources.DataPoint{Date: "2025-05", Value: 312.2},
		sources.DataPoint{Date: "2025-04", Value: 308.4},
	)
	obs.Unit = sources.UnitIndex
	obs.Label = "US Consumer Price Index"

	status, summary, ok := Verdict(claimOf("Inflation rose from 2% to 9% last year"), obs, cfg)
	if !ok {
		t.Fatal("expected the trend comparison to produce a verdict")
	}
	if status != model.StatusSupported {
		t.Errorf("rising index should support a rising-inflation claim, got %q (summary: %s)", status, summary)
	}
}

func TestVerdictPercentClaimIndexSeriesNoTrend(t *testing.T) {
	cfg := model.ValidationConfig{}

	obs := numObs(315.6)
	obs.Unit = sources.UnitIndex

	// No trend wording and incomparable units: defer to synthesis
	if _, _, ok := Verdict(claimOf("inflation stands at 9%"), obs, cfg); ok {
		t.Error("expected no deterministic verdict across mismatched units")
	}
}

func TestVerdictMatchingPercentUnits(t *testing.T) {
	cfg := model.ValidationConfig{SupportTolerance: 0.10, PartialTolerance: 0.35}

	obs := numObs(4.1)
	obs.Unit = sources.UnitPercent

	status, _, ok := Verdict(claimOf("unemployment is 4.0%"), obs, cfg)
	if !ok || status != model.StatusSupported {
		t.Errorf("percent-vs-percent should compare numerically, got %q (ok=%v)", status, ok)
	}
}

func TestVerdictTrend(t *testing.T) {
	cfg := model.ValidationConfig{}
	rising := []sources.DataPoint{
		{Date: "2025-06", Value: 80},
		{Date: "2025-05", Value: 75},
		{Date: "2025-04", Value: 70},
	}

	status, _, ok := Verdict(claimOf("oil prices have surged in recent months"), numObs(80, rising...), cfg)
	if !ok || status != model.StatusSupported {
		t.Errorf("rising series should support an upward claim, got %q (ok=%v)", status, ok)
	}

	status, _, ok = Verdict(claimOf("oil prices have collapsed, falling sharply"), numObs(80, rising...), cfg)
	if !ok || status != model.StatusContradicted {
		t.Errorf("rising series should contradict a downward claim, got %q (ok=%v)", status, ok)
	}
}

func TestVerdictNoComparison(t *testing.T) {
	cfg := model.ValidationConfig{}
	_, _, ok := Verdict(claimOf("the alliance remains fragile"), numObs(42), cfg)
	if ok {
		t.Error("expected no deterministic verdict without a number or trend")
	}
}

func TestInferStatus(t *testing.T) {
	tests := []struct {
		summary string
		want    model.ValidationStatus
	}{
		{"The data supports the claim.", model.StatusSupported},
		{"The data partially supports the claim.", model.StatusPartiallySupported},
		{"The data contradicts the claim.", model.StatusContradicted},
		{"The data does not support the claim.", model.StatusContradicted},
		{"The figures are consistent with the claim.", model.StatusSupported},
		{"The data is unrelated to the claim.", model.StatusInsufficientData},
	}
	for _, tt := range tests {
		if got := InferStatus(tt.summary); got != tt.want {
			t.Errorf("InferStatus(%q) = %q, want %q", tt.summary, got, tt.want)
		}
	}
}
