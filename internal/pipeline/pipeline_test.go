package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/clearview/internal/cache"
	"github.com/ppiankov/clearview/internal/extract"
	"github.com/ppiankov/clearview/internal/llm"
	"github.com/ppiankov/clearview/internal/model"
	"github.com/ppiankov/clearview/internal/route"
	"github.com/ppiankov/clearview/internal/validate"
	"github.com/ppiankov/clearview/internal/validate/sources"
)

// scriptedProvider returns canned responses in order
type scriptedProvider struct {
	responses []string
	calls     int
}

func (p *scriptedProvider) Name() string                         { return "scripted" }
func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if p.calls >= len(p.responses) {
		return nil, errors.New("no more scripted responses")
	}
	resp := p.responses[p.calls]
	p.calls++
	return &llm.Response{Text: resp, Model: "scripted"}, nil
}

type fixedSource struct {
	name string
	obs  *sources.Observation
}

func (s *fixedSource) Name() string { return s.name }
func (s *fixedSource) Fetch(ctx context.Context, params map[string]string) (*sources.Observation, error) {
	return s.obs, nil
}

const testClaimsJSON = `{
  "thesis": "US unemployment is at historic lows.",
  "claims": [
    {"id": "C1", "text": "US unemployment fell to 3.5%", "type": "explicit_fact", "is_checkable": true, "domain": "economics"},
    {"id": "C2", "text": "Full employment is always desirable", "type": "normative", "is_checkable": false}
  ]
}`

const testMapJSON = `{
  "argument_map": {
    "conclusion": "US unemployment is at historic lows.",
    "nodes": [{"id": "C1", "label": "unemployment fell", "type": "premise"}],
    "edges": []
  },
  "implicit_assumptions": [
    {"id": "A1", "text": "Official statistics are accurate.", "underlies_claim": "C1"}
  ],
  "logical_flags": []
}`

var testArticle = model.Article{
	Text: strings.Repeat("The unemployment rate fell again this quarter, continuing a multi-year trend. ", 5),
}

func testPipeline(provider llm.Provider) *Pipeline {
	registry := validate.NewRegistry()
	registry.Register(&fixedSource{name: route.SourceFRED, obs: &sources.Observation{
		SourceName: "FRED, Federal Reserve Bank of St. Louis",
		Label:      "US Unemployment Rate (%)",
		Value:      3.5,
		HasValue:   true,
		Date:       "2025-06-01",
	}})
	registry.Register(&fixedSource{name: route.SourceWorldBank, obs: &sources.Observation{
		SourceName: "World Bank Open Data",
		Label:      "Unemployment Rate",
		Value:      3.6,
		HasValue:   true,
		Date:       "2024",
	}})

	cfg := model.DefaultConfig()
	return &Pipeline{
		store:     cache.NewMemoryCache(time.Minute, time.Minute),
		extractor: extract.New(provider),
		validator: validate.NewValidator(registry, nil, "", cfg.Validation, 2),
		config:    cfg,
	}
}

func TestAnalyseEmptyInput(t *testing.T) {
	p := testPipeline(&scriptedProvider{})

	_, err := p.Analyse(context.Background(), model.Article{Text: "   "})
	if err == nil {
		t.Fatal("expected error for empty article")
	}
	var inErr *model.InputError
	if !errors.As(err, &inErr) {
		t.Fatalf("want InputError, got %T: %v", err, err)
	}
	if model.ErrorCode(err) != model.CodeInputError {
		t.Errorf("ErrorCode = %q", model.ErrorCode(err))
	}
}

func TestAnalyseShortInput(t *testing.T) {
	provider := &scriptedProvider{}
	p := testPipeline(provider)

	_, err := p.Analyse(context.Background(), model.Article{Text: "Too short to analyse."})
	var inErr *model.InputError
	if !errors.As(err, &inErr) {
		t.Fatalf("want InputError, got %v", err)
	}
	// Rejection must happen before any model call
	if provider.calls != 0 {
		t.Errorf("provider called %d times before input validation", provider.calls)
	}
}

func TestAnalyseFullRun(t *testing.T) {
	p := testPipeline(&scriptedProvider{responses: []string{testClaimsJSON, testMapJSON}})

	result, err := p.Analyse(context.Background(), testArticle)
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}

	if result.Thesis == "" || len(result.Claims) != 2 {
		t.Errorf("thesis = %q, claims = %d", result.Thesis, len(result.Claims))
	}
	if result.FromCache {
		t.Error("first run must not be served from cache")
	}
	if len(result.Fingerprint) != 16 {
		t.Errorf("fingerprint = %q", result.Fingerprint)
	}
	if len(result.ValidationResults) != 1 {
		t.Fatalf("got %d validation results, want 1", len(result.ValidationResults))
	}
	if result.ValidationResults[0].Status != model.StatusSupported {
		t.Errorf("C1 status = %q", result.ValidationResults[0].Status)
	}

	s := result.Summary
	if s.TotalClaims != 2 || s.ExplicitFacts != 1 || s.NormativeClaims != 1 ||
		s.CheckableClaims != 1 || s.ImplicitAssumptions != 1 || s.ValidatedCount != 1 {
		t.Errorf("summary = %+v", s)
	}
}

func TestAnalyseIdempotent(t *testing.T) {
	provider := &scriptedProvider{responses: []string{testClaimsJSON, testMapJSON}}
	p := testPipeline(provider)

	first, err := p.Analyse(context.Background(), testArticle)
	if err != nil {
		t.Fatalf("first Analyse: %v", err)
	}

	second, err := p.Analyse(context.Background(), testArticle)
	if err != nil {
		t.Fatalf("second Analyse: %v", err)
	}
	if !second.FromCache {
		t.Error("second run should be served from cache")
	}
	if provider.calls != 2 {
		t.Errorf("provider calls = %d, want 2 (no calls on cache hit)", provider.calls)
	}
	if second.Fingerprint != first.Fingerprint {
		t.Errorf("fingerprints differ: %q vs %q", first.Fingerprint, second.Fingerprint)
	}
	if second.Thesis != first.Thesis || len(second.Claims) != len(first.Claims) {
		t.Error("cached result differs from original")
	}
}

func TestAnalyseWhitespaceVariantHitsCache(t *testing.T) {
	provider := &scriptedProvider{responses: []string{testClaimsJSON, testMapJSON}}
	p := testPipeline(provider)

	if _, err := p.Analyse(context.Background(), testArticle); err != nil {
		t.Fatalf("Analyse: %v", err)
	}

	variant := model.Article{Text: "  " + strings.ToUpper(testArticle.Text) + "\n\n"}
	result, err := p.Analyse(context.Background(), variant)
	if err != nil {
		t.Fatalf("variant Analyse: %v", err)
	}
	if !result.FromCache {
		t.Error("case and whitespace variants should hit the cache")
	}
}

func TestAnalyseExtractionFailureNotCached(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"garbage", "still garbage"}}
	p := testPipeline(provider)

	_, err := p.Analyse(context.Background(), testArticle)
	var exErr *model.ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("want ExtractionError, got %v", err)
	}

	// Nothing may be cached after a failed run
	key := cache.Key(cache.Fingerprint(testArticle.Text, testArticle.Headline))
	if _, found := p.store.Get(key); found {
		t.Error("failed analysis must not be cached")
	}
}

func TestAnalyseWithoutCache(t *testing.T) {
	p := testPipeline(&scriptedProvider{responses: []string{testClaimsJSON, testMapJSON}})
	p.store = nil

	result, err := p.Analyse(context.Background(), testArticle)
	if err != nil {
		t.Fatalf("Analyse without cache: %v", err)
	}
	if result.FromCache {
		t.Error("FromCache must be false with caching disabled")
	}
}

func TestExtractText(t *testing.T) {
	rawHTML := `<html><head><title>Oil Markets Shift</title>
	<script>var x = 1;</script><style>.a{}</style></head>
	<body><nav>Home | About</nav>
	<article><p>Oil prices rose sharply.</p><p>Analysts expect more volatility.</p></article>
	<footer>Copyright</footer></body></html>`

	title, text, err := extractText(rawHTML)
	if err != nil {
		t.Fatalf("extractText: %v", err)
	}
	if title != "Oil Markets Shift" {
		t.Errorf("title = %q", title)
	}
	if !strings.Contains(text, "Oil prices rose sharply.") {
		t.Errorf("body text missing: %q", text)
	}
	for _, banned := range []string{"var x", ".a{}", "Home | About", "Copyright"} {
		if strings.Contains(text, banned) {
			t.Errorf("text should not contain %q: %q", banned, text)
		}
	}
}
