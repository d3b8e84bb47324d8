package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/clearview/internal/cache"
	"github.com/ppiankov/clearview/internal/extract"
	"github.com/ppiankov/clearview/internal/llm"
	"github.com/ppiankov/clearview/internal/model"
	"github.com/ppiankov/clearview/internal/validate"
)

// Articles shorter than this cannot carry an analysable argument
const minArticleLength = 200

// Pipeline orchestrates the complete analysis: cache check, claim
// extraction, argument mapping, validation, aggregation, cache write.
type Pipeline struct {
	store     cache.Cache
	extractor *extract.Extractor
	validator *validate.Validator
	fetcher   *Fetcher
	config    *model.Config
}

// New creates a pipeline from configuration
func New(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}

	registry := validate.DefaultRegistry(cfg.HTTP, cfg.RateLimiting, cfg.Validation.FREDAPIKey, cfg.Validation.EIAAPIKey)
	validator := validate.NewValidator(registry, provider, cfg.LLM.SynthesisModel, cfg.Validation, cfg.Concurrency.ValidationWorkers)

	return &Pipeline{
		store:     cache.New(cfg.Cache),
		extractor: extract.New(provider),
		validator: validator,
		fetcher:   NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes),
		config:    cfg,
	}, nil
}

// Analyse runs the full pipeline on an article. Identical articles produce
// a cache hit and skip every model and data-source call.
func (p *Pipeline) Analyse(ctx context.Context, article model.Article) (*model.AnalysisResult, error) {
	article.Text = strings.TrimSpace(article.Text)
	if article.Text == "" {
		return nil, &model.InputError{Reason: "article text is empty"}
	}
	if len(article.Text) < minArticleLength {
		return nil, &model.InputError{
			Reason: fmt.Sprintf("article text is too short (%d chars, minimum %d)", len(article.Text), minArticleLength),
		}
	}

	fingerprint := cache.Fingerprint(article.Text, article.Headline)
	key := cache.Key(fingerprint)

	if cached := p.cacheGet(key); cached != nil {
		cached.FromCache = true
		return cached, nil
	}

	// Extraction and mapping are sequential: the map needs the claims
	thesis, claims, err := p.extractor.Claims(ctx, article)
	if err != nil {
		return nil, err
	}
	mapped, err := p.extractor.ArgumentMap(ctx, thesis, claims)
	if err != nil {
		return nil, err
	}

	validation := p.validator.Validate(ctx, claims)

	result := &model.AnalysisResult{
		Thesis:            thesis,
		Claims:            claims,
		ArgumentMap:       mapped.Map,
		Assumptions:       mapped.Assumptions,
		Flags:             mapped.Flags,
		ValidationResults: validation,
		Summary:           buildSummary(claims, mapped.Assumptions, mapped.Flags, validation),
		Fingerprint:       fingerprint,
		AnalyzedAt:        time.Now().UTC(),
	}

	p.cacheSet(key, result)
	return result, nil
}

// AnalyseURL fetches an article by URL and analyses it
func (p *Pipeline) AnalyseURL(ctx context.Context, rawURL string) (*model.AnalysisResult, error) {
	article, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return p.Analyse(ctx, *article)
}

// cacheGet is best effort: a corrupt or failing cache is a miss, never an error
func (p *Pipeline) cacheGet(key string) *model.AnalysisResult {
	if p.store == nil {
		return nil
	}
	data, found := p.store.Get(key)
	if !found {
		return nil
	}

	var cached model.AnalysisResult
	if err := json.Unmarshal(data, &cached); err != nil {
		cacheErr := &model.CacheError{Op: "get", Err: err}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", cacheErr)
		return nil
	}
	return &cached
}

// cacheSet is best effort: write failures are logged and swallowed
func (p *Pipeline) cacheSet(key string, result *model.AnalysisResult) {
	if p.store == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", &model.CacheError{Op: "set", Err: err})
		return
	}
	if err := p.store.Set(key, data, 0); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", &model.CacheError{Op: "set", Err: err})
	}
}
