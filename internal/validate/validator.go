package validate

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ppiankov/clearview/internal/llm"
	"github.com/ppiankov/clearview/internal/model"
	"github.com/ppiankov/clearview/internal/route"
	"github.com/ppiankov/clearview/internal/validate/sources"
	"github.com/ppiankov/clearview/internal/worker"
)

// Validator checks claims against external data sources concurrently.
// Source failures are absorbed per claim: every checkable claim gets
// exactly one result no matter what the sources do.
type Validator struct {
	registry   *Registry
	provider   llm.Provider // Optional; enables prose synthesis
	synthModel string
	cfg        model.ValidationConfig
	maxWorkers int
}

// NewValidator creates a validation multiplexer
func NewValidator(registry *Registry, provider llm.Provider, synthModel string, cfg model.ValidationConfig, maxWorkers int) *Validator {
	if maxWorkers <= 0 {
		maxWorkers = 8
	}
	return &Validator{
		registry:   registry,
		provider:   provider,
		synthModel: synthModel,
		cfg:        cfg,
		maxWorkers: maxWorkers,
	}
}

func newSharedLimiter(cfg model.RateLimitConfig) *worker.Limiter {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}
	return worker.NewLimiter(rps, cfg.BurstSize)
}

// Validate checks all checkable claims concurrently. The returned slice
// holds one result per checkable claim, in claim order.
func (v *Validator) Validate(ctx context.Context, claims []model.Claim) []model.ValidationResult {
	var checkable []model.Claim
	for _, c := range claims {
		if c.IsCheckable {
			checkable = append(checkable, c)
		}
	}
	if len(checkable) == 0 {
		return []model.ValidationResult{}
	}

	results := make([]model.ValidationResult, len(checkable))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.maxWorkers)

	for i, claim := range checkable {
		wg.Add(1)
		go func(idx int, c model.Claim) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = insufficientResult(c.ID, "Validation was cancelled before this claim could be checked.")
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = v.validateClaim(ctx, c)
		}(i, claim)
	}

	wg.Wait()
	return results
}

// validateClaim walks a claim's query plan until one source yields data
func (v *Validator) validateClaim(ctx context.Context, claim model.Claim) model.ValidationResult {
	if ctx.Err() != nil {
		return insufficientResult(claim.ID, "Validation was cancelled before this claim could be checked.")
	}

	plan := route.PlanFor(claim)
	if len(plan.Queries) == 0 {
		return insufficientResult(claim.ID, "No suitable data source available for this claim type.")
	}

	maxSources := v.cfg.MaxSourcesPerClaim
	if maxSources <= 0 {
		maxSources = 2
	}

	var failures []string
	for i, query := range plan.Queries {
		if i == maxSources {
			break
		}

		obs, err := v.fetchOne(ctx, query)
		if err != nil {
			adapterErr := &model.AdapterError{Source: query.Source, Err: err}
			fmt.Fprintf(os.Stderr, "Warning: claim %s: %v\n", claim.ID, adapterErr)
			failures = append(failures, query.Source)
			if ctx.Err() != nil {
				return insufficientResult(claim.ID, "Validation timed out before a data source responded.")
			}
			continue
		}

		return v.assess(ctx, claim, obs)
	}

	return insufficientResult(claim.ID,
		fmt.Sprintf("No data could be retrieved (tried: %s).", strings.Join(failures, ", ")))
}

func (v *Validator) fetchOne(ctx context.Context, query route.Query) (*sources.Observation, error) {
	source, ok := v.registry.Get(query.Source)
	if !ok {
		return nil, fmt.Errorf("source not registered")
	}

	callCtx := ctx
	if v.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, v.cfg.Timeout)
		defer cancel()
	}
	return source.Fetch(callCtx, query.Params)
}

// assess turns an observation into a verdict. The deterministic comparison
// wins when possible; otherwise the language model synthesizes a prose
// verdict and the status is inferred from its wording.
func (v *Validator) assess(ctx context.Context, claim model.Claim, obs *sources.Observation) model.ValidationResult {
	result := model.ValidationResult{
		ClaimID:    claim.ID,
		SourceName: obs.SourceName,
		SourceDate: obs.Date,
		SourceURL:  obs.URL,
		RawData:    obs.Raw,
	}

	status, summary, ok := Verdict(claim, obs, v.cfg)
	if ok {
		result.Status = status
		result.Summary = summary
		return result
	}

	if synthesized := v.synthesize(ctx, claim, obs); synthesized != "" {
		result.Status = InferStatus(synthesized)
		result.Summary = synthesized
		return result
	}

	result.Status = model.StatusInsufficientData
	result.Summary = fmt.Sprintf("Data was retrieved from %s but could not be compared against the claim.", obs.SourceName)
	return result
}

// synthesize asks the cheaper model for a prose verdict. Best effort: any
// failure just falls back to the deterministic summary.
func (v *Validator) synthesize(ctx context.Context, claim model.Claim, obs *sources.Observation) string {
	if v.provider == nil {
		return ""
	}

	dataSummary := fmt.Sprintf("%s: %s (as of %s)", obs.Label, formatValue(obs.Value), obs.Date)
	if len(obs.Recent) > 0 {
		var parts []string
		for _, dp := range obs.Recent {
			parts = append(parts, fmt.Sprintf("%s: %s", dp.Date, formatValue(dp.Value)))
		}
		dataSummary += "\nRecent values: " + strings.Join(parts, ", ")
	}

	resp, err := v.provider.Complete(ctx, llm.Request{
		Prompt:      llm.SynthesisPrompt(claim.Text, dataSummary, obs.SourceName, obs.Date),
		Model:       v.synthModel,
		MaxTokens:   300,
		Temperature: 0.2,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: verdict synthesis failed for %s: %v\n", claim.ID, err)
		return ""
	}
	return resp.Text
}

func insufficientResult(claimID, summary string) model.ValidationResult {
	return model.ValidationResult{
		ClaimID: claimID,
		Status:  model.StatusInsufficientData,
		Summary: summary,
	}
}
