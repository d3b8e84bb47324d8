package extract

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ppiankov/clearview/internal/llm"
	"github.com/ppiankov/clearview/internal/model"
)

type claimsPayload struct {
	Thesis string        `json:"thesis"`
	Claims []model.Claim `json:"claims"`
}

var claimIDPattern = regexp.MustCompile(`^C[1-9][0-9]*$`)

// Claims extracts the thesis and claim inventory from an article.
// A schema-invalid response gets one corrective retry carrying the parse
// error; a second failure aborts with an ExtractionError.
func (e *Extractor) Claims(ctx context.Context, article model.Article) (string, []model.Claim, error) {
	prompt := llm.ExtractionPrompt(article)

	payload, attempts, err := e.claimsAttempt(ctx, prompt)
	if err != nil {
		return "", nil, &model.ExtractionError{Stage: "extraction", Attempts: attempts, Err: err}
	}
	return payload.Thesis, payload.Claims, nil
}

func (e *Extractor) claimsAttempt(ctx context.Context, prompt string) (*claimsPayload, int, error) {
	current := prompt
	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		resp, err := e.provider.Complete(ctx, llm.Request{
			System:      llm.SystemPrompt,
			Prompt:      current,
			Temperature: 0.2,
		})
		if err != nil {
			// Transport failures are not fixable by reprompting
			return nil, attempt, err
		}

		var payload claimsPayload
		if err := decodeStrict(resp.Text, &payload); err != nil {
			lastErr = err
		} else if err := validateClaims(&payload); err != nil {
			lastErr = err
		} else {
			normalizeClaims(payload.Claims)
			return &payload, attempt, nil
		}

		current = llm.RepairPrompt(prompt, lastErr)
	}
	return nil, 2, lastErr
}

func validateClaims(p *claimsPayload) error {
	if p.Thesis == "" {
		return fmt.Errorf("missing thesis")
	}
	if len(p.Claims) == 0 {
		return fmt.Errorf("no claims extracted")
	}

	seen := make(map[string]bool, len(p.Claims))
	for i, c := range p.Claims {
		if !claimIDPattern.MatchString(c.ID) {
			return fmt.Errorf("claim %d: bad id %q", i, c.ID)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate claim id %q", c.ID)
		}
		seen[c.ID] = true
		if c.Text == "" {
			return fmt.Errorf("claim %s: empty text", c.ID)
		}
		if !c.Type.Valid() {
			return fmt.Errorf("claim %s: unknown type %q", c.ID, c.Type)
		}
	}
	return nil
}

// normalizeClaims enforces invariants the model cannot be trusted with:
// normative and hedged claims are never checkable, and every checkable
// claim carries a known domain.
func normalizeClaims(claims []model.Claim) {
	for i := range claims {
		c := &claims[i]
		if c.Type == model.ClaimTypeNormative || c.Type == model.ClaimTypeHedged {
			c.IsCheckable = false
		}
		if !c.IsCheckable {
			c.Domain = ""
			continue
		}
		if !c.Domain.Valid() {
			c.Domain = model.DomainOther
		}
	}
}
