package extract

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/ppiankov/clearview/internal/llm"
	"github.com/ppiankov/clearview/internal/model"
)

type argMapPayload struct {
	ArgumentMap model.ArgumentMap   `json:"argument_map"`
	Assumptions []model.Assumption  `json:"implicit_assumptions"`
	Flags       []model.LogicalFlag `json:"logical_flags"`
}

var assumptionIDPattern = regexp.MustCompile(`^A[1-9][0-9]*$`)

// ArgumentMap builds the argument graph, implicit assumptions, and logical
// flags over an extracted claim set. Graph hygiene issues (dangling edges,
// self-loops) are pruned with a warning rather than failing the analysis.
func (e *Extractor) ArgumentMap(ctx context.Context, thesis string, claims []model.Claim) (*MapResult, error) {
	prompt := llm.ArgumentMapPrompt(thesis, claims)

	current := prompt
	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		resp, err := e.provider.Complete(ctx, llm.Request{
			System:      llm.SystemPrompt,
			Prompt:      current,
			Temperature: 0.2,
		})
		if err != nil {
			return nil, &model.ExtractionError{Stage: "argument_mapping", Attempts: attempt, Err: err}
		}

		var payload argMapPayload
		if err := decodeStrict(resp.Text, &payload); err != nil {
			lastErr = err
		} else if err := validateArgMap(&payload, claims); err != nil {
			lastErr = err
		} else {
			pruneGraph(&payload, claims)
			return &MapResult{
				Map:         payload.ArgumentMap,
				Assumptions: payload.Assumptions,
				Flags:       payload.Flags,
			}, nil
		}

		current = llm.RepairPrompt(prompt, lastErr)
	}
	return nil, &model.ExtractionError{Stage: "argument_mapping", Attempts: 2, Err: lastErr}
}

// MapResult bundles the outputs of the argument-mapping stage
type MapResult struct {
	Map         model.ArgumentMap
	Assumptions []model.Assumption
	Flags       []model.LogicalFlag
}

func validateArgMap(p *argMapPayload, claims []model.Claim) error {
	if p.ArgumentMap.Conclusion == "" {
		return fmt.Errorf("missing conclusion")
	}
	if len(p.ArgumentMap.Nodes) == 0 {
		return fmt.Errorf("empty argument graph")
	}

	claimIDs := make(map[string]bool, len(claims))
	for _, c := range claims {
		claimIDs[c.ID] = true
	}

	seen := make(map[string]bool, len(p.Assumptions))
	for _, a := range p.Assumptions {
		if !assumptionIDPattern.MatchString(a.ID) {
			return fmt.Errorf("bad assumption id %q", a.ID)
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate assumption id %q", a.ID)
		}
		seen[a.ID] = true
		if a.Text == "" {
			return fmt.Errorf("assumption %s: empty text", a.ID)
		}
		if a.UnderliesClaim != "" && !claimIDs[a.UnderliesClaim] {
			return fmt.Errorf("assumption %s references unknown claim %q", a.ID, a.UnderliesClaim)
		}
	}
	return nil
}

// pruneGraph drops edges that reference unknown nodes, use unknown
// relations, or point a node at itself. The surviving graph is always
// internally consistent.
func pruneGraph(p *argMapPayload, claims []model.Claim) {
	known := make(map[string]bool)
	for _, c := range claims {
		known[c.ID] = true
	}
	for _, a := range p.Assumptions {
		known[a.ID] = true
	}
	for _, n := range p.ArgumentMap.Nodes {
		known[n.ID] = true
	}

	kept := p.ArgumentMap.Edges[:0]
	for _, edge := range p.ArgumentMap.Edges {
		switch {
		case edge.From == edge.To:
			fmt.Fprintf(os.Stderr, "Warning: dropping self-loop edge on %s\n", edge.From)
		case !known[edge.From] || !known[edge.To]:
			fmt.Fprintf(os.Stderr, "Warning: dropping dangling edge %s -> %s\n", edge.From, edge.To)
		case !edge.Relation.Valid():
			fmt.Fprintf(os.Stderr, "Warning: dropping edge %s -> %s with unknown relation %q\n", edge.From, edge.To, edge.Relation)
		default:
			kept = append(kept, edge)
		}
	}
	p.ArgumentMap.Edges = kept
}
