package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/clearview/internal/model"
)

// SystemPrompt frames every analysis call. The engine surfaces structure and
// evidence; it never issues verdicts of its own.
const SystemPrompt = `You are ClearView's analysis engine, an expert in critical thinking,
argument analysis, and empirical reasoning. Your role is to analyse news articles with
intellectual rigour and complete neutrality.

You identify:
- What an article explicitly claims
- What logic connects those claims to the article's conclusion
- What assumptions the article relies on but never states
- Which claims can be checked against data

You never issue verdicts. You surface evidence and structure so readers can think for themselves.
You are equally rigorous with articles from all political perspectives.

Always respond with valid JSON matching the schema requested. No prose outside the JSON.`

// ExtractionPrompt asks for the thesis and the full claim inventory
func ExtractionPrompt(article model.Article) string {
	return fmt.Sprintf(`Analyse the following news article and return a structured JSON claim inventory.

ARTICLE HEADLINE: %s
ARTICLE SOURCE: %s

ARTICLE TEXT:
%s

Return ONLY valid JSON matching this exact schema, no markdown, no prose:

{
  "thesis": "The article's central conclusion or argument in one sentence",
  "claims": [
    {
      "id": "C1",
      "text": "Exact or close paraphrase of the claim",
      "type": "explicit_fact | implicit_assumption | normative | hedged",
      "source_hint": "First few words of the relevant sentence",
      "is_checkable": true,
      "domain": "economics | geopolitics | energy | other"
    }
  ]
}

IMPORTANT RULES:
- Extract ALL significant claims, aiming for 5-12 per article
- Claim ids must be C1, C2, ... with no gaps and no duplicates
- Normative and hedged claims are never checkable
- domain is only meaningful for checkable claims
- Maintain complete political neutrality regardless of article perspective
- All text should be plain English accessible to an intelligent non-specialist`,
		article.Headline, article.Source, article.Text)
}

// ArgumentMapPrompt asks for the argument graph, implicit assumptions, and
// logical flags over an already-extracted claim set
func ArgumentMapPrompt(thesis string, claims []model.Claim) string {
	var sb strings.Builder
	for _, c := range claims {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", c.ID, c.Type, c.Text)
	}

	return fmt.Sprintf(`Map the argument structure of a news article whose claims have already been extracted.

THESIS: %s

CLAIMS:
%s
Return ONLY valid JSON matching this exact schema, no markdown, no prose:

{
  "argument_map": {
    "conclusion": "Restate the thesis",
    "nodes": [
      {"id": "C1", "label": "Short label (5-8 words)", "type": "premise | conclusion | assumption"}
    ],
    "edges": [
      {"from": "C1", "to": "C2", "relation": "supports | contradicts | assumes"}
    ]
  },
  "implicit_assumptions": [
    {
      "id": "A1",
      "text": "The assumption stated clearly",
      "underlies_claim": "C1",
      "explanation": "Why the argument requires it and why it is not self-evident"
    }
  ],
  "logical_flags": [
    {
      "type": "inferential_gap | correlation_causation | cherry_picked_data | false_dichotomy | appeal_to_authority | other",
      "description": "Plain-language description of the logical issue",
      "location": "Which claim or part of the argument this applies to"
    }
  ]
}

IMPORTANT RULES:
- Identify 2-5 implicit assumptions with ids A1, A2, ...; these are the most valuable output
- Be specific in assumption explanations; generic observations are not useful
- Edge endpoints must reference claim or assumption ids listed above or introduced here
- Logical flags should only be included when genuinely present; do not manufacture them`,
		thesis, sb.String())
}

// SynthesisPrompt asks a cheaper model to phrase one validation verdict
func SynthesisPrompt(claimText, dataSummary, sourceName, dataDate string) string {
	return fmt.Sprintf(`You are synthesising data validation results for a news article claim.

CLAIM: %s

RETRIEVED DATA:
%s

DATA SOURCE: %s
DATA DATE: %s

Write a plain-language validation summary (2-3 sentences) that:
1. States clearly what the data shows
2. States whether it supports, partially supports, or contradicts the claim
3. Notes any important caveats (e.g. timing differences, definitional issues)

Be precise but accessible. Do not use jargon. Do not editorialize.
Return ONLY the summary text, no JSON, no labels.`,
		claimText, dataSummary, sourceName, dataDate)
}

// RepairPrompt wraps a failed prompt with the parse error for one corrective retry
func RepairPrompt(original string, parseErr error) string {
	return fmt.Sprintf(`Your previous response was not valid JSON matching the requested schema.
Error: %v

Respond again to the request below. Return ONLY the corrected JSON.

%s`, parseErr, original)
}
