package model

import "time"

// ValidationStatus is the verdict assigned to one checkable claim
type ValidationStatus string

const (
	StatusSupported          ValidationStatus = "supported"
	StatusPartiallySupported ValidationStatus = "partially_supported"
	StatusContradicted       ValidationStatus = "contradicted"
	StatusInsufficientData   ValidationStatus = "insufficient_data"
)

// ValidationResult is the outcome of checking one claim against external data.
// Exactly one result exists per checkable claim, even on total source failure.
type ValidationResult struct {
	ClaimID    string                 `json:"claim_id"`
	Status     ValidationStatus       `json:"status"`
	Summary    string                 `json:"summary"`
	SourceName string                 `json:"source_name,omitempty"`
	SourceDate string                 `json:"source_date,omitempty"`
	SourceURL  string                 `json:"source_url,omitempty"`
	RawData    map[string]interface{} `json:"raw_data,omitempty"` // Safe subset of the retrieved data
}

// Summary holds the derived counters of an analysis.
// Every counter equals the cardinality of the corresponding set.
type Summary struct {
	TotalClaims         int `json:"total_claims"`
	ExplicitFacts       int `json:"explicit_facts"`
	ImplicitAssumptions int `json:"implicit_assumptions"`
	NormativeClaims     int `json:"normative_claims"`
	HedgedClaims        int `json:"hedged_claims"`
	CheckableClaims     int `json:"checkable_claims"`
	LogicalFlagsCount   int `json:"logical_flags_count"`
	ValidatedCount      int `json:"validated_count"`
	PartialCount        int `json:"partial_count"`
	ContradictedCount   int `json:"contradicted_count"`
	InsufficientCount   int `json:"insufficient_count"`
}

// AnalysisResult is the complete artifact produced by the pipeline.
// Immutable once cached.
type AnalysisResult struct {
	Thesis            string             `json:"thesis"`
	Claims            []Claim            `json:"claims"`
	ArgumentMap       ArgumentMap        `json:"argument_map"`
	Assumptions       []Assumption       `json:"implicit_assumptions"`
	Flags             []LogicalFlag      `json:"logical_flags"`
	ValidationResults []ValidationResult `json:"validation_results"`
	Summary           Summary            `json:"summary"`

	Fingerprint string    `json:"article_fingerprint"` // Cache key of the analyzed article
	FromCache   bool      `json:"from_cache"`
	AnalyzedAt  time.Time `json:"analyzed_at"`
}

// Article is the pipeline input. Never mutated.
type Article struct {
	Text     string `json:"article_text"`
	Headline string `json:"headline,omitempty"`
	Source   string `json:"source,omitempty"`
}
