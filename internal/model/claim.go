package model

// Claim represents a single assertion extracted from an article
type Claim struct {
	ID          string    `json:"id"`                    // Stable id within one analysis (C1, C2, ...)
	Text        string    `json:"text"`                  // The claim text itself
	Type        ClaimType `json:"type"`                  // Nature of the claim
	SourceHint  string    `json:"source_hint,omitempty"` // First words of the relevant article sentence
	IsCheckable bool      `json:"is_checkable"`          // Whether the claim can be tested against data
	Domain      Domain    `json:"domain,omitempty"`      // Set only for checkable claims
}

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeExplicitFact       ClaimType = "explicit_fact"       // Directly stated, falsifiable fact
	ClaimTypeImplicitAssumption ClaimType = "implicit_assumption" // Unstated premise the article relies on
	ClaimTypeNormative          ClaimType = "normative"           // Value judgement, never checkable
	ClaimTypeHedged             ClaimType = "hedged"              // Qualified or speculative statement
)

// Valid reports whether t is one of the known claim types
func (t ClaimType) Valid() bool {
	switch t {
	case ClaimTypeExplicitFact, ClaimTypeImplicitAssumption, ClaimTypeNormative, ClaimTypeHedged:
		return true
	}
	return false
}

// Domain identifies which external data domain a checkable claim belongs to
type Domain string

const (
	DomainEconomics   Domain = "economics"
	DomainGeopolitics Domain = "geopolitics"
	DomainEnergy      Domain = "energy"
	DomainOther       Domain = "other"
)

// Valid reports whether d is one of the known domains
func (d Domain) Valid() bool {
	switch d {
	case DomainEconomics, DomainGeopolitics, DomainEnergy, DomainOther:
		return true
	}
	return false
}

// Assumption represents an implicit premise surfaced by the argument mapper.
// It is not stated as a claim in the article but is required for the argument to hold.
type Assumption struct {
	ID             string `json:"id"`                    // A1, A2, ...
	Text           string `json:"text"`                  // The assumption stated plainly
	UnderliesClaim string `json:"underlies_claim"`       // Claim id this assumption supports
	Explanation    string `json:"explanation,omitempty"` // Why the argument needs it
}

// ArgumentMap is the directed graph connecting claims and assumptions
type ArgumentMap struct {
	Conclusion string         `json:"conclusion"` // Restatement of the thesis
	Nodes      []ArgumentNode `json:"nodes"`
	Edges      []ArgumentEdge `json:"edges"`
}

// ArgumentNode is one vertex of the argument graph
type ArgumentNode struct {
	ID    string `json:"id"`    // Claim or assumption id
	Label string `json:"label"` // Short human-readable label
	Type  string `json:"type"`  // premise, conclusion, assumption
}

// ArgumentEdge connects two nodes of the argument graph
type ArgumentEdge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Relation Relation `json:"relation"`
}

// Relation classifies how one node bears on another
type Relation string

const (
	RelationSupports    Relation = "supports"
	RelationContradicts Relation = "contradicts"
	RelationAssumes     Relation = "assumes"
)

// Valid reports whether r is one of the known relations
func (r Relation) Valid() bool {
	switch r {
	case RelationSupports, RelationContradicts, RelationAssumes:
		return true
	}
	return false
}

// LogicalFlag marks a reasoning issue found in the argument.
// The type taxonomy is open: inferential_gap and correlation_causation are
// the common ones, but the mapper may emit others.
type LogicalFlag struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"` // Claim id or free text
}
