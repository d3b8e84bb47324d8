package pipeline

import "github.com/ppiankov/clearview/internal/model"

// buildSummary tallies the derived counters. Every counter is the size of
// the set it names; nothing here is estimated.
func buildSummary(claims []model.Claim, assumptions []model.Assumption, flags []model.LogicalFlag, validation []model.ValidationResult) model.Summary {
	s := model.Summary{
		TotalClaims:         len(claims),
		ImplicitAssumptions: len(assumptions),
		LogicalFlagsCount:   len(flags),
	}

	for _, c := range claims {
		switch c.Type {
		case model.ClaimTypeExplicitFact:
			s.ExplicitFacts++
		case model.ClaimTypeNormative:
			s.NormativeClaims++
		case model.ClaimTypeHedged:
			s.HedgedClaims++
		case model.ClaimTypeImplicitAssumption:
			s.ImplicitAssumptions++
		}
		if c.IsCheckable {
			s.CheckableClaims++
		}
	}

	for _, v := range validation {
		switch v.Status {
		case model.StatusSupported:
			s.ValidatedCount++
		case model.StatusPartiallySupported:
			s.PartialCount++
		case model.StatusContradicted:
			s.ContradictedCount++
		case model.StatusInsufficientData:
			s.InsufficientCount++
		}
	}

	return s
}
