package dedup

import (
	"fmt"

	"github.com/justicehub-au/finder-dedupe/internal/models"
)

// Verdict is the evaluator's judgement on a candidate pair.
type Verdict struct {
	Type       models.MatchType
	Confidence float64
	Reason     string
}

// Evaluator applies the tiered match rules to a score vector.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an evaluator for the given configuration.
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate returns nil for no match, or a verdict with confidence in [0,1].
// Rules run in strict priority order and the first hit wins: identifier and
// contact matches are near-certain even with a weak name match (organizations
// rename services, typos happen), while name similarity alone is weak
// evidence and needs corroboration.
func (e *Evaluator) Evaluate(scores models.ScoreVector) *Verdict {
	// Rule 1: identical legal identifier is a certain duplicate.
	if scores.LegalID == 1 {
		return &Verdict{
			Type:       models.MatchIdentifier,
			Confidence: 1.0,
			Reason:     "Identical legal identifier",
		}
	}

	// Rule 2: strong contact overlap with a plausible name.
	if scores.Contact >= 0.8 && scores.Name >= 0.7 {
		return &Verdict{
			Type:       models.MatchContact,
			Confidence: scores.Contact*0.6 + scores.Name*0.4,
			Reason:     "Strong contact and name similarity",
		}
	}

	// Rule 3: same location and a very similar name.
	if scores.Location >= e.cfg.LocationThreshold && scores.Name >= 0.8 {
		return &Verdict{
			Type:       models.MatchLocationName,
			Confidence: scores.Location*0.5 + scores.Name*0.5,
			Reason:     "Same location with similar name",
		}
	}

	// Rule 4: same organization offering a similarly named service.
	if scores.Organization >= e.cfg.OrganizationMatchThreshold && scores.Name >= e.cfg.OrganizationNameThreshold {
		return &Verdict{
			Type:       models.MatchOrganization,
			Confidence: scores.Organization*0.6 + scores.Name*0.4,
			Reason:     "Same organization with similar service name",
		}
	}

	// Rule 5: fuzzy name match, accepted only with supporting evidence.
	if scores.Name >= e.cfg.NameThreshold {
		supporting := 0
		confidence := scores.Name * 0.5

		if scores.Organization >= e.cfg.SupportThreshold {
			supporting++
			confidence += scores.Organization * 0.2
		}
		if scores.Location >= e.cfg.SupportThreshold {
			supporting++
			confidence += scores.Location * 0.2
		}
		if scores.Contact >= e.cfg.SupportThreshold {
			supporting++
			confidence += scores.Contact * 0.1
		}

		if supporting >= 1 {
			if confidence > 1 {
				confidence = 1
			}
			return &Verdict{
				Type:       models.MatchFuzzy,
				Confidence: confidence,
				Reason:     fmt.Sprintf("Name similarity with %d supporting factors", supporting),
			}
		}
	}

	return nil
}
