package dedup

import (
	"math"
	"testing"

	"github.com/justicehub-au/finder-dedupe/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluate(t *testing.T) {
	eval := NewEvaluator(DefaultConfig())

	tests := []struct {
		name           string
		scores         models.ScoreVector
		wantType       models.MatchType
		wantConfidence float64
		wantNone       bool
	}{
		{
			name:           "identical legal identifier is certain",
			scores:         models.ScoreVector{LegalID: 1, Name: 0.1},
			wantType:       models.MatchIdentifier,
			wantConfidence: 1.0,
		},
		{
			name:           "legal identifier outranks every other rule",
			scores:         models.ScoreVector{LegalID: 1, Name: 1, Contact: 1, Location: 1, Organization: 1},
			wantType:       models.MatchIdentifier,
			wantConfidence: 1.0,
		},
		{
			name:           "contact match",
			scores:         models.ScoreVector{Contact: 0.9, Name: 0.75},
			wantType:       models.MatchContact,
			wantConfidence: 0.9*0.6 + 0.75*0.4,
		},
		{
			name:           "location plus name match",
			scores:         models.ScoreVector{Location: 0.95, Name: 0.85},
			wantType:       models.MatchLocationName,
			wantConfidence: 0.95*0.5 + 0.85*0.5,
		},
		{
			name:           "contact rule outranks location rule",
			scores:         models.ScoreVector{Contact: 0.85, Location: 0.95, Name: 0.9},
			wantType:       models.MatchContact,
			wantConfidence: 0.85*0.6 + 0.9*0.4,
		},
		{
			name:           "organization match",
			scores:         models.ScoreVector{Organization: 0.9, Name: 0.76},
			wantType:       models.MatchOrganization,
			wantConfidence: 0.9*0.6 + 0.76*0.4,
		},
		{
			name:           "fuzzy name with one supporting factor",
			scores:         models.ScoreVector{Name: 0.9, Organization: 0.75},
			wantType:       models.MatchFuzzy,
			wantConfidence: 0.9*0.5 + 0.75*0.2,
		},
		{
			name:           "fuzzy name with all three supporting factors",
			scores:         models.ScoreVector{Name: 0.9, Organization: 0.8, Location: 0.85, Contact: 0.75},
			wantType:       models.MatchFuzzy,
			wantConfidence: 0.9*0.5 + 0.8*0.2 + 0.85*0.2 + 0.75*0.1,
		},
		{
			name:     "fuzzy name without support is rejected",
			scores:   models.ScoreVector{Name: 0.95, Organization: 0.5, Location: 0.6, Contact: 0.3},
			wantNone: true,
		},
		{
			name:     "everything just below thresholds",
			scores:   models.ScoreVector{Name: 0.84, Organization: 0.84, Location: 0.89, Contact: 0.79},
			wantNone: true,
		},
		{
			name:     "no signals",
			scores:   models.ScoreVector{},
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eval.Evaluate(tt.scores)

			if tt.wantNone {
				if got != nil {
					t.Fatalf("Evaluate() = %+v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatal("Evaluate() = nil, want verdict")
			}
			if got.Type != tt.wantType {
				t.Errorf("Evaluate().Type = %q, want %q", got.Type, tt.wantType)
			}
			if !almostEqual(got.Confidence, tt.wantConfidence) {
				t.Errorf("Evaluate().Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Errorf("Evaluate().Confidence = %v, want in [0,1]", got.Confidence)
			}
			if got.Reason == "" {
				t.Error("Evaluate().Reason is empty")
			}
		})
	}
}

// A verdict below the name threshold must come from the identifier, contact,
// location, or organization rules; the fuzzy rule alone can never fire.
func TestEvaluateFuzzyNeverFiresBelowNameThreshold(t *testing.T) {
	eval := NewEvaluator(DefaultConfig())

	for name := 0.0; name < 0.85; name += 0.05 {
		scores := models.ScoreVector{
			Name:         name,
			Organization: 0.84, // below organization rule, above support
			Location:     0.89, // below location rule, above support
			Contact:      0.79, // below contact rule, above support
		}
		if got := eval.Evaluate(scores); got != nil {
			t.Errorf("Evaluate(name=%.2f) = %+v, want nil", name, got)
		}
	}
}

func TestEvaluateConfigurableThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OrganizationMatchThreshold = 0.95
	cfg.OrganizationNameThreshold = 0.90
	eval := NewEvaluator(cfg)

	// Would fire rule 4 under defaults, but the raised thresholds reject it
	// and the fuzzy rule picks it up instead.
	scores := models.ScoreVector{Organization: 0.9, Name: 0.86}
	got := eval.Evaluate(scores)
	if got == nil {
		t.Fatal("Evaluate() = nil, want fuzzy verdict")
	}
	if got.Type != models.MatchFuzzy {
		t.Errorf("Evaluate().Type = %q, want %q", got.Type, models.MatchFuzzy)
	}
}
