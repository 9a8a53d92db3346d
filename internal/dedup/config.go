// Package dedup implements the record-linkage engine: candidate generation,
// tiered pair evaluation, merging, and run coordination.
package dedup

// BlockingKey selects the optional pre-pass that partitions records into
// comparison blocks before pairwise evaluation. Blocking trades a little
// recall for a large reduction in compared pairs on big corpora.
type BlockingKey string

const (
	// BlockingNone compares every pair exhaustively.
	BlockingNone BlockingKey = ""
	// BlockingNameToken blocks on the first token of the normalized name.
	BlockingNameToken BlockingKey = "name-token"
	// BlockingPostalPrefix blocks on the first two characters of the first
	// location's postal code.
	BlockingPostalPrefix BlockingKey = "postal-prefix"
)

// Config holds the tunables of a deduplication run.
type Config struct {
	// Scorer thresholds.
	NameThreshold     float64 `yaml:"name_threshold"`
	LocationThreshold float64 `yaml:"location_threshold"`
	// OrganizationThreshold is recognized for compatibility with older
	// pipeline configs; the organization rule reads the two knobs below.
	OrganizationThreshold      float64 `yaml:"organization_threshold"`
	OrganizationMatchThreshold float64 `yaml:"organization_match_threshold"`
	OrganizationNameThreshold  float64 `yaml:"organization_name_threshold"`
	// SupportThreshold is the cutoff above which a secondary signal counts
	// as supporting evidence for a fuzzy name match.
	SupportThreshold float64 `yaml:"support_threshold"`

	// Geographic proximity decay limit, in meters.
	MaxLocationDistanceMeters float64 `yaml:"max_location_distance_meters"`

	// Phone normalization.
	CountryCallingCode   string `yaml:"country_calling_code"`
	NationalNumberLength int    `yaml:"national_number_length"`

	// Merge policy.
	AutoMergeThreshold  float64 `yaml:"auto_merge_threshold"`
	RequireManualReview bool    `yaml:"require_manual_review"`

	// Run shape.
	Concurrency int         `yaml:"concurrency"`
	Blocking    BlockingKey `yaml:"blocking"`
}

// DefaultConfig returns the thresholds of the production pipeline.
func DefaultConfig() Config {
	return Config{
		NameThreshold:              0.85,
		LocationThreshold:          0.90,
		OrganizationThreshold:      0.80,
		OrganizationMatchThreshold: 0.85,
		OrganizationNameThreshold:  0.75,
		SupportThreshold:           0.70,
		MaxLocationDistanceMeters:  2000,
		CountryCallingCode:         "61",
		NationalNumberLength:       9,
		AutoMergeThreshold:         0.95,
		RequireManualReview:        true,
		Concurrency:                4,
		Blocking:                   BlockingNone,
	}
}
