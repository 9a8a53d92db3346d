package models

import "time"

// MatchType classifies which evaluation rule produced a duplicate verdict.
type MatchType string

const (
	MatchIdentifier   MatchType = "identifier_match"
	MatchContact      MatchType = "contact_match"
	MatchLocationName MatchType = "location_name_match"
	MatchOrganization MatchType = "organization_match"
	MatchFuzzy        MatchType = "fuzzy_match"
)

// ComparisonType records which traversal produced a candidate pair.
type ComparisonType string

const (
	CompareNewVsNew      ComparisonType = "new-vs-new"
	CompareNewVsExisting ComparisonType = "new-vs-existing"
)

// ScoreVector holds the five independent similarity signals for a pair.
// All values are in [0,1]; 0 means "no evidence", not "evidence of difference".
type ScoreVector struct {
	Name         float64 `json:"name"`
	Organization float64 `json:"organization"`
	Location     float64 `json:"location"`
	Contact      float64 `json:"contact"`
	LegalID      float64 `json:"legal_id"`
}

// ServiceSummary is an audit snapshot of one side of a candidate pair.
type ServiceSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	Source       string `json:"source,omitempty"`
}

// Summarize captures the audit snapshot of a record.
func Summarize(s *ServiceRecord) ServiceSummary {
	return ServiceSummary{
		ID:           s.ID,
		Name:         s.Name,
		Organization: s.OrganizationName(),
		Source:       s.DataSource,
	}
}

// DuplicateCandidate is the per-pair result of evaluation. It is ephemeral:
// produced during a run and never persisted unless the caller chooses to.
type DuplicateCandidate struct {
	ID             string         `json:"id"`
	Service1       ServiceSummary `json:"service1"`
	Service2       ServiceSummary `json:"service2"`
	Scores         ScoreVector    `json:"scores"`
	MatchType      MatchType      `json:"match_type"`
	Confidence     float64        `json:"confidence"`
	Reason         string         `json:"reason"`
	AutoMerge      bool           `json:"auto_merge"`
	ComparisonType ComparisonType `json:"comparison_type"`
	FoundAt        time.Time      `json:"found_at"`
}

// RunStats accumulates counters over a single deduplication run. Counters
// are monotonic within a run and reset at the start of the next.
type RunStats struct {
	TotalChecked     int   `json:"total_checked"`
	DuplicatesFound  int   `json:"duplicates_found"`
	AutoMerged       int   `json:"auto_merged"`
	PendingReview    int   `json:"pending_review"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// Add folds another accumulator into s. Used to reduce per-worker stats.
func (s *RunStats) Add(o RunStats) {
	s.TotalChecked += o.TotalChecked
	s.DuplicatesFound += o.DuplicatesFound
	s.AutoMerged += o.AutoMerged
	s.PendingReview += o.PendingReview
}

// StatsSnapshot is RunStats plus values derived for reporting.
type StatsSnapshot struct {
	RunStats
	DuplicatePairs int     `json:"duplicate_pairs"`
	MergedServices int     `json:"merged_services"`
	AverageCheckMs float64 `json:"average_check_ms"`
}

// Snapshot derives reporting values from raw counters.
func (s RunStats) Snapshot(pairs, merged int) StatsSnapshot {
	snap := StatsSnapshot{RunStats: s, DuplicatePairs: pairs, MergedServices: merged}
	if s.TotalChecked > 0 {
		snap.AverageCheckMs = float64(s.ProcessingTimeMs) / float64(s.TotalChecked)
	}
	return snap
}
