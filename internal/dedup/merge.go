package dedup

import (
	"strings"
	"time"

	"github.com/justicehub-au/finder-dedupe/internal/models"
	"github.com/justicehub-au/finder-dedupe/internal/similarity"
)

// locationDedupeThreshold is the location similarity above which a secondary
// location is considered already present on the primary.
const locationDedupeThreshold = 0.8

// Merger folds a matched pair into a single record under explicit per-field
// strategies. It produces a new value; neither input is mutated, and the
// secondary record is never deleted here (persistence belongs to the caller).
type Merger struct {
	scorer *similarity.Scorer
	now    func() time.Time
}

// NewMerger creates a merger. The scorer is reused for location dedupe so
// merge and match semantics agree on what "the same location" means.
func NewMerger(scorer *similarity.Scorer) *Merger {
	return &Merger{scorer: scorer, now: time.Now}
}

// Merge combines two duplicate records. The record with the higher
// completeness score becomes the primary and keeps its ID; ties keep the
// first-seen side. candidateID links the result back to the duplicate pair.
func (m *Merger) Merge(a, b *models.ServiceRecord, verdict *Verdict, candidateID string) models.ServiceRecord {
	primary, secondary := a, b
	if b.CompletenessScore > a.CompletenessScore {
		primary, secondary = b, a
	}

	merged := clone(primary)

	merged.Description = longest(primary.Description, secondary.Description)
	merged.Categories = unionStrings(primary.Categories, secondary.Categories)
	merged.Locations = m.mergeLocations(primary.Locations, secondary.Locations)
	merged.Contacts = m.mergeContacts(primary.Contacts, secondary.Contacts)
	merged.Email = firstNonEmpty(primary.Email, secondary.Email)
	merged.URL = firstNonEmpty(primary.URL, secondary.URL)
	merged.Organization = mergeOrganizations(primary.Organization, secondary.Organization)
	merged.DataSource = joinSources(primary.DataSource, secondary.DataSource)
	merged.VerificationStatus = models.BestStatus(primary.VerificationStatus, secondary.VerificationStatus)

	merged.CompletenessScore = primary.CompletenessScore
	if secondary.CompletenessScore > merged.CompletenessScore {
		merged.CompletenessScore = secondary.CompletenessScore
	}

	merged.Merged = &models.MergeProvenance{
		DuplicateID:        candidateID,
		PrimaryServiceID:   primary.ID,
		SecondaryServiceID: secondary.ID,
		MatchType:          verdict.Type,
		Confidence:         verdict.Confidence,
		MergedAt:           m.now().UTC(),
	}

	return merged
}

// clone copies a record deeply enough that the merge never aliases the
// caller's slices or organization.
func clone(r *models.ServiceRecord) models.ServiceRecord {
	out := *r

	out.Categories = append([]string(nil), r.Categories...)
	out.Locations = append([]models.LocationRecord(nil), r.Locations...)

	out.Contacts = make([]models.ContactRecord, len(r.Contacts))
	for i, c := range r.Contacts {
		out.Contacts[i] = c
		out.Contacts[i].Phones = append([]models.PhoneNumber(nil), c.Phones...)
	}

	if r.Organization != nil {
		org := *r.Organization
		out.Organization = &org
	}
	return out
}

// mergeLocations unions location sets, dropping a secondary location only if
// it is at least 0.8-similar to one already kept.
func (m *Merger) mergeLocations(primary, secondary []models.LocationRecord) []models.LocationRecord {
	merged := append([]models.LocationRecord(nil), primary...)

	for _, loc := range secondary {
		duplicate := false
		for _, kept := range merged {
			if m.scorer.CompareLocations(kept, loc) >= locationDedupeThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			merged = append(merged, loc)
		}
	}
	return merged
}

// mergeContacts unions contact sets, dropping a secondary contact when its
// email or any normalized phone number is already present.
func (m *Merger) mergeContacts(primary, secondary []models.ContactRecord) []models.ContactRecord {
	merged := make([]models.ContactRecord, len(primary))
	for i, c := range primary {
		merged[i] = c
		merged[i].Phones = append([]models.PhoneNumber(nil), c.Phones...)
	}

	for _, candidate := range secondary {
		duplicate := false
		for _, kept := range merged {
			if contactsOverlap(kept, candidate, m.scorer) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			c := candidate
			c.Phones = append([]models.PhoneNumber(nil), candidate.Phones...)
			merged = append(merged, c)
		}
	}
	return merged
}

func contactsOverlap(a, b models.ContactRecord, scorer *similarity.Scorer) bool {
	if a.Email != "" && b.Email != "" && strings.EqualFold(a.Email, b.Email) {
		return true
	}
	for _, pa := range a.Phones {
		na := scorer.NormalizePhone(pa.Number)
		if na == "" {
			continue
		}
		for _, pb := range b.Phones {
			if na == scorer.NormalizePhone(pb.Number) {
				return true
			}
		}
	}
	return false
}

// mergeOrganizations merges field-wise: description longest, everything else
// primary-if-present-else-secondary.
func mergeOrganizations(primary, secondary *models.OrganizationRecord) *models.OrganizationRecord {
	if primary == nil && secondary == nil {
		return nil
	}
	if primary == nil {
		org := *secondary
		return &org
	}
	if secondary == nil {
		org := *primary
		return &org
	}

	merged := *primary
	merged.Description = longest(primary.Description, secondary.Description)
	merged.Email = firstNonEmpty(primary.Email, secondary.Email)
	merged.URL = firstNonEmpty(primary.URL, secondary.URL)
	merged.TaxID = firstNonEmpty(primary.TaxID, secondary.TaxID)
	return &merged
}

func longest(a, b string) string {
	if len(b) > len(a) {
		return b
	}
	return a
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// unionStrings deduplicates the concatenation of two sets, keeping first
// occurrence order.
func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// joinSources comma-joins the union of both provenance labels, deduplicated.
func joinSources(a, b string) string {
	var labels []string
	seen := make(map[string]struct{})
	for _, raw := range append(strings.Split(a, ","), strings.Split(b, ",")...) {
		label := strings.TrimSpace(raw)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return strings.Join(labels, ", ")
}
