// Package models defines the data structures for service-record deduplication.
package models

import (
	"fmt"
	"time"
)

// VerificationStatus describes how much a record's content has been vetted.
type VerificationStatus string

const (
	StatusVerified   VerificationStatus = "verified"
	StatusPending    VerificationStatus = "pending"
	StatusUnverified VerificationStatus = "unverified"
	StatusRejected   VerificationStatus = "rejected"
)

// statusRank orders verification statuses by trust. Unknown values rank
// below rejected so merges never promote garbage.
var statusRank = map[VerificationStatus]int{
	StatusVerified:   3,
	StatusPending:    2,
	StatusUnverified: 1,
	StatusRejected:   0,
}

// Rank returns the trust rank of a status (-1 for unknown values).
func (s VerificationStatus) Rank() int {
	r, ok := statusRank[s]
	if !ok {
		return -1
	}
	return r
}

// BestStatus returns the higher-trust of two statuses, preferring a on ties.
func BestStatus(a, b VerificationStatus) VerificationStatus {
	if a.Rank() >= b.Rank() {
		return a
	}
	return b
}

// PhoneNumber is a single dialable number on a contact.
type PhoneNumber struct {
	Number string `json:"number"`
}

// ContactRecord holds the reachable endpoints of a service.
type ContactRecord struct {
	Email  string        `json:"email,omitempty"`
	Phones []PhoneNumber `json:"phone,omitempty"`
}

// LocationRecord is a physical site a service operates from. Any subset of
// fields may be absent; coordinates use pointers so zero values are not
// mistaken for real positions.
type LocationRecord struct {
	Address1   string   `json:"address_1,omitempty"`
	City       string   `json:"city,omitempty"`
	PostalCode string   `json:"postal_code,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (l LocationRecord) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// OrganizationRecord is the provider a service belongs to. Organizations are
// only merged as a side effect of merging their owning service.
type OrganizationRecord struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email,omitempty"`
	URL         string `json:"url,omitempty"`
	TaxID       string `json:"tax_id,omitempty"`
}

// MergeProvenance records how a merged record was produced.
type MergeProvenance struct {
	DuplicateID        string    `json:"duplicate_id"`
	PrimaryServiceID   string    `json:"primary_service_id"`
	SecondaryServiceID string    `json:"secondary_service_id"`
	MatchType          MatchType `json:"match_type"`
	Confidence         float64   `json:"confidence"`
	MergedAt           time.Time `json:"merged_at"`
}

// ServiceRecord is the unit of deduplication. Records arrive already parsed
// from upstream ingestion; the engine never mutates its inputs, a merge
// produces a new value carrying the primary's ID.
type ServiceRecord struct {
	ID                 string               `json:"id"`
	DataSource         string               `json:"data_source,omitempty"`
	Name               string               `json:"name"`
	Description        string               `json:"description,omitempty"`
	Categories         []string             `json:"categories,omitempty"`
	URL                string               `json:"url,omitempty"`
	Email              string               `json:"email,omitempty"`
	Locations          []LocationRecord     `json:"locations,omitempty"`
	Contacts           []ContactRecord      `json:"contacts,omitempty"`
	Organization       *OrganizationRecord  `json:"organization,omitempty"`
	CompletenessScore  float64              `json:"completeness_score,omitempty"`
	VerificationStatus VerificationStatus   `json:"verification_status,omitempty"`
	Merged             *MergeProvenance     `json:"_merged,omitempty"`
}

// OrganizationName returns the owning organization's name, or "".
func (s *ServiceRecord) OrganizationName() string {
	if s.Organization == nil {
		return ""
	}
	return s.Organization.Name
}

// TaxID returns the organization's legal identifier, or "".
func (s *ServiceRecord) TaxID() string {
	if s.Organization == nil {
		return ""
	}
	return s.Organization.TaxID
}

// ContactEmail returns the best-known email: the record's own, falling back
// to the first contact that has one.
func (s *ServiceRecord) ContactEmail() string {
	if s.Email != "" {
		return s.Email
	}
	for _, c := range s.Contacts {
		if c.Email != "" {
			return c.Email
		}
	}
	return ""
}

// ContactPhone returns the first phone number found on any contact, or "".
func (s *ServiceRecord) ContactPhone() string {
	for _, c := range s.Contacts {
		for _, p := range c.Phones {
			if p.Number != "" {
				return p.Number
			}
		}
	}
	return ""
}

// ValidateBatch fails fast on malformed input so callers never receive
// partial, ambiguous results. label names the batch in error messages.
func ValidateBatch(label string, records []ServiceRecord) error {
	seen := make(map[string]int, len(records))
	for i, r := range records {
		if r.ID == "" {
			return fmt.Errorf("%s[%d]: record has no ID", label, i)
		}
		if r.Name == "" {
			return fmt.Errorf("%s[%d] (%s): record has no name", label, i, r.ID)
		}
		if j, dup := seen[r.ID]; dup {
			return fmt.Errorf("%s[%d]: duplicate record ID %q (first at index %d)", label, i, r.ID, j)
		}
		seen[r.ID] = i
	}
	return nil
}
