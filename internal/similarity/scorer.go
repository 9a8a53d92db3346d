package similarity

import (
	"net/url"
	"strings"

	"github.com/justicehub-au/finder-dedupe/internal/models"
)

// proximityFullScoreMeters is the distance under which two coordinates are
// treated as the same site.
const proximityFullScoreMeters = 100

// Scorer computes the five-signal similarity vector for a record pair. The
// zero value is not usable; construct with NewScorer.
type Scorer struct {
	maxLocationDistance  float64
	countryCallingCode   string
	nationalNumberLength int
}

// NewScorer builds a scorer. maxLocationDistance is the distance in meters at
// which geographic proximity decays to zero; countryCallingCode and
// nationalNumberLength drive phone-prefix normalization (e.g. "61" and 9 for
// Australian numbers).
func NewScorer(maxLocationDistance float64, countryCallingCode string, nationalNumberLength int) *Scorer {
	return &Scorer{
		maxLocationDistance:  maxLocationDistance,
		countryCallingCode:   countryCallingCode,
		nationalNumberLength: nationalNumberLength,
	}
}

// Vector computes all five signals for a pair.
func (sc *Scorer) Vector(a, b *models.ServiceRecord) models.ScoreVector {
	return models.ScoreVector{
		Name:         sc.Name(a, b),
		Organization: sc.Organization(a, b),
		Location:     sc.Location(a, b),
		Contact:      sc.Contact(a, b),
		LegalID:      sc.LegalIdentifier(a, b),
	}
}

// Name scores service-name similarity: exact normalized match is 1.0,
// otherwise a 0.6/0.4 blend of edit-distance similarity and word overlap.
func (sc *Scorer) Name(a, b *models.ServiceRecord) float64 {
	na := NormalizeText(a.Name)
	nb := NormalizeText(b.Name)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	return 0.6*normalizedSimilarity(na, nb) + 0.4*JaccardWords(na, nb)
}

// Organization scores owning-organization name similarity. Matching only
// after legal-suffix stripping caps at 0.95, since stripping is lossy.
func (sc *Scorer) Organization(a, b *models.ServiceRecord) float64 {
	na := NormalizeText(a.OrganizationName())
	nb := NormalizeText(b.OrganizationName())
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	cleanA := StripOrgSuffixes(na)
	cleanB := StripOrgSuffixes(nb)
	if cleanA == cleanB {
		return 0.95
	}

	return normalizedSimilarity(cleanA, cleanB)
}

// Location scores the best pairwise match between the two records' location
// sets. Records without locations score 0.
func (sc *Scorer) Location(a, b *models.ServiceRecord) float64 {
	if len(a.Locations) == 0 || len(b.Locations) == 0 {
		return 0
	}

	best := 0.0
	for _, la := range a.Locations {
		for _, lb := range b.Locations {
			if s := sc.CompareLocations(la, lb); s > best {
				best = s
			}
		}
	}
	return best
}

// CompareLocations scores one location pair as a weighted sum over the
// sub-signals both sides have data for, renormalized by the weight of the
// available sub-signals: address text 0.4, city text 0.2, postal code 0.2
// (binary), geographic proximity 0.2.
func (sc *Scorer) CompareLocations(a, b models.LocationRecord) float64 {
	score := 0.0
	weight := 0.0

	if a.Address1 != "" && b.Address1 != "" {
		score += TextSimilarity(a.Address1, b.Address1) * 0.4
		weight += 0.4
	}

	if a.City != "" && b.City != "" {
		score += TextSimilarity(a.City, b.City) * 0.2
		weight += 0.2
	}

	if a.PostalCode != "" && b.PostalCode != "" {
		if a.PostalCode == b.PostalCode {
			score += 0.2
		}
		weight += 0.2
	}

	if a.HasCoordinates() && b.HasCoordinates() {
		meters := HaversineMeters(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
		score += sc.proximityScore(meters) * 0.2
		weight += 0.2
	}

	if weight == 0 {
		return 0
	}
	return score / weight
}

// proximityScore is 1.0 under 100 meters, linearly decaying to 0 at the
// configured maximum distance.
func (sc *Scorer) proximityScore(meters float64) float64 {
	switch {
	case meters < proximityFullScoreMeters:
		return 1
	case meters < sc.maxLocationDistance:
		return 1 - meters/sc.maxLocationDistance
	default:
		return 0
	}
}

// Contact averages up to three binary signals, each counted only when both
// sides have the data: email equality, normalized phone equality, and URL
// hostname equality.
func (sc *Scorer) Contact(a, b *models.ServiceRecord) float64 {
	score := 0.0
	checks := 0

	emailA := a.ContactEmail()
	emailB := b.ContactEmail()
	if emailA != "" && emailB != "" {
		if strings.EqualFold(emailA, emailB) {
			score++
		}
		checks++
	}

	phoneA := sc.NormalizePhone(a.ContactPhone())
	phoneB := sc.NormalizePhone(b.ContactPhone())
	if phoneA != "" && phoneB != "" {
		if phoneA == phoneB {
			score++
		}
		checks++
	}

	if a.URL != "" && b.URL != "" {
		if hostname(a.URL) == hostname(b.URL) {
			score++
		}
		checks++
	}

	if checks == 0 {
		return 0
	}
	return score / float64(checks)
}

// LegalIdentifier is binary: 1.0 when both sides carry a legal identifier
// whose digits are equal, 0.0 otherwise.
func (sc *Scorer) LegalIdentifier(a, b *models.ServiceRecord) float64 {
	idA := digitsOnly(a.TaxID())
	idB := digitsOnly(b.TaxID())
	if idA == "" || idB == "" {
		return 0
	}
	if idA == idB {
		return 1
	}
	return 0
}

// NormalizePhone strips non-digits and removes the configured country
// calling code when the cleaned number carries it at the expected length.
func (sc *Scorer) NormalizePhone(raw string) string {
	cleaned := digitsOnly(raw)
	cc := sc.countryCallingCode
	if cc != "" && strings.HasPrefix(cleaned, cc) && len(cleaned) == len(cc)+sc.nationalNumberLength {
		return cleaned[len(cc):]
	}
	return cleaned
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// hostname extracts the lowercased host from a URL, ignoring scheme and
// path. Unparseable values fall back to the lowercased raw string so two
// identically malformed URLs still compare equal.
func hostname(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		// Bare domains like "example.org" parse as a path; retry with scheme.
		u2, err2 := url.Parse("https://" + strings.TrimSpace(rawURL))
		if err2 != nil || u2.Hostname() == "" {
			return strings.ToLower(strings.TrimSpace(rawURL))
		}
		return strings.ToLower(u2.Hostname())
	}
	return strings.ToLower(u.Hostname())
}
