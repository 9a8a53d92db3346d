package dedup

import (
	"strings"

	"github.com/justicehub-au/finder-dedupe/internal/models"
	"github.com/justicehub-au/finder-dedupe/internal/similarity"
)

// pair is a single candidate comparison. Pointers reference the caller's
// slices; records are never copied or mutated during generation.
type pair struct {
	a, b       *models.ServiceRecord
	comparison models.ComparisonType
}

// generator walks new×existing and new×new (i<j) pairs, optionally
// restricted to records sharing a blocking key. Exhaustive traversal is
// O(n·m + n²); blocking reduces it to within-block comparisons.
type generator struct {
	newRecords []models.ServiceRecord
	existing   []models.ServiceRecord
	blocking   BlockingKey
}

// blockKey computes the record's blocking key. Records missing the keyed
// field share the empty block and still compare with each other.
func (g *generator) blockKey(r *models.ServiceRecord) string {
	switch g.blocking {
	case BlockingNameToken:
		fields := strings.Fields(similarity.NormalizeText(r.Name))
		if len(fields) == 0 {
			return ""
		}
		return fields[0]
	case BlockingPostalPrefix:
		for _, loc := range r.Locations {
			if len(loc.PostalCode) >= 2 {
				return loc.PostalCode[:2]
			}
		}
		return ""
	default:
		return ""
	}
}

// count returns the number of pairs the generator will produce. Used to size
// progress reporting before the run starts.
func (g *generator) count() int {
	total := 0
	g.each(func(pair) bool {
		total++
		return true
	})
	return total
}

// each invokes fn for every candidate pair in deterministic order. fn
// returning false stops the traversal.
func (g *generator) each(fn func(pair) bool) {
	blocked := g.blocking != BlockingNone

	var existingKeys []string
	if blocked {
		existingKeys = make([]string, len(g.existing))
		for j := range g.existing {
			existingKeys[j] = g.blockKey(&g.existing[j])
		}
	}

	newKeys := make([]string, len(g.newRecords))
	if blocked {
		for i := range g.newRecords {
			newKeys[i] = g.blockKey(&g.newRecords[i])
		}
	}

	// New batch against the existing corpus.
	for i := range g.newRecords {
		for j := range g.existing {
			if g.newRecords[i].ID == g.existing[j].ID {
				continue
			}
			if blocked && newKeys[i] != existingKeys[j] {
				continue
			}
			if !fn(pair{a: &g.newRecords[i], b: &g.existing[j], comparison: models.CompareNewVsExisting}) {
				return
			}
		}
	}

	// New batch against itself, i<j so no self-pairs and no pair twice.
	for i := range g.newRecords {
		for j := i + 1; j < len(g.newRecords); j++ {
			if blocked && newKeys[i] != newKeys[j] {
				continue
			}
			if !fn(pair{a: &g.newRecords[i], b: &g.newRecords[j], comparison: models.CompareNewVsNew}) {
				return
			}
		}
	}
}

// batches partitions the pair stream into slices of at most size pairs.
func (g *generator) batches(size int) [][]pair {
	if size <= 0 {
		size = 1
	}

	var out [][]pair
	current := make([]pair, 0, size)
	g.each(func(p pair) bool {
		current = append(current, p)
		if len(current) == size {
			out = append(out, current)
			current = make([]pair, 0, size)
		}
		return true
	})
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}
