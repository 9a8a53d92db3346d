package dedup

import (
	"testing"

	"github.com/justicehub-au/finder-dedupe/internal/models"
)

func recs(names ...string) []models.ServiceRecord {
	out := make([]models.ServiceRecord, len(names))
	for i, n := range names {
		out[i] = models.ServiceRecord{ID: n, Name: n}
	}
	return out
}

func TestGeneratorExhaustive(t *testing.T) {
	tests := []struct {
		name      string
		newCount  int
		oldCount  int
		wantPairs int
	}{
		{"empty", 0, 0, 0},
		{"single new record", 1, 0, 0},
		{"new only", 4, 0, 6},      // 4*3/2
		{"new and existing", 3, 5, 18}, // 3*5 + 3
		{"existing only", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
			g := &generator{
				newRecords: recs(names[:tt.newCount]...),
				existing:   recs(names[tt.newCount : tt.newCount+tt.oldCount]...),
			}
			if got := g.count(); got != tt.wantPairs {
				t.Errorf("count() = %d, want %d", got, tt.wantPairs)
			}
		})
	}
}

func TestGeneratorSkipsSelfPairs(t *testing.T) {
	// "b" appears in both batches with the same ID; it must never be
	// compared against itself.
	g := &generator{
		newRecords: recs("a", "b"),
		existing:   recs("b", "c"),
	}

	emitted := 0
	g.each(func(p pair) bool {
		if p.a.ID == p.b.ID {
			t.Errorf("self-pair emitted for %q", p.a.ID)
		}
		emitted++
		return true
	})

	// a-b, a-c, b-c from new×existing (b-b skipped), plus a-b from new×new.
	if emitted != 4 {
		t.Errorf("emitted %d pairs, want 4", emitted)
	}
}

func TestGeneratorNewPairsEmittedOnce(t *testing.T) {
	g := &generator{newRecords: recs("a", "b", "c")}

	seen := make(map[[2]string]bool)
	g.each(func(p pair) bool {
		key := [2]string{p.a.ID, p.b.ID}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			t.Errorf("pair %v emitted twice", key)
		}
		seen[key] = true
		return true
	})

	if len(seen) != 3 {
		t.Errorf("got %d distinct pairs, want 3", len(seen))
	}
}

func TestGeneratorComparisonTypes(t *testing.T) {
	g := &generator{
		newRecords: recs("a", "b"),
		existing:   recs("c"),
	}

	counts := map[models.ComparisonType]int{}
	g.each(func(p pair) bool {
		counts[p.comparison]++
		return true
	})

	if counts[models.CompareNewVsExisting] != 2 {
		t.Errorf("new-vs-existing pairs = %d, want 2", counts[models.CompareNewVsExisting])
	}
	if counts[models.CompareNewVsNew] != 1 {
		t.Errorf("new-vs-new pairs = %d, want 1", counts[models.CompareNewVsNew])
	}
}

func TestGeneratorBlocking(t *testing.T) {
	newRecords := []models.ServiceRecord{
		{ID: "a", Name: "Headspace Ipswich"},
		{ID: "b", Name: "Headspace Logan"},
		{ID: "c", Name: "Youth Advocacy Centre"},
	}

	t.Run("name token blocking", func(t *testing.T) {
		g := &generator{newRecords: newRecords, blocking: BlockingNameToken}
		// Only the two headspace records share a block.
		if got := g.count(); got != 1 {
			t.Errorf("count() = %d, want 1", got)
		}
	})

	t.Run("postal prefix blocking", func(t *testing.T) {
		withPostcode := make([]models.ServiceRecord, len(newRecords))
		copy(withPostcode, newRecords)
		withPostcode[0].Locations = []models.LocationRecord{{PostalCode: "4305"}}
		withPostcode[1].Locations = []models.LocationRecord{{PostalCode: "4114"}}
		withPostcode[2].Locations = []models.LocationRecord{{PostalCode: "4300"}}

		g := &generator{newRecords: withPostcode, blocking: BlockingPostalPrefix}
		// 43xx block holds records a and c; b is alone in 41xx.
		if got := g.count(); got != 1 {
			t.Errorf("count() = %d, want 1", got)
		}
	})

	t.Run("no blocking compares everything", func(t *testing.T) {
		g := &generator{newRecords: newRecords}
		if got := g.count(); got != 3 {
			t.Errorf("count() = %d, want 3", got)
		}
	})
}

func TestGeneratorBatches(t *testing.T) {
	g := &generator{newRecords: recs("a", "b", "c", "d", "e")} // 10 pairs

	batches := g.batches(4)
	if len(batches) != 3 {
		t.Fatalf("len(batches) = %d, want 3", len(batches))
	}
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	if total != 10 {
		t.Errorf("total pairs across batches = %d, want 10", total)
	}
	if len(batches[2]) != 2 {
		t.Errorf("last batch size = %d, want 2", len(batches[2]))
	}
}
