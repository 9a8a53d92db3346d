package similarity

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Youth Legal Aid", "youth legal aid"},
		{"punctuation stripped", "St. Vincent's (Brisbane)!", "st vincent s brisbane"},
		{"whitespace collapsed", "a   b\t\tc", "a b c"},
		{"leading and trailing", "  hello  ", "hello"},
		{"empty", "", ""},
		{"only punctuation", "...!!!", ""},
		{"digits kept", "Ward 4B", "ward 4b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Headspace", "Headspace", 1},
		{"identical after normalization", "head-space", "Head Space", 1},
		{"both empty", "", "", 0},
		{"one empty", "Headspace", "", 0},
		{"one letter off", "abcd", "abce", 0.75},
		{"completely different", "aaaa", "bbbb", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TextSimilarity(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("TextSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTextSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"Youth Legal Aid Service", "Youth Legal Aid Svc"},
		{"Headspace Ipswich", "Headspace Logan"},
		{"", "anything"},
	}

	for _, p := range pairs {
		ab := TextSimilarity(p[0], p[1])
		ba := TextSimilarity(p[1], p[0])
		if !almostEqual(ab, ba) {
			t.Errorf("TextSimilarity(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
		}
	}
}

func TestJaccardWords(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical sets", "youth legal aid", "youth legal aid", 1},
		{"partial overlap", "youth legal aid service", "youth legal aid svc", 0.6},
		{"no overlap", "alpha beta", "gamma delta", 0},
		{"empty side", "", "youth", 0},
		{"duplicated words", "aid aid youth", "youth aid", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JaccardWords(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("JaccardWords(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestStripOrgSuffixes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single suffix", "acme ltd", "acme"},
		{"compound pty ltd", "acme pty ltd", "acme"},
		{"foundation", "smith family foundation", "smith family"},
		{"suffix inside word kept", "telco services", "telco services"},
		{"no suffix", "youth advocacy centre", "youth advocacy centre"},
		{"suffix only", "ltd", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripOrgSuffixes(tt.in); got != tt.want {
				t.Errorf("StripOrgSuffixes(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHaversineMeters(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantMin, wantMax       float64
	}{
		{"coincident points", -27.4698, 153.0251, -27.4698, 153.0251, 0, 0.001},
		{"fifty meters apart", -27.4698, 153.0251, -27.46935, 153.0251, 45, 55},
		{"brisbane to ipswich", -27.4698, 153.0251, -27.6146, 152.7608, 25000, 35000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("HaversineMeters() = %v, want in [%v, %v]", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}
