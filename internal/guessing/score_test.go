package guessing

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Madrid", "madrid"},
		{"  São   Tomé ", "sao tome"},
		{"Port-au-Prince", "port au prince"},
		{"N'Djamena", "ndjamena"},
		{"BOGOTÁ", "bogota"},
		{"Washington, D.C.", "washington dc"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMistakesPositional(t *testing.T) {
	cases := []struct {
		guess, solution string
		want            int
	}{
		{"Paris", "Paris", 0},
		{"paris", "Paris", 0},
		{"pariss", "Paris", 1},
		{"pariz", "Paris", 1},
		{"pa", "Paris", 3},
		{"", "Paris", 5},
		{"Buenos Aires", "Buenos Aires", 0},
		{"Buenos", "Buenos Aires", 5},       // missing word costs its length
		{"Buenos Aires X", "Buenos Aires", 1}, // extra word costs its length
		{"xuenos xires", "Buenos Aires", 2},
	}
	for _, c := range cases {
		if got := MistakesInGuess(c.guess, c.solution); got != c.want {
			t.Errorf("MistakesInGuess(%q, %q) = %d, want %d", c.guess, c.solution, got, c.want)
		}
	}
}

func TestMistakesNotEditDistance(t *testing.T) {
	// A one-letter deletion at the front shifts every later position;
	// deliberately much worse than edit distance 1.
	if got := MistakesInGuess("adrid", "Madrid"); got <= 1 {
		t.Fatalf("shifted guess scored %d, want positional penalty > 1", got)
	}
}

func TestMistakesDiacriticsAndHyphens(t *testing.T) {
	if got := MistakesInGuess("Sao Tome", "São Tomé"); got != 0 {
		t.Fatalf("accent-insensitive match failed: %d mistakes", got)
	}
	if got := MistakesInGuess("port au prince", "Port-au-Prince"); got != 0 {
		t.Fatalf("hyphen/space equivalence failed: %d mistakes", got)
	}
}
