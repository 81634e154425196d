package countries

import (
	"strings"
	"testing"
)

func TestTableIsWellFormed(t *testing.T) {
	codes := map[string]bool{}
	for _, c := range Table() {
		if c.Code == "" || c.Name == "" || c.Capital == "" || c.Flag == "" {
			t.Errorf("incomplete row: %+v", c)
		}
		if c.Code != strings.ToLower(c.Code) {
			t.Errorf("code %q not lowercase", c.Code)
		}
		if codes[c.Code] {
			t.Errorf("duplicate code %q", c.Code)
		}
		codes[c.Code] = true
	}
}

func TestSolutionsAndPrompts(t *testing.T) {
	flags := FlagsGame{}
	caps := CapitalsGame{}
	cnts := CountriesGame{}

	if len(flags.Pool()) != len(Table()) {
		t.Fatalf("flags pool size %d", len(flags.Pool()))
	}
	it := flags.Pool()[0]
	if flags.Solution(it) == "" || caps.Solution(it) == "" || cnts.Solution(it) == "" {
		t.Fatalf("empty solution for %q", it.Key())
	}
	if flags.Prompt(it) == nil || caps.Prompt(it) == nil || cnts.Prompt(it) == nil {
		t.Fatalf("missing prompt for %q", it.Key())
	}
	// Capitals asks for the capital, countries asks by the capital.
	spain := item{c: Country{Code: "es", Name: "Spain", Capital: "Madrid", Flag: "🇪🇸"}}
	if caps.Solution(spain) != "Madrid" || cnts.Solution(spain) != "Spain" || flags.Solution(spain) != "Spain" {
		t.Fatalf("solution mapping wrong")
	}
}
