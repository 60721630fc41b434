package vocab

import "testing"

func TestGetLoadsEmbeddedTables(t *testing.T) {
	tb := Get()
	if len(tb.Keywords) == 0 || len(tb.Templates) == 0 || len(tb.RelationRules) != 8 {
		t.Fatalf("unexpected table sizes: keywords=%d templates=%d rules=%d", len(tb.Keywords), len(tb.Templates), len(tb.RelationRules))
	}
	for _, m := range tb.Misspellings {
		if len(m) != 2 {
			t.Fatalf("misspelling entry must be a pair: %v", m)
		}
	}
	if len(tb.Domains) != 8 {
		t.Fatalf("domains: got=%d want=8", len(tb.Domains))
	}
}

func TestKeywordEntityFirstMatchWins(t *testing.T) {
	tb := Get()
	cases := []struct {
		term string
		want string
	}{
		{"pupil", "Student"},
		{"score", "Grade"},
		{"staff", "Staff"},
		{"employee", "Staff"},
		{"card", "PaymentMethod"},
	}
	for _, tc := range cases {
		got, ok := tb.KeywordEntity(tc.term)
		if !ok || got != tc.want {
			t.Fatalf("KeywordEntity(%q)=%q,%v want %q", tc.term, got, ok, tc.want)
		}
	}
	if _, ok := tb.KeywordEntity("spaceship"); ok {
		t.Fatalf("KeywordEntity(spaceship) should not match")
	}
}

func TestAttributesFallback(t *testing.T) {
	tb := Get()
	if got := tb.Attributes("Book"); len(got) != 3 || got[2] != "isbn" {
		t.Fatalf("Attributes(Book)=%v", got)
	}
	got := tb.Attributes("Spaceship")
	if len(got) != 2 || got[0] != "name" || got[1] != "createdAt" {
		t.Fatalf("Attributes(Spaceship)=%v", got)
	}
	got[0] = "mutated"
	if tb.Attributes("Spaceship")[0] != "name" {
		t.Fatalf("Attributes must return a copy")
	}
}

func TestVocabularyIsSortedAndClosed(t *testing.T) {
	tb := Get()
	v := tb.Vocabulary()
	for i := 1; i < len(v); i++ {
		if v[i-1] > v[i] {
			t.Fatalf("vocabulary not sorted at %d: %q > %q", i, v[i-1], v[i])
		}
	}
	for _, w := range []string{"student", "schema", "embed", "platform", "medicalrecord"} {
		if !tb.InVocabulary(w) {
			t.Fatalf("expected %q in vocabulary", w)
		}
	}
}

func TestDomainMatches(t *testing.T) {
	tb := Get()
	d, ok := tb.Domain("ecommerce")
	if !ok {
		t.Fatalf("ecommerce domain missing")
	}
	if !d.Matches("an e-commerce site") || d.Matches("a school") {
		t.Fatalf("ecommerce pattern mismatch")
	}
}

func TestParseRejectsBadPattern(t *testing.T) {
	_, err := Parse([]byte("keywords:\n  - {entity: A, terms: [a]}\ndomains:\n  - {name: bad, pattern: '(('}\n"))
	if err == nil {
		t.Fatalf("expected error for invalid domain pattern")
	}
}
