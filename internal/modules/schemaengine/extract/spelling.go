package extract

import (
	"regexp"
	"strings"
	"sync"

	"github.com/yungbote/mongoarchitect-backend/internal/modules/schemaengine/vocab"
)

// SimilarityCutoff is the minimum match ratio for fuzzy spelling correction.
const SimilarityCutoff = 0.86

type misspelling struct {
	re    *regexp.Regexp
	right string
}

var (
	misspellOnce sync.Once
	misspellings []misspelling
	tokenRE      = regexp.MustCompile(`[A-Za-z]+|[^A-Za-z]+`)
)

func compiledMisspellings() []misspelling {
	misspellOnce.Do(func() {
		for _, pair := range vocab.Get().Misspellings {
			if len(pair) != 2 {
				continue
			}
			misspellings = append(misspellings, misspelling{
				re:    regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(pair[0]) + `\b`),
				right: pair[1],
			})
		}
	})
	return misspellings
}

// NormalizeText fixes known misspellings, then snaps unknown alphabetic
// tokens of four or more letters onto the closest vocabulary word.
func NormalizeText(text string) string {
	for _, m := range compiledMisspellings() {
		text = m.re.ReplaceAllLiteralString(text, m.right)
	}
	t := vocab.Get()
	var b strings.Builder
	for _, tok := range tokenRE.FindAllString(text, -1) {
		if !isAlpha(tok) {
			b.WriteString(tok)
			continue
		}
		lower := strings.ToLower(tok)
		if len(lower) < 4 || t.InVocabulary(lower) {
			b.WriteString(tok)
			continue
		}
		if match, ok := closestMatch(lower, t.Vocabulary(), SimilarityCutoff); ok {
			b.WriteString(match)
			continue
		}
		b.WriteString(tok)
	}
	return b.String()
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// closestMatch returns the candidate with the highest similarity ratio at or
// above cutoff. Ties go to the lexicographically greater candidate.
func closestMatch(word string, candidates []string, cutoff float64) (string, bool) {
	best, bestScore := "", -1.0
	for _, c := range candidates {
		score := Similarity(c, word)
		if score < cutoff {
			continue
		}
		if score > bestScore || (score == bestScore && c > best) {
			best, bestScore = c, score
		}
	}
	return best, bestScore >= cutoff
}

// Similarity is the Ratcliff/Obershelp ratio 2*M/T, where M counts characters
// in recursively found longest common blocks.
func Similarity(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingChars(a, b)) / float64(total)
}

func matchingChars(a, b string) int {
	bi, bj, size := 0, 0, 0
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > size {
				bi, bj, size = i, j, k
			}
		}
	}
	if size == 0 {
		return 0
	}
	return size + matchingChars(a[:bi], b[:bj]) + matchingChars(a[bi+size:], b[bj+size:])
}
