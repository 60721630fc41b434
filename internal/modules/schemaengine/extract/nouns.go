package extract

import (
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
)

var (
	nounTags = map[string]bool{"NN": true, "NNS": true, "NNP": true, "NNPS": true}
	wordRE   = regexp.MustCompile(`[A-Za-z]+`)

	openers = map[string]bool{
		"a": true, "an": true, "the": true, "each": true, "every": true, "all": true,
		"some": true, "we": true, "it": true, "they": true, "this": true, "that": true,
		"these": true, "those": true, "there": true, "our": true, "my": true, "please": true,
	}

	// pluralLookalikes end in "s" without being plural nouns.
	pluralLookalikes = map[string]bool{
		"does": true, "goes": true, "this": true, "thus": true, "less": true,
		"unless": true, "plus": true, "always": true, "sometimes": true,
		"perhaps": true, "across": true, "various": true, "previous": true,
		"needs": true, "uses": true, "includes": true, "contains": true,
		"belongs": true, "allows": true, "tracks": true, "stores": true,
		"keeps": true, "lets": true, "makes": true, "takes": true,
		"gets": true, "sets": true, "writes": true, "reads": true,
	}
)

// nounCandidates returns the nouns of text in order. Tokens are tagged with
// prose; if tagging fails or yields nothing the word-shape rules are used.
func nounCandidates(text string) []string {
	if nouns, err := taggedNouns(text); err == nil && len(nouns) > 0 {
		return nouns
	}
	return shapeNouns(text)
}

func taggedNouns(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, tok := range doc.Tokens() {
		if nounTags[tok.Tag] && isAlpha(tok.Text) {
			out = append(out, tok.Text)
		}
	}
	return out, nil
}

// shapeNouns keeps title-case words, sentence openers included, and
// lowercase plurals.
func shapeNouns(text string) []string {
	var out []string
	for _, sentence := range sentenceSplit.Split(text, -1) {
		for _, w := range wordRE.FindAllString(sentence, -1) {
			switch {
			case isTitle(w) && !openers[strings.ToLower(w)]:
				out = append(out, w)
			case looksPlural(w):
				out = append(out, w)
			}
		}
	}
	return out
}

func looksPlural(w string) bool {
	if len(w) <= 3 || w != strings.ToLower(w) || pluralLookalikes[w] {
		return false
	}
	return strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss")
}
