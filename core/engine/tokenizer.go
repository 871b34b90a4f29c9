package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopWords are common English words excluded from the feature space
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a about above after again against all am an and any are as at be
		because been before being below between both but by can did do does
		doing down during each few for from further had has have having he
		her here hers herself him himself his how i if in into is it its
		itself just me more most my myself no nor not now of off on once
		only or other our ours ourselves out over own same she should so
		some such than that the their theirs them themselves then there
		these they this those through to too under until up very was we
		were what when where which while who whom why will with you your
		yours yourself yourselves`) {
		stopWords[w] = struct{}{}
	}
}

// Tokenize lowercases text and splits it into word tokens. A token is a run
// of letters or digits at least two characters long; stop words are dropped.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 {
			continue
		}
		if _, ok := stopWords[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Terms expands tokens into the feature terms used by the vectorizer:
// unigrams plus adjacent bigrams joined by a space.
func Terms(text string) []string {
	tokens := Tokenize(text)
	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
