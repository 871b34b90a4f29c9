package engine

import (
	"math"
	"sort"
)

const (
	// maxFeatures caps the vocabulary size for small datasets
	maxFeatures = 1000
	// maxDocFreqRatio drops terms that appear in nearly every document
	maxDocFreqRatio = 0.95
)

// Vectorizer maps text to L2-normalized TF-IDF vectors over a fixed
// vocabulary built at training time.
type Vectorizer struct {
	Terms []string // sorted vocabulary
	IDF   []float64

	index map[string]int
}

// FitVectorizer builds the vocabulary and IDF weights from the training
// documents, given as term lists. Selection is deterministic: terms are
// ranked by total frequency with lexicographic tie-breaks.
func FitVectorizer(docs [][]string) *Vectorizer {
	numDocs := len(docs)
	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			totalFreq[term]++
			seen[term] = struct{}{}
		}
		for term := range seen {
			docFreq[term]++
		}
	}

	// Drop terms present in more than maxDocFreqRatio of documents, unless
	// that would empty the vocabulary.
	maxDF := int(maxDocFreqRatio * float64(numDocs))
	candidates := make([]string, 0, len(totalFreq))
	for term := range totalFreq {
		if docFreq[term] > maxDF {
			continue
		}
		candidates = append(candidates, term)
	}
	if len(candidates) == 0 {
		for term := range totalFreq {
			candidates = append(candidates, term)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if totalFreq[candidates[i]] != totalFreq[candidates[j]] {
			return totalFreq[candidates[i]] > totalFreq[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > maxFeatures {
		candidates = candidates[:maxFeatures]
	}
	sort.Strings(candidates)

	v := &Vectorizer{
		Terms: candidates,
		IDF:   make([]float64, len(candidates)),
	}
	for i, term := range candidates {
		// Smooth IDF: ln((1+n)/(1+df)) + 1
		v.IDF[i] = math.Log(float64(1+numDocs)/float64(1+docFreq[term])) + 1
	}
	v.buildIndex()
	return v
}

func (v *Vectorizer) buildIndex() {
	v.index = make(map[string]int, len(v.Terms))
	for i, term := range v.Terms {
		v.index[term] = i
	}
}

// NumFeatures returns the vocabulary size
func (v *Vectorizer) NumFeatures() int { return len(v.Terms) }

// Transform converts a term list into an L2-normalized TF-IDF vector.
// Unknown terms are ignored.
func (v *Vectorizer) Transform(terms []string) []float64 {
	vec := make([]float64, len(v.Terms))
	for _, term := range terms {
		if i, ok := v.index[term]; ok {
			vec[i]++
		}
	}

	var norm float64
	for i := range vec {
		if vec[i] > 0 {
			vec[i] *= v.IDF[i]
			norm += vec[i] * vec[i]
		}
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
