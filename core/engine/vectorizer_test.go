package engine

import (
	"math"
	"reflect"
	"testing"
)

func TestFitVectorizerVocabulary(t *testing.T) {
	docs := [][]string{
		{"sunny", "warm"},
		{"rainy", "cold"},
	}
	v := FitVectorizer(docs)

	want := []string{"cold", "rainy", "sunny", "warm"}
	if !reflect.DeepEqual(v.Terms, want) {
		t.Errorf("Terms = %v, want %v", v.Terms, want)
	}
	if v.NumFeatures() != 4 {
		t.Errorf("NumFeatures() = %d, want 4", v.NumFeatures())
	}
}

func TestFitVectorizerDropsUbiquitousTerms(t *testing.T) {
	// "day" appears in every document and must be dropped
	docs := [][]string{
		{"day", "sunny"},
		{"day", "rainy"},
		{"day", "cold"},
	}
	v := FitVectorizer(docs)
	for _, term := range v.Terms {
		if term == "day" {
			t.Error("vocabulary should not contain a term present in all documents")
		}
	}
}

func TestFitVectorizerKeepsVocabularyWhenAllUbiquitous(t *testing.T) {
	docs := [][]string{
		{"same"},
		{"same"},
	}
	v := FitVectorizer(docs)
	if v.NumFeatures() != 1 {
		t.Errorf("NumFeatures() = %d, want 1 (fallback must keep the vocabulary non-empty)", v.NumFeatures())
	}
}

func TestTransformIsL2Normalized(t *testing.T) {
	docs := [][]string{
		{"sunny", "warm", "beach"},
		{"rainy", "cold"},
	}
	v := FitVectorizer(docs)

	vec := v.Transform([]string{"sunny", "warm", "sunny"})
	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("squared norm = %v, want 1", norm)
	}
}

func TestTransformUnknownTermsIgnored(t *testing.T) {
	v := FitVectorizer([][]string{{"sunny"}, {"rainy"}})
	vec := v.Transform([]string{"never", "seen"})
	for i, x := range vec {
		if x != 0 {
			t.Errorf("vec[%d] = %v, want 0 for all-unknown input", i, x)
		}
	}
}

func TestTransformDeterministic(t *testing.T) {
	docs := [][]string{
		{"sunny", "warm"},
		{"rainy", "cold"},
		{"sunny", "cold"},
	}
	v := FitVectorizer(docs)
	a := v.Transform([]string{"sunny", "cold"})
	b := v.Transform([]string{"sunny", "cold"})
	if !reflect.DeepEqual(a, b) {
		t.Error("Transform is not deterministic")
	}
}
