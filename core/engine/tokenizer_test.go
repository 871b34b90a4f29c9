package engine

import (
	"reflect"
	"testing"
)

func TestTokenizeDropsStopWordsAndShortTokens(t *testing.T) {
	got := Tokenize("I am SO happy today!")
	want := []string{"happy", "today"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeSplitsOnPunctuation(t *testing.T) {
	got := Tokenize("rain,rain... go-away 42")
	want := []string{"rain", "rain", "go", "away", "42"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeCountsRunesNotBytes(t *testing.T) {
	// Multi-byte single characters are still too short; two-rune words stay.
	got := Tokenize("é café déjà vu")
	want := []string{"café", "déjà", "vu"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := Tokenize(""); len(got) != 0 {
		t.Errorf("Tokenize(\"\") = %v, want empty", got)
	}
	// Only stop words and single characters
	if got := Tokenize("a the I x"); len(got) != 0 {
		t.Errorf("Tokenize() = %v, want empty", got)
	}
}

func TestTermsIncludesBigrams(t *testing.T) {
	got := Terms("great fun time")
	want := []string{"great", "fun", "time", "great fun", "fun time"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}
}

func TestTermsSingleToken(t *testing.T) {
	got := Terms("happy")
	want := []string{"happy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}
}
