package models

import (
	"fmt"
	"strings"
	"time"
)

// Limits on example content, mirrored by the UI
const (
	MaxExampleTextLen = 1000
	MaxLabelLen       = 30
)

// Example is a single labeled text sample belonging to one project.
// Examples are immutable once added; they can only be deleted.
type Example struct {
	Text    string    `json:"text"`
	Label   string    `json:"label"`
	AddedAt time.Time `json:"addedAt"`
}

// Dataset is the full example set for one project
type Dataset struct {
	Examples []Example `json:"examples"`
	Labels   []string  `json:"labels"`
	Records  int       `json:"records"`
}

// ValidateExample checks text and label against the content limits
func ValidateExample(text, label string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Msg: "example text must not be empty"}
	}
	if len(text) > MaxExampleTextLen {
		return &ValidationError{Msg: fmt.Sprintf("example text exceeds %d characters", MaxExampleTextLen)}
	}
	if strings.TrimSpace(label) == "" {
		return &ValidationError{Msg: "label must not be empty"}
	}
	if len(label) > MaxLabelLen {
		return &ValidationError{Msg: fmt.Sprintf("label exceeds %d characters", MaxLabelLen)}
	}
	return nil
}
