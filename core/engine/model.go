package engine

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"strings"
	"time"

	"text-playground/core/models"
)

// Model is a trained classifier together with the exact vocabulary used at
// training time. It is immutable after training; prediction is read-only and
// safe for concurrent use.
type Model struct {
	ProjectID  string
	Version    int
	TrainedAt  time.Time
	Labels     []string // sorted, class index = position
	Vectorizer *Vectorizer
	Classifier *Classifier
}

// Encode serializes the model artifact with gob
func (m *Model) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeModel deserializes a model artifact produced by Encode
func DecodeModel(data []byte) (*Model, error) {
	var m Model
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	m.Vectorizer.buildIndex()
	return &m, nil
}

// Predict classifies text and returns the best label with its confidence
// plus the remaining labels ranked by confidence. Confidences are
// percentages rounded to two decimals.
func (m *Model) Predict(text string) (*models.PredictionResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &models.InvalidInputError{Msg: "prediction text must not be empty"}
	}

	vec := m.Vectorizer.Transform(Terms(text))
	best, probs := m.Classifier.Predict(vec)

	alternatives := make([]models.Alternative, 0, len(m.Labels)-1)
	for k, label := range m.Labels {
		if k == best {
			continue
		}
		alternatives = append(alternatives, models.Alternative{
			Label:      label,
			Confidence: round2(probs[k] * 100),
		})
	}
	sort.Slice(alternatives, func(i, j int) bool {
		if alternatives[i].Confidence != alternatives[j].Confidence {
			return alternatives[i].Confidence > alternatives[j].Confidence
		}
		return alternatives[i].Label < alternatives[j].Label
	})

	return &models.PredictionResult{
		Label:        m.Labels[best],
		Confidence:   round2(probs[best] * 100),
		Alternatives: alternatives,
	}, nil
}
