package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"text-playground/core/models"
)

// topTermsPerLabel caps the feature importance list for each label
const topTermsPerLabel = 10

// Config controls dataset validation and the train/validation split
type Config struct {
	ValidationSplit     float64
	Seed                int64
	MinExamplesPerLabel int
	MaxExamplesPerLabel int
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		ValidationSplit:     0.2,
		Seed:                42,
		MinExamplesPerLabel: 2,
		MaxExamplesPerLabel: 50,
	}
}

// Trainer builds text-classification models from labeled examples
type Trainer struct {
	cfg Config
}

// NewTrainer creates a trainer. Zero config fields fall back to defaults;
// ValidationSplit is taken as given so a zero split trains on everything.
func NewTrainer(cfg Config) *Trainer {
	def := DefaultConfig()
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.MinExamplesPerLabel <= 0 {
		cfg.MinExamplesPerLabel = def.MinExamplesPerLabel
	}
	if cfg.MaxExamplesPerLabel <= 0 {
		cfg.MaxExamplesPerLabel = def.MaxExamplesPerLabel
	}
	return &Trainer{cfg: cfg}
}

// Train validates the dataset, fits a classifier and returns the training
// summary together with the model. Training is all-or-nothing: any error
// means no model is produced. Results are deterministic for a fixed dataset
// and seed.
func (t *Trainer) Train(examples []models.Example) (*models.TrainingResult, *Model, error) {
	labels, byLabel, err := t.validate(examples)
	if err != nil {
		return nil, nil, err
	}

	trainIdx, valIdx := t.split(labels, byLabel)

	labelIndex := make(map[string]int, len(labels))
	for i, l := range labels {
		labelIndex[l] = i
	}

	docs := make([][]string, len(trainIdx))
	y := make([]int, len(trainIdx))
	for i, idx := range trainIdx {
		docs[i] = Terms(examples[idx].Text)
		y[i] = labelIndex[examples[idx].Label]
	}

	vectorizer := FitVectorizer(docs)
	x := make([][]float64, len(docs))
	for i, doc := range docs {
		x[i] = vectorizer.Transform(doc)
	}

	classifier := TrainClassifier(x, y, len(labels))

	model := &Model{
		Labels:     labels,
		Vectorizer: vectorizer,
		Classifier: classifier,
		TrainedAt:  time.Now().UTC(),
	}

	// With an empty validation set, accuracy is measured on the training
	// split instead.
	evalIdx := valIdx
	if len(evalIdx) == 0 {
		evalIdx = trainIdx
	}
	correct := 0
	for _, idx := range evalIdx {
		vec := vectorizer.Transform(Terms(examples[idx].Text))
		best, _ := classifier.Predict(vec)
		if labels[best] == examples[idx].Label {
			correct++
		}
	}
	accuracy := round2(float64(correct) / float64(len(evalIdx)) * 100)

	result := &models.TrainingResult{
		Accuracy:           accuracy,
		TrainingExamples:   len(trainIdx),
		ValidationExamples: len(valIdx),
		TotalFeatures:      vectorizer.NumFeatures(),
		Labels:             labels,
		FeatureImportance:  featureImportance(classifier, vectorizer, labels),
	}
	return result, model, nil
}

// validate checks trainability and returns the sorted label list plus the
// example indices grouped per label.
func (t *Trainer) validate(examples []models.Example) ([]string, map[string][]int, error) {
	byLabel := make(map[string][]int)
	for i, ex := range examples {
		byLabel[ex.Label] = append(byLabel[ex.Label], i)
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	if len(labels) < 2 {
		return nil, nil, &models.InsufficientDataError{
			Msg: fmt.Sprintf("need at least 2 labels to train (has %d)", len(labels)),
		}
	}
	for _, label := range labels {
		count := len(byLabel[label])
		if count < t.cfg.MinExamplesPerLabel {
			return nil, nil, &models.InsufficientDataError{
				Msg: fmt.Sprintf("label %q needs at least %d examples (has %d)", label, t.cfg.MinExamplesPerLabel, count),
			}
		}
		if count > t.cfg.MaxExamplesPerLabel {
			return nil, nil, &models.InsufficientDataError{
				Msg: fmt.Sprintf("label %q has too many examples (%d), maximum is %d", label, count, t.cfg.MaxExamplesPerLabel),
			}
		}
	}
	return labels, byLabel, nil
}

// split produces a stratified, seeded train/validation partition. Every
// label keeps at least one training example.
func (t *Trainer) split(labels []string, byLabel map[string][]int) (trainIdx, valIdx []int) {
	rng := rand.New(rand.NewSource(t.cfg.Seed))
	for _, label := range labels {
		indices := append([]int(nil), byLabel[label]...)
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		numVal := int(t.cfg.ValidationSplit * float64(len(indices)))
		if len(indices)-numVal < 1 {
			numVal = len(indices) - 1
		}
		valIdx = append(valIdx, indices[:numVal]...)
		trainIdx = append(trainIdx, indices[numVal:]...)
	}
	sort.Ints(trainIdx)
	sort.Ints(valIdx)
	return trainIdx, valIdx
}

// featureImportance returns the highest-weighted terms per label, ordered
// by weight descending with lexicographic tie-breaks.
func featureImportance(c *Classifier, v *Vectorizer, labels []string) map[string][]string {
	importance := make(map[string][]string, len(labels))
	for k, label := range labels {
		order := make([]int, len(v.Terms))
		for i := range order {
			order[i] = i
		}
		weights := c.Weights[k]
		sort.Slice(order, func(i, j int) bool {
			if weights[order[i]] != weights[order[j]] {
				return weights[order[i]] > weights[order[j]]
			}
			return v.Terms[order[i]] < v.Terms[order[j]]
		})

		top := topTermsPerLabel
		if top > len(order) {
			top = len(order)
		}
		terms := make([]string, top)
		for i := 0; i < top; i++ {
			terms[i] = v.Terms[order[i]]
		}
		importance[label] = terms
	}
	return importance
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
