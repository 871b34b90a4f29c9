package engine

import "math"

// Solver schedule. Fixed rather than taken from the request config so that
// training is deterministic and independent of pass-through UI parameters.
const (
	solverIterations   = 300
	solverLearningRate = 0.5
	solverWeightDecay  = 1e-4
)

// Classifier is a multinomial softmax regression over TF-IDF features.
// Weights[c][f] is the weight of feature f for class c.
type Classifier struct {
	Weights [][]float64
	Bias    []float64
}

// TrainClassifier fits the classifier with full-batch gradient descent from
// zero-initialized weights. Given the same inputs it always produces the
// same weights.
func TrainClassifier(x [][]float64, y []int, numClasses int) *Classifier {
	numFeatures := 0
	if len(x) > 0 {
		numFeatures = len(x[0])
	}

	c := &Classifier{
		Weights: make([][]float64, numClasses),
		Bias:    make([]float64, numClasses),
	}
	for k := range c.Weights {
		c.Weights[k] = make([]float64, numFeatures)
	}

	n := len(x)
	if n == 0 {
		return c
	}

	gradW := make([][]float64, numClasses)
	for k := range gradW {
		gradW[k] = make([]float64, numFeatures)
	}
	gradB := make([]float64, numClasses)

	for iter := 0; iter < solverIterations; iter++ {
		for k := range gradW {
			for f := range gradW[k] {
				gradW[k][f] = 0
			}
			gradB[k] = 0
		}

		for i, vec := range x {
			p := c.Probabilities(vec)
			for k := 0; k < numClasses; k++ {
				d := p[k]
				if k == y[i] {
					d -= 1
				}
				gradB[k] += d
				for f, xv := range vec {
					if xv != 0 {
						gradW[k][f] += d * xv
					}
				}
			}
		}

		step := solverLearningRate / float64(n)
		for k := 0; k < numClasses; k++ {
			for f := 0; f < numFeatures; f++ {
				c.Weights[k][f] -= step*gradW[k][f] + solverLearningRate*solverWeightDecay*c.Weights[k][f]
			}
			c.Bias[k] -= step * gradB[k]
		}
	}

	return c
}

// Probabilities returns the per-class softmax probabilities for a feature
// vector. The output sums to 1.
func (c *Classifier) Probabilities(vec []float64) []float64 {
	scores := make([]float64, len(c.Weights))
	maxScore := math.Inf(-1)
	for k, w := range c.Weights {
		s := c.Bias[k]
		for f, xv := range vec {
			if xv != 0 {
				s += w[f] * xv
			}
		}
		scores[k] = s
		if s > maxScore {
			maxScore = s
		}
	}

	var sum float64
	for k, s := range scores {
		scores[k] = math.Exp(s - maxScore)
		sum += scores[k]
	}
	for k := range scores {
		scores[k] /= sum
	}
	return scores
}

// Predict returns the arg-max class index and the probability vector.
// On ties the lowest class index wins, which is deterministic because
// classes are indexed in sorted label order.
func (c *Classifier) Predict(vec []float64) (int, []float64) {
	probs := c.Probabilities(vec)
	best := 0
	for k := 1; k < len(probs); k++ {
		if probs[k] > probs[best] {
			best = k
		}
	}
	return best, probs
}
