package classifier

import (
	"github.com/ChizhovVadim/DigitRecognizer/internal/ml"
)

// Model is a trained kernel perceptron. It is not modified after Fit,
// Predict may be called from several goroutines.
type Model struct {
	kernel        *ml.GaussianKernel
	classCount    int
	featureSize   int
	normalization string      // empty until read from a model file
	vectors       [][]float64 // support vectors
	coefs         [][]float64 // [class][support vector]
}

func (m *Model) Predict(features []float64) int {
	var scores = make([]float64, m.classCount)
	for k, v := range m.vectors {
		var kv = m.kernel.Function(v, features)
		for c := range scores {
			scores[c] += m.coefs[c][k] * kv
		}
	}
	return ml.Argmax(scores)
}

func (m *Model) ClassCount() int   { return m.classCount }
func (m *Model) FeatureSize() int  { return m.featureSize }
func (m *Model) SupportCount() int { return len(m.vectors) }
func (m *Model) Sigma() float64    { return m.kernel.Sigma }

func (m *Model) Normalization() string { return m.normalization }
