package quality

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChizhovVadim/DigitRecognizer/internal/domain"
)

// firstFeatureModel predicts the first feature value as the label.
type firstFeatureModel struct{}

func (firstFeatureModel) Predict(features []float64) int { return int(features[0]) }

type constantModel int

func (m constantModel) Predict([]float64) int { return int(m) }

func matrix(labels []int, rows ...[]float64) domain.Matrix {
	var d = domain.Dataset{FeatureSize: len(rows[0])}
	for i, row := range rows {
		var s = domain.Sample{Features: row}
		if labels != nil {
			s.Label = labels[i]
			s.Labeled = true
		}
		d.Samples = append(d.Samples, s)
	}
	return d.Matrix()
}

func TestEvaluateAccuracy(t *testing.T) {
	var m = matrix([]int{1, 2, 3, 4}, []float64{1}, []float64{2}, []float64{3}, []float64{4})

	acc, err := EvaluateAccuracy(firstFeatureModel{}, m)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)

	acc, err = EvaluateAccuracy(constantModel(9), m)
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc)

	acc, err = EvaluateAccuracy(constantModel(2), m)
	require.NoError(t, err)
	assert.Equal(t, 0.25, acc)
}

func TestEvaluateAccuracyErrors(t *testing.T) {
	_, err := EvaluateAccuracy(constantModel(0), domain.Matrix{})
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)

	_, err = EvaluateAccuracy(constantModel(0), matrix(nil, []float64{1}))
	assert.Error(t, err)
}

func TestScorePredictions(t *testing.T) {
	accuracy, err := ScorePredictions([]int{1, 2, 3, 4}, []int{1, 2, 0, 4})
	require.NoError(t, err)
	assert.Equal(t, 0.75, accuracy)

	_, err = ScorePredictions(nil, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)
	_, err = ScorePredictions([]int{1}, []int{1, 2})
	assert.Error(t, err)
}

func TestPredictKeepsOrder(t *testing.T) {
	var m = matrix(nil, []float64{7}, []float64{3}, []float64{5})
	assert.Equal(t, []int{7, 3, 5}, Predict(firstFeatureModel{}, m))
}

func TestWritePredictions(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "output.txt")
	require.NoError(t, os.WriteFile(path, []byte("old content that is longer\n"), 0o644))

	var m = matrix(nil, []float64{7}, []float64{3}, []float64{5})
	predictions, err := WritePredictions(firstFeatureModel{}, m, path)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 3, 5}, predictions)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7\n3\n5\n", string(content))
}

func TestWritePredictionsBadPath(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "missing", "output.txt")
	_, err := WritePredictions(constantModel(1), matrix(nil, []float64{1}), path)
	assert.Error(t, err)
}

func TestFormatAccuracy(t *testing.T) {
	assert.Equal(t, "97.46%", FormatAccuracy(0.974639))
	assert.Equal(t, "100%", FormatAccuracy(1))
	assert.Equal(t, "0%", FormatAccuracy(0))
}
