package classifier

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/mat"

	"github.com/ChizhovVadim/DigitRecognizer/internal/domain"
	"github.com/ChizhovVadim/DigitRecognizer/internal/ml"
)

// clusters returns points scattered around one corner of the unit square per class.
func clusters(rnd *rand.Rand, perClass int) (*mat.Dense, []int) {
	var centers = [][]float64{{0.1, 0.1}, {0.9, 0.1}, {0.5, 0.9}}
	var data []float64
	var labels []int
	for i := 0; i < perClass; i++ {
		for c, center := range centers {
			data = append(data,
				center[0]+0.05*(rnd.Float64()-0.5),
				center[1]+0.05*(rnd.Float64()-0.5))
			labels = append(labels, c)
		}
	}
	return mat.NewDense(len(labels), 2, data), labels
}

func TestFitSeparable(t *testing.T) {
	var rnd = rand.New(rand.NewSource(1))
	x, y := clusters(rnd, 20)
	var learner = &Learner{Epochs: 10, Threads: 2, Logger: zaptest.NewLogger(t)}
	model, err := learner.Fit(x, y, 3, 0.3)
	require.NoError(t, err)
	assert.Equal(t, 3, model.ClassCount())
	assert.Equal(t, 2, model.FeatureSize())
	assert.Greater(t, model.SupportCount(), 0)

	for i, label := range y {
		assert.Equal(t, label, model.Predict(x.RawRowView(i)))
	}
	assert.Equal(t, 0, model.Predict([]float64{0.12, 0.08}))
	assert.Equal(t, 1, model.Predict([]float64{0.88, 0.12}))
	assert.Equal(t, 2, model.Predict([]float64{0.5, 0.95}))
}

func TestFitDeterministic(t *testing.T) {
	var rnd = rand.New(rand.NewSource(2))
	x, y := clusters(rnd, 10)
	var learner = &Learner{Epochs: 2, Threads: 1, Seed: 7}
	m1, err := learner.Fit(x, y, 3, 0.5)
	require.NoError(t, err)
	m2, err := learner.Fit(x, y, 3, 0.5)
	require.NoError(t, err)
	assert.Equal(t, m1.vectors, m2.vectors)
	assert.Equal(t, m1.coefs, m2.coefs)
}

func TestPredictDoesNotMutate(t *testing.T) {
	var rnd = rand.New(rand.NewSource(3))
	x, y := clusters(rnd, 10)
	model, err := (&Learner{Threads: 1}).Fit(x, y, 3, 0.5)
	require.NoError(t, err)
	var sample = []float64{0.4, 0.4}
	var first = model.Predict(sample)
	var coefs = cloneRows(model.coefs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, model.Predict(sample))
	}
	assert.Equal(t, coefs, model.coefs)
	assert.Equal(t, []float64{0.4, 0.4}, sample)
}

func TestTrainReturnsModel(t *testing.T) {
	var rnd = rand.New(rand.NewSource(4))
	x, y := clusters(rnd, 5)
	model, err := (&Learner{Threads: 1}).Train(x, y, 3, 0.5)
	require.NoError(t, err)
	assert.IsType(t, &Model{}, model)
}

func TestFitErrors(t *testing.T) {
	var x = mat.NewDense(2, 2, []float64{0, 0, 1, 1})
	var learner = &Learner{Threads: 1}

	_, err := learner.Fit(nil, nil, 3, 1)
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)

	_, err = learner.Fit(x, []int{0}, 3, 1)
	assert.Error(t, err)

	_, err = learner.Fit(x, []int{0, 1}, 1, 1)
	assert.Error(t, err)

	_, err = learner.Fit(x, []int{0, 1}, 3, 0)
	assert.Error(t, err)

	_, err = learner.Fit(x, []int{0, 3}, 3, 1)
	assert.True(t, errors.Is(err, domain.ErrLabelOutOfRange))

	model, err := learner.Train(x, []int{0, 5}, 3, 1)
	assert.Error(t, err)
	assert.Nil(t, model)
}

func TestComputeKernelRowParallel(t *testing.T) {
	var rnd = rand.New(rand.NewSource(5))
	const rows = 1500
	var data = make([]float64, rows*3)
	for i := range data {
		data[i] = rnd.Float64()
	}
	var x = mat.NewDense(rows, 3, data)
	var support = rnd.Perm(rows)[:1200]
	var kernel = ml.NewGaussianKernel(0.7)
	var v = []float64{0.5, 0.5, 0.5}

	var sequential = make([]float64, len(support))
	require.NoError(t, computeKernelRow(kernel, x, support, v, sequential, 1))
	var parallel = make([]float64, len(support))
	require.NoError(t, computeKernelRow(kernel, x, support, v, parallel, 4))
	assert.Equal(t, sequential, parallel)

	assert.Error(t, computeKernelRow(kernel, x, support, v, parallel[:10], 4))
}

func TestSaveLoadModel(t *testing.T) {
	var rnd = rand.New(rand.NewSource(6))
	x, y := clusters(rnd, 10)
	model, err := (&Learner{Threads: 1}).Fit(x, y, 3, 0.4)
	require.NoError(t, err)

	var path = filepath.Join(t.TempDir(), "model.bin")
	require.NoError(t, model.Save(path, "centered"))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, "centered", loaded.Normalization())
	assert.Equal(t, model.ClassCount(), loaded.ClassCount())
	assert.Equal(t, model.FeatureSize(), loaded.FeatureSize())
	assert.Equal(t, model.SupportCount(), loaded.SupportCount())
	assert.Equal(t, model.Sigma(), loaded.Sigma())
	for i := 0; i < x.RawMatrix().Rows; i++ {
		assert.Equal(t, model.Predict(x.RawRowView(i)), loaded.Predict(x.RawRowView(i)))
	}
}

func TestLoadModelErrors(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)

	var path = filepath.Join(t.TempDir(), "bad.bin")
	require.NoError(t, writeBytes(path, []byte{66, 90, 2, 0}))
	_, err = LoadModel(path)
	assert.ErrorIs(t, err, errBadModelFile)

	require.NoError(t, writeBytes(path, []byte{75, 77, 2, 0}))
	_, err = LoadModel(path)
	assert.ErrorIs(t, err, errBadModelFile)

	require.NoError(t, writeBytes(path, []byte{75, 77, 1, 1, 3}))
	_, err = LoadModel(path)
	assert.Error(t, err)

	var tests = []struct {
		name    string
		header  [3]uint32
		code    byte
		payload int
	}{
		{"huge counts", [3]uint32{10, 0xFFFFFFFF, 0xFFFFFFFF}, 0, 0},
		{"truncated payload", [3]uint32{2, 3, 4}, 0, 19},
		{"trailing bytes", [3]uint32{2, 3, 1}, 0, 6},
		{"unknown normalization", [3]uint32{2, 3, 1}, 7, 5},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.NoError(t, writeBytes(path, modelBytes(test.header, 1, test.code, test.payload)))
			_, err := LoadModel(path)
			assert.ErrorIs(t, err, errBadModelFile)
		})
	}
}

func TestCheckNormalization(t *testing.T) {
	var rnd = rand.New(rand.NewSource(6))
	x, y := clusters(rnd, 5)
	model, err := (&Learner{Threads: 1}).Fit(x, y, 3, 0.4)
	require.NoError(t, err)
	assert.NoError(t, model.CheckNormalization("centered"))

	var path = filepath.Join(t.TempDir(), "model.bin")
	require.NoError(t, model.Save(path, ""))
	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, "unit", loaded.Normalization())
	assert.NoError(t, loaded.CheckNormalization("unit"))
	assert.NoError(t, loaded.CheckNormalization(""))
	assert.ErrorIs(t, loaded.CheckNormalization("centered"), errNormalizationMismatch)
	assert.Error(t, loaded.CheckNormalization("zscore"))

	assert.Error(t, model.Save(path, "zscore"))
}
