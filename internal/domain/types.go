package domain

import (
	"time"

	"gonum.org/v1/gonum/mat"
)

// Sample is one parsed CSV record.
type Sample struct {
	Label    int
	Labeled  bool
	Features []float64
}

// Dataset keeps samples in file order. All samples share FeatureSize.
type Dataset struct {
	Samples     []Sample
	FeatureSize int
}

func (d *Dataset) Len() int { return len(d.Samples) }

// Matrix is a dataset split into a feature matrix and a label vector.
// Y is nil for unlabeled data. X is nil when Count is zero.
type Matrix struct {
	X     *mat.Dense
	Y     []int
	Count int
}

func (m *Matrix) Row(i int) []float64 {
	return m.X.RawRowView(i)
}

func (d *Dataset) Matrix() Matrix {
	var count = len(d.Samples)
	if count == 0 {
		return Matrix{}
	}
	var data = make([]float64, 0, count*d.FeatureSize)
	var labeled = d.Samples[0].Labeled
	var labels []int
	if labeled {
		labels = make([]int, 0, count)
	}
	for i := range d.Samples {
		var s = &d.Samples[i]
		data = append(data, s.Features...)
		if labeled {
			labels = append(labels, s.Label)
		}
	}
	return Matrix{
		X:     mat.NewDense(count, d.FeatureSize, data),
		Y:     labels,
		Count: count,
	}
}

// IModel is a trained classifier. Implementations must not change state in Predict.
type IModel interface {
	Predict(features []float64) int
}

type Phase int

const (
	PhaseNone Phase = iota
	PhaseTrain
	PhaseCrossValidate
	PhaseTest
)

func (p Phase) String() string {
	switch p {
	case PhaseTrain:
		return "train"
	case PhaseCrossValidate:
		return "cross-validation"
	case PhaseTest:
		return "test"
	default:
		return "none"
	}
}

type PhaseResult struct {
	RunID       string
	Phase       Phase
	RowCap      int
	Rows        int
	Accuracy    float64
	HasAccuracy bool
	Elapsed     time.Duration
}
