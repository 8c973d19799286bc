package ml

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type IKernel interface {
	Function(x, y []float64) float64
}

// GaussianKernel is exp(-|x-y|^2 / (2*sigma^2)).
type GaussianKernel struct {
	Sigma float64
	gamma float64
}

func NewGaussianKernel(sigma float64) *GaussianKernel {
	return &GaussianKernel{
		Sigma: sigma,
		gamma: 1 / (2 * sigma * sigma),
	}
}

func (k *GaussianKernel) Function(x, y []float64) float64 {
	var d = floats.Distance(x, y, 2)
	return math.Exp(-k.gamma * d * d)
}
