// Package classifier trains a multiclass kernel perceptron with a Gaussian kernel.
package classifier

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/ChizhovVadim/DigitRecognizer/internal/domain"
	"github.com/ChizhovVadim/DigitRecognizer/internal/ml"
)

const (
	DefaultEpochs = 3
	minChunkSize  = 256
)

type Learner struct {
	Epochs  int
	Threads int
	Seed    int64
	Logger  *zap.Logger
}

func (l *Learner) Train(x *mat.Dense, y []int, classCount int, sigma float64) (domain.IModel, error) {
	model, err := l.Fit(x, y, classCount, sigma)
	if err != nil {
		return nil, err
	}
	return model, nil
}

// Fit runs mistake driven epochs over a shuffled order until an epoch makes no mistakes.
func (l *Learner) Fit(x *mat.Dense, y []int, classCount int, sigma float64) (*Model, error) {
	if x == nil {
		return nil, domain.ErrEmptyDataset
	}
	var n, featureSize = x.Dims()
	if len(y) != n {
		return nil, fmt.Errorf("labels %v rows %v", len(y), n)
	}
	if classCount < 2 {
		return nil, fmt.Errorf("class count %v", classCount)
	}
	if !(sigma > 0) {
		return nil, fmt.Errorf("sigma %v", sigma)
	}
	for i, label := range y {
		if label < 0 || label >= classCount {
			return nil, fmt.Errorf("row %v label %v: %w", i, label, domain.ErrLabelOutOfRange)
		}
	}

	var logger = l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var epochs = l.Epochs
	if epochs <= 0 {
		epochs = DefaultEpochs
	}
	var threads = l.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	var kernel = ml.NewGaussianKernel(sigma)
	var alpha = make([][]float64, classCount)
	for c := range alpha {
		alpha[c] = make([]float64, n)
	}
	var support []int
	var inSupport = make([]bool, n)
	var kernelRow = make([]float64, n)
	var scores = make([]float64, classCount)

	var rnd = rand.New(rand.NewSource(l.Seed))
	var order = rnd.Perm(n)
	for epoch := 1; epoch <= epochs; epoch++ {
		rnd.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		var mistakes int
		for _, j := range order {
			var row = kernelRow[:len(support)]
			var err = computeKernelRow(kernel, x, support, x.RawRowView(j), row, threads)
			if err != nil {
				return nil, err
			}
			for c := range scores {
				scores[c] = 0
			}
			for k, i := range support {
				var kv = row[k]
				for c := range scores {
					scores[c] += alpha[c][i] * kv
				}
			}
			var predicted = ml.Argmax(scores)
			if predicted == y[j] {
				continue
			}
			mistakes++
			alpha[y[j]][j] += 1
			alpha[predicted][j] -= 1
			if !inSupport[j] {
				inSupport[j] = true
				support = append(support, j)
			}
		}
		logger.Debug("epoch finished",
			zap.Int("epoch", epoch),
			zap.Int("mistakes", mistakes),
			zap.Int("support", len(support)))
		if mistakes == 0 {
			break
		}
	}

	var model = &Model{
		kernel:      kernel,
		classCount:  classCount,
		featureSize: featureSize,
		vectors:     make([][]float64, len(support)),
		coefs:       make([][]float64, classCount),
	}
	for k, i := range support {
		model.vectors[k] = append([]float64(nil), x.RawRowView(i)...)
	}
	for c := range model.coefs {
		model.coefs[c] = make([]float64, len(support))
		for k, i := range support {
			model.coefs[c][k] = alpha[c][i]
		}
	}
	return model, nil
}

var errKernelRow = errors.New("kernel row size mismatch")

// computeKernelRow fills row[k] = K(x[support[k]], v), in parallel chunks for big support sets.
func computeKernelRow(kernel ml.IKernel, x *mat.Dense, support []int, v []float64, row []float64, threads int) error {
	if len(row) != len(support) {
		return errKernelRow
	}
	if threads == 1 || len(support) < 2*minChunkSize {
		for k, i := range support {
			row[k] = kernel.Function(x.RawRowView(i), v)
		}
		return nil
	}
	var chunkSize = max(minChunkSize, (len(support)+threads-1)/threads)
	var g errgroup.Group
	g.SetLimit(threads)
	for start := 0; start < len(support); start += chunkSize {
		var end = min(start+chunkSize, len(support))
		g.Go(func() error {
			for k := start; k < end; k++ {
				row[k] = kernel.Function(x.RawRowView(support[k]), v)
			}
			return nil
		})
	}
	return g.Wait()
}
