package quality

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/ChizhovVadim/DigitRecognizer/internal/domain"
)

// Predict returns one label per row of m, in row order.
func Predict(model domain.IModel, m domain.Matrix) []int {
	var result = make([]int, m.Count)
	for i := range result {
		result[i] = model.Predict(m.Row(i))
	}
	return result
}

// EvaluateAccuracy returns the share of rows whose predicted label equals the true one.
func EvaluateAccuracy(model domain.IModel, m domain.Matrix) (float64, error) {
	if m.Count == 0 {
		return 0, domain.ErrEmptyDataset
	}
	if len(m.Y) != m.Count {
		return 0, fmt.Errorf("accuracy: %v labels for %v rows", len(m.Y), m.Count)
	}
	return ScorePredictions(Predict(model, m), m.Y)
}

// ScorePredictions returns the share of predictions equal to labels.
func ScorePredictions(predictions, labels []int) (float64, error) {
	if len(labels) == 0 {
		return 0, domain.ErrEmptyDataset
	}
	if len(predictions) != len(labels) {
		return 0, fmt.Errorf("accuracy: %v predictions for %v labels", len(predictions), len(labels))
	}
	var matches int
	for i, predicted := range predictions {
		if predicted == labels[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(labels)), nil
}

// WritePredictions truncates outputPath and writes one predicted label per line.
func WritePredictions(model domain.IModel, m domain.Matrix, outputPath string) (predictions []int, err error) {
	predictions = Predict(model, m)

	file, err := os.Create(outputPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	var w = bufio.NewWriter(file)
	for _, label := range predictions {
		w.WriteString(strconv.Itoa(label))
		w.WriteByte('\n')
	}
	if err = w.Flush(); err != nil {
		return nil, err
	}
	return predictions, nil
}

// FormatAccuracy renders accuracy as a percentage rounded to two decimals.
func FormatAccuracy(accuracy float64) string {
	return strconv.FormatFloat(math.Round(accuracy*10000)/100, 'f', -1, 64) + "%"
}
