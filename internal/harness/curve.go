package harness

import (
	"context"
	"fmt"
)

type CurvePoint struct {
	RowCap             int
	TrainRows          int
	TrainAccuracy      float64
	CrossValidationAcc float64
}

// LearningCurve trains a fresh model for every row cap and scores it on the
// cross-validation split read with the same cap.
func (h *Harness) LearningCurve(ctx context.Context, rowCaps []int) ([]CurvePoint, error) {
	var points []CurvePoint
	for _, rowCap := range rowCaps {
		if rowCap < 0 {
			return points, fmt.Errorf("learning curve: row cap %v", rowCap)
		}
		var cfg = h.config.WithRowCap(rowCap)
		cfg.ModelPath = ""
		var run = h.newRun(cfg)
		train, err := run.Train(ctx)
		if err != nil {
			return points, err
		}
		cv, err := run.CrossValidate(ctx)
		if err != nil {
			return points, err
		}
		points = append(points, CurvePoint{
			RowCap:             rowCap,
			TrainRows:          train.Rows,
			TrainAccuracy:      train.Accuracy,
			CrossValidationAcc: cv.Accuracy,
		})
	}
	return points, nil
}
