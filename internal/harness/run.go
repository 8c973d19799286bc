package harness

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ChizhovVadim/DigitRecognizer/internal/config"
	"github.com/ChizhovVadim/DigitRecognizer/internal/domain"
	"github.com/ChizhovVadim/DigitRecognizer/internal/quality"
)

// Run is one pass through the phases. Phases only move forward, the model
// created by Train is reused by CrossValidate and Test.
type Run struct {
	harness     *Harness
	config      config.Config
	id          string
	logger      *zap.Logger
	phase       domain.Phase
	model       domain.IModel
	featureSize int
	predictions map[domain.Phase][]int
}

func (r *Run) ID() string           { return r.id }
func (r *Run) Model() domain.IModel { return r.model }
func (r *Run) Phase() domain.Phase  { return r.phase }
func (r *Run) Predictions() []int   { return r.predictions[domain.PhaseTest] }

// PhasePredictions returns the labels the model assigned to the rows of phase's split.
func (r *Run) PhasePredictions(phase domain.Phase) []int { return r.predictions[phase] }

func (r *Run) enter(phase domain.Phase) error {
	if phase <= r.phase {
		return fmt.Errorf("%w: %v after %v", ErrPhaseOrder, phase, r.phase)
	}
	if phase != domain.PhaseTrain && r.model == nil {
		return fmt.Errorf("%w: %v without a trained model", ErrPhaseOrder, phase)
	}
	r.phase = phase
	return nil
}

func (r *Run) Train(ctx context.Context) (domain.PhaseResult, error) {
	return r.execute(ctx, domain.PhaseTrain, func(result *domain.PhaseResult) error {
		var ds domain.Dataset
		var err = timed(r.logger, "read train", func() (err error) {
			ds, err = r.harness.load(r.config, domain.PhaseTrain, true)
			return err
		})
		if err != nil {
			return err
		}
		var m = ds.Matrix()
		result.Rows = m.Count

		var model domain.IModel
		err = timed(r.logger, "fit", func() (err error) {
			model, err = r.harness.learner.Train(m.X, m.Y, r.config.ClassCount, r.config.Sigma)
			return err
		})
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}
		r.model = model
		r.featureSize = ds.FeatureSize

		if err = r.scoreInto(result, m); err != nil {
			return err
		}
		return r.saveModel()
	})
}

func (r *Run) CrossValidate(ctx context.Context) (domain.PhaseResult, error) {
	return r.execute(ctx, domain.PhaseCrossValidate, func(result *domain.PhaseResult) error {
		m, err := r.loadMatrix(domain.PhaseCrossValidate, true)
		if err != nil {
			return err
		}
		result.Rows = m.Count
		return r.scoreInto(result, m)
	})
}

func (r *Run) Test(ctx context.Context) (domain.PhaseResult, error) {
	return r.execute(ctx, domain.PhaseTest, func(result *domain.PhaseResult) error {
		m, err := r.loadMatrix(domain.PhaseTest, false)
		if err != nil {
			return err
		}
		result.Rows = m.Count
		return timed(r.logger, "write predictions", func() error {
			predictions, err := quality.WritePredictions(r.model, m, r.config.OutputPath)
			if err != nil {
				return fmt.Errorf("test: write %v: %w", r.config.OutputPath, err)
			}
			r.predictions[domain.PhaseTest] = predictions
			return nil
		})
	})
}

func (r *Run) execute(
	ctx context.Context,
	phase domain.Phase,
	body func(result *domain.PhaseResult) error,
) (domain.PhaseResult, error) {
	var result = domain.PhaseResult{
		RunID:  r.id,
		Phase:  phase,
		RowCap: r.config.SplitRowCap(phase),
	}
	if err := r.enter(phase); err != nil {
		return result, err
	}
	r.logger.Info("phase started", zap.Stringer("phase", phase))

	var start = time.Now()
	var err = body(&result)
	result.Elapsed = time.Since(start)
	if err != nil {
		r.logger.Error("phase failed", zap.Stringer("phase", phase), zap.Error(err))
		return result, err
	}

	var fields = []zap.Field{
		zap.Stringer("phase", phase),
		zap.Int("rows", result.Rows),
		zap.Duration("elapsed", result.Elapsed),
	}
	if result.HasAccuracy {
		fields = append(fields,
			zap.Float64("accuracy", result.Accuracy),
			zap.String("accuracy_pct", quality.FormatAccuracy(result.Accuracy)))
	}
	r.logger.Info("phase finished", fields...)

	if err = r.harness.record(ctx, result); err != nil {
		return result, err
	}
	return result, nil
}

func (r *Run) loadMatrix(phase domain.Phase, labeled bool) (domain.Matrix, error) {
	var ds domain.Dataset
	var err = timed(r.logger, "read "+phase.String(), func() (err error) {
		ds, err = r.harness.load(r.config, phase, labeled)
		return err
	})
	if err != nil {
		return domain.Matrix{}, err
	}
	if ds.FeatureSize != r.featureSize {
		return domain.Matrix{}, &domain.DimensionMismatchError{
			Path:     r.config.Split(phase).Path,
			Expected: r.featureSize,
			Actual:   ds.FeatureSize,
		}
	}
	return ds.Matrix(), nil
}

func (r *Run) scoreInto(result *domain.PhaseResult, m domain.Matrix) error {
	return timed(r.logger, "accuracy", func() error {
		var predictions = quality.Predict(r.model, m)
		accuracy, err := quality.ScorePredictions(predictions, m.Y)
		if err != nil {
			return err
		}
		r.predictions[result.Phase] = predictions
		result.Accuracy = accuracy
		result.HasAccuracy = true
		return nil
	})
}

func (r *Run) saveModel() error {
	var path = r.config.ModelPath
	if path == "" {
		return nil
	}
	saver, ok := r.model.(IModelSaver)
	if !ok {
		r.logger.Warn("model can not be saved", zap.String("path", path))
		return nil
	}
	if err := saver.Save(path, r.config.Normalization); err != nil {
		return fmt.Errorf("save model %v: %w", path, err)
	}
	r.logger.Info("model saved", zap.String("path", path))
	return nil
}
