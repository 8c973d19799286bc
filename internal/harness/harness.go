package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/ChizhovVadim/DigitRecognizer/internal/config"
	"github.com/ChizhovVadim/DigitRecognizer/internal/dataset"
	"github.com/ChizhovVadim/DigitRecognizer/internal/domain"
)

var ErrPhaseOrder = errors.New("phase out of order")

// ILearner builds a model from a labeled feature matrix.
type ILearner interface {
	Train(x *mat.Dense, y []int, classCount int, sigma float64) (domain.IModel, error)
}

type ILoader interface {
	Load(path string, rowCap int, labeled bool) (domain.Dataset, error)
}

type IRecorder interface {
	Record(ctx context.Context, r domain.PhaseResult) error
}

type IModelSaver interface {
	Save(path, normalization string) error
}

type Harness struct {
	config   config.Config
	loader   ILoader
	learner  ILearner
	recorder IRecorder
	logger   *zap.Logger
}

// New validates cfg and builds the loader for its parser settings. recorder may be nil.
func New(cfg config.Config, learner ILearner, recorder IRecorder, logger *zap.Logger) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	normalizer, err := dataset.NewNormalizer(cfg.Normalization)
	if err != nil {
		return nil, err
	}
	parser, err := dataset.NewRowParser(cfg.LabelColumn, normalizer, cfg.FeatureSize(), cfg.ClassCount)
	if err != nil {
		return nil, err
	}
	return &Harness{
		config:   cfg,
		loader:   dataset.NewLoader(parser, logger),
		learner:  learner,
		recorder: recorder,
		logger:   logger,
	}, nil
}

type Report struct {
	RunID           string
	Train           domain.PhaseResult
	CrossValidation domain.PhaseResult
	Test            domain.PhaseResult
}

// Run trains on the train split, then scores the cross-validation split
// and writes predictions for the test split with the same model.
func (h *Harness) Run(ctx context.Context) (Report, error) {
	var run = h.NewRun()
	var report = Report{RunID: run.ID()}
	var err error
	report.Train, err = run.Train(ctx)
	if err != nil {
		return report, err
	}
	report.CrossValidation, err = run.CrossValidate(ctx)
	if err != nil {
		return report, err
	}
	report.Test, err = run.Test(ctx)
	if err != nil {
		return report, err
	}
	return report, nil
}

func (h *Harness) NewRun() *Run {
	return h.newRun(h.config)
}

func (h *Harness) newRun(cfg config.Config) *Run {
	var id = uuid.NewString()
	return &Run{
		harness:     h,
		config:      cfg,
		id:          id,
		logger:      h.logger.With(zap.String("run_id", id)),
		predictions: make(map[domain.Phase][]int),
	}
}

func (h *Harness) record(ctx context.Context, result domain.PhaseResult) error {
	if h.recorder == nil {
		return nil
	}
	return h.recorder.Record(ctx, result)
}

func (h *Harness) load(cfg config.Config, phase domain.Phase, labeled bool) (domain.Dataset, error) {
	var split = cfg.Split(phase)
	ds, err := h.loader.Load(split.Path, cfg.SplitRowCap(phase), labeled)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%v: %w", phase, err)
	}
	if ds.Len() == 0 {
		return domain.Dataset{}, fmt.Errorf("%v %v: %w", phase, split.Path, domain.ErrEmptyDataset)
	}
	return ds, nil
}
