// Package config holds the run configuration of the digit recognizer.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ChizhovVadim/DigitRecognizer/internal/domain"
)

// Config is the run configuration. It is passed by value and not changed during a run.
type Config struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	ClassCount int     `yaml:"class_count"`
	Sigma      float64 `yaml:"sigma"`

	// RowCap limits every split unless the split sets its own row_cap. 0 reads all rows.
	RowCap int `yaml:"row_cap"`

	Normalization string `yaml:"normalization"` // unit, centered
	LabelColumn   string `yaml:"label_column"`  // front, back

	Train           SplitConfig `yaml:"train"`
	CrossValidation SplitConfig `yaml:"cross_validation"`
	Test            SplitConfig `yaml:"test"`

	OutputPath string `yaml:"output_path"`
	ModelPath  string `yaml:"model_path"`
	ResultsDB  string `yaml:"results_db"`

	Learner   LearnerConfig `yaml:"learner"`
	CurveCaps []int         `yaml:"curve_caps"`
}

type SplitConfig struct {
	Path   string `yaml:"path"`
	RowCap *int   `yaml:"row_cap,omitempty"`
}

type LearnerConfig struct {
	Epochs  int   `yaml:"epochs"`
	Threads int   `yaml:"threads"`
	Seed    int64 `yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Width:           28,
		Height:          28,
		ClassCount:      10,
		Sigma:           5,
		Normalization:   "unit",
		LabelColumn:     "front",
		Train:           SplitConfig{Path: "data/train.csv"},
		CrossValidation: SplitConfig{Path: "data/cv.csv"},
		Test:            SplitConfig{Path: "data/test.csv"},
		OutputPath:      "data/output.txt",
		Learner:         LearnerConfig{Epochs: 3},
		CurveCaps:       []int{100, 500, 1000, 5000, 10000},
	}
}

// Load reads a YAML file on top of DefaultConfig and validates the result.
func Load(path string) (Config, error) {
	var cfg = DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %v: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %v: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %v: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c Config) FeatureSize() int {
	return c.Width * c.Height
}

func (c Config) Split(phase domain.Phase) SplitConfig {
	switch phase {
	case domain.PhaseTrain:
		return c.Train
	case domain.PhaseCrossValidate:
		return c.CrossValidation
	case domain.PhaseTest:
		return c.Test
	default:
		return SplitConfig{}
	}
}

// SplitRowCap returns the row cap of the split read in phase.
func (c Config) SplitRowCap(phase domain.Phase) int {
	var split = c.Split(phase)
	if split.RowCap != nil {
		return *split.RowCap
	}
	return c.RowCap
}

// WithRowCap returns a copy whose train and cross-validation splits read at most rowCap rows.
func (c Config) WithRowCap(rowCap int) Config {
	c.RowCap = rowCap
	c.Train.RowCap = nil
	c.CrossValidation.RowCap = nil
	return c
}

func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("image size %vx%v", c.Width, c.Height))
	}
	if c.ClassCount < 2 {
		errs = append(errs, fmt.Errorf("class_count %v", c.ClassCount))
	}
	if !(c.Sigma > 0) {
		errs = append(errs, fmt.Errorf("sigma %v", c.Sigma))
	}
	if c.RowCap < 0 {
		errs = append(errs, fmt.Errorf("row_cap %v", c.RowCap))
	}
	for _, phase := range []domain.Phase{domain.PhaseTrain, domain.PhaseCrossValidate, domain.PhaseTest} {
		var split = c.Split(phase)
		if split.Path == "" {
			errs = append(errs, fmt.Errorf("%v path is empty", phase))
		}
		if split.RowCap != nil && *split.RowCap < 0 {
			errs = append(errs, fmt.Errorf("%v row_cap %v", phase, *split.RowCap))
		}
	}
	switch c.Normalization {
	case "unit", "centered":
	default:
		errs = append(errs, fmt.Errorf("normalization %q", c.Normalization))
	}
	switch c.LabelColumn {
	case "front", "back":
	default:
		errs = append(errs, fmt.Errorf("label_column %q", c.LabelColumn))
	}
	if c.OutputPath == "" {
		errs = append(errs, errors.New("output_path is empty"))
	}
	if c.Learner.Epochs < 0 || c.Learner.Threads < 0 {
		errs = append(errs, fmt.Errorf("learner %+v", c.Learner))
	}
	return errors.Join(errs...)
}
