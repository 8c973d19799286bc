package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChizhovVadim/DigitRecognizer/internal/classifier"
	"github.com/ChizhovVadim/DigitRecognizer/internal/config"
	"github.com/ChizhovVadim/DigitRecognizer/internal/harness"
	"github.com/ChizhovVadim/DigitRecognizer/internal/quality"
	"github.com/ChizhovVadim/DigitRecognizer/internal/runlog"
)

var runFlags struct {
	rowCap    int
	output    string
	model     string
	resultsDB string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Train on the train split, score the cross-validation split, predict the test split",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyRunFlags(cmd, &cfg)
		return withHarness(cfg, func(h *harness.Harness) error {
			report, err := h.Run(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("run finished",
				zap.String("run_id", report.RunID),
				zap.String("train_accuracy", quality.FormatAccuracy(report.Train.Accuracy)),
				zap.String("cv_accuracy", quality.FormatAccuracy(report.CrossValidation.Accuracy)),
				zap.Int("predictions", report.Test.Rows),
				zap.String("output", cfg.OutputPath))
			return nil
		})
	},
}

func init() {
	var flags = runCmd.Flags()
	flags.IntVar(&runFlags.rowCap, "row-cap", 0, "max rows read from every split, 0 reads all")
	flags.StringVarP(&runFlags.output, "output", "o", "", "predictions file")
	flags.StringVar(&runFlags.model, "model", "", "save the trained model to this file")
	flags.StringVar(&runFlags.resultsDB, "results-db", "", "SQLite file for phase results")
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	var flags = cmd.Flags()
	if flags.Changed("row-cap") {
		*cfg = cfg.WithRowCap(runFlags.rowCap)
		cfg.Test.RowCap = nil
	}
	if flags.Changed("output") {
		cfg.OutputPath = mapPath(runFlags.output)
	}
	if flags.Changed("model") {
		cfg.ModelPath = mapPath(runFlags.model)
	}
	if flags.Changed("results-db") {
		cfg.ResultsDB = mapPath(runFlags.resultsDB)
	}
}

// withHarness builds the harness for cfg, opening the results store when configured.
func withHarness(cfg config.Config, fn func(h *harness.Harness) error) error {
	var recorder harness.IRecorder
	if cfg.ResultsDB != "" {
		store, err := runlog.Open(cfg.ResultsDB)
		if err != nil {
			return err
		}
		defer store.Close()
		recorder = store
	}
	var learner = &classifier.Learner{
		Epochs:  cfg.Learner.Epochs,
		Threads: cfg.Learner.Threads,
		Seed:    cfg.Learner.Seed,
		Logger:  logger,
	}
	h, err := harness.New(cfg, learner, recorder, logger)
	if err != nil {
		return err
	}
	return fn(h)
}
