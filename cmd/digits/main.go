package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ChizhovVadim/DigitRecognizer/internal/config"
)

var (
	configPath string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "digits",
	Short: "Train a kernel classifier on CSV pixel data, cross-validate it and predict the test split",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var cfg = zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML run configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(runCmd, curveCmd, predictCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", zap.Error(err))
			_ = logger.Sync()
		}
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	var cfg = config.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = config.Load(mapPath(configPath))
		if err != nil {
			return config.Config{}, err
		}
	}
	cfg.Train.Path = mapPath(cfg.Train.Path)
	cfg.CrossValidation.Path = mapPath(cfg.CrossValidation.Path)
	cfg.Test.Path = mapPath(cfg.Test.Path)
	cfg.OutputPath = mapPath(cfg.OutputPath)
	cfg.ModelPath = mapPath(cfg.ModelPath)
	cfg.ResultsDB = mapPath(cfg.ResultsDB)
	return cfg, nil
}
