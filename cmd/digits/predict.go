package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChizhovVadim/DigitRecognizer/internal/classifier"
	"github.com/ChizhovVadim/DigitRecognizer/internal/dataset"
	"github.com/ChizhovVadim/DigitRecognizer/internal/domain"
	"github.com/ChizhovVadim/DigitRecognizer/internal/quality"
)

var predictFlags struct {
	model  string
	input  string
	output string
	rowCap int
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict labels for an unlabeled CSV file with a saved model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		var modelPath = mapPath(predictFlags.model)
		if modelPath == "" {
			modelPath = cfg.ModelPath
		}
		var input = mapPath(predictFlags.input)
		if input == "" {
			input = cfg.Test.Path
		}
		var output = mapPath(predictFlags.output)
		if output == "" {
			output = cfg.OutputPath
		}

		model, err := classifier.LoadModel(modelPath)
		if err != nil {
			return err
		}
		if err = model.CheckNormalization(cfg.Normalization); err != nil {
			return fmt.Errorf("%v: %w", modelPath, err)
		}
		normalizer, err := dataset.NewNormalizer(cfg.Normalization)
		if err != nil {
			return err
		}
		parser, err := dataset.NewRowParser(cfg.LabelColumn, normalizer, model.FeatureSize(), model.ClassCount())
		if err != nil {
			return err
		}
		ds, err := dataset.NewLoader(parser, logger).Load(input, predictFlags.rowCap, false)
		if err != nil {
			return err
		}
		if ds.Len() == 0 {
			return fmt.Errorf("%v: %w", input, domain.ErrEmptyDataset)
		}
		predictions, err := quality.WritePredictions(model, ds.Matrix(), output)
		if err != nil {
			return err
		}
		logger.Info("predictions written",
			zap.String("model", modelPath),
			zap.String("input", input),
			zap.String("output", output),
			zap.Int("rows", len(predictions)))
		return nil
	},
}

func init() {
	var flags = predictCmd.Flags()
	flags.StringVar(&predictFlags.model, "model", "", "model file, defaults to model_path")
	flags.StringVar(&predictFlags.input, "input", "", "unlabeled CSV, defaults to the test split")
	flags.StringVarP(&predictFlags.output, "output", "o", "", "predictions file, defaults to output_path")
	flags.IntVar(&predictFlags.rowCap, "row-cap", 0, "max rows read, 0 reads all")
}
