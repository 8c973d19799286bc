package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ChizhovVadim/DigitRecognizer/internal/harness"
	"github.com/ChizhovVadim/DigitRecognizer/internal/quality"
)

var curveCaps []int

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Train and cross-validate with growing row caps to build a learning curve",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		var caps = cfg.CurveCaps
		if cmd.Flags().Changed("caps") {
			caps = curveCaps
		}
		if len(caps) == 0 {
			return fmt.Errorf("no row caps for the learning curve")
		}
		return withHarness(cfg, func(h *harness.Harness) error {
			points, err := h.LearningCurve(cmd.Context(), caps)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%10s %10s %10s %10s\n", "cap", "rows", "train", "cv")
			for _, p := range points {
				logger.Debug("curve point", zap.Int("row_cap", p.RowCap), zap.Int("rows", p.TrainRows))
				fmt.Fprintf(cmd.OutOrStdout(), "%10d %10d %10s %10s\n",
					p.RowCap, p.TrainRows,
					quality.FormatAccuracy(p.TrainAccuracy),
					quality.FormatAccuracy(p.CrossValidationAcc))
			}
			return nil
		})
	},
}

func init() {
	curveCmd.Flags().IntSliceVar(&curveCaps, "caps", nil, "row caps, e.g. 100,500,1000")
}
