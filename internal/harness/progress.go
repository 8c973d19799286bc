package harness

import (
	"time"

	"go.uber.org/zap"
)

// timed logs how long fn took. The error of fn is returned as is.
func timed(logger *zap.Logger, name string, fn func() error) error {
	var start = time.Now()
	logger.Debug(name + " started")
	var err = fn()
	logger.Debug(name+" finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", err == nil))
	return err
}
