// Package logging builds the diagnostic logger used across spddl.
//
// User-facing progress is reported through download.ProgressEvent; this
// logger carries the detail behind it (request URLs, retry attempts,
// durations) and is silent at the default "error" level.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to w at the given level.
//
// Accepted levels are debug, info, warn, error and off. Each logger carries
// a run_id field so lines from one invocation can be grouped.
func New(level string, w io.Writer) (*zap.Logger, error) {
	if level == "off" {
		return zap.NewNop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		lvl,
	)

	return zap.New(core).With(zap.String("run_id", uuid.NewString())), nil
}

// NewStderr is New writing to os.Stderr.
func NewStderr(level string) (*zap.Logger, error) {
	return New(level, os.Stderr)
}
