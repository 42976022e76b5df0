package hooks

import (
	"log/slog"
	"time"

	"github.com/dj95/kdl-fmt/pkg/formatter"
)

// CLIHooks implements the formatter.Hooks interface, bridging pipeline
// events to the CLI logger.
type CLIHooks struct {
	logger         *slog.Logger
	verboseEnabled bool
}

// NewCLIHooks creates a new CLIHooks instance. Without verbose output stage
// events are dropped; failures reach the user as diagnostics instead.
func NewCLIHooks(logger *slog.Logger, verboseEnabled bool) formatter.Hooks {
	return &CLIHooks{
		logger:         logger,
		verboseEnabled: verboseEnabled,
	}
}

// OnStageUpdate handles the end of a pipeline stage.
func (h *CLIHooks) OnStageUpdate(stage formatter.Stage, status formatter.Status, duration time.Duration) error {
	if !h.verboseEnabled {
		return nil
	}

	attrs := []any{
		slog.String("stage", string(stage)),
		slog.String("status", string(status)),
	}
	if duration > 0 {
		attrs = append(attrs, slog.Duration("duration", duration))
	}

	logMsg := "Stage finished"
	if status == formatter.StatusFailed {
		logMsg = "Stage failed"
	}
	h.logger.Debug(logMsg, attrs...)
	return nil // Pipeline only logs hook errors
}

// OnRunComplete handles the end of a successful run.
func (h *CLIHooks) OnRunComplete(report formatter.Report) error {
	if !h.verboseEnabled {
		return nil
	}
	h.logger.Debug("Run complete",
		slog.String("filename", report.Filename),
		slog.Any("sourceVersion", report.SourceVersion),
		slog.Any("targetVersion", report.TargetVersion),
		slog.Bool("assumed", report.Assumed),
		slog.Bool("formatted", report.Formatted),
		slog.Bool("converted", report.Converted),
		slog.Bool("changed", report.Changed),
		slog.Duration("duration", report.Duration),
	)
	return nil
}
