package formatter

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dj95/kdl-fmt/pkg/kdl"
)

// Pipeline runs detect, normalize, convert and serialize over one document.
// It holds no per-run state; independent runs may share a Pipeline.
type Pipeline struct {
	detector *Detector
	hooks    Hooks
	logger   *slog.Logger
}

// NewPipeline creates a Pipeline from opts, filling in defaults for every
// collaborator that is nil.
func NewPipeline(opts Options) *Pipeline {
	handler := opts.Logger
	if handler == nil {
		handler = slog.NewTextHandler(io.Discard, nil)
	}
	hooks := opts.EventHooks
	if hooks == nil {
		hooks = &NoOpHooks{}
	}
	return &Pipeline{
		detector: NewDetector(opts.Parser, handler),
		hooks:    hooks,
		logger:   slog.New(handler).With("component", "pipeline"),
	}
}

// Format runs cfg through a Pipeline with default collaborators.
func Format(ctx context.Context, cfg Config) (string, error) {
	return NewPipeline(Options{}).Run(ctx, cfg)
}

// Run formats cfg.Content and returns the output text. The only failure
// after a successful parse is a cancelled context; no output is returned
// with an error.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()
	report := Report{Filename: cfg.Filename, Assumed: cfg.AssumeVersion != nil}

	// 1. Detect and parse.
	stageStart := time.Now()
	doc, detected, err := p.detector.Parse(cfg.Content, cfg.AssumeVersion)
	if err != nil {
		p.stage(StageDetect, StatusFailed, stageStart)
		return "", err
	}
	p.stage(StageDetect, StatusSuccess, stageStart)
	report.SourceVersion = detected
	p.logger.DebugContext(ctx, "Parsed input", "filename", cfg.Filename, "version", detected, "assumed", report.Assumed)

	// 2. Normalize.
	stageStart = time.Now()
	if cfg.NoFormat {
		p.stage(StageNormalize, StatusSkipped, stageStart)
	} else {
		doc.Autoformat(cfg.FormatConfig())
		report.Formatted = true
		p.stage(StageNormalize, StatusSuccess, stageStart)
	}

	// 3. Convert. Some target is always applied, even when it equals the
	// detected version.
	stageStart = time.Now()
	target := TargetVersion(detected, cfg.EnsureVersion)
	doc.EnsureVersion(target)
	report.TargetVersion = target
	report.Converted = target != detected
	p.stage(StageConvert, StatusSuccess, stageStart)
	p.logger.DebugContext(ctx, "Ensured output version", "from", detected, "to", target)

	// 4. Serialize.
	stageStart = time.Now()
	out := doc.String()
	p.stage(StageSerialize, StatusSuccess, stageStart)

	report.Changed = out != cfg.Content
	report.Duration = time.Since(start)
	if err := p.hooks.OnRunComplete(report); err != nil {
		p.logger.WarnContext(ctx, "Run hook failed", "error", err)
	}
	return out, nil
}

func (p *Pipeline) stage(stage Stage, status Status, start time.Time) {
	if err := p.hooks.OnStageUpdate(stage, status, time.Since(start)); err != nil {
		p.logger.Warn("Stage hook failed", "stage", stage, "error", err)
	}
}

// TargetVersion decides the output grammar of a run:
//
//	detected  ensure  target
//	v1        nil     v1
//	v2        nil     v2
//	any       v1      v1
//	any       v2      v2
func TargetVersion(detected kdl.Version, ensure *kdl.Version) kdl.Version {
	if ensure == nil {
		return detected
	}
	switch *ensure {
	case kdl.V1:
		return kdl.V1
	case kdl.V2:
		return kdl.V2
	}
	return detected
}

// FormatConfig translates the resolved settings into normalizer options.
func (c Config) FormatConfig() kdl.FormatConfig {
	return kdl.FormatConfig{
		Indent:     strings.Repeat(" ", c.IndentLevel),
		NoComments: c.StripComments,
	}
}
