package formatter

import (
	"log/slog"
	"slices"
	"time"

	"github.com/dj95/kdl-fmt/pkg/kdl"
)

// PartialConfig is one configuration layer. A nil field means the layer
// expresses no opinion and the layer below it decides.
type PartialConfig struct {
	AssumeVersion *kdl.Version `yaml:"assume_version,omitempty"`
	EnsureVersion *kdl.Version `yaml:"ensure_version,omitempty"`
	StripComments *bool        `yaml:"strip_comments,omitempty"`
	IndentLevel   *int         `yaml:"indent_level,omitempty"`
	NoFormat      *bool        `yaml:"no_format,omitempty"`
}

// applyTo overwrites every field of c that p sets.
func (p PartialConfig) applyTo(c *Config) {
	if p.AssumeVersion != nil {
		v := *p.AssumeVersion
		c.AssumeVersion = &v
	}
	if p.EnsureVersion != nil {
		v := *p.EnsureVersion
		c.EnsureVersion = &v
	}
	if p.StripComments != nil {
		c.StripComments = *p.StripComments
	}
	if p.IndentLevel != nil {
		c.IndentLevel = *p.IndentLevel
	}
	if p.NoFormat != nil {
		c.NoFormat = *p.NoFormat
	}
}

// Invocation is the configuration layer expressed by command-line flags.
// Version flags come in pairs, so they are recorded as the list of versions
// requested, in flag order, and reduced to a single value by Partial.
type Invocation struct {
	AssumeRequests []kdl.Version
	EnsureRequests []kdl.Version
	StripComments  *bool
	IndentLevel    *int
	NoFormat       *bool

	// InPlace rewrites Filename instead of printing the result.
	InPlace bool
	// Filename is empty when the input is standard input.
	Filename string
}

// Validate checks the cross-field constraints of the invocation. It needs no
// I/O, so callers run it before touching the filesystem.
func (inv Invocation) Validate() error {
	if slices.Contains(inv.EnsureRequests, kdl.V1) && slices.Contains(inv.EnsureRequests, kdl.V2) {
		return ErrConflictingOptions
	}
	if inv.InPlace && inv.Filename == "" {
		return ErrMissingTargetForInPlace
	}
	return nil
}

// Partial reduces the invocation to a configuration layer. When both assume
// flags are given the first request wins.
func (inv Invocation) Partial() PartialConfig {
	p := PartialConfig{
		StripComments: inv.StripComments,
		IndentLevel:   inv.IndentLevel,
		NoFormat:      inv.NoFormat,
	}
	if len(inv.AssumeRequests) > 0 {
		v := inv.AssumeRequests[0]
		p.AssumeVersion = &v
	}
	if len(inv.EnsureRequests) > 0 {
		v := inv.EnsureRequests[0]
		p.EnsureVersion = &v
	}
	return p
}

// Config is the fully resolved configuration of one run.
type Config struct {
	// AssumeVersion skips detection when set. It never implies EnsureVersion.
	AssumeVersion *kdl.Version `yaml:"assume_version"`
	// EnsureVersion is the output grammar; nil keeps the detected one.
	EnsureVersion *kdl.Version `yaml:"ensure_version"`
	StripComments bool         `yaml:"strip_comments"`
	IndentLevel   int          `yaml:"indent_level"`
	// NoFormat validates the input and only converts its dialect.
	NoFormat bool `yaml:"no_format"`

	// --- Run-scoped values ---
	Content  string `yaml:"-"`
	Filename string `yaml:"filename,omitempty"`
	InPlace  bool   `yaml:"in_place"`
}

// DefaultConfig returns the built-in defaults, the lowest configuration layer.
func DefaultConfig() Config {
	return Config{
		StripComments: DefaultStripComments,
		IndentLevel:   DefaultIndentLevel,
		NoFormat:      DefaultNoFormat,
	}
}

// Hooks receives progress events from a pipeline run. Errors returned by
// hooks are logged and otherwise ignored.
type Hooks interface {
	OnStageUpdate(stage Stage, status Status, duration time.Duration) error
	OnRunComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnStageUpdate implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnStageUpdate(stage Stage, status Status, duration time.Duration) error {
	return nil
}

// OnRunComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// Options holds the injected collaborators of a Pipeline.
type Options struct {
	// Parser parses documents; nil selects KDLParser.
	Parser DocumentParser
	// EventHooks receives stage events; nil selects NoOpHooks.
	EventHooks Hooks
	// Logger is the logging backend; nil discards log records.
	Logger slog.Handler
}
