package formatter

import (
	"time"

	"github.com/dj95/kdl-fmt/pkg/kdl"
)

// Report summarizes a single pipeline run. It is handed to Hooks.OnRunComplete.
type Report struct {
	Filename      string      `json:"filename,omitempty" yaml:"filename,omitempty"`
	SourceVersion kdl.Version `json:"sourceVersion" yaml:"source_version"`
	TargetVersion kdl.Version `json:"targetVersion" yaml:"target_version"`
	// Assumed is true when the source version came from configuration
	// instead of detection.
	Assumed   bool `json:"assumed" yaml:"assumed"`
	Formatted bool `json:"formatted" yaml:"formatted"`
	// Converted is true when the target version differs from the source.
	Converted bool `json:"converted" yaml:"converted"`
	// Changed is true when the output differs from the input text.
	Changed  bool          `json:"changed" yaml:"changed"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}
