package formatter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dj95/kdl-fmt/pkg/kdl"
)

// Document is a parsed document owned by a single pipeline run.
// *kdl.Document satisfies it.
type Document interface {
	Autoformat(cfg kdl.FormatConfig)
	EnsureVersion(v kdl.Version)
	String() string
}

// DocumentParser parses text under one grammar version, or fails.
//
// Stability: implementations can be provided externally, mainly for tests.
type DocumentParser interface {
	ParseAs(content string, v kdl.Version) (Document, error)
}

// KDLParser is the DocumentParser backed by package kdl.
type KDLParser struct{}

// ParseAs implements DocumentParser.
func (KDLParser) ParseAs(content string, v kdl.Version) (Document, error) {
	doc, err := kdl.ParseAs(content, v)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Detector determines the grammar version of an input document.
// It holds no mutable state and is safe for concurrent use.
type Detector struct {
	parser DocumentParser
	logger *slog.Logger
}

// NewDetector creates a Detector. A nil parser selects KDLParser and a nil
// handler discards log records.
func NewDetector(parser DocumentParser, handler slog.Handler) *Detector {
	if parser == nil {
		parser = KDLParser{}
	}
	if handler == nil {
		handler = slog.NewTextHandler(io.Discard, nil)
	}
	return &Detector{
		parser: parser,
		logger: slog.New(handler).With("component", "detector"),
	}
}

// Detect returns the grammar version of content. An assumed version is
// returned as is, without looking at the content. Otherwise v1 is tried
// first and v2 second; a document that parses under neither fails with
// ErrInputParseFailed wrapping the v2 error.
func (d *Detector) Detect(content string, assumed *kdl.Version) (kdl.Version, error) {
	if assumed != nil {
		return *assumed, nil
	}
	_, v, err := d.probe(content)
	return v, err
}

// Parse detects the grammar version and returns the document parsed under
// it. The document parsed while probing is reused. With an assumed version
// only that grammar is tried.
func (d *Detector) Parse(content string, assumed *kdl.Version) (Document, kdl.Version, error) {
	if assumed == nil {
		return d.probe(content)
	}

	v := *assumed
	doc, err := d.parser.ParseAs(content, v)
	if err != nil {
		d.logger.Debug("Input does not parse under assumed version", "version", v, "error", err)
		return nil, v, fmt.Errorf("%w: as assumed %s: %w", ErrInputParseFailed, v, err)
	}
	return doc, v, nil
}

func (d *Detector) probe(content string) (Document, kdl.Version, error) {
	doc, errV1 := d.parser.ParseAs(content, kdl.V1)
	if errV1 == nil {
		d.logger.Debug("Detected document version", "version", kdl.V1)
		return doc, kdl.V1, nil
	}

	doc, errV2 := d.parser.ParseAs(content, kdl.V2)
	if errV2 == nil {
		d.logger.Debug("Detected document version", "version", kdl.V2)
		return doc, kdl.V2, nil
	}

	d.logger.Debug("Input parses under no version", "v1_error", errV1, "v2_error", errV2)
	return nil, 0, fmt.Errorf("%w: %w", ErrInputParseFailed, errV2)
}
