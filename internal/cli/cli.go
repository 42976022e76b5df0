package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dj95/kdl-fmt/internal/cli/config"
	"github.com/dj95/kdl-fmt/internal/cli/hooks"
	"github.com/dj95/kdl-fmt/internal/ctxlog"
	"github.com/dj95/kdl-fmt/pkg/formatter"
	"github.com/dj95/kdl-fmt/pkg/formatter/encoding"
	"github.com/dj95/kdl-fmt/pkg/formatter/language"
)

// Streams are the input and output streams of one invocation. Logs and
// diagnostics go to the logger in the context instead.
type Streams struct {
	In  io.Reader
	Out io.Writer
}

// Run formats the input selected by loaded and writes the result to
// streams.Out, or back to the input file in place mode. The logger is taken
// from ctx.
func Run(ctx context.Context, loaded config.Loaded, streams Streams) error {
	logger := ctxlog.FromContext(ctx)
	cfg := loaded.Config

	if loaded.PrintConfig {
		return printConfig(streams.Out, cfg)
	}

	raw, err := readInput(cfg.Filename, streams.In)
	if err != nil {
		return err
	}

	content, err := decodeInput(encoding.NewGoCharsetEncodingHandler(loaded.Settings.Encoding), raw, logger)
	if err != nil {
		return err
	}

	if cfg.Filename != "" {
		detector := language.NewGoEnryDetector(nil)
		if lang, safe := detector.Detect([]byte(content), cfg.Filename); safe && lang != language.KDL {
			logger.Warn("Input does not look like a KDL document", "path", cfg.Filename, "language", lang)
		}
	}
	cfg.Content = content

	pipeline := formatter.NewPipeline(formatter.Options{
		EventHooks: hooks.NewCLIHooks(logger, loaded.Settings.Verbose),
		Logger:     logger.Handler(),
	})
	out, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}

	if !cfg.InPlace {
		if _, err := io.WriteString(streams.Out, out); err != nil {
			return fmt.Errorf("%w: writing output: %w", formatter.ErrIO, err)
		}
		return nil
	}

	if out == string(raw) {
		logger.Debug("File already formatted, not rewriting", "path", cfg.Filename)
		return nil
	}
	if err := writeFileAtomic(cfg.Filename, []byte(out), logger); err != nil {
		return err
	}
	logger.Debug("Formatted file in place", "path", cfg.Filename)
	return nil
}

// printConfig writes the resolved configuration as YAML.
func printConfig(w io.Writer, cfg formatter.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("%w: writing configuration: %w", formatter.ErrIO, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: writing configuration: %w", formatter.ErrIO, err)
	}
	return nil
}

// readInput reads the named file, or stdin when filename is empty.
func readInput(filename string, stdin io.Reader) ([]byte, error) {
	if filename == "" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: reading standard input: %w", formatter.ErrIO, err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: reading '%s': %w", formatter.ErrIO, filename, err)
	}
	return raw, nil
}

// decodeInput rejects binary input and converts everything else to UTF-8.
func decodeInput(handler encoding.EncodingHandler, raw []byte, logger *slog.Logger) (string, error) {
	if handler.IsBinary(raw) {
		return "", formatter.ErrBinaryInput
	}

	decoded, name, certain, err := handler.DetectAndDecode(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", formatter.ErrEncoding, err)
	}
	if name != "utf-8" {
		logger.Debug("Decoded input", "encoding", name, "certain", certain)
		if !certain {
			logger.Warn("Guessed input encoding, set --encoding if the output looks wrong", "encoding", name)
		}
	}
	return string(decoded), nil
}
