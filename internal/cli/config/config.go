package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dj95/kdl-fmt/pkg/formatter"
	"github.com/dj95/kdl-fmt/pkg/kdl"
)

// EnvPrefix prefixes the environment variables that override run settings,
// e.g. KDLFMT_VERBOSE or KDLFMT_LOG_FORMAT.
const EnvPrefix = "KDLFMT"

// Flag names. Formatting flags feed the invocation layer; the rest are run
// settings resolved through viper.
const (
	FlagFromV1        = "from-v1"
	FlagFromV2        = "from-v2"
	FlagToV1          = "to-v1"
	FlagToV2          = "to-v2"
	FlagInPlace       = "in-place"
	FlagStripComments = "strip-comments"
	FlagIndentLevel   = "indent-level"
	FlagNoFormat      = "no-format"
	FlagPrintConfig   = "print-config"

	FlagVerbose   = "verbose"
	FlagLogFormat = "log-format"
	FlagColor     = "color"
	FlagEncoding  = "encoding"
)

// Allowed values of the enumerated run settings.
var (
	LogFormats = []string{"text", "json"}
	ColorModes = []string{"auto", "always", "never"}
)

// ErrInvalidSetting indicates a run setting or flag value outside its
// allowed range.
var ErrInvalidSetting = errors.New("invalid setting")

// Settings are the ambient run settings: logging, diagnostics and input
// decoding. They never influence how a document is formatted.
type Settings struct {
	Verbose   bool   `mapstructure:"verbose"`
	LogFormat string `mapstructure:"log-format"`
	Color     string `mapstructure:"color"`
	// Encoding is the fallback for input that is not UTF-8; empty guesses.
	Encoding string `mapstructure:"encoding"`
}

// Loaded is everything LoadAndValidate resolves before input is read.
type Loaded struct {
	Settings Settings
	// Config is the resolved formatting configuration; Content is still empty.
	Config      formatter.Config
	PrintConfig bool
	Logger      *slog.Logger
}

// DefineFlags registers every flag LoadAndValidate reads.
func DefineFlags(flags *pflag.FlagSet) {
	flags.Bool(FlagFromV1, false, "Force the v1 parser for the input")
	flags.Bool(FlagFromV2, false, "Force the v2 parser for the input")
	flags.Bool(FlagToV1, false, "Output the document as KDL v1")
	flags.Bool(FlagToV2, false, "Output the document as KDL v2")
	flags.Bool(FlagInPlace, false, "Format the input file in place instead of printing the result")
	flags.BoolP(FlagStripComments, "s", formatter.DefaultStripComments, "Remove all comments")
	flags.UintP(FlagIndentLevel, "i", formatter.DefaultIndentLevel, "Number of spaces per indentation level")
	flags.BoolP(FlagNoFormat, "n", formatter.DefaultNoFormat, "Only parse and validate the document, keeping its layout")
	flags.Bool(FlagPrintConfig, false, "Print the resolved configuration as YAML and exit")

	flags.BoolP(FlagVerbose, "v", false, "Enable verbose (debug) logging output")
	flags.String(FlagLogFormat, "text", `Log output format ("text", "json")`)
	flags.String(FlagColor, "auto", `Colorize diagnostics ("auto", "always", "never")`)
	flags.String(FlagEncoding, "", "Encoding of input that is not UTF-8 (default: detect)")
}

// LoadAndValidate resolves the run settings and the formatting configuration.
// Invocation constraints are checked before the project configuration in
// workDir is read. args are the positional arguments: none or "-" selects
// standard input.
func LoadAndValidate(workDir string, args []string, flags *pflag.FlagSet, stderr io.Writer) (Loaded, error) {
	var loaded Loaded

	settings, err := loadSettings(flags)
	if err != nil {
		return loaded, err
	}
	loaded.Settings = settings

	logLevel := slog.LevelInfo
	if settings.Verbose {
		logLevel = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler = slog.NewTextHandler(stderr, handlerOpts)
	if settings.LogFormat == "json" {
		logHandler = slog.NewJSONHandler(stderr, handlerOpts)
	}
	logger := slog.New(logHandler)
	loaded.Logger = logger

	inv, err := invocationFromFlags(args, flags)
	if err != nil {
		return loaded, err
	}
	if err := inv.Validate(); err != nil {
		return loaded, err
	}
	loaded.PrintConfig, _ = flags.GetBool(FlagPrintConfig)

	project, err := formatter.LoadProjectConfig(workDir)
	if err != nil {
		return loaded, err
	}
	if project != nil {
		logger.Debug("Using project configuration", slog.String("file", formatter.ProjectConfigFileName))
	}

	cfg, err := formatter.Resolve(formatter.DefaultConfig(), project, inv)
	if err != nil {
		return loaded, err
	}
	loaded.Config = cfg

	logger.Debug("Configuration loading and validation complete",
		slog.Any("assumeVersion", cfg.AssumeVersion),
		slog.Any("ensureVersion", cfg.EnsureVersion),
		slog.Bool("stripComments", cfg.StripComments),
		slog.Int("indentLevel", cfg.IndentLevel),
		slog.Bool("noFormat", cfg.NoFormat),
		slog.String("logLevel", logLevel.String()),
	)
	return loaded, nil
}

// loadSettings resolves the run settings: defaults, then KDLFMT_*
// environment variables, then explicitly set flags.
func loadSettings(flags *pflag.FlagSet) (Settings, error) {
	var settings Settings
	v := viper.New()

	v.SetDefault(FlagVerbose, false)
	v.SetDefault(FlagLogFormat, "text")
	v.SetDefault(FlagColor, "auto")
	v.SetDefault(FlagEncoding, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, key := range []string{FlagVerbose, FlagLogFormat, FlagColor, FlagEncoding} {
		flag := flags.Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return settings, fmt.Errorf("error binding flag '--%s': %w", key, err)
		}
	}

	if err := v.Unmarshal(&settings); err != nil {
		return settings, fmt.Errorf("error unmarshalling settings: %w", err)
	}

	if !isValidEnumValue(settings.LogFormat, LogFormats) {
		return settings, fmt.Errorf("%w: log format %q, expected one of %s", ErrInvalidSetting, settings.LogFormat, strings.Join(LogFormats, ", "))
	}
	if !isValidEnumValue(settings.Color, ColorModes) {
		return settings, fmt.Errorf("%w: color mode %q, expected one of %s", ErrInvalidSetting, settings.Color, strings.Join(ColorModes, ", "))
	}
	return settings, nil
}

// invocationFromFlags builds the invocation layer. Only flags that were set
// on the command line express an opinion, so an explicit
// --strip-comments=false still overrides the project configuration.
func invocationFromFlags(args []string, flags *pflag.FlagSet) (formatter.Invocation, error) {
	var inv formatter.Invocation

	inv.AssumeRequests = versionRequests(flags, FlagFromV1, FlagFromV2)
	inv.EnsureRequests = versionRequests(flags, FlagToV1, FlagToV2)

	if flags.Changed(FlagStripComments) {
		strip, _ := flags.GetBool(FlagStripComments)
		inv.StripComments = &strip
	}
	if flags.Changed(FlagNoFormat) {
		noFormat, _ := flags.GetBool(FlagNoFormat)
		inv.NoFormat = &noFormat
	}
	if flags.Changed(FlagIndentLevel) {
		level, _ := flags.GetUint(FlagIndentLevel)
		if level > formatter.MaxIndentLevel {
			return inv, fmt.Errorf("%w: indent level %d exceeds %d", ErrInvalidSetting, level, formatter.MaxIndentLevel)
		}
		indent := int(level)
		inv.IndentLevel = &indent
	}

	inv.InPlace, _ = flags.GetBool(FlagInPlace)
	if len(args) > 0 && args[0] != formatter.StdinMarker {
		inv.Filename = args[0]
	}
	return inv, nil
}

// versionRequests lists the versions whose flag is set to true, v1 first.
func versionRequests(flags *pflag.FlagSet, v1Flag, v2Flag string) []kdl.Version {
	var requests []kdl.Version
	if on, _ := flags.GetBool(v1Flag); on {
		requests = append(requests, kdl.V1)
	}
	if on, _ := flags.GetBool(v2Flag); on {
		requests = append(requests, kdl.V2)
	}
	return requests
}

// isValidEnumValue checks if a given string value is present in a slice of allowed enum values.
// Case-sensitive comparison.
func isValidEnumValue[T ~string](value T, allowedValues []T) bool {
	return slices.Contains(allowedValues, value)
}
