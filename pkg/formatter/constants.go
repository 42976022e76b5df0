package formatter

// Constants defining default values for the resolved configuration.
// DefaultConfig is built from these; the CLI help text quotes them.
const (
	// DefaultIndentLevel is the number of spaces written per nesting level.
	DefaultIndentLevel = 4
	// MaxIndentLevel is the largest accepted indent level.
	MaxIndentLevel = 1024
	// DefaultStripComments is the default state for comment removal.
	DefaultStripComments = false
	// DefaultNoFormat is the default state for validate-only mode.
	DefaultNoFormat = false
)

// Constants related to inputs and the project configuration document.
const (
	// ProjectConfigFileName is the project configuration document, looked up
	// in the working directory only.
	ProjectConfigFileName = ".kdl-fmt.kdl"
	// StdinMarker is the positional argument that selects standard input.
	StdinMarker = "-"
)

// Names of the project configuration entries.
const (
	ConfigKeyAssumeVersion = "assume_version"
	ConfigKeyEnsureVersion = "ensure_version"
	ConfigKeyStripComments = "strip_comments"
	ConfigKeyIndentLevel   = "indent_level"
	ConfigKeyNoFormat      = "no_format"
)
