package formatter

import "errors"

// --- Exported Error Variables ---
// Every failure returned by this package wraps exactly one of these
// sentinels, except a cancelled or expired context, which Pipeline.Run
// returns as ctx.Err(). Callers classify failures with errors.Is; parse
// diagnostics are reachable with errors.As on *kdl.ParseError.

var (
	// ErrConflictingOptions indicates that both output-version flags were set
	// for the same run. Reported before any I/O happens.
	ErrConflictingOptions = errors.New("conflicting options: --to-v1 and --to-v2 are mutually exclusive")

	// ErrMissingTargetForInPlace indicates that in-place output was requested
	// while the input comes from standard input, so there is no file to
	// rewrite. Reported before any I/O happens.
	ErrMissingTargetForInPlace = errors.New("in-place formatting requires a named input file")

	// ErrConfigDocumentInvalid indicates that the project configuration file
	// exists but is not a valid KDL v2 document. The whole run fails; a
	// malformed configuration file is never ignored.
	ErrConfigDocumentInvalid = errors.New("invalid project configuration document")

	// ErrInputParseFailed indicates that the input could not be parsed under
	// either grammar version, or under the version the caller assumed.
	// The wrapped *kdl.ParseError carries the parser's diagnostic.
	ErrInputParseFailed = errors.New("failed to parse input document")

	// ErrIO indicates a failure to read the input or configuration file, or
	// to write formatted output back to disk.
	ErrIO = errors.New("i/o failure")

	// ErrBinaryInput indicates that the input looks like binary data rather
	// than a text document.
	ErrBinaryInput = errors.New("binary input encountered")

	// ErrEncoding indicates that the input could not be decoded to UTF-8.
	ErrEncoding = errors.New("failed to decode input")
)
