package kdl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseError describes why a document could not be parsed under a grammar
// version. Line and Column are 1-based; Column counts runes.
type ParseError struct {
	Version Version
	Message string
	Offset  int
	Line    int
	Column  int
	// Source is the full text of the offending line, without its newline.
	Source string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("kdl %s: %d:%d: %s", e.Version, e.Line, e.Column, e.Message)
}

// newParseError resolves offset into a line/column position inside src.
func newParseError(src string, offset int, v Version, msg string) *ParseError {
	if offset > len(src) {
		offset = len(src)
	}
	line, lineStart := 1, 0
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r == '\r' && i+1 < len(src) && src[i+1] == '\n' {
			size = 2
		}
		if isNewline(r, V2) && i+size <= offset {
			line++
			lineStart = i + size
		}
		i += size
	}
	lineEnd := len(src)
	if idx := strings.IndexAny(src[lineStart:], "\r\n\u0085\u000B\u000C\u2028\u2029"); idx >= 0 {
		lineEnd = lineStart + idx
	}
	return &ParseError{
		Version: v,
		Message: msg,
		Offset:  offset,
		Line:    line,
		Column:  utf8.RuneCountInString(src[lineStart:offset]) + 1,
		Source:  src[lineStart:lineEnd],
	}
}
