package encoding

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-enry/go-enry/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffLen is the number of bytes used by http.DetectContentType.
const sniffLen = 512

// MIME types that http.DetectContentType reports for text that is still worth
// decoding. Anything else is treated as binary.
var knownTextMIMEPrefixes = map[string]bool{
	"text/":            true,
	"application/json": true,
	"application/xml":  true,
}

// EncodingHandler detects the character encoding of an input document,
// converts it to UTF-8 and rejects binary data.
type EncodingHandler interface {
	// DetectAndDecode converts content to UTF-8. It returns the UTF-8 bytes,
	// the IANA name of the source encoding and whether the encoding was
	// known for sure (valid UTF-8, a byte order mark or a configured
	// fallback) rather than guessed.
	DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certainty bool, err error)

	// IsBinary reports whether content looks like binary data: NUL bytes
	// without a UTF-16 byte order mark, or non-UTF-8 data of a non-text
	// MIME type.
	IsBinary(content []byte) bool
}

// goCharsetEncodingHandler implements EncodingHandler with
// golang.org/x/net/html/charset and golang.org/x/text.
type goCharsetEncodingHandler struct {
	defaultEncoding string
}

// NewGoCharsetEncodingHandler creates a new encoding handler. defaultEncoding
// names the encoding used for input that is neither UTF-8 nor marked with a
// byte order mark; empty lets the handler guess.
func NewGoCharsetEncodingHandler(defaultEncoding string) EncodingHandler {
	return &goCharsetEncodingHandler{defaultEncoding: defaultEncoding}
}

// DetectAndDecode implements the EncodingHandler interface. Valid UTF-8 is
// returned unchanged, including a leading byte order mark, since KDL reads
// it as whitespace.
func (h *goCharsetEncodingHandler) DetectAndDecode(content []byte) ([]byte, string, bool, error) {
	if utf8.Valid(content) {
		return content, "utf-8", true, nil
	}

	enc, name, certain := charset.DetermineEncoding(content, "")
	if !certain && h.defaultEncoding != "" {
		fallback, fallbackName := charset.Lookup(h.defaultEncoding)
		if fallback == nil {
			return content, h.defaultEncoding, false, fmt.Errorf("unknown encoding %q", h.defaultEncoding)
		}
		enc, name, certain = fallback, fallbackName, true
	}

	// BOMOverride drops a UTF-16 byte order mark and picks the matching
	// decoder; without one the detected encoding applies.
	decoder := unicode.BOMOverride(enc.NewDecoder())
	utf8Content, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), decoder))
	if err != nil {
		return content, name, certain, fmt.Errorf("failed to convert from '%s': %w", name, err)
	}
	return utf8Content, name, certain, nil
}

// isMIMETextBased checks if a detected MIME type is likely text-based.
func isMIMETextBased(contentType string) bool {
	mimeType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if strings.HasPrefix(mimeType, "text/") || knownTextMIMEPrefixes[mimeType] {
		return true
	}
	// Control characters such as vertical tab sniff as octet-stream.
	return mimeType == "application/octet-stream"
}

// IsBinary implements the EncodingHandler interface. Valid UTF-8 without NUL
// bytes is always text, whatever its first bytes sniff as.
func (h *goCharsetEncodingHandler) IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	contentType := http.DetectContentType(content[:min(len(content), sniffLen)])
	if strings.Contains(contentType, "charset=utf-16") {
		return false
	}
	if enry.IsBinary(content) {
		return true
	}
	if utf8.Valid(content) {
		return false
	}
	return !isMIMETextBased(contentType)
}
