package kdl

import "strings"

const bom = '\uFEFF'

// isUnicodeSpace reports non-newline whitespace. Both grammars share the set.
func isUnicodeSpace(r rune) bool {
	switch r {
	case '\t', ' ', '\u00A0', '\u1680', '\u202F', '\u205F', '\u3000':
		return true
	}
	return r >= '\u2000' && r <= '\u200A'
}

// isNewline reports newline code points; V2 additionally treats vertical tab
// as a newline.
func isNewline(r rune, v Version) bool {
	switch r {
	case '\r', '\n', '\u0085', '\u000C', '\u2028', '\u2029':
		return true
	case '\u000B':
		return v == V2
	}
	return false
}

// isDisallowed reports code points that may not appear literally in a V2
// document.
func isDisallowed(r rune) bool {
	switch {
	case r <= 0x08, r >= 0x0E && r <= 0x1F, r == 0x7F:
		return true
	case r >= 0xD800 && r <= 0xDFFF:
		return true
	case r == 0x200E, r == 0x200F, r >= 0x202A && r <= 0x202E, r >= 0x2066 && r <= 0x2069:
		return true
	case r == bom:
		return true
	}
	return false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isSign(r rune) bool { return r == '+' || r == '-' }

// isIdentChar reports whether r may appear in a bare identifier.
func isIdentChar(r rune, v Version) bool {
	if r < 0 || r <= 0x20 || isUnicodeSpace(r) || isNewline(r, v) || r == bom {
		return false
	}
	if v == V1 {
		return !strings.ContainsRune(`\/(){}<>;[]=,"`, r)
	}
	return !strings.ContainsRune(`\/(){};[]"#=`, r) && !isDisallowed(r)
}

// keywords that can never be bare identifiers.
var (
	v1Keywords = map[string]bool{"true": true, "false": true, "null": true}
	v2Keywords = map[string]bool{"true": true, "false": true, "null": true, "inf": true, "-inf": true, "nan": true}
)

// isBareIdentifier reports whether s can be written without quotes under v.
func isBareIdentifier(s string, v Version) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	for _, r := range runes {
		if !isIdentChar(r, v) {
			return false
		}
	}
	if isDigit(runes[0]) {
		return false
	}
	if len(runes) > 1 && isSign(runes[0]) && isDigit(runes[1]) {
		return false
	}
	if v == V1 {
		if strings.HasPrefix(s, "r#") {
			return false
		}
		return !v1Keywords[s]
	}
	if runes[0] == '.' && len(runes) > 1 && isDigit(runes[1]) {
		return false
	}
	if len(runes) > 2 && isSign(runes[0]) && runes[1] == '.' && isDigit(runes[2]) {
		return false
	}
	return !v2Keywords[s]
}
