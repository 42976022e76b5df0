package kdl

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxDepth bounds children nesting so hostile input cannot exhaust the stack.
const maxDepth = 256

// Parse parses src as KDL v2 and falls back to v1. When neither grammar
// accepts the input the v2 error is returned.
func Parse(src string) (*Document, error) {
	doc, err := ParseV2(src)
	if err == nil {
		return doc, nil
	}
	if doc1, err1 := ParseV1(src); err1 == nil {
		return doc1, nil
	}
	return nil, err
}

// ParseV1 parses src strictly under the KDL 1.0 grammar.
func ParseV1(src string) (*Document, error) { return ParseAs(src, V1) }

// ParseV2 parses src strictly under the KDL 2.0 grammar.
func ParseV2(src string) (*Document, error) { return ParseAs(src, V2) }

// ParseAs parses src strictly under grammar version v. Errors are always
// *ParseError values.
func ParseAs(src string, v Version) (*Document, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("kdl: unsupported version %s", v)
	}
	p := &parser{src: src, v: v}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p.document()
}

type parser struct {
	src string
	pos int
	v   Version
}

// literal is a scanned value together with its source spelling.
type literal struct {
	value Value
	repr  string
	str   bool // string syntax; usable as an identifier
	bare  bool // unquoted identifier string
}

func (p *parser) errorf(offset int, format string, args ...any) error {
	return newParseError(p.src, offset, p.v, fmt.Sprintf(format, args...))
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune { return p.peekAt(0) }

func (p *parser) peekAt(off int) rune {
	if p.pos+off >= len(p.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.pos+off:])
	return r
}

func (p *parser) advance() {
	_, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
}

func (p *parser) hasPrefix(s string) bool { return strings.HasPrefix(p.src[p.pos:], s) }

func (p *parser) validate() error {
	for i, r := range p.src {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(p.src[i:]); size == 1 {
				return p.errorf(i, "invalid UTF-8 encoding")
			}
		}
		if p.v == V2 && isDisallowed(r) && !(i == 0 && r == bom) {
			return p.errorf(i, "disallowed code point U+%04X", r)
		}
	}
	return nil
}

func (p *parser) document() (*Document, error) {
	var lead []trivia
	if p.peek() == bom {
		lead = append(lead, trivia{kind: triviaSpace, text: string(bom)})
		p.advance()
	}
	d, err := p.nodes(0, lead)
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf(p.pos, "unexpected %q", p.peek())
	}
	return d, nil
}

func (p *parser) nodes(depth int, lead []trivia) (*Document, error) {
	if depth > maxDepth {
		return nil, p.errorf(p.pos, "maximum nesting depth of %d exceeded", maxDepth)
	}
	d := &Document{version: p.v}
	for {
		ls, err := p.lineSpace(depth)
		if err != nil {
			return nil, err
		}
		lead = append(lead, ls...)
		if p.eof() || p.peek() == '}' {
			d.trailing = lead
			return d, nil
		}
		n, err := p.node(depth)
		if err != nil {
			return nil, err
		}
		n.format.leading = lead
		d.nodes = append(d.nodes, n)
		lead = nil
	}
}

// lineSpace collects whitespace, newlines, comments and slash-dashed nodes
// between nodes.
func (p *parser) lineSpace(depth int) ([]trivia, error) {
	var out []trivia
	for !p.eof() {
		t, ok, err := p.ws()
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, t)
			continue
		}
		if nl, ok := p.newline(); ok {
			out = append(out, trivia{kind: triviaSpace, text: nl})
			continue
		}
		if p.hasPrefix("//") {
			out = append(out, trivia{kind: triviaLineComment, text: p.lineComment()})
			continue
		}
		if p.v == V2 && p.peek() == '\\' {
			t, err := p.escline()
			if err != nil {
				return nil, err
			}
			out = append(out, t)
			continue
		}
		if p.hasPrefix("/-") {
			t, err := p.slashdashNode(depth)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
			continue
		}
		break
	}
	return out, nil
}

func (p *parser) slashdashNode(depth int) (trivia, error) {
	start := p.pos
	p.pos += 2
	if err := p.slashdashSpace(); err != nil {
		return trivia{}, err
	}
	text := p.src[start:p.pos]
	if p.eof() || p.peek() == '}' {
		return trivia{}, p.errorf(p.pos, "expected node after /-")
	}
	n, err := p.node(depth)
	if err != nil {
		return trivia{}, err
	}
	return trivia{kind: triviaSlashdash, text: text, node: n}, nil
}

// slashdashSpace skips the gap between "/-" and the item it comments out.
func (p *parser) slashdashSpace() error {
	for !p.eof() {
		_, ok, err := p.ws()
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if p.peek() == '\\' {
			if _, err := p.escline(); err != nil {
				return err
			}
			continue
		}
		if p.v == V2 {
			if _, ok := p.newline(); ok {
				continue
			}
			if p.hasPrefix("//") {
				p.lineComment()
				continue
			}
		}
		break
	}
	return nil
}

// ws scans one run of plain whitespace or one block comment.
func (p *parser) ws() (trivia, bool, error) {
	start := p.pos
	for !p.eof() {
		r := p.peek()
		if !isUnicodeSpace(r) && !(p.v == V1 && r == bom) {
			break
		}
		p.advance()
	}
	if p.pos > start {
		return trivia{kind: triviaSpace, text: p.src[start:p.pos]}, true, nil
	}
	if p.hasPrefix("/*") {
		text, err := p.blockComment()
		if err != nil {
			return trivia{}, false, err
		}
		return trivia{kind: triviaBlockComment, text: text}, true, nil
	}
	return trivia{}, false, nil
}

func (p *parser) newline() (string, bool) {
	if p.hasPrefix("\r\n") {
		p.pos += 2
		return "\r\n", true
	}
	r := p.peek()
	if !isNewline(r, p.v) {
		return "", false
	}
	p.advance()
	return string(r), true
}

// lineComment consumes "//" through the end of the line, newline included.
func (p *parser) lineComment() string {
	start := p.pos
	p.pos += 2
	for !p.eof() {
		if _, ok := p.newline(); ok {
			break
		}
		p.advance()
	}
	return p.src[start:p.pos]
}

func (p *parser) blockComment() (string, error) {
	start := p.pos
	depth := 0
	for {
		switch {
		case p.hasPrefix("/*"):
			depth++
			p.pos += 2
		case p.hasPrefix("*/"):
			depth--
			p.pos += 2
			if depth == 0 {
				return p.src[start:p.pos], nil
			}
		case p.eof():
			return "", p.errorf(start, "unterminated block comment")
		default:
			p.advance()
		}
	}
}

func (p *parser) escline() (trivia, error) {
	start := p.pos
	p.pos++
	for {
		_, ok, err := p.ws()
		if err != nil {
			return trivia{}, err
		}
		if !ok {
			break
		}
	}
	if p.hasPrefix("//") {
		p.lineComment()
	} else if _, ok := p.newline(); !ok && !(p.eof() && p.v == V2) {
		return trivia{}, p.errorf(p.pos, "expected newline or comment after line continuation")
	}
	return trivia{kind: triviaEscline, text: p.src[start:p.pos]}, nil
}

// nodeSpace collects whitespace, block comments and line continuations
// inside a node.
func (p *parser) nodeSpace() ([]trivia, error) {
	var out []trivia
	for !p.eof() {
		t, ok, err := p.ws()
		if err != nil {
			return nil, err
		}
		if !ok && p.peek() == '\\' {
			if t, err = p.escline(); err != nil {
				return nil, err
			}
			ok = true
		}
		if !ok {
			break
		}
		out = append(out, t)
	}
	return out, nil
}

func (p *parser) nodeSpaceText() (string, error) {
	start := p.pos
	if _, err := p.nodeSpace(); err != nil {
		return "", err
	}
	return p.src[start:p.pos], nil
}

func (p *parser) node(depth int) (*Node, error) {
	n := &Node{}
	if p.peek() == '(' {
		ty, repr, err := p.typeAnnotation()
		if err != nil {
			return nil, err
		}
		n.ty, n.format.tyRepr = &ty, repr
		if p.v == V2 {
			if n.format.afterTy, err = p.nodeSpaceText(); err != nil {
				return nil, err
			}
		}
	}
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	n.name = name

	pending := []trivia{}
	var sawChildren, hasChildren bool
	for {
		sp, err := p.nodeSpace()
		if err != nil {
			return nil, err
		}
		pending = append(pending, sp...)
		spaced := len(sp) > 0

		switch {
		case p.eof() || p.peek() == '}':
			n.format.trailing = pending
			return n, nil
		case p.hasPrefix("//"):
			n.format.trailing = append(pending, trivia{kind: triviaLineComment, text: p.lineComment()})
			return n, nil
		case p.peek() == ';':
			p.pos++
			n.format.trailing = append(pending, trivia{kind: triviaTerminator, text: ";"})
			return n, nil
		}
		if nl, ok := p.newline(); ok {
			n.format.trailing = append(pending, trivia{kind: triviaTerminator, text: nl})
			return n, nil
		}

		switch {
		case p.hasPrefix("/-"):
			start := p.pos
			p.pos += 2
			if err := p.slashdashSpace(); err != nil {
				return nil, err
			}
			t := trivia{kind: triviaSlashdash, text: p.src[start:p.pos]}
			if p.peek() == '{' {
				if t.children, err = p.children(depth); err != nil {
					return nil, err
				}
				sawChildren = true
			} else {
				if sawChildren {
					return nil, p.errorf(p.pos, "arguments and properties must come before the children block")
				}
				if t.entry, err = p.entry(); err != nil {
					return nil, err
				}
			}
			pending = append(pending, t)
		case p.peek() == '{':
			if hasChildren {
				return nil, p.errorf(p.pos, "node %q already has a children block", n.name.value)
			}
			n.format.beforeChildren = pending
			pending = []trivia{}
			if n.children, err = p.children(depth); err != nil {
				return nil, err
			}
			sawChildren, hasChildren = true, true
		default:
			if sawChildren {
				return nil, p.errorf(p.pos, "arguments and properties must come before the children block")
			}
			if !spaced {
				return nil, p.errorf(p.pos, "unexpected %q; expected whitespace", p.peek())
			}
			e, err := p.entry()
			if err != nil {
				return nil, err
			}
			e.format.leading = pending
			pending = []trivia{}
			n.entries = append(n.entries, e)
		}
	}
}

func (p *parser) children(depth int) (*Document, error) {
	open := p.pos
	p.pos++
	d, err := p.nodes(depth+1, nil)
	if err != nil {
		return nil, err
	}
	if p.peek() != '}' {
		return nil, p.errorf(open, "unclosed children block")
	}
	p.pos++
	return d, nil
}

func (p *parser) entry() (*Entry, error) {
	e := &Entry{}
	if p.peek() == '(' {
		return e, p.entryValue(e)
	}
	start := p.pos
	lit, err := p.literal()
	if err != nil {
		return nil, err
	}
	if lit.str {
		save := p.pos
		afterKey := ""
		if p.v == V2 {
			if afterKey, err = p.nodeSpaceText(); err != nil {
				return nil, err
			}
		}
		if p.peek() == '=' {
			p.pos++
			e.name = &Identifier{value: lit.value.s, repr: lit.repr}
			e.format.afterKey = afterKey
			if p.v == V2 {
				if e.format.afterEq, err = p.nodeSpaceText(); err != nil {
					return nil, err
				}
			}
			return e, p.entryValue(e)
		}
		p.pos = save
	}
	if lit.bare && p.v == V1 {
		return nil, p.errorf(start, "bare identifier %q cannot be used as a value; quote it", lit.repr)
	}
	e.value, e.format.valueRepr = lit.value, lit.repr
	return e, nil
}

func (p *parser) entryValue(e *Entry) error {
	if p.peek() == '(' {
		ty, repr, err := p.typeAnnotation()
		if err != nil {
			return err
		}
		e.ty, e.format.tyRepr = &ty, repr
		if p.v == V2 {
			if e.format.afterTy, err = p.nodeSpaceText(); err != nil {
				return err
			}
		}
	}
	start := p.pos
	lit, err := p.literal()
	if err != nil {
		return err
	}
	if lit.bare && p.v == V1 {
		return p.errorf(start, "bare identifier %q cannot be used as a value; quote it", lit.repr)
	}
	e.value, e.format.valueRepr = lit.value, lit.repr
	return nil
}

func (p *parser) typeAnnotation() (Identifier, string, error) {
	start := p.pos
	p.pos++
	if p.v == V2 {
		if _, err := p.nodeSpace(); err != nil {
			return Identifier{}, "", err
		}
	}
	id, err := p.identifier()
	if err != nil {
		return Identifier{}, "", err
	}
	if p.v == V2 {
		if _, err := p.nodeSpace(); err != nil {
			return Identifier{}, "", err
		}
	}
	if p.peek() != ')' {
		return Identifier{}, "", p.errorf(p.pos, "expected ')' to close type annotation")
	}
	p.pos++
	return id, p.src[start:p.pos], nil
}

func (p *parser) identifier() (Identifier, error) {
	start := p.pos
	lit, err := p.literal()
	if err != nil {
		return Identifier{}, err
	}
	if !lit.str {
		return Identifier{}, p.errorf(start, "expected identifier, found %s", lit.repr)
	}
	return Identifier{value: lit.value.s, repr: lit.repr}, nil
}

func (p *parser) literal() (literal, error) {
	start := p.pos
	r := p.peek()
	switch {
	case r == '"':
		s, err := p.quotedString()
		if err != nil {
			return literal{}, err
		}
		return literal{value: StringValue(s), repr: p.src[start:p.pos], str: true}, nil
	case p.v == V1 && r == 'r' && p.rawStart(1), p.v == V2 && r == '#' && p.rawStart(0):
		skip := 0
		if p.v == V1 {
			skip = 1
		}
		s, err := p.rawString(skip)
		if err != nil {
			return literal{}, err
		}
		return literal{value: StringValue(s), repr: p.src[start:p.pos], str: true}, nil
	case p.v == V2 && r == '#':
		return p.keyword()
	case isDigit(r) || (isSign(r) && isDigit(p.peekAt(1))):
		return p.number()
	}

	word := p.word()
	if word == "" {
		if p.eof() {
			return literal{}, p.errorf(p.pos, "unexpected end of input")
		}
		return literal{}, p.errorf(p.pos, "unexpected %q", r)
	}
	if p.v == V1 {
		switch word {
		case "true", "false":
			return literal{value: BoolValue(word == "true"), repr: word}, nil
		case "null":
			return literal{value: NullValue(), repr: word}, nil
		}
	} else if v2Keywords[word] {
		return literal{}, p.errorf(start, "keyword %q must be written as #%s", word, word)
	}
	if !isBareIdentifier(word, p.v) {
		return literal{}, p.errorf(start, "invalid identifier %q", word)
	}
	return literal{value: StringValue(word), repr: word, str: true, bare: true}, nil
}

// word consumes a maximal run of identifier characters.
func (p *parser) word() string {
	start := p.pos
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isIdentChar(r, p.v) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

func (p *parser) keyword() (literal, error) {
	start := p.pos
	p.pos++
	word := p.word()
	repr := p.src[start:p.pos]
	var v Value
	switch word {
	case "true", "false":
		v = BoolValue(word == "true")
	case "null":
		v = NullValue()
	case "inf":
		v = FloatValue(math.Inf(1))
	case "-inf":
		v = FloatValue(math.Inf(-1))
	case "nan":
		v = FloatValue(math.NaN())
	default:
		return literal{}, p.errorf(start, "unknown keyword %q", repr)
	}
	return literal{value: v, repr: repr}, nil
}

func (p *parser) number() (literal, error) {
	start := p.pos
	tok := p.word()
	v, ok := parseNumber(tok)
	if !ok {
		return literal{}, p.errorf(start, "invalid number %q", tok)
	}
	return literal{value: v, repr: tok}, nil
}

var radixes = []struct {
	prefix string
	base   int
}{{"0x", 16}, {"0o", 8}, {"0b", 2}}

func parseNumber(tok string) (Value, bool) {
	body := tok
	neg := false
	if body != "" && isSign(rune(body[0])) {
		neg = body[0] == '-'
		body = body[1:]
	}
	for _, radix := range radixes {
		if !strings.HasPrefix(body, radix.prefix) {
			continue
		}
		digits := body[len(radix.prefix):]
		if digits == "" || digits[0] == '_' || !validDigits(digits, radix.base) {
			return Value{}, false
		}
		i, ok := new(big.Int).SetString(strings.ReplaceAll(digits, "_", ""), radix.base)
		if !ok {
			return Value{}, false
		}
		if neg {
			i.Neg(i)
		}
		return bigIntValue(i), true
	}
	if !validDecimal(body) {
		return Value{}, false
	}
	clean := strings.ReplaceAll(tok, "_", "")
	if !strings.ContainsAny(body, ".eE") {
		i, ok := new(big.Int).SetString(clean, 10)
		if !ok {
			return Value{}, false
		}
		return bigIntValue(i), true
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Value{}, false
	}
	return FloatValue(f), true
}

func validDigits(s string, base int) bool {
	for _, c := range s {
		if c == '_' {
			continue
		}
		if !isHexDigit(c) {
			return false
		}
		d, _ := strconv.ParseInt(string(c), 16, 8)
		if int(d) >= base {
			return false
		}
	}
	return true
}

func validDecimal(s string) bool {
	i := scanInteger(s, 0)
	if i == 0 {
		return false
	}
	if i < len(s) && s[i] == '.' {
		j := scanInteger(s, i+1)
		if j == i+1 {
			return false
		}
		i = j
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && isSign(rune(s[i])) {
			i++
		}
		j := scanInteger(s, i)
		if j == i {
			return false
		}
		i = j
	}
	return i == len(s)
}

// scanInteger returns the end of a digit (digit | '_')* run starting at i,
// or i when s[i] is not a digit.
func scanInteger(s string, i int) int {
	if i >= len(s) || !isDigit(rune(s[i])) {
		return i
	}
	i++
	for i < len(s) && (isDigit(rune(s[i])) || s[i] == '_') {
		i++
	}
	return i
}

// rawStart reports whether a raw string opens skip bytes ahead.
func (p *parser) rawStart(skip int) bool {
	i := p.pos + skip
	for i < len(p.src) && p.src[i] == '#' {
		i++
	}
	return i < len(p.src) && p.src[i] == '"'
}

func (p *parser) rawString(skip int) (string, error) {
	start := p.pos
	p.pos += skip
	hashes := 0
	for p.peek() == '#' {
		hashes++
		p.pos++
	}
	if p.v == V2 && p.hasPrefix(`"""`) {
		return p.multilineString(true, hashes)
	}
	p.pos++
	bodyStart := p.pos
	closing := `"` + strings.Repeat("#", hashes)
	for {
		if p.eof() {
			return "", p.errorf(start, "unterminated raw string")
		}
		if p.hasPrefix(closing) {
			body := p.src[bodyStart:p.pos]
			p.pos += len(closing)
			return body, nil
		}
		if p.v == V2 && isNewline(p.peek(), V2) {
			return "", p.errorf(p.pos, "single-line raw strings cannot contain newlines")
		}
		p.advance()
	}
}

func (p *parser) quotedString() (string, error) {
	if p.v == V2 && p.hasPrefix(`"""`) {
		return p.multilineString(false, 0)
	}
	start := p.pos
	p.pos++
	bodyStart := p.pos
	for {
		if p.eof() {
			return "", p.errorf(start, "unterminated string")
		}
		r := p.peek()
		switch {
		case r == '"':
			body := p.src[bodyStart:p.pos]
			p.pos++
			return p.unescape(body, bodyStart)
		case r == '\\':
			p.pos++
			p.skipEscapeBody()
			continue
		case p.v == V2 && isNewline(r, V2):
			return "", p.errorf(p.pos, `single-line strings cannot contain newlines; use """ for multi-line strings`)
		}
		p.advance()
	}
}

// skipEscapeBody steps over whatever follows a backslash inside a string
// while its extent is being located.
func (p *parser) skipEscapeBody() {
	if p.eof() {
		return
	}
	r := p.peek()
	if p.v == V2 && (isUnicodeSpace(r) || isNewline(r, V2)) {
		for !p.eof() && (isUnicodeSpace(p.peek()) || isNewline(p.peek(), V2)) {
			p.advance()
		}
		return
	}
	p.advance()
}

func (p *parser) multilineString(raw bool, hashes int) (string, error) {
	start := p.pos
	p.pos += 3
	if _, ok := p.newline(); !ok {
		return "", p.errorf(p.pos, `multi-line strings must begin with a newline after """`)
	}
	bodyStart := p.pos
	closing := `"""` + strings.Repeat("#", hashes)
	for !p.hasPrefix(closing) {
		if p.eof() {
			return "", p.errorf(start, "unterminated multi-line string")
		}
		if !raw && p.peek() == '\\' {
			p.pos++
			p.skipEscapeBody()
			continue
		}
		p.advance()
	}
	body := p.src[bodyStart:p.pos]
	p.pos += len(closing)
	s, err := p.dedent(body, bodyStart)
	if err != nil || raw {
		return s, err
	}
	return p.unescape(s, bodyStart)
}

// dedent strips the closing line's whitespace prefix from every line of a
// multi-line string body.
func (p *parser) dedent(body string, offset int) (string, error) {
	lines := splitLines(body)
	prefix := lines[len(lines)-1]
	if strings.TrimFunc(prefix, isUnicodeSpace) != "" {
		return "", p.errorf(offset+len(body)-len(prefix), `closing """ must be on its own line`)
	}
	out := make([]string, 0, len(lines)-1)
	for _, line := range lines[:len(lines)-1] {
		switch {
		case strings.TrimFunc(line, isUnicodeSpace) == "":
			out = append(out, "")
		case strings.HasPrefix(line, prefix):
			out = append(out, line[len(prefix):])
		default:
			return "", p.errorf(offset, "multi-line string line is not indented like the closing delimiter")
		}
	}
	return strings.Join(out, "\n"), nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			size = 2
		}
		if isNewline(r, V2) {
			lines = append(lines, s[start:i])
			start = i + size
		}
		i += size
	}
	return append(lines, s[start:])
}

var simpleEscapes = map[rune]rune{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'\\': '\\',
	'"':  '"',
	'b':  '\b',
	'f':  '\f',
}

func (p *parser) unescape(s string, offset int) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != '\\' {
			b.WriteString(s[i : i+size])
			i += size
			continue
		}
		i++
		if i >= len(s) {
			return "", p.errorf(offset+i, "incomplete escape sequence")
		}
		e, size := utf8.DecodeRuneInString(s[i:])
		if out, ok := simpleEscapes[e]; ok {
			b.WriteRune(out)
			i += size
			continue
		}
		switch {
		case e == '/' && p.v == V1:
			b.WriteRune('/')
		case e == 's' && p.v == V2:
			b.WriteRune(' ')
		case e == 'u':
			r, next, err := p.unicodeEscape(s, i, offset)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i = next
			continue
		case p.v == V2 && (isUnicodeSpace(e) || isNewline(e, V2)):
			for i < len(s) {
				c, sz := utf8.DecodeRuneInString(s[i:])
				if !isUnicodeSpace(c) && !isNewline(c, V2) {
					break
				}
				i += sz
			}
			continue
		default:
			return "", p.errorf(offset+i-1, "invalid escape sequence \\%c", e)
		}
		i += size
	}
	return b.String(), nil
}

// unicodeEscape decodes `u{XXXX}` starting at s[i] == 'u' and returns the
// index just past the closing brace.
func (p *parser) unicodeEscape(s string, i, offset int) (rune, int, error) {
	start := i - 1
	if i+1 >= len(s) || s[i+1] != '{' {
		return 0, 0, p.errorf(offset+start, `unicode escape must be written as \u{XXXX}`)
	}
	end := strings.IndexByte(s[i+2:], '}')
	if end < 1 || end > 6 {
		return 0, 0, p.errorf(offset+start, "unicode escape must contain one to six hex digits")
	}
	hex := s[i+2 : i+2+end]
	code, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || strings.IndexFunc(hex, func(r rune) bool { return !isHexDigit(r) }) >= 0 {
		return 0, 0, p.errorf(offset+start, "invalid unicode escape %q", hex)
	}
	r := rune(code)
	if r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
		return 0, 0, p.errorf(offset+start, "unicode escape %q is not a scalar value", hex)
	}
	return r, i + 2 + end + 1, nil
}
