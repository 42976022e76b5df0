package kdl

import "strings"

// EnsureVersion rewrites d in place so that it serializes as valid KDL of
// version v. Source spellings that the target grammar accepts with the same
// meaning are kept; anything else is respelled canonically. Slash-dashed
// items are converted too.
//
// Non-finite floats have no v1 spelling; under v1 they are written as the
// quoted strings "nan", "inf" and "-inf".
func (d *Document) EnsureVersion(v Version) {
	c := converter{v: v}
	c.document(d)
}

// EnsureV1 is shorthand for EnsureVersion(V1).
func (d *Document) EnsureV1() { d.EnsureVersion(V1) }

// EnsureV2 is shorthand for EnsureVersion(V2).
func (d *Document) EnsureV2() { d.EnsureVersion(V2) }

type converter struct {
	v Version
}

func (c *converter) document(d *Document) {
	d.version = c.v
	for _, n := range d.nodes {
		c.node(n)
	}
	d.trailing = c.trivia(d.trailing, true)
}

func (c *converter) node(n *Node) {
	n.format.leading = c.trivia(n.format.leading, true)
	if n.ty != nil {
		c.typeAnnotation(n.ty, &n.format.tyRepr)
		if c.v == V1 {
			n.format.afterTy = ""
		}
	}
	c.identifier(&n.name)
	for _, e := range n.entries {
		e.format.leading = c.trivia(e.format.leading, false)
		c.entry(e)
	}
	n.format.beforeChildren = c.trivia(n.format.beforeChildren, false)
	if n.children != nil {
		c.document(n.children)
	}
	n.format.trailing = c.trivia(n.format.trailing, false)
}

func (c *converter) entry(e *Entry) {
	if e.name != nil {
		c.identifier(e.name)
	}
	if e.ty != nil {
		c.typeAnnotation(e.ty, &e.format.tyRepr)
	}
	if c.v == V1 {
		e.format.afterKey, e.format.afterEq, e.format.afterTy = "", "", ""
	}
	if e.format.valueRepr != "" && !c.validValue(e.format.valueRepr, e.value) {
		e.format.valueRepr = ""
	}
}

func (c *converter) identifier(id *Identifier) {
	if id.repr == "" {
		return
	}
	p := &parser{src: id.repr, v: c.v}
	if p.validate() != nil {
		id.repr = ""
		return
	}
	got, err := p.identifier()
	if err != nil || !p.eof() || got.value != id.value {
		id.repr = ""
	}
}

func (c *converter) typeAnnotation(ty *Identifier, repr *string) {
	c.identifier(ty)
	if *repr == "" {
		return
	}
	p := &parser{src: *repr, v: c.v}
	if p.validate() != nil {
		*repr = ""
		return
	}
	got, _, err := p.typeAnnotation()
	if err != nil || !p.eof() || got.value != ty.value {
		*repr = ""
	}
}

func (c *converter) validValue(repr string, want Value) bool {
	p := &parser{src: repr, v: c.v}
	if p.validate() != nil {
		return false
	}
	lit, err := p.literal()
	if err != nil || !p.eof() || (lit.bare && c.v == V1) {
		return false
	}
	return lit.value.Equal(want)
}

// trivia converts a trivia run in place. lineLevel marks runs that sit
// between nodes rather than inside one.
func (c *converter) trivia(ts []trivia, lineLevel bool) []trivia {
	if ts == nil {
		return nil
	}
	out := ts[:0]
	for _, t := range ts {
		switch t.kind {
		case triviaSpace, triviaTerminator:
			t.text = c.space(t.text)
		case triviaEscline:
			var keep bool
			if t, keep = c.escline(t, lineLevel); !keep {
				continue
			}
		case triviaSlashdash:
			t.text = c.slashdash(t.text)
			switch {
			case t.node != nil:
				c.node(t.node)
			case t.entry != nil:
				c.entry(t.entry)
			case t.children != nil:
				c.document(t.children)
			}
		}
		out = append(out, t)
	}
	return out
}

// space adapts whitespace and newlines: vertical tab is only a newline in
// v2, and v2 forbids a byte order mark past the start of the document.
func (c *converter) space(text string) string {
	if c.v == V1 {
		return strings.ReplaceAll(text, "\u000B", "\n")
	}
	return strings.ReplaceAll(text, string(bom), "")
}

// escline keeps line continuations valid under v1, which needs a newline or
// comment after the backslash and has no continuations between nodes. The
// result reports false when nothing is left of t.
func (c *converter) escline(t trivia, lineLevel bool) (trivia, bool) {
	if c.v == V2 {
		return t, true
	}
	t.text = c.space(t.text)
	if lineLevel {
		rest := strings.TrimLeftFunc(t.text[1:], isUnicodeSpace)
		switch {
		case strings.HasPrefix(rest, "/*"):
			return trivia{kind: triviaSpace, text: "\n"}, true
		case strings.HasPrefix(rest, "//"):
			return trivia{kind: triviaLineComment, text: rest}, true
		case rest == "":
			return t, false
		}
		return trivia{kind: triviaSpace, text: rest}, true
	}
	if !strings.Contains(t.text, "//") && strings.IndexFunc(t.text, func(r rune) bool { return isNewline(r, V1) }) < 0 {
		t.text += "\n"
	}
	return t, true
}

// slashdash drops the gap after "/-" when v1 cannot express it.
func (c *converter) slashdash(text string) string {
	if c.v == V2 || strings.TrimFunc(text[2:], isUnicodeSpace) == "" {
		return text
	}
	return "/-"
}
