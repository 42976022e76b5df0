package kdl

import "strings"

// FormatConfig controls Autoformat.
type FormatConfig struct {
	// Indent is written once per nesting level.
	Indent string
	// NoComments drops every comment and slash-dashed item.
	NoComments bool
}

// Autoformat rewrites d in place into canonical layout: one node per line,
// children indented by cfg.Indent, single spaces between entries. Strings,
// keywords and identifiers are respelled canonically; number spellings
// such as 0xff or 1_000 are kept. Comments stay attached to the node they
// precede unless cfg.NoComments is set. Line continuations are removed
// together with any comment inside them.
func (d *Document) Autoformat(cfg FormatConfig) {
	f := formatter{cfg: cfg}
	f.document(d, 0)
}

type formatter struct {
	cfg FormatConfig
}

func (f *formatter) indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(f.cfg.Indent, depth)
}

func space(text string) trivia { return trivia{kind: triviaSpace, text: text} }

func (f *formatter) document(d *Document, depth int) {
	indent := f.indent(depth)
	for _, n := range d.nodes {
		n.format.leading = append(f.lineLevel(n.format.leading, depth), space(indent))
		f.node(n, depth)
	}
	d.trailing = f.lineLevel(d.trailing, depth)
}

// children formats a children block whose nodes sit at depth.
func (f *formatter) children(d *Document, depth int) {
	f.document(d, depth)
	if len(d.nodes) == 0 && len(d.trailing) == 0 {
		return
	}
	first := &d.trailing
	if len(d.nodes) > 0 {
		first = &d.nodes[0].format.leading
	}
	*first = append([]trivia{space("\n")}, *first...)
	d.trailing = append(d.trailing, space(f.indent(depth-1)))
}

func (f *formatter) node(n *Node, depth int) {
	n.name.repr = ""
	if n.ty != nil {
		n.ty.repr = ""
	}
	n.format.tyRepr, n.format.afterTy = "", ""

	for _, e := range n.entries {
		e.format.leading = append(f.inline(e.format.leading, depth), space(" "))
		f.entry(e)
	}
	if n.children != nil {
		n.format.beforeChildren = append(f.inline(n.format.beforeChildren, depth), space(" "))
		f.children(n.children, depth+1)
	}

	rest := n.format.trailing
	var comment []trivia
	if k := len(rest); k > 0 && (rest[k-1].kind == triviaTerminator || rest[k-1].kind == triviaLineComment) {
		last := rest[k-1]
		rest = rest[:k-1]
		if last.kind == triviaLineComment && !f.cfg.NoComments {
			comment = append(comment, trivia{kind: triviaLineComment, text: " " + trimNewline(last.text)})
		}
	}
	trailing := append(f.inline(rest, depth), comment...)
	n.format.trailing = append(trailing, trivia{kind: triviaTerminator, text: "\n"})
}

func (f *formatter) entry(e *Entry) {
	if e.name != nil {
		e.name.repr = ""
	}
	if e.ty != nil {
		e.ty.repr = ""
	}
	e.format.afterKey, e.format.afterEq = "", ""
	e.format.tyRepr, e.format.afterTy = "", ""
	if k := e.value.Kind(); k != KindInt && k != KindFloat {
		e.format.valueRepr = ""
	}
}

// lineLevel keeps the comments found between nodes, each on its own line.
func (f *formatter) lineLevel(ts []trivia, depth int) []trivia {
	out := []trivia{}
	if f.cfg.NoComments {
		return out
	}
	indent := f.indent(depth)
	for _, t := range ts {
		switch t.kind {
		case triviaLineComment:
			out = append(out, space(indent), trivia{kind: triviaLineComment, text: trimNewline(t.text)}, space("\n"))
		case triviaBlockComment:
			out = append(out, space(indent), trivia{kind: triviaBlockComment, text: t.text}, space("\n"))
		case triviaSlashdash:
			t.node.format.leading = nil
			f.node(t.node, depth)
			out = append(out, space(indent), trivia{kind: triviaSlashdash, text: "/-", node: t.node})
		}
	}
	return out
}

// inline keeps the comments found inside a node, separated by single spaces.
func (f *formatter) inline(ts []trivia, depth int) []trivia {
	out := []trivia{}
	if f.cfg.NoComments {
		return out
	}
	for _, t := range ts {
		switch t.kind {
		case triviaBlockComment:
			out = append(out, space(" "), trivia{kind: triviaBlockComment, text: t.text})
		case triviaSlashdash:
			if t.entry != nil {
				f.entry(t.entry)
			}
			if t.children != nil {
				f.children(t.children, depth+1)
			}
			out = append(out, space(" "), trivia{kind: triviaSlashdash, text: "/-", entry: t.entry, children: t.children})
		}
	}
	return out
}

func trimNewline(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool { return isNewline(r, V2) })
}
