package kdl

import "strings"

// Document is a parsed KDL document. It keeps every piece of whitespace,
// every comment and the original spelling of every token, so rendering an
// untouched document reproduces its source byte for byte.
type Document struct {
	nodes    []*Node
	trailing []trivia // after the last node, up to EOF or the closing brace
	version  Version
}

// Node is a single KDL node with its entries and optional children block.
type Node struct {
	ty       *Identifier
	name     Identifier
	entries  []*Entry
	children *Document
	format   nodeFormat
}

type nodeFormat struct {
	leading        []trivia // line space before the node
	tyRepr         string   // raw "(...)" annotation; "" renders canonically
	afterTy        string   // V2 only
	beforeChildren []trivia
	trailing       []trivia // node space, comment and terminator after the node
}

// Entry is an argument (no name) or a property (name=value) of a node.
type Entry struct {
	name   *Identifier
	ty     *Identifier
	value  Value
	format entryFormat
}

type entryFormat struct {
	leading   []trivia // nil renders as a single space
	afterKey  string   // V2 only
	afterEq   string   // V2 only
	tyRepr    string
	afterTy   string // V2 only
	valueRepr string
}

// Identifier is a node name, property key or type annotation.
type Identifier struct {
	value string
	repr  string
}

// Value returns the identifier's string value.
func (i Identifier) Value() string { return i.value }

// render spells the identifier canonically unless its source spelling was
// kept. Under v1 a name is bare only if v2 would also leave it bare, so
// canonical output does not switch grammars when it is parsed again.
func (i Identifier) render(v Version) string {
	if i.repr != "" {
		return i.repr
	}
	if isBareIdentifier(i.value, v) && (v == V2 || isBareIdentifier(i.value, V2)) {
		return i.value
	}
	return quote(i.value)
}

type triviaKind int

const (
	triviaSpace triviaKind = iota
	triviaLineComment
	triviaBlockComment
	triviaEscline
	triviaSlashdash
	triviaTerminator
)

// trivia is a run of insignificant source text. Slash-dashed items keep
// their parsed form so that version conversion reaches inside them.
type trivia struct {
	kind     triviaKind
	text     string // for slashdash: "/-" and the space after it
	node     *Node
	entry    *Entry
	children *Document
}

// Version returns the grammar version the document was parsed as, or last
// converted to.
func (d *Document) Version() Version { return d.version }

// Nodes returns the document's top-level nodes in source order.
func (d *Document) Nodes() []*Node { return d.nodes }

// Get returns the first node named name, or nil.
func (d *Document) Get(name string) *Node {
	for _, n := range d.nodes {
		if n.name.value == name {
			return n
		}
	}
	return nil
}

// String serializes the document under its current version.
func (d *Document) String() string {
	p := printer{v: d.version}
	p.document(d)
	return p.b.String()
}

// Name returns the node name.
func (n *Node) Name() string { return n.name.value }

// Type returns the node's type annotation, if any.
func (n *Node) Type() (string, bool) {
	if n.ty == nil {
		return "", false
	}
	return n.ty.value, true
}

// Entries returns arguments and properties in source order.
func (n *Node) Entries() []*Entry { return n.entries }

// Args returns the values of the node's positional arguments.
func (n *Node) Args() []Value {
	var args []Value
	for _, e := range n.entries {
		if e.name == nil {
			args = append(args, e.value)
		}
	}
	return args
}

// Prop returns the value of property key. The last occurrence wins.
func (n *Node) Prop(key string) (Value, bool) {
	var (
		val   Value
		found bool
	)
	for _, e := range n.entries {
		if e.name != nil && e.name.value == key {
			val, found = e.value, true
		}
	}
	return val, found
}

// Children returns the node's children block, or nil when it has none.
func (n *Node) Children() *Document { return n.children }

// Name returns the property key; ok is false for arguments.
func (e *Entry) Name() (name string, ok bool) {
	if e.name == nil {
		return "", false
	}
	return e.name.value, true
}

// Type returns the entry's type annotation, if any.
func (e *Entry) Type() (string, bool) {
	if e.ty == nil {
		return "", false
	}
	return e.ty.value, true
}

// Value returns the entry's value.
func (e *Entry) Value() Value { return e.value }

type printer struct {
	b strings.Builder
	v Version
}

func (p *printer) document(d *Document) {
	for _, n := range d.nodes {
		p.node(n)
	}
	p.trivia(d.trailing)
}

func (p *printer) node(n *Node) {
	p.trivia(n.format.leading)
	if n.ty != nil {
		p.typeAnnotation(*n.ty, n.format.tyRepr)
		p.b.WriteString(n.format.afterTy)
	}
	p.b.WriteString(n.name.render(p.v))
	for _, e := range n.entries {
		p.entry(e)
	}
	if n.children != nil {
		p.trivia(n.format.beforeChildren)
		p.childrenBlock(n.children)
	}
	if n.format.trailing == nil {
		p.b.WriteByte('\n')
		return
	}
	p.trivia(n.format.trailing)
}

func (p *printer) entry(e *Entry) {
	if e.format.leading == nil {
		p.b.WriteByte(' ')
	} else {
		p.trivia(e.format.leading)
	}
	p.entryBody(e)
}

func (p *printer) entryBody(e *Entry) {
	if e.name != nil {
		p.b.WriteString(e.name.render(p.v))
		p.b.WriteString(e.format.afterKey)
		p.b.WriteByte('=')
		p.b.WriteString(e.format.afterEq)
	}
	if e.ty != nil {
		p.typeAnnotation(*e.ty, e.format.tyRepr)
		p.b.WriteString(e.format.afterTy)
	}
	if e.format.valueRepr != "" {
		p.b.WriteString(e.format.valueRepr)
		return
	}
	p.b.WriteString(e.value.render(p.v))
}

func (p *printer) typeAnnotation(ty Identifier, repr string) {
	if repr != "" {
		p.b.WriteString(repr)
		return
	}
	p.b.WriteByte('(')
	p.b.WriteString(ty.render(p.v))
	p.b.WriteByte(')')
}

func (p *printer) childrenBlock(d *Document) {
	p.b.WriteByte('{')
	p.document(d)
	p.b.WriteByte('}')
}

func (p *printer) trivia(ts []trivia) {
	for _, t := range ts {
		p.b.WriteString(t.text)
		if t.kind != triviaSlashdash {
			continue
		}
		switch {
		case t.node != nil:
			p.node(t.node)
		case t.entry != nil:
			p.entryBody(t.entry)
		case t.children != nil:
			p.childrenBlock(t.children)
		}
	}
}
