package kdl

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind is the type of a KDL value.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a single KDL value: an argument, a property value or a
// configuration scalar. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    *big.Int
	f    float64
	s    string
}

// NullValue returns the null value.
func NullValue() Value { return Value{kind: KindNull} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue returns an integer value.
func IntValue(i int64) Value { return Value{kind: KindInt, i: big.NewInt(i)} }

// FloatValue returns a floating point value, including the non-finite ones.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

func bigIntValue(i *big.Int) Value { return Value{kind: KindInt, i: i} }

// Kind returns the value's type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload when v is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsBool returns the boolean payload when v is a boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsInt returns the integer payload when v is an integer that fits in an int64.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt || v.i == nil || !v.i.IsInt64() {
		return 0, false
	}
	return v.i.Int64(), true
}

// AsFloat returns v as a float64 for both integer and float values.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		f, _ := new(big.Float).SetInt(v.i).Float64()
		return f, true
	}
	return 0, false
}

// Equal reports whether two values are semantically identical. NaN equals NaN
// so that a document compares equal to itself.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i.Cmp(o.i) == 0
	case KindFloat:
		if math.IsNaN(v.f) {
			return math.IsNaN(o.f)
		}
		return v.f == o.f
	case KindString:
		return v.s == o.s
	}
	return false
}

// String renders v in canonical V2 form.
func (v Value) String() string { return v.render(V2) }

// render spells v canonically for the given grammar version.
func (v Value) render(ver Version) string {
	switch v.kind {
	case KindNull:
		return keyword("null", ver)
	case KindBool:
		return keyword(strconv.FormatBool(v.b), ver)
	case KindInt:
		return v.i.String()
	case KindFloat:
		return renderFloat(v.f, ver)
	case KindString:
		if ver == V2 && isBareIdentifier(v.s, V2) {
			return v.s
		}
		return quote(v.s)
	}
	return ""
}

func keyword(word string, ver Version) string {
	if ver == V1 {
		return word
	}
	return "#" + word
}

// renderFloat spells a float. V1 has no non-finite numbers, so there they
// become the quoted keyword names.
func renderFloat(f float64, ver Version) string {
	var word string
	switch {
	case math.IsNaN(f):
		word = "nan"
	case math.IsInf(f, 1):
		word = "inf"
	case math.IsInf(f, -1):
		word = "-inf"
	}
	if word != "" {
		if ver == V1 {
			return quote(word)
		}
		return "#" + word
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// quote renders s as a single-line quoted string valid under both versions.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if isDisallowed(r) || isNewline(r, V2) {
				fmt.Fprintf(&b, `\u{%x}`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
