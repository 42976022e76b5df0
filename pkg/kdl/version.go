package kdl

import "fmt"

// Version identifies one of the two KDL grammar dialects.
type Version int

const (
	// V1 is the KDL 1.0 grammar.
	V1 Version = iota + 1
	// V2 is the KDL 2.0 grammar, which supersedes V1.
	V2
)

// Versions lists every supported grammar version, oldest first.
var Versions = []Version{V1, V2}

// String returns the configuration token for the version ("v1" or "v2").
func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	}
	return fmt.Sprintf("Version(%d)", int(v))
}

// Valid reports whether v is one of the known grammar versions.
func (v Version) Valid() bool {
	return v == V1 || v == V2
}

// ParseVersion accepts exactly the tokens "v1" and "v2".
func ParseVersion(s string) (Version, bool) {
	switch s {
	case "v1":
		return V1, true
	case "v2":
		return V2, true
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("invalid kdl version %d", int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, ok := ParseVersion(string(text))
	if !ok {
		return fmt.Errorf("invalid kdl version %q: expected \"v1\" or \"v2\"", string(text))
	}
	*v = parsed
	return nil
}
