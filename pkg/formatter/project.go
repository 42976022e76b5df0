package formatter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dj95/kdl-fmt/pkg/kdl"
)

// LoadProjectConfig reads the project configuration document from dir.
// A missing document is not an error: the result is (nil, nil).
func LoadProjectConfig(dir string) (*PartialConfig, error) {
	path := filepath.Join(dir, ProjectConfigFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIO, path, err)
	}

	cfg, err := ParseProjectConfig(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseProjectConfig extracts a configuration layer from a KDL v2 document.
// The document must parse; individual entries that are missing, mistyped or
// out of range are left unset without failing the load.
//
//	assume_version "v1"
//	ensure_version "v2"
//	strip_comments #true
//	indent_level 2
//	no_format #false
func ParseProjectConfig(src string) (*PartialConfig, error) {
	doc, err := kdl.ParseV2(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigDocumentInvalid, err)
	}

	return &PartialConfig{
		AssumeVersion: firstArg(doc, ConfigKeyAssumeVersion, asVersion),
		EnsureVersion: firstArg(doc, ConfigKeyEnsureVersion, asVersion),
		StripComments: firstArg(doc, ConfigKeyStripComments, kdl.Value.AsBool),
		IndentLevel:   firstArg(doc, ConfigKeyIndentLevel, asIndent),
		NoFormat:      firstArg(doc, ConfigKeyNoFormat, kdl.Value.AsBool),
	}, nil
}

// firstArg returns the first argument of the first node called name,
// converted by extract, or nil when any step comes up empty.
func firstArg[T any](doc *kdl.Document, name string, extract func(kdl.Value) (T, bool)) *T {
	node := doc.Get(name)
	if node == nil {
		return nil
	}
	args := node.Args()
	if len(args) == 0 {
		return nil
	}
	v, ok := extract(args[0])
	if !ok {
		return nil
	}
	return &v
}

func asVersion(v kdl.Value) (kdl.Version, bool) {
	s, ok := v.AsString()
	if !ok {
		return 0, false
	}
	return kdl.ParseVersion(s)
}

func asIndent(v kdl.Value) (int, bool) {
	i, ok := v.AsInt()
	if !ok || i < 0 || i > MaxIndentLevel {
		return 0, false
	}
	return int(i), true
}
