package language

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// KDL is the language identifier reported for KDL documents.
const KDL = "kdl"

// LanguageDetector names the language of an input file from its path and
// content. The CLI uses it to warn about inputs that are clearly something
// other than KDL.
type LanguageDetector interface {
	// Detect returns a lowercase language identifier, or "" when nothing
	// specific is known. safe is false when the answer is a guess.
	Detect(content []byte, filePath string) (language string, safe bool)
}

// goEnryDetector implements LanguageDetector using the go-enry library.
type goEnryDetector struct {
	overrides map[string]string // extension -> language
}

// NewGoEnryDetector creates a detector. overrides maps file extensions to
// language identifiers and takes precedence over go-enry; both sides are
// normalized to lowercase and a missing leading dot is added.
// The ".kdl" extension always maps to KDL.
func NewGoEnryDetector(overrides map[string]string) LanguageDetector {
	normalized := map[string]string{".kdl": KDL}
	for ext, lang := range overrides {
		ext = strings.ToLower(strings.TrimSpace(ext))
		lang = strings.ToLower(strings.TrimSpace(lang))
		if ext == "" || ext == "." || lang == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[ext] = lang
	}
	return &goEnryDetector{overrides: normalized}
}

// Detect implements LanguageDetector. Overrides win, then go-enry's
// extension and filename tables, then its content classifier.
func (d *goEnryDetector) Detect(content []byte, filePath string) (string, bool) {
	if lang, ok := d.overrides[strings.ToLower(filepath.Ext(filePath))]; ok {
		return lang, true
	}
	if lang, safe := enry.GetLanguageByExtension(filePath); safe && lang != "" {
		return strings.ToLower(lang), true
	}
	if lang, safe := enry.GetLanguageByFilename(filePath); safe && lang != "" {
		return strings.ToLower(lang), true
	}
	if len(content) == 0 {
		return "", false
	}
	if lang := enry.GetLanguage(filepath.Base(filePath), content); lang != "" && lang != "Text" {
		return strings.ToLower(lang), false
	}
	return "", false
}
