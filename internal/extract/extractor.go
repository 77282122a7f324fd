package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeatlas/internal/scan"
)

// Heuristic is the contract each language-family extractor implements. Extract
// scans source text and appends what it finds to the record. Implementations
// are lexical line scanners, not parsers; they must tolerate arbitrary,
// possibly malformed input.
type Heuristic interface {
	Name() string
	Extract(source string, rec *EntityRecord)
}

var pythonLanguages = map[string]bool{
	"python": true,
}

var scriptLanguages = map[string]bool{
	"javascript": true,
	"typescript": true,
	"jsx":        true,
	"tsx":        true,
}

// ForLanguage returns the heuristic for a language tag. Unknown code languages
// get the minimal fallback scanner.
func ForLanguage(lang string) Heuristic {
	switch {
	case pythonLanguages[lang]:
		return &pythonHeuristic{}
	case scriptLanguages[lang]:
		return &scriptHeuristic{}
	default:
		return &fallbackHeuristic{}
	}
}

var scriptExtensions = []string{".tsx", ".jsx", ".ts", ".js"}

// DeriveModule converts a relative path into a module name. It is a pure
// function of (path, language): Python files drop the .py extension and use
// dotted separators; JS/TS-family files drop one recognized extension and keep
// path separators; anything else drops its extension and keeps separators.
func DeriveModule(relPath, language string) string {
	p := filepath.ToSlash(relPath)
	switch {
	case pythonLanguages[language]:
		p = strings.TrimSuffix(p, ".py")
		return strings.ReplaceAll(p, "/", ".")
	case scriptLanguages[language]:
		for _, ext := range scriptExtensions {
			if strings.HasSuffix(p, ext) {
				return strings.TrimSuffix(p, ext)
			}
		}
		return p
	default:
		return strings.TrimSuffix(p, filepath.Ext(p))
	}
}

// Extractor turns one file into an EntityRecord. It never lets a failure
// escape its boundary: anything that goes wrong inside a heuristic is
// converted into an ExtractionError.
type Extractor struct{}

// NewExtractor creates an extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFile loads and scans one CodeFile descriptor. A file that no longer
// exists returns (nil, nil, false) so callers can drop it silently; any other
// failure returns a structured *ExtractionError.
func (e *Extractor) ExtractFile(root string, fd scan.FileDescriptor) (rec *EntityRecord, xerr *ExtractionError, exists bool) {
	full := filepath.Join(root, filepath.FromSlash(fd.Path))
	content, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, false
		}
		return nil, &ExtractionError{File: fd.Path, Cause: err.Error()}, true
	}
	rec, xerr = e.Extract(fd.Path, content, fd.Language)
	return rec, xerr, true
}

// Extract runs the language heuristic over raw bytes. Invalid UTF-8 is
// sanitized rather than rejected; a panicking heuristic is recovered into an
// ExtractionError carrying the stringified cause.
func (e *Extractor) Extract(relPath string, content []byte, language string) (rec *EntityRecord, xerr *ExtractionError) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			xerr = &ExtractionError{File: relPath, Cause: fmt.Sprintf("heuristic panic: %v", r)}
		}
	}()

	source := strings.ToValidUTF8(string(content), "�")
	rec = &EntityRecord{
		File:     relPath,
		Module:   DeriveModule(relPath, language),
		Language: language,
	}
	ForLanguage(language).Extract(source, rec)
	return rec, nil
}
