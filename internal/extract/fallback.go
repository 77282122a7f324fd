package extract

import (
	"regexp"
	"strings"
)

var (
	genericFuncRe  = regexp.MustCompile(`\b(?:func|fn|def|function|sub)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	genericClassRe = regexp.MustCompile(`\b(?:class|struct|interface|trait|enum)\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

// fallbackHeuristic covers code languages without a dedicated scanner. It only
// collects keyword-prefixed function and class names; no imports, calls, or
// inheritance.
type fallbackHeuristic struct{}

func (h *fallbackHeuristic) Name() string { return "fallback" }

func (h *fallbackHeuristic) Extract(source string, rec *EntityRecord) {
	for _, line := range strings.Split(source, "\n") {
		for _, m := range genericFuncRe.FindAllStringSubmatch(line, -1) {
			rec.Functions = append(rec.Functions, m[1])
		}
		for _, m := range genericClassRe.FindAllStringSubmatch(line, -1) {
			rec.Classes = append(rec.Classes, m[1])
		}
	}
}
