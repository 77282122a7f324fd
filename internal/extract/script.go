package extract

import (
	"regexp"
	"strings"
)

var (
	jsFuncRe  = regexp.MustCompile(`\bfunction\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*\(`)
	jsArrowRe = regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=[^=]*=>`)
	jsClassRe = regexp.MustCompile(`\bclass\s+([A-Za-z_$][A-Za-z0-9_$]*)`)

	jsImportRe  = regexp.MustCompile(`^import\s+(?:([A-Za-z_$][A-Za-z0-9_$]*)\s*,?\s*)?(?:\*\s+as\s+([A-Za-z_$][A-Za-z0-9_$]*)\s+)?.*?from\s+['"]([^'"]+)['"]`)
	jsRequireRe = regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// scriptHeuristic pattern-matches brace-syntax sources (JS, TS, JSX, TSX).
// Calls are never attributed to a caller; the scan is line-oriented and makes
// no attempt to track scopes.
type scriptHeuristic struct{}

func (h *scriptHeuristic) Name() string { return "script" }

func (h *scriptHeuristic) Extract(source string, rec *EntityRecord) {
	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		lineNo := i + 1

		if m := jsImportRe.FindStringSubmatch(trimmed); m != nil {
			alias := m[1]
			if alias == "" {
				alias = m[2]
			}
			rec.Imports = append(rec.Imports, ImportEdge{Module: m[3], Alias: alias, Kind: ImportES, Line: lineNo})
			continue
		}
		for _, m := range jsRequireRe.FindAllStringSubmatch(line, -1) {
			rec.Imports = append(rec.Imports, ImportEdge{Module: m[1], Kind: ImportCommonJS, Line: lineNo})
		}

		declared := false
		if m := jsFuncRe.FindStringSubmatch(line); m != nil {
			rec.Functions = append(rec.Functions, m[1])
			rec.FunctionDetails = append(rec.FunctionDetails, FunctionDetail{Name: m[1]})
			declared = true
		} else if m := jsArrowRe.FindStringSubmatch(trimmed); m != nil {
			rec.Functions = append(rec.Functions, m[1])
			rec.FunctionDetails = append(rec.FunctionDetails, FunctionDetail{Name: m[1]})
			declared = true
		}
		if m := jsClassRe.FindStringSubmatch(line); m != nil {
			rec.Classes = append(rec.Classes, m[1])
			rec.ClassDetails = append(rec.ClassDetails, ClassDetail{Name: m[1]})
			declared = true
		}
		if declared {
			continue
		}

		scanCalls(line, "", lineNo, rec)
	}
}
