package extract

import (
	"regexp"
	"strings"
)

var (
	pyClassRe = regexp.MustCompile(`^class\s+([A-Za-z_][A-Za-z0-9_]*)\s*(?:\(([^)]*)\))?\s*:`)
	pyDefRe   = regexp.MustCompile(`^(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	pyFromRe  = regexp.MustCompile(`^from\s+([.\w]+)\s+import\s+(.+)$`)
)

// pythonHeuristic scans indentation/keyword syntax in a single forward pass.
// It deliberately tracks only one "current function" by indentation depth and
// is not a parser: unusual formatting can misattribute calls or docstrings,
// and those boundaries are part of the observable contract.
type pythonHeuristic struct{}

func (h *pythonHeuristic) Name() string { return "python" }

func (h *pythonHeuristic) Extract(source string, rec *EntityRecord) {
	lines := strings.Split(source, "\n")

	caller := ""
	callerIndent := 0
	inFunc := false

	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := indentOf(line)
		lineNo := i + 1

		if m := pyClassRe.FindStringSubmatch(trimmed); m != nil {
			name := m[1]
			rec.Classes = append(rec.Classes, name)
			for _, base := range strings.Split(m[2], ",") {
				base = strings.TrimSpace(base)
				if base == "" || strings.Contains(base, "=") {
					continue
				}
				rec.Inherits = append(rec.Inherits, InheritEdge{Class: name, Base: lastDottedSegment(base), Line: lineNo})
			}
			doc, consumed := capturePyDocstring(lines, i+1)
			rec.ClassDetails = append(rec.ClassDetails, ClassDetail{Name: name, Doc: doc})
			if inFunc && indent <= callerIndent {
				caller = ""
				inFunc = false
			}
			i += consumed
			continue
		}

		if m := pyDefRe.FindStringSubmatch(trimmed); m != nil {
			name := m[1]
			rec.Functions = append(rec.Functions, name)
			doc, consumed := capturePyDocstring(lines, i+1)
			rec.FunctionDetails = append(rec.FunctionDetails, FunctionDetail{
				Name:    name,
				Params:  parsePyParams(trimmed),
				Returns: parsePyReturn(trimmed),
				Doc:     doc,
			})
			caller = name
			callerIndent = indent
			inFunc = true
			i += consumed
			continue
		}

		if m := pyFromRe.FindStringSubmatch(trimmed); m != nil {
			mod := m[1]
			for _, part := range strings.Split(m[2], ",") {
				part = strings.Trim(strings.TrimSpace(part), "()")
				if part == "" {
					continue
				}
				sym, alias := splitAsAlias(part)
				if sym == "" {
					continue
				}
				if sym == "*" {
					// star imports keep the bare module path
					rec.Imports = append(rec.Imports, ImportEdge{Module: mod, Kind: ImportFrom, Line: lineNo})
					continue
				}
				rec.Imports = append(rec.Imports, ImportEdge{Module: joinPyModule(mod, sym), Alias: alias, Kind: ImportFrom, Line: lineNo})
			}
			continue
		}

		if rest, ok := strings.CutPrefix(trimmed, "import "); ok {
			for _, part := range strings.Split(rest, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				mod, alias := splitAsAlias(part)
				if mod == "" {
					continue
				}
				rec.Imports = append(rec.Imports, ImportEdge{Module: mod, Alias: alias, Kind: ImportAbsolute, Line: lineNo})
			}
			continue
		}

		scanCalls(line, caller, lineNo, rec)
	}
}

// capturePyDocstring looks for a triple-quoted string starting at the first
// non-blank line at or after start. It returns the docstring text and how many
// lines (counted from start) were consumed. When the peeked line is not a
// docstring nothing is consumed.
func capturePyDocstring(lines []string, start int) (string, int) {
	j := start
	for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
		j++
	}
	if j >= len(lines) {
		return "", 0
	}
	trimmed := strings.TrimSpace(lines[j])

	var marker string
	switch {
	case strings.HasPrefix(trimmed, `"""`):
		marker = `"""`
	case strings.HasPrefix(trimmed, "'''"):
		marker = "'''"
	default:
		return "", 0
	}

	rest := trimmed[len(marker):]
	if idx := strings.Index(rest, marker); idx >= 0 {
		return strings.TrimSpace(rest[:idx]), j - start + 1
	}

	var parts []string
	if s := strings.TrimSpace(rest); s != "" {
		parts = append(parts, s)
	}
	for k := j + 1; k < len(lines); k++ {
		if idx := strings.Index(lines[k], marker); idx >= 0 {
			if s := strings.TrimSpace(lines[k][:idx]); s != "" {
				parts = append(parts, s)
			}
			return strings.Join(parts, "\n"), k - start + 1
		}
		parts = append(parts, strings.TrimSpace(lines[k]))
	}
	// unterminated docstring runs to EOF
	return strings.TrimSpace(strings.Join(parts, "\n")), len(lines) - start
}

// parsePyParams derives parameter names from a single-line def header:
// comma-split, annotations and defaults stripped, then leading */** stripped.
func parsePyParams(header string) []string {
	open := strings.Index(header, "(")
	if open < 0 {
		return nil
	}
	args := header[open+1:]
	depth := 1
	for i, ch := range args {
		switch ch {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				args = args[:i]
			}
		}
		if depth == 0 {
			break
		}
	}

	var params []string
	for _, part := range strings.Split(args, ",") {
		if idx := strings.Index(part, ":"); idx >= 0 {
			part = part[:idx]
		}
		if idx := strings.Index(part, "="); idx >= 0 {
			part = part[:idx]
		}
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "**")
		part = strings.TrimPrefix(part, "*")
		if part == "" {
			continue
		}
		params = append(params, part)
	}
	return params
}

// parsePyReturn pulls the return-type text between "->" and the block
// terminator, if present.
func parsePyReturn(header string) string {
	idx := strings.Index(header, "->")
	if idx < 0 {
		return ""
	}
	ret := header[idx+2:]
	if c := strings.LastIndex(ret, ":"); c >= 0 {
		ret = ret[:c]
	}
	return strings.TrimSpace(ret)
}

func splitAsAlias(s string) (string, string) {
	fields := strings.Fields(s)
	if len(fields) >= 3 && fields[1] == "as" {
		return fields[0], fields[2]
	}
	if len(fields) > 0 {
		return fields[0], ""
	}
	return "", ""
}

func joinPyModule(mod, sym string) string {
	if strings.HasSuffix(mod, ".") {
		return mod + sym
	}
	return mod + "." + sym
}

func lastDottedSegment(s string) string {
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

func indentOf(line string) int {
	n := 0
	for _, ch := range line {
		if ch == ' ' || ch == '\t' {
			n++
			continue
		}
		break
	}
	return n
}
