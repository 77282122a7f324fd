package diagram

import (
	"fmt"
	"strings"
	"unicode"

	"codeatlas/internal/extract"
	"codeatlas/internal/resolve"
)

// Kind selects which relationship diagram to render.
type Kind string

const (
	KindCall             Kind = "call"
	KindClassHierarchy   Kind = "class-hierarchy"
	KindModuleDependency Kind = "module-dependency"
)

// DefaultMaxEdges is the edge cap applied when Options.MaxEdges is zero.
const DefaultMaxEdges = 400

// Options configures one render.
type Options struct {
	// MaxEdges is a hard cap: rendering stops the moment it is reached.
	// Truncation is order-dependent, not a sample.
	MaxEdges int
	// FilterTests drops any edge whose resolved labels contain "test".
	FilterTests bool
}

// renderState is the per-render session: the label→id cache lives exactly as
// long as one render, so ids are stable within a diagram and never leak
// across runs.
type renderState struct {
	ids   map[string]string
	taken map[string]bool
	seen  map[string]bool
	lines []string
	max   int
}

// Render produces mermaid flowchart text for the given kind. It is a pure
// function of its inputs: identical records, label map, and options always
// yield byte-identical output, and zero qualifying edges still yield a valid
// header-only diagram.
func Render(records []extract.EntityRecord, labels *resolve.LabelMap, kind Kind, opts Options) string {
	max := opts.MaxEdges
	if max <= 0 {
		max = DefaultMaxEdges
	}
	st := &renderState{
		ids:   make(map[string]string),
		taken: make(map[string]bool),
		seen:  make(map[string]bool),
		lines: []string{headerFor(kind)},
		max:   max,
	}

	for _, rec := range records {
		switch kind {
		case KindCall:
			for _, c := range rec.Calls {
				if c.Caller == "" || c.Callee == "" {
					continue
				}
				if !st.emit(labels.Label(c.Caller), labels.Label(c.Callee), "", opts.FilterTests) {
					return st.text()
				}
			}
		case KindClassHierarchy:
			for _, inh := range rec.Inherits {
				if inh.Class == "" || inh.Base == "" {
					continue
				}
				if !st.emit(labels.Label(inh.Class), labels.Label(inh.Base), "extends", opts.FilterTests) {
					return st.text()
				}
			}
		case KindModuleDependency:
			if rec.Module == "" {
				continue
			}
			for _, imp := range rec.Imports {
				if imp.Module == "" {
					continue
				}
				if !st.emit(labels.Label(rec.Module), labels.Label(imp.Module), "", opts.FilterTests) {
					return st.text()
				}
			}
		}
	}
	return st.text()
}

// emit appends one deduplicated edge line and reports whether rendering may
// continue.
func (st *renderState) emit(src, dst, tag string, filterTests bool) bool {
	if filterTests && (isTestLabel(src) || isTestLabel(dst)) {
		return true
	}
	var line string
	if tag != "" {
		line = fmt.Sprintf("  %s[\"%s\"] -->|%s| %s[\"%s\"]", st.idFor(src), src, tag, st.idFor(dst), dst)
	} else {
		line = fmt.Sprintf("  %s[\"%s\"] --> %s[\"%s\"]", st.idFor(src), src, st.idFor(dst), dst)
	}
	if st.seen[line] {
		return true
	}
	st.seen[line] = true
	st.lines = append(st.lines, line)
	return len(st.seen) < st.max
}

func (st *renderState) text() string {
	return strings.Join(st.lines, "\n")
}

// idFor returns a stable node id for a label within this render. Distinct
// labels that sanitize to the same base id get numeric suffixes.
func (st *renderState) idFor(label string) string {
	if id, ok := st.ids[label]; ok {
		return id
	}
	base := sanitizeID(label)
	id := base
	for i := 2; st.taken[id]; i++ {
		id = fmt.Sprintf("%s_%d", base, i)
	}
	st.ids[label] = id
	st.taken[id] = true
	return id
}

// sanitizeID maps every non-alphanumeric character to an underscore, trims
// leading/trailing underscores, and keeps the result a valid mermaid id.
func sanitizeID(label string) string {
	var b strings.Builder
	for _, ch := range label {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			b.WriteRune(ch)
		} else {
			b.WriteByte('_')
		}
	}
	id := strings.Trim(b.String(), "_")
	if id == "" {
		return "n"
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "n_" + id
	}
	return id
}

func isTestLabel(label string) bool {
	return strings.Contains(strings.ToLower(label), "test")
}

func headerFor(kind Kind) string {
	if kind == KindClassHierarchy {
		return "flowchart TB"
	}
	return "flowchart LR"
}
