package output

import (
	"fmt"
	"sort"
	"strings"

	"codeatlas/internal/diagram"
	"codeatlas/internal/extract"
	"codeatlas/internal/stats"
)

const (
	// maxAPIClasses caps the class list in the API summary.
	maxAPIClasses = 15
	// maxAPIDetails caps the entries in the inferred API section.
	maxAPIDetails = 20
	// maxTopFiles caps the top-files listing.
	maxTopFiles = 5
)

// DocumentOptions configures markdown assembly.
type DocumentOptions struct {
	// IncludeDiagrams embeds mermaid blocks; when false the document carries
	// a disabled notice instead.
	IncludeDiagrams bool
}

// BuildMarkdown composes the repository documentation as a single markdown
// document. It is pure templating over the extraction results: identical
// inputs always yield identical text.
func BuildMarkdown(repoURL string, entities []extract.EntityRecord, summary *stats.Summary, diagrams map[diagram.Kind]string, opts DocumentOptions) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Documentation for %s\n\n", repoURL)

	writeOverview(&b, summary)
	writeAPIReference(&b, entities, summary)
	writeDiagrams(&b, diagrams, opts.IncludeDiagrams)
	writeStatistics(&b, summary)

	return b.String()
}

func writeOverview(b *strings.Builder, summary *stats.Summary) {
	b.WriteString("## Project Overview\n\n")
	if summary == nil || summary.Files == 0 {
		b.WriteString("No source files were analyzed.\n\n")
		return
	}
	fmt.Fprintf(b, "This repository contains %d analyzed source files", summary.Files)
	if lang := primaryLanguage(summary); lang != "" {
		fmt.Fprintf(b, " (primary language: %s)", lang)
	}
	fmt.Fprintf(b, " declaring %d functions and %d classes.\n\n", summary.Functions, summary.Classes)
	if summary.Errors > 0 {
		fmt.Fprintf(b, "%d files could not be processed.\n\n", summary.Errors)
	}
}

// primaryLanguage picks the language with the most files, ties broken
// alphabetically so the document stays byte-stable.
func primaryLanguage(summary *stats.Summary) string {
	best := ""
	bestCount := 0
	langs := make([]string, 0, len(summary.Languages))
	for lang := range summary.Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if summary.Languages[lang] > bestCount {
			best = lang
			bestCount = summary.Languages[lang]
		}
	}
	return best
}

func writeAPIReference(b *strings.Builder, entities []extract.EntityRecord, summary *stats.Summary) {
	b.WriteString("## API Reference (summary)\n\n")

	if classes := collectClasses(entities); len(classes) > 0 {
		b.WriteString("- Classes (top selection):\n")
		for _, c := range classes {
			fmt.Fprintf(b, "  - %s\n", c)
		}
	}
	if summary != nil {
		fmt.Fprintf(b, "- Total functions: %d\n", summary.Functions)
		b.WriteString("- Relationship counts:\n")
		fmt.Fprintf(b, "  - calls: %d\n", summary.Calls)
		fmt.Fprintf(b, "  - inherits: %d\n", summary.Inherits)
		fmt.Fprintf(b, "  - imports: %d\n", summary.Imports)
	}
	if top := topFiles(entities); len(top) > 0 {
		b.WriteString("- Top files by declared entities:\n")
		for _, f := range top {
			fmt.Fprintf(b, "  - %s\n", f)
		}
	}
	b.WriteString("\n")

	writeDetailedAPI(b, entities)
}

func collectClasses(entities []extract.EntityRecord) []string {
	var classes []string
	for _, rec := range entities {
		for _, c := range rec.Classes {
			if len(classes) >= maxAPIClasses {
				return classes
			}
			classes = append(classes, c)
		}
	}
	return classes
}

// topFiles ranks files by declared entity count, descending, ties broken by
// path so the ordering is deterministic.
func topFiles(entities []extract.EntityRecord) []string {
	type ranked struct {
		file  string
		count int
	}
	rank := make([]ranked, 0, len(entities))
	for _, rec := range entities {
		n := len(rec.Functions) + len(rec.Classes)
		if n == 0 {
			continue
		}
		rank = append(rank, ranked{file: rec.File, count: n})
	}
	sort.Slice(rank, func(i, j int) bool {
		if rank[i].count != rank[j].count {
			return rank[i].count > rank[j].count
		}
		return rank[i].file < rank[j].file
	})
	if len(rank) > maxTopFiles {
		rank = rank[:maxTopFiles]
	}
	out := make([]string, 0, len(rank))
	for _, r := range rank {
		out = append(out, fmt.Sprintf("%s (%d)", r.file, r.count))
	}
	return out
}

func writeDetailedAPI(b *strings.Builder, entities []extract.EntityRecord) {
	var lines []string
	added := 0
	for _, rec := range entities {
		if added >= maxAPIDetails {
			break
		}
		if len(rec.ClassDetails) == 0 && len(rec.FunctionDetails) == 0 {
			continue
		}
		mod := rec.Module
		if mod == "" {
			mod = rec.File
		}
		lines = append(lines, fmt.Sprintf("- Module: %s", mod))
		for _, cd := range rec.ClassDetails {
			if added >= maxAPIDetails {
				break
			}
			lines = append(lines, "  - Class: "+cd.Name+docSuffix(cd.Doc))
			added++
		}
		for _, fd := range rec.FunctionDetails {
			if added >= maxAPIDetails {
				break
			}
			sig := fmt.Sprintf("%s(%s)", fd.Name, strings.Join(fd.Params, ", "))
			lines = append(lines, "  - Function: "+sig+docSuffix(fd.Doc))
			added++
		}
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("### Detailed API (inferred)\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
}

// docSuffix renders the first docstring line as a trailing annotation.
func docSuffix(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}
	if idx := strings.Index(doc, "\n"); idx >= 0 {
		doc = doc[:idx]
	}
	return " - " + doc
}

var diagramSections = []struct {
	kind  diagram.Kind
	title string
	empty string
}{
	{diagram.KindCall, "Call Graph", "No call graph data available."},
	{diagram.KindClassHierarchy, "Class Hierarchy", "No class hierarchy data available."},
	{diagram.KindModuleDependency, "Module Dependencies", "No module dependency data available."},
}

func writeDiagrams(b *strings.Builder, diagrams map[diagram.Kind]string, include bool) {
	b.WriteString("## Diagrams\n\n")
	if !include {
		b.WriteString("Diagrams disabled for this run.\n\n")
		return
	}
	for _, sec := range diagramSections {
		content, ok := diagrams[sec.kind]
		if !ok {
			continue
		}
		fmt.Fprintf(b, "### %s\n\n", sec.title)
		if emptyMermaid(content) {
			b.WriteString(sec.empty + "\n\n")
			continue
		}
		fmt.Fprintf(b, "```mermaid\n%s\n```\n\n", content)
	}
}

// emptyMermaid reports whether a diagram carries no edges (header only).
func emptyMermaid(s string) bool {
	if strings.Contains(s, "-->") {
		return false
	}
	nonBlank := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			nonBlank++
		}
	}
	return nonBlank <= 1
}

func writeStatistics(b *strings.Builder, summary *stats.Summary) {
	b.WriteString("## Project Statistics\n\n")
	if summary == nil {
		b.WriteString("Statistics not available.\n")
		return
	}
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Files | %d |\n", summary.Files)
	fmt.Fprintf(b, "| Functions | %d |\n", summary.Functions)
	fmt.Fprintf(b, "| Classes | %d |\n", summary.Classes)
	fmt.Fprintf(b, "| Calls | %d |\n", summary.Calls)
	fmt.Fprintf(b, "| Imports | %d |\n", summary.Imports)
	fmt.Fprintf(b, "| Inheritance Edges | %d |\n", summary.Inherits)
	fmt.Fprintf(b, "| Extraction Errors | %d |\n", summary.Errors)

	langs := make([]string, 0, len(summary.Languages))
	for lang := range summary.Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		fmt.Fprintf(b, "| %s files | %d |\n", lang, summary.Languages[lang])
	}
}
