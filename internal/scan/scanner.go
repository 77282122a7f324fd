package scan

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"
)

// FilterConfig narrows which files a scan reports. All fields are optional;
// an empty config keeps every file. Inclusion checks run in a fixed sequence:
// path prefixes, then include globs, then extension allowlist. Exclude globs
// are applied last and drop a file that any earlier check admitted. The
// ordering is part of the observable contract: it determines which files ever
// reach extraction.
type FilterConfig struct {
	IncludePrefixes   []string
	IncludeGlobs      []string
	IncludeExtensions []string
	ExcludeGlobs      []string
}

func (f FilterConfig) hasIncludes() bool {
	return len(f.IncludePrefixes) > 0 || len(f.IncludeGlobs) > 0 || len(f.IncludeExtensions) > 0
}

// Scanner walks a repository tree and produces FileDescriptors.
type Scanner struct {
	ignored []string
	filter  FilterConfig

	includeGlobs []glob.Glob
	excludeGlobs []glob.Glob
	extensions   map[string]bool
}

// NewScanner creates a scanner with the default ignore set. Malformed glob
// patterns in the filter are skipped, never fatal.
func NewScanner(filter FilterConfig) *Scanner {
	s := &Scanner{
		ignored: []string{".git", "vendor", "node_modules", "__pycache__", ".cache", "dist", "build"},
		filter:  filter,
	}
	s.includeGlobs = compileGlobs(filter.IncludeGlobs)
	s.excludeGlobs = compileGlobs(filter.ExcludeGlobs)
	s.extensions = make(map[string]bool, len(filter.IncludeExtensions))
	for _, ext := range filter.IncludeExtensions {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.extensions[strings.ToLower(ext)] = true
	}
	return s
}

func compileGlobs(patterns []string) []glob.Glob {
	var out []glob.Glob
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			logrus.WithFields(logrus.Fields{"pattern": p, "error": err}).Warn("skipping malformed glob pattern")
			continue
		}
		out = append(out, g)
	}
	return out
}

// Scan walks root and returns descriptors for every admitted file, ordered by
// relative path so downstream consumers see a deterministic input order.
func (s *Scanner) Scan(root string) ([]FileDescriptor, error) {
	var out []FileDescriptor
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			for _, ign := range s.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if desc, ok := s.admit(rel); ok {
			out = append(out, desc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// admit applies the filter checks sequentially: prefix inclusion, glob
// inclusion, extension inclusion, then glob exclusion.
func (s *Scanner) admit(rel string) (FileDescriptor, bool) {
	included := !s.filter.hasIncludes()
	if !included && matchesPrefix(rel, s.filter.IncludePrefixes) {
		included = true
	}
	if !included && matchesAny(rel, s.includeGlobs) {
		included = true
	}
	if !included && s.extensions[strings.ToLower(path.Ext(rel))] {
		included = true
	}
	if !included {
		return FileDescriptor{}, false
	}
	if matchesAny(rel, s.excludeGlobs) {
		return FileDescriptor{}, false
	}
	return Classify(rel), true
}

func matchesPrefix(rel string, prefixes []string) bool {
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		if rel == p || strings.HasPrefix(rel, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

func matchesAny(rel string, globs []glob.Glob) bool {
	for _, g := range globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
