package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"codeatlas/internal/diagram"
	"codeatlas/internal/stats"
)

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9_.\-]+`)

// sanitizeName replaces unsafe characters so the result is a usable directory
// name.
func sanitizeName(name string) string {
	name = strings.Trim(unsafeNameRe.ReplaceAllString(name, "_"), "_-")
	if name == "" {
		return "repo"
	}
	return name
}

// RepoNameFromURL derives a filesystem-safe repository name from a URL or
// local path:
//
//	https://github.com/org/project.git -> project
//	git@github.com:org/project.git     -> project
//	/local/path/to/repo                -> repo
//	org/project                        -> project
func RepoNameFromURL(repoURL string) string {
	if repoURL == "" {
		return "repo"
	}
	base := strings.TrimRight(repoURL, "/")
	base = strings.TrimSuffix(base, ".git")

	var segment string
	switch {
	case strings.Contains(base, "/"):
		parts := strings.Split(base, "/")
		segment = parts[len(parts)-1]
	case strings.Contains(base, ":"):
		// scp-like syntax git@host:org/repo
		rest := base[strings.LastIndex(base, ":")+1:]
		parts := strings.Split(rest, "/")
		segment = parts[len(parts)-1]
	default:
		segment = base
	}
	return sanitizeName(segment)
}

// Saved reports where results landed on disk.
type Saved struct {
	BaseDir           string
	DocumentationPath string
	Diagrams          map[diagram.Kind]string
	StatsPath         string
}

var diagramFileNames = map[diagram.Kind]string{
	diagram.KindCall:             "call_graph",
	diagram.KindClassHierarchy:   "class_hierarchy",
	diagram.KindModuleDependency: "module_graph",
}

// SaveResults writes the documentation document, diagrams, and statistics
// under outputsDir:
//
//	<outputsDir>/<repo_name>/
//	  <repo_name>_documentation.md
//	  statistics.json
//	  diagrams/<repo_name>_call_graph.mmd
//	  diagrams/<repo_name>_class_hierarchy.mmd
//	  diagrams/<repo_name>_module_graph.mmd
//
// A failed statistics write is logged and ignored; documentation and diagram
// writes are not.
func SaveResults(repoURL, documentation string, diagrams map[diagram.Kind]string, summary *stats.Summary, outputsDir string) (*Saved, error) {
	repoName := RepoNameFromURL(repoURL)
	baseDir := filepath.Join(outputsDir, repoName)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	saved := &Saved{BaseDir: baseDir, Diagrams: make(map[diagram.Kind]string)}

	docPath := filepath.Join(baseDir, fmt.Sprintf("%s_documentation.md", repoName))
	if err := os.WriteFile(docPath, []byte(documentation), 0o644); err != nil {
		return nil, fmt.Errorf("write documentation: %w", err)
	}
	saved.DocumentationPath = docPath

	if len(diagrams) > 0 {
		diagDir := filepath.Join(baseDir, "diagrams")
		if err := os.MkdirAll(diagDir, 0o755); err != nil {
			return nil, fmt.Errorf("create diagrams dir: %w", err)
		}
		for kind, content := range diagrams {
			if content == "" {
				continue
			}
			name, ok := diagramFileNames[kind]
			if !ok {
				name = string(kind)
			}
			p := filepath.Join(diagDir, fmt.Sprintf("%s_%s.mmd", repoName, name))
			if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
				return nil, fmt.Errorf("write diagram %s: %w", kind, err)
			}
			saved.Diagrams[kind] = p
		}
	}

	if summary != nil {
		p := filepath.Join(baseDir, "statistics.json")
		data, err := json.MarshalIndent(summary, "", "  ")
		if err == nil {
			err = os.WriteFile(p, data, 0o644)
		}
		if err != nil {
			// fail soft on stats
			logrus.WithError(err).Warn("could not write statistics")
		} else {
			saved.StatsPath = p
		}
	}

	return saved, nil
}
