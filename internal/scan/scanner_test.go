package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path     string
		fileType FileType
		language string
	}{
		{"main.py", CodeFile, "python"},
		{"src/app.ts", CodeFile, "typescript"},
		{"ui/Panel.TSX", CodeFile, "tsx"},
		{"server.go", CodeFile, "go"},
		{"walker.jac", CodeFile, "jac"},
		{"README.md", Doc, "md"},
		{"docs/guide.rst", Doc, "rst"},
		{"data.bin", Other, "bin"},
		{"Makefile", Other, ""},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			fd := Classify(tc.path)
			assert.Equal(t, tc.path, fd.Path)
			assert.Equal(t, tc.fileType, fd.Type)
			assert.Equal(t, tc.language, fd.Language)
		})
	}
}

func buildTree(t *testing.T, paths ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range paths {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x\n"), 0o644))
	}
	return root
}

func TestScanner_Scan(t *testing.T) {
	root := buildTree(t,
		"main.py",
		"src/app.ts",
		"node_modules/react/index.js",
		".git/config",
		"__pycache__/main.pyc",
		"README.md",
		"data.bin",
	)

	descriptors, err := NewScanner(FilterConfig{}).Scan(root)
	require.NoError(t, err)

	var paths []string
	for _, fd := range descriptors {
		paths = append(paths, fd.Path)
	}

	t.Run("Ignored Directories Pruned", func(t *testing.T) {
		assert.NotContains(t, paths, "node_modules/react/index.js")
		assert.NotContains(t, paths, ".git/config")
		assert.NotContains(t, paths, "__pycache__/main.pyc")
	})

	t.Run("Sorted By Path", func(t *testing.T) {
		assert.Equal(t, []string{"README.md", "data.bin", "main.py", "src/app.ts"}, paths)
	})

	t.Run("Classified", func(t *testing.T) {
		byPath := make(map[string]FileDescriptor)
		for _, fd := range descriptors {
			byPath[fd.Path] = fd
		}
		assert.Equal(t, CodeFile, byPath["main.py"].Type)
		assert.Equal(t, "python", byPath["main.py"].Language)
		assert.Equal(t, Doc, byPath["README.md"].Type)
		assert.Equal(t, Other, byPath["data.bin"].Type)
	})
}

func TestScanner_Filters(t *testing.T) {
	root := buildTree(t,
		"main.py",
		"main_test.py",
		"src/app.ts",
		"src/util.py",
		"docs/guide.md",
	)

	scanPaths := func(filter FilterConfig) []string {
		descriptors, err := NewScanner(filter).Scan(root)
		require.NoError(t, err)
		var paths []string
		for _, fd := range descriptors {
			paths = append(paths, fd.Path)
		}
		return paths
	}

	t.Run("Prefix Include", func(t *testing.T) {
		assert.Equal(t, []string{"src/app.ts", "src/util.py"},
			scanPaths(FilterConfig{IncludePrefixes: []string{"src"}}))
	})

	t.Run("Glob Include", func(t *testing.T) {
		// * does not cross path separators
		assert.Equal(t, []string{"main.py", "main_test.py"},
			scanPaths(FilterConfig{IncludeGlobs: []string{"*.py"}}))
	})

	t.Run("Extension Include", func(t *testing.T) {
		assert.Equal(t, []string{"main.py", "main_test.py", "src/util.py"},
			scanPaths(FilterConfig{IncludeExtensions: []string{"py"}}))
	})

	t.Run("Exclude Applies Last", func(t *testing.T) {
		assert.Equal(t, []string{"main.py", "src/util.py"},
			scanPaths(FilterConfig{
				IncludeExtensions: []string{".py"},
				ExcludeGlobs:      []string{"**_test.py"},
			}))
	})

	t.Run("Exclude Without Includes", func(t *testing.T) {
		assert.Equal(t, []string{"docs/guide.md", "main.py", "main_test.py", "src/app.ts"},
			scanPaths(FilterConfig{ExcludeGlobs: []string{"src/*.py"}}))
	})

	t.Run("Union Of Include Checks", func(t *testing.T) {
		assert.Equal(t, []string{"docs/guide.md", "src/app.ts", "src/util.py"},
			scanPaths(FilterConfig{
				IncludePrefixes: []string{"src"},
				IncludeGlobs:    []string{"docs/*.md"},
			}))
	})
}

func TestScanner_MalformedGlobSkipped(t *testing.T) {
	root := buildTree(t, "main.py")

	// the unclosed bracket must be skipped, not abort the scan
	descriptors, err := NewScanner(FilterConfig{ExcludeGlobs: []string{"[", "*.md"}}).Scan(root)
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.Equal(t, "main.py", descriptors[0].Path)
}
