package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeatlas/internal/scan"
)

func TestDeriveModule(t *testing.T) {
	cases := []struct {
		path     string
		language string
		want     string
	}{
		{"pkg/mod.py", "python", "pkg.mod"},
		{"x.py", "python", "x"},
		{"a/b/c.py", "python", "a.b.c"},
		{"lib/util.ts", "typescript", "lib/util"},
		{"web/app.jsx", "jsx", "web/app"},
		{"ui/panel.tsx", "tsx", "ui/panel"},
		{"index.js", "javascript", "index"},
		{"src/main.rs", "rust", "src/main"},
		{"pkg/server.go", "go", "pkg/server"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveModule(tc.path, tc.language))
		})
	}
}

func TestForLanguage(t *testing.T) {
	assert.Equal(t, "python", ForLanguage("python").Name())
	assert.Equal(t, "script", ForLanguage("typescript").Name())
	assert.Equal(t, "script", ForLanguage("jsx").Name())
	assert.Equal(t, "fallback", ForLanguage("ruby").Name())
	assert.Equal(t, "fallback", ForLanguage("").Name())
}

func TestExtractor_Extract(t *testing.T) {
	e := NewExtractor()

	t.Run("Populates Identity Fields", func(t *testing.T) {
		rec, xerr := e.Extract("pkg/mod.py", []byte("def f():\n    pass\n"), "python")
		require.Nil(t, xerr)
		assert.Equal(t, "pkg/mod.py", rec.File)
		assert.Equal(t, "pkg.mod", rec.Module)
		assert.Equal(t, "python", rec.Language)
		assert.Equal(t, []string{"f"}, rec.Functions)
	})

	t.Run("Invalid UTF8 Sanitized", func(t *testing.T) {
		content := append([]byte{0xff, 0xfe, '\n'}, []byte("def ok():\n    pass\n")...)
		rec, xerr := e.Extract("bad.py", content, "python")
		require.Nil(t, xerr)
		assert.Equal(t, []string{"ok"}, rec.Functions)
	})

	t.Run("Empty File", func(t *testing.T) {
		rec, xerr := e.Extract("empty.py", nil, "python")
		require.Nil(t, xerr)
		assert.Empty(t, rec.Functions)
		assert.Empty(t, rec.Classes)
	})
}

func TestExtractor_ExtractFile(t *testing.T) {
	e := NewExtractor()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "mod.py"), []byte("def f():\n    pass\n"), 0o644))

	t.Run("Existing File", func(t *testing.T) {
		rec, xerr, exists := e.ExtractFile(root, scan.FileDescriptor{Path: "pkg/mod.py", Type: scan.CodeFile, Language: "python"})
		assert.True(t, exists)
		assert.Nil(t, xerr)
		require.NotNil(t, rec)
		assert.Equal(t, "pkg.mod", rec.Module)
	})

	t.Run("Missing File Dropped", func(t *testing.T) {
		rec, xerr, exists := e.ExtractFile(root, scan.FileDescriptor{Path: "pkg/ghost.py", Type: scan.CodeFile, Language: "python"})
		assert.False(t, exists)
		assert.Nil(t, rec)
		assert.Nil(t, xerr)
	})

	t.Run("Unreadable Path Is An Error", func(t *testing.T) {
		// a directory where a file is expected
		rec, xerr, exists := e.ExtractFile(root, scan.FileDescriptor{Path: "pkg", Type: scan.CodeFile, Language: "python"})
		assert.True(t, exists)
		assert.Nil(t, rec)
		require.NotNil(t, xerr)
		assert.Equal(t, "pkg", xerr.File)
		assert.NotEmpty(t, xerr.Cause)
	})
}
