package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeatlas/internal/extract"
	"codeatlas/internal/scan"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func descriptorsFor(paths ...string) []scan.FileDescriptor {
	out := make([]scan.FileDescriptor, 0, len(paths))
	for _, p := range paths {
		out = append(out, scan.Classify(p))
	}
	return out
}

func TestRun_Sequential(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py":      "def fa():\n    pass\n",
		"b.py":      "def fb():\n    pass\n",
		"c.py":      "class C:\n    pass\n",
		"d.js":      "function fd() {}\n",
		"README.md": "# readme\n",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))

	descriptors := descriptorsFor("a.py", "b.py", "c.py", "d.js", "README.md", "ghost.py")
	// a directory posing as a code file must surface as an error, not a crash
	descriptors = append(descriptors, scan.FileDescriptor{Path: "sub", Type: scan.CodeFile, Language: "python"})

	res := Run(context.Background(), root, descriptors, Options{Parallel: false})

	t.Run("Exactly One Outcome Per Existing CodeFile", func(t *testing.T) {
		assert.Len(t, res.Entities, 4, "four real code files")
		assert.Len(t, res.Errors, 1, "one unreadable path")
	})

	t.Run("Input Order Preserved", func(t *testing.T) {
		var files []string
		for _, rec := range res.Entities {
			files = append(files, rec.File)
		}
		assert.Equal(t, []string{"a.py", "b.py", "c.py", "d.js"}, files)
	})

	t.Run("Doc Files Not Extracted", func(t *testing.T) {
		for _, rec := range res.Entities {
			assert.NotEqual(t, "README.md", rec.File)
		}
	})

	t.Run("Vanished File Dropped Silently", func(t *testing.T) {
		for _, rec := range res.Entities {
			assert.NotEqual(t, "ghost.py", rec.File)
		}
		for _, xerr := range res.Errors {
			assert.NotEqual(t, "ghost.py", xerr.File)
		}
	})
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	files := map[string]string{
		"p1.py": "def one():\n    two()\n",
		"p2.py": "def two():\n    pass\n",
		"p3.py": "class Three:\n    pass\n",
		"p4.py": "import os\n",
		"p5.js": "function five() {}\n",
		"p6.py": "def six():\n    one()\n",
	}
	root := writeTree(t, files)
	descriptors := descriptorsFor("p1.py", "p2.py", "p3.py", "p4.py", "p5.js", "p6.py")

	seq := Run(context.Background(), root, descriptors, Options{Parallel: false})
	par := Run(context.Background(), root, descriptors, Options{Parallel: true, Workers: 3})

	assert.Equal(t, entitySet(seq.Entities), entitySet(par.Entities))
	assert.Equal(t, len(seq.Errors), len(par.Errors))
}

func entitySet(entities []extract.EntityRecord) map[string]extract.EntityRecord {
	set := make(map[string]extract.EntityRecord, len(entities))
	for _, rec := range entities {
		set[rec.File] = rec
	}
	return set
}

func TestRun_EmptyBatch(t *testing.T) {
	res := Run(context.Background(), t.TempDir(), nil, Options{Parallel: true})
	assert.Empty(t, res.Entities)
	assert.Empty(t, res.Errors)
}

func TestRun_CancelledContext(t *testing.T) {
	root := writeTree(t, map[string]string{"a.py": "def f():\n    pass\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Run(ctx, root, descriptorsFor("a.py"), Options{Parallel: false})
	assert.Empty(t, res.Entities)
	assert.Empty(t, res.Errors)
}

func TestRun_ErrorsSorted(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "d1"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "d2"), 0o755))

	descriptors := []scan.FileDescriptor{
		{Path: "d1", Type: scan.CodeFile, Language: "python"},
		{Path: "d2", Type: scan.CodeFile, Language: "python"},
	}
	res := Run(context.Background(), root, descriptors, Options{Parallel: false})

	require.Len(t, res.Errors, 2)
	files := []string{res.Errors[0].File, res.Errors[1].File}
	assert.True(t, sort.StringsAreSorted(files))
}

func TestWorkerCount(t *testing.T) {
	want := runtime.NumCPU()
	if want > maxWorkers {
		want = maxWorkers
	}

	t.Run("Default", func(t *testing.T) {
		assert.Equal(t, want, workerCount(0))
	})
	t.Run("Smaller Override Honored", func(t *testing.T) {
		assert.Equal(t, 1, workerCount(1))
	})
	t.Run("Larger Override Ignored", func(t *testing.T) {
		assert.Equal(t, want, workerCount(100))
	})
}
