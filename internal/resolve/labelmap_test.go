package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codeatlas/internal/extract"
)

func TestBuildLabelMap(t *testing.T) {
	records := []extract.EntityRecord{
		{Module: "alpha", Functions: []string{"foo", "shared"}},
		{Module: "beta", Functions: []string{"bar", "shared"}, Classes: []string{"Widget"}},
		{Module: "", Functions: []string{"orphan"}},
	}
	m := BuildLabelMap(records)

	t.Run("Qualified Labels", func(t *testing.T) {
		assert.Equal(t, "alpha.foo", m.Label("foo"))
		assert.Equal(t, "beta.bar", m.Label("bar"))
		assert.Equal(t, "beta.Widget", m.Label("Widget"))
	})

	t.Run("First Writer Wins", func(t *testing.T) {
		owner, ok := m.Owner("shared")
		assert.True(t, ok)
		assert.Equal(t, "alpha", owner)
		assert.Equal(t, "alpha.shared", m.Label("shared"))
	})

	t.Run("Unknown Names Stay Bare", func(t *testing.T) {
		assert.Equal(t, "mystery", m.Label("mystery"))
		_, ok := m.Owner("mystery")
		assert.False(t, ok)
	})

	t.Run("Empty Owning Module Stays Bare", func(t *testing.T) {
		assert.Equal(t, "orphan", m.Label("orphan"))
	})

	t.Run("Len Counts Distinct Names", func(t *testing.T) {
		// foo, shared, bar, Widget, orphan
		assert.Equal(t, 5, m.Len())
	})
}

func TestBuildLabelMap_ClassAfterFunctionSameRecord(t *testing.T) {
	// within one record, functions register before classes
	records := []extract.EntityRecord{
		{Module: "m", Functions: []string{"Thing"}, Classes: []string{"Thing"}},
	}
	m := BuildLabelMap(records)
	assert.Equal(t, "m.Thing", m.Label("Thing"))
}

func TestBuildLabelMap_Empty(t *testing.T) {
	m := BuildLabelMap(nil)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, "x", m.Label("x"))
}
