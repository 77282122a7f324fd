package resolve

import "codeatlas/internal/extract"

// LabelMap maps bare function/class names to the module that owns them. It is
// built once per run and read-only afterwards.
type LabelMap struct {
	owners map[string]string
}

// BuildLabelMap walks records in the order given (callers pass the
// deterministic input order, not extraction arrival order) and applies
// first-writer-wins: the first record declaring a name fixes its owning module
// for the whole run. Rendered diagram content depends on this tie-break.
func BuildLabelMap(records []extract.EntityRecord) *LabelMap {
	m := &LabelMap{owners: make(map[string]string)}
	for _, rec := range records {
		for _, fn := range rec.Functions {
			if _, ok := m.owners[fn]; !ok {
				m.owners[fn] = rec.Module
			}
		}
		for _, cls := range rec.Classes {
			if _, ok := m.owners[cls]; !ok {
				m.owners[cls] = rec.Module
			}
		}
	}
	return m
}

// Owner returns the owning module for a bare name, if known.
func (m *LabelMap) Owner(name string) (string, bool) {
	mod, ok := m.owners[name]
	return mod, ok
}

// Label returns "<owning-module>.<name>" when the owner is known, otherwise
// the bare name unchanged.
func (m *LabelMap) Label(name string) string {
	if mod, ok := m.owners[name]; ok && mod != "" {
		return mod + "." + name
	}
	return name
}

// Len reports how many names have an owner.
func (m *LabelMap) Len() int {
	return len(m.owners)
}
