package proptest

import (
	"cmp"
	"slices"
	"strings"

	"pawtrades/internal/catalog"
)

// catalogModel is the reference the store is checked against: what the
// backend holds, and the list the store should currently show.
type catalogModel struct {
	remote map[string]catalog.Item
	shown  []catalog.Item
	authed bool
}

func newCatalogModel(seed []catalog.Item) *catalogModel {
	m := &catalogModel{remote: make(map[string]catalog.Item)}
	for _, it := range seed {
		m.remote[it.ID] = it.Clone()
	}
	return m
}

func (m *catalogModel) load() {
	m.shown = m.remoteOrdered()
}

func (m *catalogModel) remoteOrdered() []catalog.Item {
	out := make([]catalog.Item, 0, len(m.remote))
	for _, it := range m.remote {
		out = append(out, it.Clone())
	}
	slices.SortFunc(out, func(a, b catalog.Item) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (m *catalogModel) insert(created catalog.Item) {
	m.remote[created.ID] = created.Clone()
	m.shown = append([]catalog.Item{created.Clone()}, m.shown...)
}

func (m *catalogModel) remove(id string) {
	delete(m.remote, id)
	m.shown = slices.DeleteFunc(m.shown, func(it catalog.Item) bool { return it.ID == id })
}

func (m *catalogModel) has(id string) bool {
	return slices.ContainsFunc(m.shown, func(it catalog.Item) bool { return it.ID == id })
}

func (m *catalogModel) shownIDs() []string {
	return ids(m.shown)
}
