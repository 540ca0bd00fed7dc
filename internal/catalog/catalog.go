package catalog

import (
	"sort"
	"strings"
)

// Key identifies one Variable: a numeric column of a named source table.
type Key struct {
	Source string
	Column string
}

func (k Key) String() string {
	return k.Source + ":" + k.Column
}

// ParseKey splits the "source:column" form used on the wire. Source names may
// not contain ':'; column names may.
func ParseKey(s string) (Key, bool) {
	source, column, ok := strings.Cut(s, ":")
	if !ok || source == "" || column == "" {
		return Key{}, false
	}
	return Key{Source: source, Column: column}, true
}

// Variable is a named numeric series extracted from one source column. Years
// is nil when the source table has no usable year column; otherwise it runs
// parallel to Values. Rows with a missing value are dropped at construction,
// so Values never contains gaps.
type Variable struct {
	Key    Key
	Label  string
	Years  []int
	Values []float64
}

// HasYears reports whether every entry carries a year.
func (v *Variable) HasYears() bool {
	return v.Years != nil
}

// Len returns the number of retained entries.
func (v *Variable) Len() int {
	return len(v.Values)
}

// Catalog maps variable keys to Variables and keeps a presentation order
// sorted by display label (key string breaks label ties so iteration is
// identical across runs).
type Catalog struct {
	vars  map[Key]*Variable
	order []Key
}

// New builds a catalog directly from constructed Variables. The Builder is
// the usual entry point; New serves in-memory sources and tests.
func New(vars ...*Variable) *Catalog {
	c := newCatalog()
	for _, v := range vars {
		c.add(v)
	}
	c.sortByLabel()
	return c
}

func newCatalog() *Catalog {
	return &Catalog{vars: make(map[Key]*Variable)}
}

func (c *Catalog) add(v *Variable) {
	c.vars[v.Key] = v
	c.order = append(c.order, v.Key)
}

func (c *Catalog) sortByLabel() {
	sort.Slice(c.order, func(i, j int) bool {
		a, b := c.vars[c.order[i]], c.vars[c.order[j]]
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.Key.String() < b.Key.String()
	})
}

// Get looks up a Variable by key.
func (c *Catalog) Get(key Key) (*Variable, bool) {
	v, ok := c.vars[key]
	return v, ok
}

// Variables returns all Variables in label order.
func (c *Catalog) Variables() []*Variable {
	out := make([]*Variable, len(c.order))
	for i, k := range c.order {
		out[i] = c.vars[k]
	}
	return out
}

// Len returns the number of Variables in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}
