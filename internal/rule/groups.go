package rule

import "sort"

// DefaultGroup is the name of the anonymous group that a flat sequence of
// sources or outputs is normalized into.
const DefaultGroup = ""

// Groups is a normalized, ordered mapping from group name to an ordered
// sequence of entries. A flat declaration becomes a single default-named
// group immediately, so all downstream logic operates on one shape.
// The zero value is an empty group set.
type Groups struct {
	order  []string
	byName map[string][]string
}

// Flat wraps an ordered sequence of entries into the default group. An empty
// sequence yields the zero Groups.
func Flat(entries ...string) Groups {
	if len(entries) == 0 {
		return Groups{}
	}
	return Groups{
		order:  []string{DefaultGroup},
		byName: map[string][]string{DefaultGroup: copyStrings(entries)},
	}
}

// Named builds a grouped mapping. The order slice fixes group iteration
// order; when nil, groups iterate in sorted name order. Caller-supplied
// containers are copied, never aliased.
func Named(order []string, byName map[string][]string) Groups {
	if len(byName) == 0 {
		return Groups{}
	}
	if order == nil {
		for name := range byName {
			order = append(order, name)
		}
		sort.Strings(order)
	} else {
		order = copyStrings(order)
	}
	copied := make(map[string][]string, len(byName))
	for name, entries := range byName {
		copied[name] = copyStrings(entries)
	}
	return Groups{order: order, byName: copied}
}

// IsZero reports whether no groups are declared.
func (g Groups) IsZero() bool { return len(g.order) == 0 }

// Names returns the group names in declaration order.
func (g Groups) Names() []string { return copyStrings(g.order) }

// Get returns the entries of the named group in declaration order.
func (g Groups) Get(name string) ([]string, bool) {
	entries, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return copyStrings(entries), true
}

// Default returns the entries of the default group, if declared.
func (g Groups) Default() []string {
	entries, _ := g.Get(DefaultGroup)
	return entries
}

// All returns every entry across all groups, in declaration order.
func (g Groups) All() []string {
	var all []string
	for _, name := range g.order {
		all = append(all, g.byName[name]...)
	}
	return all
}

// Map returns the grouped entries as a plain map, for serialization.
func (g Groups) Map() map[string][]string {
	if g.IsZero() {
		return nil
	}
	m := make(map[string][]string, len(g.byName))
	for name, entries := range g.byName {
		m[name] = copyStrings(entries)
	}
	return m
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
