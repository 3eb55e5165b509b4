package entities

import "strings"

// Header is a single HTTP header (or trailer) entry.
type Header struct {
	Name  string
	Value string
}

// HeaderMap is an ordered list of headers.
// Order and duplicate names are preserved exactly as exchanged with the host.
type HeaderMap []Header

// NewHeaderMap creates a HeaderMap from name/value pairs.
func NewHeaderMap(pairs ...[2]string) HeaderMap {
	return HeaderMapFromPairs(pairs)
}

// HeaderMapFromPairs converts the ABI pair representation into a HeaderMap.
func HeaderMapFromPairs(pairs [][2]string) HeaderMap {
	if len(pairs) == 0 {
		return HeaderMap{}
	}
	m := make(HeaderMap, 0, len(pairs))
	for _, p := range pairs {
		m = append(m, Header{Name: p[0], Value: p[1]})
	}
	return m
}

// Pairs converts the HeaderMap into the ABI pair representation.
func (m HeaderMap) Pairs() [][2]string {
	pairs := make([][2]string, 0, len(m))
	for _, h := range m {
		pairs = append(pairs, [2]string{h.Name, h.Value})
	}
	return pairs
}

// Len returns the number of entries, duplicates included.
func (m HeaderMap) Len() int {
	return len(m)
}

// Get returns the value of the first header matching name (case-insensitive).
func (m HeaderMap) Get(name string) (string, bool) {
	for _, h := range m {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// Values returns the values of all headers matching name, in order.
func (m HeaderMap) Values(name string) []string {
	var values []string
	for _, h := range m {
		if strings.EqualFold(h.Name, name) {
			values = append(values, h.Value)
		}
	}
	return values
}

// Set replaces the first header matching name and drops any later duplicates.
// The header is appended when absent.
func (m *HeaderMap) Set(name, value string) {
	out := (*m)[:0]
	found := false
	for _, h := range *m {
		if strings.EqualFold(h.Name, name) {
			if found {
				continue
			}
			found = true
			h.Value = value
		}
		out = append(out, h)
	}
	if !found {
		out = append(out, Header{Name: name, Value: value})
	}
	*m = out
}

// Add appends a header, keeping existing entries with the same name.
func (m *HeaderMap) Add(name, value string) {
	*m = append(*m, Header{Name: name, Value: value})
}

// Remove drops every header matching name.
func (m *HeaderMap) Remove(name string) {
	out := (*m)[:0]
	for _, h := range *m {
		if !strings.EqualFold(h.Name, name) {
			out = append(out, h)
		}
	}
	*m = out
}
