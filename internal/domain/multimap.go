package domain

import "iter"

// Payload is a raw request body together with its declared content type.
type Payload struct {
	Body        []byte
	ContentType string
}

// FormExtractor turns a payload into an ordered multimap of form fields.
type FormExtractor interface {
	Extract(payload Payload) (*Multimap, error)
}

// FormExtractorFunc adapts a function to the FormExtractor interface.
type FormExtractorFunc func(payload Payload) (*Multimap, error)

// Extract calls f(payload).
func (f FormExtractorFunc) Extract(payload Payload) (*Multimap, error) {
	return f(payload)
}

// Field is one name/value occurrence in a Multimap.
type Field struct {
	Name  string
	Value string
}

// Multimap is an ordered multimap of strings. Every Add is kept as its own
// entry, so repeated names and the order across names survive unchanged.
// The zero value is an empty multimap ready to use.
type Multimap struct {
	fields []Field
	index  map[string][]int
	names  []string
}

// NewMultimap returns a multimap holding fields in the given order.
func NewMultimap(fields ...Field) *Multimap {
	m := &Multimap{}
	for _, f := range fields {
		m.Add(f.Name, f.Value)
	}

	return m
}

// Add appends a name/value entry.
func (m *Multimap) Add(name, value string) {
	if m.index == nil {
		m.index = make(map[string][]int)
	}

	if _, seen := m.index[name]; !seen {
		m.names = append(m.names, name)
	}

	m.index[name] = append(m.index[name], len(m.fields))
	m.fields = append(m.fields, Field{Name: name, Value: value})
}

// Get returns every value of name in insertion order.
func (m *Multimap) Get(name string) []string {
	positions := m.index[name]
	if len(positions) == 0 {
		return nil
	}

	values := make([]string, 0, len(positions))
	for _, pos := range positions {
		values = append(values, m.fields[pos].Value)
	}

	return values
}

// Has reports whether name occurs at least once.
func (m *Multimap) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Names returns the distinct names in first-seen order.
func (m *Multimap) Names() []string {
	return append([]string(nil), m.names...)
}

// Len returns the number of entries, counting repeats.
func (m *Multimap) Len() int {
	return len(m.fields)
}

// Fields returns a copy of every entry in insertion order.
func (m *Multimap) Fields() []Field {
	return append([]Field(nil), m.fields...)
}

// All iterates over every entry in insertion order.
func (m *Multimap) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, f := range m.fields {
			if !yield(f.Name, f.Value) {
				return
			}
		}
	}
}
