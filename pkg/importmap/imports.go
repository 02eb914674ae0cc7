package importmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
)

// Imports maps bare specifiers to URLs and remembers the order in which
// keys were first written. Overwriting a key replaces its URL but keeps its
// position. The zero value is ready to use.
type Imports struct {
	keys []string
	urls map[string]string
}

// NewImports returns an empty mapping.
func NewImports() *Imports { return &Imports{} }

// Set maps specifier to url.
func (m *Imports) Set(specifier, url string) {
	if m.urls == nil {
		m.urls = make(map[string]string)
	}
	if _, ok := m.urls[specifier]; !ok {
		m.keys = append(m.keys, specifier)
	}
	m.urls[specifier] = url
}

// Get returns the URL mapped to specifier.
func (m *Imports) Get(specifier string) (string, bool) {
	if m == nil {
		return "", false
	}
	u, ok := m.urls[specifier]
	return u, ok
}

// Len returns the number of mapped specifiers.
func (m *Imports) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the specifiers in insertion order.
func (m *Imports) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// All iterates over specifier/URL pairs in insertion order.
func (m *Imports) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.urls[k]) {
				return
			}
		}
	}
}

// Map returns a copy of the mapping as a plain map.
func (m *Imports) Map() map[string]string {
	out := make(map[string]string, m.Len())
	for k, v := range m.All() {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the mapping as an object with keys in insertion order.
// HTML characters are left unescaped so URLs round-trip byte for byte.
func (m *Imports) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	i := 0
	for k, v := range m.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		if err := enc.Encode(k); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1) // Encode appends a newline
		buf.WriteByte(':')
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of string values, keeping key order.
func (m *Imports) UnmarshalJSON(data []byte) error {
	*m = Imports{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("imports: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("imports: expected string key, got %v", tok)
		}
		var url string
		if err := dec.Decode(&url); err != nil {
			return fmt.Errorf("imports: %s: %w", key, err)
		}
		m.Set(key, url)
	}
	_, err = dec.Token()
	return err
}
