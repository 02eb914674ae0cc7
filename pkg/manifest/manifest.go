package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	apperr "github.com/matzehuels/npmap/pkg/errors"
)

// Dependency field names as they appear in package.json.
const (
	FieldDependencies         = "dependencies"
	FieldDevDependencies      = "devDependencies"
	FieldPeerDependencies     = "peerDependencies"
	FieldOptionalDependencies = "optionalDependencies"
)

// Entry is a single dependency declaration.
type Entry struct {
	Name      string // Package name, e.g. "lodash" or "@scope/pkg"
	Specifier string // Declared version specifier, e.g. "^4.17.0"
}

// Section is one dependency field of a manifest.
// Entries are kept in document order.
type Section struct {
	Field   string
	Entries []Entry
}

// Len returns the number of entries in the section.
func (s Section) Len() int { return len(s.Entries) }

// Get returns the specifier declared for name.
func (s Section) Get(name string) (string, bool) {
	for _, e := range s.Entries {
		if e.Name == name {
			return e.Specifier, true
		}
	}
	return "", false
}

// UnmarshalJSON decodes a JSON object of name → specifier strings while
// preserving key order. A repeated key keeps its first position and takes
// the last value. JSON null decodes to an empty section.
func (s *Section) UnmarshalJSON(data []byte) error {
	s.Entries = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", tok)
		}
		var spec string
		if err := dec.Decode(&spec); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if i, seen := index[name]; seen {
			s.Entries[i].Specifier = spec
			continue
		}
		index[name] = len(s.Entries)
		s.Entries = append(s.Entries, Entry{Name: name, Specifier: spec})
	}

	_, err = dec.Token()
	return err
}

// Manifest is a parsed package.json. Only the fields npmap needs are kept.
type Manifest struct {
	Name                 string  `json:"name"`
	Version              string  `json:"version"`
	Dependencies         Section `json:"dependencies"`
	DevDependencies      Section `json:"devDependencies"`
	PeerDependencies     Section `json:"peerDependencies"`
	OptionalDependencies Section `json:"optionalDependencies"`
}

// Section returns the dependency section stored under field.
// It reports false for unknown field names.
func (m *Manifest) Section(field string) (Section, bool) {
	switch field {
	case FieldDependencies:
		return m.Dependencies, true
	case FieldDevDependencies:
		return m.DevDependencies, true
	case FieldPeerDependencies:
		return m.PeerDependencies, true
	case FieldOptionalDependencies:
		return m.OptionalDependencies, true
	default:
		return Section{}, false
	}
}

// Sections returns the sections named by fields, in the same order.
// Unknown field names are ignored.
func (m *Manifest) Sections(fields []string) []Section {
	out := make([]Section, 0, len(fields))
	for _, f := range fields {
		if s, ok := m.Section(f); ok {
			out = append(out, s)
		}
	}
	return out
}

// Parse decodes a package.json document.
// The top-level value must be a JSON object.
func Parse(data []byte) (*Manifest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, apperr.New(apperr.ErrCodeInvalidManifest, "manifest must be a JSON object")
	}

	var m Manifest
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidManifest, err, "invalid package.json")
	}
	m.Dependencies.Field = FieldDependencies
	m.DevDependencies.Field = FieldDevDependencies
	m.PeerDependencies.Field = FieldPeerDependencies
	m.OptionalDependencies.Field = FieldOptionalDependencies
	return &m, nil
}

// Decode reads and parses a package.json document from r.
func Decode(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidManifest, err, "read manifest")
	}
	return Parse(data)
}

// Selection chooses which optional sections are processed in addition to
// "dependencies".
type Selection struct {
	Dev      bool // include devDependencies
	Peer     bool // include peerDependencies
	Optional bool // include optionalDependencies
}

// Fields returns the selected field names in precedence order: the extras
// first, then "dependencies", so that later fields override earlier ones.
func (s Selection) Fields() []string {
	fields := make([]string, 0, 4)
	if s.Dev {
		fields = append(fields, FieldDevDependencies)
	}
	if s.Peer {
		fields = append(fields, FieldPeerDependencies)
	}
	if s.Optional {
		fields = append(fields, FieldOptionalDependencies)
	}
	return append(fields, FieldDependencies)
}
