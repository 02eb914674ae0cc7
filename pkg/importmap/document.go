package importmap

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strings"

	apperr "github.com/matzehuels/npmap/pkg/errors"
)

// Document is a serialized import map.
// Scopes is never populated by [Emit]; it is kept so parsed maps survive
// a round trip.
type Document struct {
	Imports *Imports                     `json:"imports"`
	Scopes  map[string]map[string]string `json:"scopes,omitempty"`
}

// Emit wraps imports in a Document. A nil mapping yields an empty
// "imports" object.
func Emit(imports *Imports) *Document {
	if imports == nil {
		imports = NewImports()
	}
	return &Document{Imports: imports}
}

// Marshal returns the document as 2-space indented JSON followed by a
// newline.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	doc := *d
	if doc.Imports == nil {
		doc.Imports = NewImports()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeInternal, err, "encode import map")
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// Parse reads an import map document.
func Parse(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid import map")
	}
	if d.Imports == nil {
		d.Imports = NewImports()
	}
	return &d, nil
}

// Lookup resolves a module specifier against the top-level imports:
//
//   - an exact key match wins;
//   - otherwise the longest key ending in "/" that prefixes specifier is
//     used and the remainder appended;
//   - otherwise a bare package entry is expanded to its subpaths, so
//     "react/jsx-runtime" resolves through "react". A query string on
//     the entry's URL is carried over.
func (d *Document) Lookup(specifier string) (string, bool) {
	if u, ok := d.Imports.Get(specifier); ok {
		return u, true
	}
	if !strings.Contains(specifier, "/") {
		return "", false
	}

	var prefixes []string
	for k := range d.Imports.All() {
		if strings.HasSuffix(k, "/") && strings.HasPrefix(specifier, k) {
			prefixes = append(prefixes, k)
		}
	}
	if len(prefixes) > 0 {
		sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })
		k := prefixes[0]
		u, _ := d.Imports.Get(k)
		return u + specifier[len(k):], true
	}

	for k, u := range d.Imports.All() {
		if strings.HasSuffix(k, "/") || !strings.HasPrefix(specifier, k+"/") {
			continue
		}
		base, query, _ := strings.Cut(u, "?")
		out := strings.TrimSuffix(base, "/") + specifier[len(k):]
		if query != "" {
			out += "?" + query
		}
		return out, true
	}
	return "", false
}
