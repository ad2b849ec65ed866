package imeji

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Document is the JSON object backing a resource. Top-level field order is
// preserved from the wire so that Dumps is deterministic; nested objects are
// plain map[string]any values.
type Document struct {
	keys   []string
	values map[string]any
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{values: make(map[string]any)}
}

// DocumentFrom builds a document from a map. Keys are added in sorted order.
func DocumentFrom(fields map[string]any) *Document {
	d := NewDocument()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.Set(k, fields[k])
	}
	return d
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Set stores value under key, appending key if it is new.
func (d *Document) Set(key string, value any) {
	if d.values == nil {
		d.values = make(map[string]any)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Delete removes key.
func (d *Document) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the field names in document order.
func (d *Document) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Len returns the number of fields.
func (d *Document) Len() int {
	return len(d.keys)
}

// Map returns the fields as a plain map. Values are shared with the document.
func (d *Document) Map() map[string]any {
	m := make(map[string]any, len(d.values))
	for k, v := range d.values {
		m[k] = v
	}
	return m
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		keys:   append([]string(nil), d.keys...),
		values: make(map[string]any, len(d.values)),
	}
	for k, v := range d.values {
		c.values[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	case *Document:
		return t.Clone()
	default:
		return v
	}
}

// Dumps serializes the document to JSON, keeping field order.
func (d *Document) Dumps() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Pretty serializes the document with sorted keys and indentation.
func (d *Document) Pretty() (string, error) {
	b, err := json.MarshalIndent(d.Map(), "", "    ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. Numbers are kept as json.Number
// so that they serialize back unchanged.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("document must be a JSON object, got %v", tok)
	}

	d.keys = nil
	d.values = make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		d.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// decodeJSON decodes a response body. Objects become *Document, arrays of
// objects become []*Document, anything else is decoded as-is.
func decodeJSON(body []byte) (any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	switch trimmed[0] {
	case '{':
		doc := NewDocument()
		if err := doc.UnmarshalJSON(trimmed); err != nil {
			return nil, err
		}
		return doc, nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, err
		}
		for _, r := range raw {
			if r = bytes.TrimSpace(r); len(r) == 0 || r[0] != '{' {
				return decodeAny(trimmed)
			}
		}
		docs := make([]*Document, 0, len(raw))
		for i, r := range raw {
			doc := NewDocument()
			if err := doc.UnmarshalJSON(r); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			docs = append(docs, doc)
		}
		return docs, nil
	default:
		return decodeAny(trimmed)
	}
}

func decodeAny(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
