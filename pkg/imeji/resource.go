package imeji

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Resource is one addressable remote entity backed by a Document.
type Resource interface {
	Kind() Kind

	// Name is the singular path segment of the resource, e.g. "collection".
	Name() string
	ID() string
	Parent() Resource

	// Document returns the backing document. Mutating it bypasses the
	// read-only and coercion rules of Set.
	Document() *Document

	Get(field string) (any, error)
	Set(field string, value any) error

	// Path is the address of the resource below /rest. With bare set the
	// identifier segment is left out.
	Path(bare bool) string

	// Save creates the resource when it has no identifier and updates it
	// otherwise. It returns a new instance built from the response.
	Save(ctx context.Context) (Resource, error)
	Delete(ctx context.Context) error

	Dumps() (string, error)
	String() string
}

// Fields are field values applied to a resource through Set.
type Fields map[string]any

// readOnlyFields cannot be changed through Set.
var readOnlyFields = map[string]bool{
	"id":           true,
	"createdBy":    true,
	"modifiedBy":   true,
	"createdDate":  true,
	"modifiedDate": true,
}

// dateLayouts are the timestamp formats produced by the service.
var dateLayouts = []string{
	"2006-01-02T15:04:05 -0700",
	"2006-01-02T15:04:05.000 -0700",
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339Nano,
}

// coerceFunc lets a variant transform a value before it is stored. Returning
// store=false keeps the value out of the document.
type coerceFunc func(field string, value any) (v any, store bool, err error)

// resource implements the variant-independent part of Resource.
type resource struct {
	kind   Kind
	name   string
	doc    *Document
	client *Client
	parent Resource
	coerce coerceFunc
}

func (r *resource) init(kind Kind, name string, c *Client, parent Resource, coerce coerceFunc) {
	r.kind = kind
	r.name = name
	r.doc = NewDocument()
	r.client = c
	r.parent = parent
	r.coerce = coerce
}

// hydrate applies every field of doc through Set. Read-only fields are
// stored without complaint since fetched records carry them.
func (r *resource) hydrate(doc *Document) error {
	if doc == nil {
		return nil
	}
	src := doc.Clone()
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		if err := r.Set(k, v); err != nil {
			if readOnlyFields[k] {
				r.doc.Set(k, v)
				continue
			}
			return err
		}
	}
	return nil
}

func (r *resource) Kind() Kind             { return r.kind }
func (r *resource) Name() string           { return r.name }
func (r *resource) Parent() Resource       { return r.parent }
func (r *resource) Document() *Document    { return r.doc }
func (r *resource) Dumps() (string, error) { return r.doc.Dumps() }

// ID returns the identifier, or "" for a resource that was never saved.
func (r *resource) ID() string {
	v, ok := r.doc.Get("id")
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (r *resource) String() string {
	s, err := r.doc.Pretty()
	if err != nil {
		return fmt.Sprintf("<%s %s>", r.name, r.ID())
	}
	return s
}

// Get returns a field value. Fields whose name ends in "Date" are returned
// as time.Time.
func (r *resource) Get(field string) (any, error) {
	v, ok := r.doc.Get(field)
	if !ok {
		return nil, &FieldError{Kind: r.kind, Field: field, Err: ErrMissingField}
	}
	if strings.HasSuffix(field, "Date") {
		if s, ok := v.(string); ok {
			t, err := parseDate(s)
			if err != nil {
				return nil, &FieldError{Kind: r.kind, Field: field, Err: err}
			}
			return t, nil
		}
	}
	return v, nil
}

// Set stores a field value after the read-only check and the variant's
// coercion.
func (r *resource) Set(field string, value any) error {
	if readOnlyFields[field] {
		return &FieldError{Kind: r.kind, Field: field, Err: ErrReadOnly}
	}
	if r.coerce != nil {
		v, store, err := r.coerce(field, value)
		if err != nil {
			return &FieldError{Kind: r.kind, Field: field, Err: err}
		}
		if !store {
			return nil
		}
		value = v
	}
	r.doc.Set(field, value)
	return nil
}

// str returns a string field, or "" when it is absent or not a string.
func (r *resource) str(field string) string {
	v, _ := r.doc.Get(field)
	s, _ := v.(string)
	return s
}

func (r *resource) date(field string) (time.Time, error) {
	v, err := r.Get(field)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, &FieldError{Kind: r.kind, Field: field,
			Err: fmt.Errorf("not a date: %v", v)}
	}
	return t, nil
}

// CreatedDate returns the parsed createdDate field.
func (r *resource) CreatedDate() (time.Time, error) { return r.date("createdDate") }

// ModifiedDate returns the parsed modifiedDate field.
func (r *resource) ModifiedDate() (time.Time, error) { return r.date("modifiedDate") }

func (r *resource) Path(bare bool) string {
	var b strings.Builder
	if r.parent != nil {
		fmt.Fprintf(&b, "/%ss/%s", r.parent.Name(), r.parent.ID())
	}
	fmt.Fprintf(&b, "/%ss", r.name)
	if id := r.ID(); id != "" && !bare {
		b.WriteString("/" + id)
	}
	return b.String()
}

// saveJSON sends the document as JSON and returns the response document.
func (r *resource) saveJSON(ctx context.Context) (*Document, error) {
	body, err := r.doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", r.name, err)
	}
	return r.save(ctx, bytes.NewReader(body), "application/json")
}

// save issues the create (POST, 201) or update (PUT, 200) request.
func (r *resource) save(ctx context.Context, body io.Reader, contentType string) (*Document, error) {
	method, expect := http.MethodPost, http.StatusCreated
	if r.ID() != "" {
		method, expect = http.MethodPut, http.StatusOK
	}

	resp, err := r.client.Do(ctx, Request{
		Method:       method,
		Path:         r.Path(false),
		Body:         body,
		ContentType:  contentType,
		ExpectStatus: expect,
		JSON:         true,
	})
	if err != nil {
		return nil, err
	}
	return resp.Document()
}

// Delete removes the remote counterpart. The instance must not be used
// afterwards.
func (r *resource) Delete(ctx context.Context) error {
	_, err := r.client.Do(ctx, Request{
		Method:       http.MethodDelete,
		Path:         r.Path(false),
		ExpectStatus: http.StatusNoContent,
	})
	return err
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return dateparse.ParseAny(s)
}

// Generic is a resource whose variant is not resolved, such as an album
// member.
type Generic struct {
	resource
}

var _ Resource = (*Generic)(nil)

func newGeneric(name string, doc *Document, c *Client, parent Resource) (*Generic, error) {
	g := &Generic{}
	g.init(KindResource, name, c, parent, nil)
	if err := g.hydrate(doc); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Generic) Save(ctx context.Context) (Resource, error) {
	doc, err := g.saveJSON(ctx)
	if err != nil {
		return nil, err
	}
	return newGeneric(g.name, doc, g.client, g.parent)
}

// Save is a typed wrapper around Resource.Save.
func Save[T Resource](ctx context.Context, r T) (T, error) {
	var zero T
	saved, err := r.Save(ctx)
	if err != nil {
		return zero, err
	}
	typed, ok := saved.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected resource type %T", saved)
	}
	return typed, nil
}
