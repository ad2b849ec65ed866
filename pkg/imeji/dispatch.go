package imeji

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ResultSet is an ordered mapping from identifier to value.
type ResultSet[V any] struct {
	ids     []string
	entries map[string]V
}

func newResultSet[V any]() *ResultSet[V] {
	return &ResultSet[V]{entries: make(map[string]V)}
}

func (s *ResultSet[V]) add(id string, v V) {
	if _, ok := s.entries[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.entries[id] = v
}

// IDs returns the identifiers in response order.
func (s *ResultSet[V]) IDs() []string { return append([]string(nil), s.ids...) }

// Get returns the entry for id.
func (s *ResultSet[V]) Get(id string) (V, bool) {
	v, ok := s.entries[id]
	return v, ok
}

// Has reports whether id is in the set.
func (s *ResultSet[V]) Has(id string) bool {
	_, ok := s.entries[id]
	return ok
}

// Len returns the number of entries.
func (s *ResultSet[V]) Len() int { return len(s.ids) }

// References maps identifiers to the summary fields of a list response.
type References = ResultSet[*Document]

// Dispatcher resolves a kind name to a variant and a collection path and
// performs list and fetch requests for it.
type Dispatcher struct {
	client *Client
	name   string
	kind   Kind
	list   bool
	path   string
}

func newDispatcher(c *Client, name string) (*Dispatcher, error) {
	list := strings.HasSuffix(name, "s")
	singular := name
	if list {
		singular = strings.TrimSuffix(name, "s")
	}
	kind, err := ParseKind(singular)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		client: c,
		name:   name,
		kind:   kind,
		list:   list,
		path:   "/" + kind.Plural(),
	}, nil
}

// Kind returns the resolved variant.
func (d *Dispatcher) Kind() Kind { return d.kind }

// IsList reports whether the dispatcher lists rather than fetches.
func (d *Dispatcher) IsList() bool { return d.list }

// Result holds the outcome of a dispatcher call: References in list mode,
// Resource otherwise.
type Result struct {
	References *References
	Resource   Resource
}

// Call performs the request. A fetch requires id; a list takes an optional
// id (appended to the path) and query parameters.
func (d *Dispatcher) Call(ctx context.Context, id string, params Params) (*Result, error) {
	if !d.list && id == "" {
		return nil, fmt.Errorf("%w: no id given", ErrInvalidArgument)
	}
	if d.list {
		if err := params.Validate(); err != nil {
			return nil, err
		}
	}

	path := d.path
	if id != "" {
		path += "/" + id
	}

	resp, err := d.client.Do(ctx, Request{
		Method:       http.MethodGet,
		Path:         path,
		Params:       params,
		ExpectStatus: http.StatusOK,
		JSON:         true,
	})
	if err != nil {
		return nil, err
	}

	if d.list {
		refs, err := toReferences(resp.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", d.name, err)
		}
		return &Result{References: refs}, nil
	}

	doc, err := resp.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s %s: %w", d.kind, id, err)
	}
	r, err := newResource(d.kind, doc, d.client, nil)
	if err != nil {
		return nil, err
	}
	return &Result{Resource: r}, nil
}

// List performs a list call.
func (d *Dispatcher) List(ctx context.Context, params Params) (*References, error) {
	if !d.list {
		return nil, fmt.Errorf("%w: %q does not name a list", ErrInvalidArgument, d.name)
	}
	res, err := d.Call(ctx, "", params)
	if err != nil {
		return nil, err
	}
	return res.References, nil
}

// Fetch performs a single-object call.
func (d *Dispatcher) Fetch(ctx context.Context, id string) (Resource, error) {
	if d.list {
		return nil, fmt.Errorf("%w: %q names a list", ErrInvalidArgument, d.name)
	}
	res, err := d.Call(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	return res.Resource, nil
}

// toReferences normalizes a list body. Arrays are keyed by the "id" of each
// element; a plain object is taken as an id to summary mapping.
func toReferences(value any) (*References, error) {
	refs := newResultSet[*Document]()
	switch t := value.(type) {
	case nil:
	case []*Document:
		for i, doc := range t {
			id, ok := doc.Get("id")
			if !ok {
				return nil, fmt.Errorf("list entry %d has no id", i)
			}
			refs.add(fmt.Sprint(id), doc)
		}
	case []any:
		if len(t) > 0 {
			return nil, fmt.Errorf("unexpected list entries of type %T", t[0])
		}
	case *Document:
		for _, id := range t.Keys() {
			v, _ := t.Get(id)
			switch s := v.(type) {
			case map[string]any:
				refs.add(id, DocumentFrom(s))
			case *Document:
				refs.add(id, s)
			default:
				refs.add(id, NewDocument())
			}
		}
	default:
		return nil, fmt.Errorf("unexpected list response of type %T", value)
	}
	return refs, nil
}
