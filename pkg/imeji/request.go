package imeji

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// restPrefix is prepended to every request path.
const restPrefix = "/rest"

// Params are query parameters of a list request.
type Params map[string]any

// listParams are the query parameters the service understands.
var listParams = map[string]bool{
	"size":   true,
	"offset": true,
	"q":      true,
}

// Validate fails with ErrInvalidArgument on unknown parameter names.
func (p Params) Validate() error {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !listParams[k] {
			return fmt.Errorf("%w: unrecognized query parameter %q", ErrInvalidArgument, k)
		}
	}
	return nil
}

func (p Params) values() url.Values {
	v := url.Values{}
	for k, val := range p {
		v.Set(k, fmt.Sprint(val))
	}
	return v
}

// Request describes one call to the REST API.
type Request struct {
	// Method defaults to GET.
	Method string

	// Path is relative to the /rest prefix, e.g. "/collections/abc".
	Path   string
	Params Params

	Body        io.Reader
	ContentType string

	// ExpectStatus is the status of a successful response. Zero disables the
	// check.
	ExpectStatus int

	// JSON requests decoding of the response body.
	JSON bool
}

// Response is the outcome of a request.
type Response struct {
	StatusCode int
	Raw        []byte

	// Value is the decoded body: a *Document, []*Document (also for
	// paginated responses, which are unpacked) or another JSON value. It is
	// nil when decoding was not requested or failed.
	Value any
}

// Document returns the decoded body as a single document.
func (r *Response) Document() (*Document, error) {
	doc, ok := r.Value.(*Document)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object in response, got %T", r.Value)
	}
	return doc, nil
}

// Do performs a request against the service. It is the single place where
// HTTP calls are made.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	if method == http.MethodGet && len(r.Params) > 0 {
		if err := r.Params.Validate(); err != nil {
			return nil, err
		}
	}

	endpoint := c.serviceURL + restPrefix + r.Path
	if len(r.Params) > 0 {
		endpoint += "?" + r.Params.values().Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/json")
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}
	c.authorize(req)

	c.log.Debug("sending request", "method", method, "url", endpoint, "request_id", requestID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("request failed", "method", method, "url", endpoint, "error", err)
		return nil, &UnavailableError{URL: c.serviceURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{URL: c.serviceURL,
			Err: fmt.Errorf("failed to read response: %w", err)}
	}
	c.log.Debug("received response", "request_id", requestID, "status", resp.StatusCode)

	out := &Response{StatusCode: resp.StatusCode, Raw: body}

	if r.ExpectStatus != 0 && resp.StatusCode != r.ExpectStatus {
		c.log.Error("unexpected HTTP status",
			"method", method,
			"path", r.Path,
			"status", resp.StatusCode,
			"expected", r.ExpectStatus,
			"body", truncate(body),
		)
		decoded, _ := decodeJSON(body)
		return nil, newAPIError(method, r.Path, resp.StatusCode, r.ExpectStatus, body, decoded)
	}

	if !r.JSON || len(body) == 0 {
		return out, nil
	}

	decoded, err := decodeJSON(body)
	if err != nil {
		// Not every endpoint returns JSON, so the raw body is handed back.
		c.log.Error("failed to decode response", "path", r.Path, "error", err,
			"body", truncate(body))
		return out, nil
	}

	if results, page, ok := unpackEnvelope(decoded); ok {
		c.setPagination(page)
		out.Value = results
		return out, nil
	}
	out.Value = decoded
	return out, nil
}

// unpackEnvelope detects the pagination envelope of list responses and
// returns its results.
func unpackEnvelope(decoded any) ([]*Document, Pagination, bool) {
	doc, ok := decoded.(*Document)
	if !ok || !doc.Has("results") || !doc.Has("totalNumberOfResults") {
		return nil, Pagination{}, false
	}

	var page Pagination
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &page,
	})
	if err != nil {
		return nil, Pagination{}, false
	}
	fields := doc.Map()
	delete(fields, "results")
	if err := dec.Decode(fields); err != nil {
		return nil, Pagination{}, false
	}

	raw, _ := doc.Get("results")
	items, _ := raw.([]any)
	results := make([]*Document, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case map[string]any:
			results = append(results, DocumentFrom(t))
		case *Document:
			results = append(results, t)
		}
	}
	return results, page, true
}
