package imeji

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// route is a canned answer of the mock service.
type route struct {
	status int
	body   string
}

// recorded is a request received by the mock service, with the /rest prefix
// stripped from its path.
type recorded struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	Body        []byte
	Header      http.Header
}

// mockService answers requests from a route table keyed by "METHOD path".
type mockService struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]route
	requests []recorded
}

func newMockService(t *testing.T) *mockService {
	t.Helper()
	m := &mockService{
		t:      t,
		routes: map[string]route{"HEAD /": {status: http.StatusOK}},
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.serveHTTP))
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockService) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, restPrefix)
	if path == "" {
		path = "/"
	}

	m.mu.Lock()
	if r.URL.Path != "/" {
		m.requests = append(m.requests, recorded{
			Method:      r.Method,
			Path:        path,
			Query:       r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
			Header:      r.Header.Clone(),
		})
	}
	rt, ok := m.routes[r.Method+" "+path]
	m.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if rt.body != "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(rt.status)
	io.WriteString(w, rt.body)
}

// on registers a route. A body ending in .json is read from testdata.
func (m *mockService) on(method, path string, status int, body string) *mockService {
	m.t.Helper()
	if strings.HasSuffix(body, ".json") {
		body = fixture(m.t, body)
	}
	m.mu.Lock()
	m.routes[method+" "+path] = route{status: status, body: body}
	m.mu.Unlock()
	return m
}

// Requests returns the API requests received so far. The liveness probe is
// not included.
func (m *mockService) Requests() []recorded {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recorded(nil), m.requests...)
}

// Last returns the most recent API request.
func (m *mockService) Last() recorded {
	m.t.Helper()
	reqs := m.Requests()
	require.NotEmpty(m.t, reqs, "no request received")
	return reqs[len(reqs)-1]
}

func (m *mockService) URL() string { return m.server.URL }

// client returns a client for the mock service with an in-memory filesystem.
func (m *mockService) client(opts ...func(*Options)) *Client {
	m.t.Helper()
	o := Options{
		ServiceURL: m.server.URL,
		User:       "admin",
		Password:   "secret",
		Logger:     hclog.NewNullLogger(),
		Fs:         afero.NewMemMapFs(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	c, err := New(context.Background(), o)
	require.NoError(m.t, err)
	return c
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

// formParts returns the parts of a multipart request by form name.
func formParts(t *testing.T, r recorded) map[string]string {
	t.Helper()
	_, params, err := mime.ParseMediaType(r.ContentType)
	require.NoError(t, err)

	parts := make(map[string]string)
	mr := multipart.NewReader(strings.NewReader(string(r.Body)), params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(p)
		require.NoError(t, err)
		parts[p.FormName()] = string(b)
	}
	return parts
}
