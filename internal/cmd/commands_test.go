package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/imeji/internal/cmd/base"
	"github.com/hashicorp-forge/imeji/internal/cmd/commands/retrieve"
	"github.com/hashicorp-forge/imeji/internal/config"
)

const (
	configPath = "/home/user/.config/imeji/config.hcl"

	collectionJSON = `{
		"id": "FKMxUpYdV9N2J4XG",
		"createdDate": "2014-10-09T13:01:25 +0200",
		"title": "Research Data",
		"version": 0
	}`
	itemJSON = `{"id": "Wo1JI_oZNyrfxV_t", "collectionId": "FKMxUpYdV9N2J4XG", "filename": "photo.png"}`
)

type request struct {
	method string
	path   string
	query  string
	body   string
}

type service struct {
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string][2]any
	requests []request
}

func newService(t *testing.T) *service {
	s := &service{routes: map[string][2]any{"HEAD /": {http.StatusOK, ""}}}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		path := strings.TrimPrefix(r.URL.Path, "/rest")

		s.mu.Lock()
		if r.Method != http.MethodHead {
			s.requests = append(s.requests, request{r.Method, path, r.URL.RawQuery, string(b)})
		}
		rt, ok := s.routes[r.Method+" "+path]
		s.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(rt[0].(int))
		io.WriteString(w, rt[1].(string))
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *service) on(method, path string, status int, body string) *service {
	s.mu.Lock()
	s.routes[method+" "+path] = [2]any{status, body}
	s.mu.Unlock()
	return s
}

func (s *service) last(t *testing.T) request {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.requests)
	return s.requests[len(s.requests)-1]
}

type harness struct {
	fs     afero.Fs
	opened []string
}

func newHarness(t *testing.T, configHCL string) *harness {
	t.Helper()
	for _, name := range []string{
		config.EnvServiceURL, config.EnvUser, config.EnvPassword, config.EnvMode, "IMEJI_LOG_LEVEL",
	} {
		t.Setenv(name, "")
	}
	h := &harness{fs: afero.NewMemMapFs()}
	if configHCL != "" {
		require.NoError(t, afero.WriteFile(h.fs, configPath, []byte(configHCL), 0o600))
	}
	return h
}

// run executes the named command against serviceURL.
func (h *harness) run(t *testing.T, serviceURL, name string, args ...string) (int, *cli.MockUi) {
	t.Helper()
	ui := cli.NewMockUi()
	b := base.New(hclog.NewNullLogger(), ui)
	b.Fs = h.fs
	b.OpenURL = func(u string) error {
		h.opened = append(h.opened, u)
		return nil
	}

	factory, ok := commands(b)[name]
	require.True(t, ok, "unknown command %s", name)
	c, err := factory()
	require.NoError(t, err)

	flags := []string{"-config=" + configPath}
	if serviceURL != "" {
		flags = append(flags, "-service="+serviceURL)
	}
	return c.Run(append(flags, args...)), ui
}

func TestCreate(t *testing.T) {
	svc := newService(t).on("POST", "/collections", http.StatusCreated, collectionJSON)
	h := newHarness(t, "")

	code, ui := h.run(t, svc.server.URL, "create", "collection", "title=Research Data;description=Field work")
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), `"id": "FKMxUpYdV9N2J4XG"`)

	body := svc.last(t).body
	assert.Contains(t, body, `"title":"Research Data"`)
	assert.Contains(t, body, `"description":"Field work"`)
	assert.Contains(t, body, `"contributors"`)

	exists, err := afero.Exists(h.fs, configPath)
	require.NoError(t, err)
	assert.True(t, exists, "config file should be created on first run")
}

func TestCreate_ContributorFromConfig(t *testing.T) {
	svc := newService(t).on("POST", "/albums", http.StatusCreated, `{"id":"A1"}`)
	h := newHarness(t, `
contributor {
  family_name  = "Doe"
  organization = "MPDL"
}
`)

	code, ui := h.run(t, svc.server.URL, "create", "album", "title=Favourites")
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, svc.last(t).body, `"familyName":"Doe"`)
}

func TestCreate_ItemWithFile(t *testing.T) {
	svc := newService(t).on("POST", "/items", http.StatusCreated, itemJSON)
	h := newHarness(t, "")
	require.NoError(t, afero.WriteFile(h.fs, "/data/photo.png", []byte("PNG DATA"), 0o644))

	code, ui := h.run(t, svc.server.URL, "create", "item",
		"_file=/data/photo.png;collectionId=FKMxUpYdV9N2J4XG")
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	body := svc.last(t).body
	assert.Contains(t, body, `name="json"`)
	assert.Contains(t, body, `filename="photo.png"`)
	assert.Contains(t, body, "PNG DATA")
}

func TestCreate_Errors(t *testing.T) {
	svc := newService(t)
	h := newHarness(t, "")

	code, ui := h.run(t, svc.server.URL, "create", "collection", "title")
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "expected key=value")

	code, ui = h.run(t, svc.server.URL, "create", "widget", "title=x")
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "unknown resource kind")

	code, ui = h.run(t, svc.server.URL, "create", "item", "_file=/missing.png")
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "does not exist")

	code, _ = h.run(t, svc.server.URL, "create")
	assert.Equal(t, 1, code)
}

func TestRetrieve(t *testing.T) {
	svc := newService(t).on("GET", "/collections/FKMxUpYdV9N2J4XG", http.StatusOK, collectionJSON)
	h := newHarness(t, "")

	code, ui := h.run(t, svc.server.URL, "retrieve", "-browser", "collection", "FKMxUpYdV9N2J4XG")
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), `"title": "Research Data"`)
	assert.Equal(t, []string{svc.server.URL + "/collection/FKMxUpYdV9N2J4XG"}, h.opened)
}

func TestRetrieve_YAML(t *testing.T) {
	svc := newService(t).on("GET", "/collections/FKMxUpYdV9N2J4XG", http.StatusOK, collectionJSON)
	h := newHarness(t, "")

	code, ui := h.run(t, svc.server.URL, "retrieve", "-format=yaml", "collection", "FKMxUpYdV9N2J4XG")
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "title: Research Data\n")
	assert.Contains(t, ui.OutputWriter.String(), "version: 0\n")
	assert.Empty(t, h.opened)
}

func TestRetrieve_Errors(t *testing.T) {
	svc := newService(t)
	h := newHarness(t, "")

	code, ui := h.run(t, svc.server.URL, "retrieve", "collections", "FKMxUpYdV9N2J4XG")
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "is a list")

	code, ui = h.run(t, svc.server.URL, "retrieve", "item", "missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "got HTTP 404, expected HTTP 200")

	code, ui = h.run(t, svc.server.URL, "retrieve", "-format=xml", "item", "x")
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "unsupported output format")
}

func TestRetrieve_ServiceFromConfig(t *testing.T) {
	svc := newService(t).on("GET", "/items/Wo1JI_oZNyrfxV_t", http.StatusOK, itemJSON)
	h := newHarness(t, "service {\n  url = \""+svc.server.URL+"\"\n}\n")

	code, ui := h.run(t, "", "retrieve", "item", "Wo1JI_oZNyrfxV_t")
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "photo.png")
}

func TestNoServiceConfigured(t *testing.T) {
	h := newHarness(t, "")

	code, ui := h.run(t, "", "retrieve", "item", "x")
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "no service URL configured")
}

func TestServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	serviceURL := srv.URL
	srv.Close()
	h := newHarness(t, "")

	code, ui := h.run(t, serviceURL, "retrieve", "item", "x")
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "unavailable")
	assert.Contains(t, ui.ErrorWriter.String(), "-service")
}

func TestList(t *testing.T) {
	svc := newService(t).on("GET", "/collections", http.StatusOK, `{
		"totalNumberOfResults": 3,
		"numberOfResults": 1,
		"offset": 2,
		"size": 1,
		"results": [{"id": "FKMxUpYdV9N2J4XG", "title": "Research Data"}]
	}`)
	h := newHarness(t, "")

	code, ui := h.run(t, svc.server.URL, "list", "-q", "Research", "-size", "1", "-offset", "2", "collections")
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), `"FKMxUpYdV9N2J4XG": {`)

	q, err := url.ParseQuery(svc.last(t).query)
	require.NoError(t, err)
	assert.Equal(t, "Research", q.Get("q"))
	assert.Equal(t, "1", q.Get("size"))
	assert.Equal(t, "2", q.Get("offset"))
}

func TestList_RequiresPlural(t *testing.T) {
	svc := newService(t)
	h := newHarness(t, "")

	code, ui := h.run(t, svc.server.URL, "list", "collection")
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "does not name a list")
}

func TestDelete_AggregatesFailures(t *testing.T) {
	svc := newService(t).
		on("GET", "/items/a", http.StatusOK, `{"id":"a"}`).
		on("DELETE", "/items/a", http.StatusNoContent, "").
		on("GET", "/items/c", http.StatusOK, `{"id":"c"}`).
		on("DELETE", "/items/c", http.StatusForbidden, "")
	h := newHarness(t, "")

	code, ui := h.run(t, svc.server.URL, "delete", "item", "a", "b", "c")
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.OutputWriter.String(), "Deleted item a")

	errOut := ui.ErrorWriter.String()
	assert.Contains(t, errOut, "2 errors occurred")
	assert.Contains(t, errOut, "item b")
	assert.Contains(t, errOut, "item c")
}

func TestDelete(t *testing.T) {
	svc := newService(t).
		on("GET", "/albums/A1", http.StatusOK, `{"id":"A1"}`).
		on("DELETE", "/albums/A1", http.StatusNoContent, "")
	h := newHarness(t, "")

	code, ui := h.run(t, svc.server.URL, "delete", "album", "A1")
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Equal(t, "DELETE", svc.last(t).method)
}

func TestRelease(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		status   int
		wantCode int
	}{
		{"public", "", http.StatusOK, 0},
		{"private", "service {\n  mode = \"private\"\n}\n", http.StatusMethodNotAllowed, 0},
		{"private refused unexpectedly", "", http.StatusMethodNotAllowed, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t).
				on("GET", "/collections/FKMxUpYdV9N2J4XG", http.StatusOK, collectionJSON).
				on("PUT", "/collections/FKMxUpYdV9N2J4XG/release", tt.status, "")
			h := newHarness(t, tt.config)

			code, ui := h.run(t, svc.server.URL, "release", "collection", "FKMxUpYdV9N2J4XG")
			assert.Equal(t, tt.wantCode, code, ui.ErrorWriter.String())
		})
	}
}

func TestRelease_Item(t *testing.T) {
	svc := newService(t).on("GET", "/items/Wo1JI_oZNyrfxV_t", http.StatusOK, itemJSON)
	h := newHarness(t, "")

	code, ui := h.run(t, svc.server.URL, "release", "item", "Wo1JI_oZNyrfxV_t")
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "item resources cannot be released")
}

func TestDiscard(t *testing.T) {
	svc := newService(t).
		on("GET", "/albums/A1", http.StatusOK, `{"id":"A1"}`).
		on("PUT", "/albums/A1/discard", http.StatusOK, "")
	h := newHarness(t, "")

	code, ui := h.run(t, svc.server.URL, "discard", "album", "A1")
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "comment flag is required")

	code, ui = h.run(t, svc.server.URL, "discard", "-comment", "duplicate", "album", "A1")
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Equal(t, "discardComment=duplicate", svc.last(t).body)
}

func TestVersion(t *testing.T) {
	ui := cli.NewMockUi()
	c, err := commands(base.New(hclog.NewNullLogger(), ui))["version"]()
	require.NoError(t, err)

	assert.Equal(t, 0, c.Run(nil))
	assert.True(t, strings.HasPrefix(ui.OutputWriter.String(), "imeji "))
}

func TestWebURL(t *testing.T) {
	r := fakeResource{name: "album", id: "A1"}
	assert.Equal(t, "http://localhost:8080/imeji/album/A1",
		retrieve.WebURL("http://localhost:8080/imeji/", r))
}

type fakeResource struct{ name, id string }

func (f fakeResource) Name() string { return f.name }
func (f fakeResource) ID() string   { return f.id }
