package imeji

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// Options configures a Client.
type Options struct {
	// ServiceURL is the base URL of the imeji instance, without the /rest
	// suffix. Example: "http://localhost:8080/imeji"
	ServiceURL string

	// User and Password enable HTTP basic auth when both are set.
	User     string
	Password string

	// Restricted is set when the service runs in private mode, where release
	// and discard are refused with 405 Method Not Allowed.
	Restricted bool

	// Contributor is injected into new collections and albums without
	// contributors. Defaults to DefaultContributor.
	Contributor *Contributor

	// HTTPClient defaults to a client with a 30 second timeout.
	HTTPClient *http.Client

	// Logger defaults to a null logger.
	Logger hclog.Logger

	// Fs is used to read local file attachments. Defaults to the OS
	// filesystem.
	Fs afero.Fs
}

// Pagination holds the counters of a paginated list response.
type Pagination struct {
	TotalNumberOfResults int `mapstructure:"totalNumberOfResults"`
	NumberOfResults      int `mapstructure:"numberOfResults"`
	Offset               int `mapstructure:"offset"`
	Size                 int `mapstructure:"size"`
}

// Client talks to the REST API of an imeji instance.
//
// The pagination counters are overwritten by every paginated response;
// callers sharing a client must read Pagination right after their own list
// call.
type Client struct {
	serviceURL  string
	user        string
	password    string
	restricted  bool
	contributor Contributor
	httpClient  *http.Client
	log         hclog.Logger
	fs          afero.Fs

	mu         sync.Mutex
	pagination Pagination
}

// New creates a client and probes the service. It fails with an error
// matching ErrServiceUnavailable when the service cannot be reached.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.ServiceURL == "" {
		return nil, fmt.Errorf("%w: service URL is required", ErrInvalidArgument)
	}
	u, err := url.Parse(opts.ServiceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid service URL: %v", ErrInvalidArgument, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: service URL must use http or https scheme, got: %q",
			ErrInvalidArgument, u.Scheme)
	}

	c := &Client{
		serviceURL:  strings.TrimRight(opts.ServiceURL, "/"),
		user:        opts.User,
		password:    opts.Password,
		restricted:  opts.Restricted,
		contributor: DefaultContributor,
		httpClient:  opts.HTTPClient,
		log:         opts.Logger,
		fs:          opts.Fs,
	}
	if opts.Contributor != nil {
		c.contributor = *opts.Contributor
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.log == nil {
		c.log = hclog.NewNullLogger()
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}

	if err := c.ping(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ping checks that the service answers at all.
func (c *Client) ping(ctx context.Context) error {
	endpoint := c.serviceURL + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("imeji service unreachable", "url", endpoint, "error", err)
		return &UnavailableError{URL: c.serviceURL, Err: err}
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		c.log.Error("imeji service not healthy", "url", endpoint, "status", resp.StatusCode)
		return &UnavailableError{URL: c.serviceURL,
			Err: fmt.Errorf("liveness probe returned status %d", resp.StatusCode)}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.user != "" && c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}
}

// ServiceURL returns the base URL of the service.
func (c *Client) ServiceURL() string { return c.serviceURL }

// Restricted reports whether the service runs in private mode.
func (c *Client) Restricted() bool { return c.restricted }

// Pagination returns the counters of the most recent paginated response.
func (c *Client) Pagination() Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

func (c *Client) setPagination(p Pagination) {
	c.mu.Lock()
	c.pagination = p
	c.mu.Unlock()
}

// Dispatch returns the dispatcher for a kind name. Plural names ("items")
// list, singular names ("item") fetch one resource.
func (c *Client) Dispatch(name string) (*Dispatcher, error) {
	return newDispatcher(c, name)
}

// NewResource builds an unsaved resource of the named kind.
func (c *Client) NewResource(kind string, fields Fields) (Resource, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	r, err := newResource(k, nil, c, nil)
	if err != nil {
		return nil, err
	}
	if err := applyFields(r, fields); err != nil {
		return nil, err
	}
	if k == KindCollection || k == KindAlbum {
		withContributor(r.Document(), c.contributor)
	}
	return r, nil
}

// Create builds a resource of the named kind from fields and saves it.
func (c *Client) Create(ctx context.Context, kind string, fields Fields) (Resource, error) {
	r, err := c.NewResource(kind, fields)
	if err != nil {
		return nil, err
	}
	return r.Save(ctx)
}

// CreateResource saves an unsaved resource.
func (c *Client) CreateResource(ctx context.Context, r Resource) (Resource, error) {
	if r.ID() != "" {
		return nil, fmt.Errorf("%w: %s %s already exists", ErrInvalidArgument, r.Name(), r.ID())
	}
	return r.Save(ctx)
}

// Update applies fields through Set and saves the resource.
func (c *Client) Update(ctx context.Context, r Resource, fields Fields) (Resource, error) {
	if err := applyFields(r, fields); err != nil {
		return nil, err
	}
	return r.Save(ctx)
}

// Delete deletes the resource.
func (c *Client) Delete(ctx context.Context, r Resource) error {
	return r.Delete(ctx)
}

// applyFields sets fields in sorted order so the resulting document is
// deterministic.
func applyFields(r Resource, fields Fields) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := r.Set(k, fields[k]); err != nil {
			return err
		}
	}
	return nil
}

// Collections lists collections.
func (c *Client) Collections(ctx context.Context, params Params) (*References, error) {
	return c.list(ctx, "collections", params)
}

// Collection fetches one collection.
func (c *Client) Collection(ctx context.Context, id string) (*Collection, error) {
	return fetch[*Collection](ctx, c, "collection", id)
}

// Items lists items.
func (c *Client) Items(ctx context.Context, params Params) (*References, error) {
	return c.list(ctx, "items", params)
}

// Item fetches one item.
func (c *Client) Item(ctx context.Context, id string) (*Item, error) {
	return fetch[*Item](ctx, c, "item", id)
}

// Albums lists albums.
func (c *Client) Albums(ctx context.Context, params Params) (*References, error) {
	return c.list(ctx, "albums", params)
}

// Album fetches one album.
func (c *Client) Album(ctx context.Context, id string) (*Album, error) {
	return fetch[*Album](ctx, c, "album", id)
}

// Profiles lists metadata profiles.
func (c *Client) Profiles(ctx context.Context, params Params) (*References, error) {
	return c.list(ctx, "profiles", params)
}

// Profile fetches one metadata profile.
func (c *Client) Profile(ctx context.Context, id string) (*Profile, error) {
	return fetch[*Profile](ctx, c, "profile", id)
}

func (c *Client) list(ctx context.Context, name string, params Params) (*References, error) {
	d, err := c.Dispatch(name)
	if err != nil {
		return nil, err
	}
	return d.List(ctx, params)
}

func fetch[T Resource](ctx context.Context, c *Client, name, id string) (T, error) {
	var zero T
	d, err := c.Dispatch(name)
	if err != nil {
		return zero, err
	}
	r, err := d.Fetch(ctx, id)
	if err != nil {
		return zero, err
	}
	typed, ok := r.(T)
	if !ok {
		return zero, errors.New("unexpected resource type for " + name)
	}
	return typed, nil
}
