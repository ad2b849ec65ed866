package imeji

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Releasable is implemented by resources that can be published.
type Releasable interface {
	Resource
	Release(ctx context.Context) error
}

// Discardable is implemented by released resources that can be withdrawn.
type Discardable interface {
	Resource
	Discard(ctx context.Context, comment string) error
}

var (
	_ Releasable  = (*Collection)(nil)
	_ Releasable  = (*Album)(nil)
	_ Releasable  = (*Profile)(nil)
	_ Discardable = (*Collection)(nil)
	_ Discardable = (*Album)(nil)
	_ Discardable = (*Profile)(nil)
)

// actionStatus is the status a lifecycle action answers with. In private
// mode the service refuses it with 405, which is the expected outcome.
func (r *resource) actionStatus() int {
	if r.client.restricted {
		return http.StatusMethodNotAllowed
	}
	return http.StatusOK
}

func (r *resource) release(ctx context.Context) error {
	_, err := r.client.Do(ctx, Request{
		Method:       http.MethodPut,
		Path:         r.Path(false) + "/release",
		ExpectStatus: r.actionStatus(),
	})
	return err
}

func (r *resource) discard(ctx context.Context, comment string) error {
	form := url.Values{"discardComment": {comment}}
	_, err := r.client.Do(ctx, Request{
		Method:       http.MethodPut,
		Path:         r.Path(false) + "/discard",
		Body:         strings.NewReader(form.Encode()),
		ContentType:  "application/x-www-form-urlencoded",
		ExpectStatus: r.actionStatus(),
	})
	return err
}
