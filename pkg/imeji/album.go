package imeji

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Album is a curated set of references to items from any collection.
type Album struct {
	resource
}

var _ Resource = (*Album)(nil)

func newAlbum(doc *Document, c *Client, parent Resource) (*Album, error) {
	a := &Album{}
	a.init(KindAlbum, KindAlbum.String(), c, parent, nil)
	if err := a.hydrate(doc); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Album) Title() string { return a.str("title") }

func (a *Album) Save(ctx context.Context) (Resource, error) {
	doc, err := a.saveJSON(ctx)
	if err != nil {
		return nil, err
	}
	return newAlbum(doc, a.client, a.parent)
}

// Members lists the items referenced by the album.
func (a *Album) Members(ctx context.Context, params Params) (*References, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	resp, err := a.client.Do(ctx, Request{
		Path:         a.Path(false) + "/items",
		Params:       params,
		ExpectStatus: http.StatusOK,
		JSON:         true,
	})
	if err != nil {
		return nil, err
	}
	refs, err := toReferences(resp.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of album %s: %w", a.ID(), err)
	}
	return refs, nil
}

// Member returns the member with the given id, addressed below the album.
// It returns nil without error when the album has no such member.
func (a *Album) Member(ctx context.Context, id string) (*Generic, error) {
	members, err := a.Members(ctx, nil)
	if err != nil {
		return nil, err
	}
	doc, ok := members.Get(id)
	if !ok {
		return nil, nil
	}
	return newGeneric(KindItem.String(), doc, a.client, a)
}

// Link adds the items to the album.
func (a *Album) Link(ctx context.Context, ids []string) error {
	return a.members(ctx, "link", ids, http.StatusOK)
}

// Unlink removes the items from the album.
func (a *Album) Unlink(ctx context.Context, ids []string) error {
	return a.members(ctx, "unlink", ids, http.StatusNoContent)
}

func (a *Album) members(ctx context.Context, action string, ids []string, expect int) error {
	if ids == nil {
		ids = []string{}
	}
	body, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	_, err = a.client.Do(ctx, Request{
		Method:       http.MethodPut,
		Path:         a.Path(false) + "/members/" + action,
		Body:         bytes.NewReader(body),
		ContentType:  "application/json",
		ExpectStatus: expect,
	})
	return err
}

func (a *Album) Release(ctx context.Context) error { return a.release(ctx) }

func (a *Album) Discard(ctx context.Context, comment string) error {
	return a.discard(ctx, comment)
}
