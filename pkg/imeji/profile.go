package imeji

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

// Profile is a metadata profile: the statements items of a collection are
// described with.
type Profile struct {
	resource
}

var _ Resource = (*Profile)(nil)

func newProfile(doc *Document, c *Client, parent Resource) (*Profile, error) {
	p := &Profile{}
	p.init(KindProfile, KindProfile.String(), c, parent, nil)
	if err := p.hydrate(doc); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) Title() string { return p.str("title") }

// Default reports whether this is the instance's default profile.
func (p *Profile) Default() bool {
	v, _ := p.doc.Get("default")
	b, _ := v.(bool)
	return b
}

// Statements returns the metadata statements of the profile.
func (p *Profile) Statements() []any {
	v, _ := p.doc.Get("statements")
	s, _ := v.([]any)
	return s
}

func (p *Profile) Save(ctx context.Context) (Resource, error) {
	doc, err := p.saveJSON(ctx)
	if err != nil {
		return nil, err
	}
	return newProfile(doc, p.client, p.parent)
}

// ItemTemplate fetches an unsaved item shaped by the profile.
func (p *Profile) ItemTemplate(ctx context.Context) (*Item, error) {
	return itemTemplate(ctx, p.client, p.Path(false)+"/template")
}

// Copy creates a duplicate of the profile. The service refuses to copy the
// default profile while its default flag is still set.
func (p *Profile) Copy(ctx context.Context) (*Profile, error) {
	body, err := p.doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize profile: %w", err)
	}
	resp, err := p.client.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         p.Path(true),
		Body:         bytes.NewReader(body),
		ContentType:  "application/json",
		ExpectStatus: http.StatusCreated,
		JSON:         true,
	})
	if err != nil {
		return nil, err
	}
	doc, err := resp.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to copy profile %s: %w", p.ID(), err)
	}
	return newProfile(doc, p.client, p.parent)
}

func (p *Profile) Release(ctx context.Context) error { return p.release(ctx) }

func (p *Profile) Discard(ctx context.Context, comment string) error {
	return p.discard(ctx, comment)
}
