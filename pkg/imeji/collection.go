package imeji

import (
	"context"
	"fmt"
	"net/http"
)

// Collection holds items that share a metadata profile.
type Collection struct {
	resource
}

var _ Resource = (*Collection)(nil)

func newCollection(doc *Document, c *Client, parent Resource) (*Collection, error) {
	col := &Collection{}
	col.init(KindCollection, KindCollection.String(), c, parent, col.coerceField)
	if err := col.hydrate(doc); err != nil {
		return nil, err
	}
	return col, nil
}

// coerceField normalizes the profile field. A bare profile id or a *Profile
// becomes {"profileId": id, "method": "copy"}.
func (col *Collection) coerceField(field string, value any) (any, bool, error) {
	if field != "profile" {
		return value, true, nil
	}
	switch v := value.(type) {
	case string:
		return profileRef(v), true, nil
	case *Profile:
		if v.ID() == "" {
			return nil, false, fmt.Errorf("%w: profile has no id", ErrInvalidArgument)
		}
		return profileRef(v.ID()), true, nil
	default:
		return value, true, nil
	}
}

func profileRef(id string) map[string]any {
	return map[string]any{"profileId": id, "method": "copy"}
}

func (col *Collection) Title() string       { return col.str("title") }
func (col *Collection) Description() string { return col.str("description") }

func (col *Collection) Save(ctx context.Context) (Resource, error) {
	doc, err := col.saveJSON(ctx)
	if err != nil {
		return nil, err
	}
	return newCollection(doc, col.client, col.parent)
}

// Items lists the items of the collection.
func (col *Collection) Items(ctx context.Context, params Params) (*ResultSet[*Item], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	resp, err := col.client.Do(ctx, Request{
		Path:         col.Path(false) + "/items",
		Params:       params,
		ExpectStatus: http.StatusOK,
		JSON:         true,
	})
	if err != nil {
		return nil, err
	}
	refs, err := toReferences(resp.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to list items of collection %s: %w", col.ID(), err)
	}

	items := newResultSet[*Item]()
	for _, id := range refs.IDs() {
		doc, _ := refs.Get(id)
		item, err := newItem(doc, col.client, nil)
		if err != nil {
			return nil, err
		}
		items.add(id, item)
	}
	return items, nil
}

// AddItem creates an item in the collection.
func (col *Collection) AddItem(ctx context.Context, fields Fields) (*Item, error) {
	item, err := newItem(nil, col.client, nil)
	if err != nil {
		return nil, err
	}
	if err := applyFields(item, fields); err != nil {
		return nil, err
	}
	if err := item.Set("collectionId", col.ID()); err != nil {
		return nil, err
	}
	return Save(ctx, item)
}

// ItemTemplate fetches an unsaved item shaped by the collection's metadata
// profile.
func (col *Collection) ItemTemplate(ctx context.Context) (*Item, error) {
	return itemTemplate(ctx, col.client, col.Path(false)+"/items/template")
}

func (col *Collection) Release(ctx context.Context) error { return col.release(ctx) }

func (col *Collection) Discard(ctx context.Context, comment string) error {
	return col.discard(ctx, comment)
}

func itemTemplate(ctx context.Context, c *Client, path string) (*Item, error) {
	resp, err := c.Do(ctx, Request{
		Path:         path,
		ExpectStatus: http.StatusOK,
		JSON:         true,
	})
	if err != nil {
		return nil, err
	}
	doc, err := resp.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item template: %w", err)
	}
	return newItem(doc, c, nil)
}
