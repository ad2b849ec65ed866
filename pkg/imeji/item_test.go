package imeji

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(c *Client, path, content string) error {
	return afero.WriteFile(c.fs, path, []byte(content), 0o644)
}

func TestItem_AttachMissingFile(t *testing.T) {
	svc := newMockService(t)
	c := svc.client()

	_, err := c.NewResource("item", Fields{"_file": "/nope.png"})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Contains(t, err.Error(), "/nope.png")

	_, err = c.NewResource("item", Fields{"_file": 42})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestItem_FileIsNotAField(t *testing.T) {
	svc := newMockService(t)
	c := svc.client()
	require.NoError(t, writeFile(c, "/photo.png", "PNG"))

	r, err := c.NewResource("item", Fields{"_file": "/photo.png", "collectionId": "C1"})
	require.NoError(t, err)

	item := r.(*Item)
	assert.Equal(t, "/photo.png", item.File())
	assert.False(t, item.Document().Has("_file"))

	_, err = item.Get("_file")
	assert.True(t, errors.Is(err, ErrMissingField))
}

func TestItem_MetadataMustBeObject(t *testing.T) {
	svc := newMockService(t)
	_, err := svc.client().NewResource("item", Fields{"metadata": "Title=x"})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestItem_SaveWithoutFile(t *testing.T) {
	svc := newMockService(t).
		on("GET", "/items/Wo1JI_oZNyrfxV_t", http.StatusOK, "item.json").
		on("PUT", "/items/Wo1JI_oZNyrfxV_t", http.StatusOK, "item.json")
	ctx := context.Background()

	item, err := svc.client().Item(ctx, "Wo1JI_oZNyrfxV_t")
	require.NoError(t, err)
	require.NoError(t, item.Set("filename", "renamed.tif"))

	_, err = Save(ctx, item)
	require.NoError(t, err)

	req := svc.Last()
	assert.Equal(t, "PUT", req.Method)
	assert.Contains(t, req.ContentType, "multipart/form-data")

	parts := formParts(t, req)
	assert.NotContains(t, parts, "file")
	assert.Contains(t, parts["json"], `"filename":"renamed.tif"`)
	assert.Contains(t, parts["json"], `"id":"Wo1JI_oZNyrfxV_t"`)
}

func TestItem_SaveClearsAttachment(t *testing.T) {
	svc := newMockService(t).on("POST", "/items", http.StatusCreated, "item.json")
	c := svc.client()
	require.NoError(t, writeFile(c, "/photo.png", "PNG"))

	r, err := c.NewResource("item", Fields{"_file": "/photo.png", "collectionId": "FKMxUpYdV9N2J4XG"})
	require.NoError(t, err)
	item := r.(*Item)

	saved, err := Save(context.Background(), item)
	require.NoError(t, err)
	assert.Empty(t, item.File())
	assert.Empty(t, saved.File())
	assert.Equal(t, "Wo1JI_oZNyrfxV_t", saved.ID())

	parts := formParts(t, svc.Last())
	assert.Equal(t, "PNG", parts["file"])
}

func TestItem_SaveFileRemovedBeforeSave(t *testing.T) {
	svc := newMockService(t)
	c := svc.client()
	require.NoError(t, writeFile(c, "/photo.png", "PNG"))

	r, err := c.NewResource("item", Fields{"_file": "/photo.png"})
	require.NoError(t, err)
	require.NoError(t, c.fs.Remove("/photo.png"))

	_, err = r.Save(context.Background())
	assert.ErrorContains(t, err, "failed to read file")
	assert.Empty(t, svc.Requests())
}
