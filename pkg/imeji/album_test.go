package imeji

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlbum_LinkUnlinkMembers(t *testing.T) {
	svc := newMockService(t).
		on("GET", "/albums/MAlOuZ4Y9iDR_", http.StatusOK, "album.json").
		on("PUT", "/albums/MAlOuZ4Y9iDR_/members/link", http.StatusOK, "").
		on("PUT", "/albums/MAlOuZ4Y9iDR_/members/unlink", http.StatusNoContent, "")
	ctx := context.Background()

	album, err := svc.client().Album(ctx, "MAlOuZ4Y9iDR_")
	require.NoError(t, err)

	require.NoError(t, album.Link(ctx, []string{"Wo1JI_oZNyrfxV_t"}))
	req := svc.Last()
	assert.Equal(t, "/albums/MAlOuZ4Y9iDR_/members/link", req.Path)
	var ids []string
	require.NoError(t, json.Unmarshal(req.Body, &ids))
	assert.Equal(t, []string{"Wo1JI_oZNyrfxV_t"}, ids)

	svc.on("GET", "/albums/MAlOuZ4Y9iDR_/items", http.StatusOK, "["+fixture(t, "item.json")+"]")
	members, err := album.Members(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Wo1JI_oZNyrfxV_t"}, members.IDs())

	require.NoError(t, album.Unlink(ctx, []string{"Wo1JI_oZNyrfxV_t"}))
	assert.Equal(t, "/albums/MAlOuZ4Y9iDR_/members/unlink", svc.Last().Path)

	svc.on("GET", "/albums/MAlOuZ4Y9iDR_/items", http.StatusOK, "[]")
	members, err = album.Members(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, members.Len())
}

func TestAlbum_LinkEmpty(t *testing.T) {
	svc := newMockService(t).
		on("GET", "/albums/MAlOuZ4Y9iDR_", http.StatusOK, "album.json").
		on("PUT", "/albums/MAlOuZ4Y9iDR_/members/link", http.StatusOK, "")
	ctx := context.Background()

	album, err := svc.client().Album(ctx, "MAlOuZ4Y9iDR_")
	require.NoError(t, err)
	require.NoError(t, album.Link(ctx, nil))
	assert.Equal(t, "[]", string(svc.Last().Body))
}

func TestAlbum_Member(t *testing.T) {
	svc := newMockService(t).
		on("GET", "/albums/MAlOuZ4Y9iDR_", http.StatusOK, "album.json").
		on("GET", "/albums/MAlOuZ4Y9iDR_/items", http.StatusOK, "["+fixture(t, "item.json")+"]").
		on("DELETE", "/albums/MAlOuZ4Y9iDR_/items/Wo1JI_oZNyrfxV_t", http.StatusNoContent, "")
	ctx := context.Background()

	album, err := svc.client().Album(ctx, "MAlOuZ4Y9iDR_")
	require.NoError(t, err)

	missing, err := album.Member(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)

	member, err := album.Member(ctx, "Wo1JI_oZNyrfxV_t")
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, KindResource, member.Kind())
	assert.Equal(t, album, member.Parent())
	assert.Equal(t, "/albums/MAlOuZ4Y9iDR_/items/Wo1JI_oZNyrfxV_t", member.Path(false))

	require.NoError(t, member.Delete(ctx))
	assert.Equal(t, "DELETE", svc.Last().Method)
}

func TestAlbum_ReleaseRestricted(t *testing.T) {
	svc := newMockService(t).
		on("GET", "/albums/MAlOuZ4Y9iDR_", http.StatusOK, "album.json").
		on("PUT", "/albums/MAlOuZ4Y9iDR_/release", http.StatusMethodNotAllowed, "")
	c := svc.client(func(o *Options) { o.Restricted = true })
	ctx := context.Background()

	album, err := c.Album(ctx, "MAlOuZ4Y9iDR_")
	require.NoError(t, err)
	assert.NoError(t, album.Release(ctx))
}
