package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princeprakhar/eyewear-backend/internal/locale"
	"github.com/princeprakhar/eyewear-backend/internal/models"
)

type countingFetcher struct {
	pages map[uint]*models.Page
	calls int
}

func (f *countingFetcher) FetchByID(_ context.Context, id uint) (*models.Page, error) {
	f.calls++
	p, ok := f.pages[id]
	if !ok {
		return nil, errors.New("page not found")
	}
	return p, nil
}

func setupCache(t *testing.T) (*ReadThrough[*models.Page], *countingFetcher, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	page := &models.Page{ID: 3, Title: "Livraison", Slug: "shipping"}
	page.AssignDocument("doc-1", "fr")
	page.SetLocalizations([]locale.Ref{{ID: 1, Locale: "en"}})

	next := &countingFetcher{pages: map[uint]*models.Page{3: page}}
	return NewReadThrough[*models.Page](client, "page", time.Minute, next), next, mr
}

func TestReadThrough_MissThenHit(t *testing.T) {
	c, next, mr := setupCache(t)
	ctx := context.Background()

	first, err := c.FetchByID(ctx, 3)
	require.NoError(t, err)
	assert.True(t, mr.Exists("content:page:3"))

	second, err := c.FetchByID(ctx, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, "fr", second.Locale)
	assert.Equal(t, []locale.Ref{{ID: 1, Locale: "en"}}, second.Localizations)
}

func TestReadThrough_TTL(t *testing.T) {
	c, next, mr := setupCache(t)
	ctx := context.Background()

	_, err := c.FetchByID(ctx, 3)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = c.FetchByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestReadThrough_Invalidate(t *testing.T) {
	c, next, mr := setupCache(t)
	ctx := context.Background()

	_, err := c.FetchByID(ctx, 3)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, 3))
	assert.False(t, mr.Exists("content:page:3"))

	_, err = c.FetchByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestReadThrough_MissingRecordNotCached(t *testing.T) {
	c, _, mr := setupCache(t)

	_, err := c.FetchByID(context.Background(), 99)

	assert.Error(t, err)
	assert.False(t, mr.Exists("content:page:99"))
}

func TestReadThrough_RedisDownFallsThrough(t *testing.T) {
	c, next, mr := setupCache(t)
	mr.Close()

	page, err := c.FetchByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "Livraison", page.Title)
	assert.Equal(t, 1, next.calls)
}

func TestReadThrough_CorruptEntryRefetched(t *testing.T) {
	c, next, mr := setupCache(t)
	require.NoError(t, mr.Set("content:page:3", "{not json"))

	page, err := c.FetchByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, uint(3), page.ID)
	assert.Equal(t, 1, next.calls)
}
