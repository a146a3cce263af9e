package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/database/databasetest"
	"github.com/princeprakhar/eyewear-backend/internal/locale"
	"github.com/princeprakhar/eyewear-backend/internal/models"
)

func newPageRepo(t *testing.T) *LocalizedRepo[models.Page, *models.Page] {
	t.Helper()
	return NewLocalizedRepo[models.Page, *models.Page](databasetest.New(t), "page")
}

func TestLocalizedRepo_CreateGroupsTranslations(t *testing.T) {
	ctx := context.Background()
	repo := newPageRepo(t)

	en := &models.Page{Title: "Shipping", Slug: "shipping"}
	require.NoError(t, repo.Create(ctx, en, "EN", 0))
	assert.Equal(t, "en", en.Locale)
	assert.NotEmpty(t, en.DocumentID)
	assert.Empty(t, en.Localizations)

	fr := &models.Page{Title: "Livraison", Slug: "shipping"}
	require.NoError(t, repo.Create(ctx, fr, "fr", en.ID))
	assert.Equal(t, en.DocumentID, fr.DocumentID)
	assert.Equal(t, []locale.Ref{{ID: en.ID, Locale: "en"}}, fr.Localizations)

	reloaded, err := repo.FetchByID(ctx, en.ID)
	require.NoError(t, err)
	assert.Equal(t, []locale.Ref{{ID: fr.ID, Locale: "fr"}}, reloaded.Localizations)
}

func TestLocalizedRepo_CreateRejectsDuplicateLocale(t *testing.T) {
	ctx := context.Background()
	repo := newPageRepo(t)

	en := &models.Page{Title: "Returns", Slug: "returns"}
	require.NoError(t, repo.Create(ctx, en, "en", 0))
	require.NoError(t, repo.Create(ctx, &models.Page{Title: "Retours", Slug: "returns"}, "fr", en.ID))

	err := repo.Create(ctx, &models.Page{Title: "Retours 2", Slug: "returns"}, "fr", en.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = repo.Create(ctx, &models.Page{Title: "Returns 2", Slug: "returns"}, "en", en.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLocalizedRepo_CreateLosingDuplicateRaceIsValidation(t *testing.T) {
	ctx := context.Background()
	db := databasetest.New(t)
	repo := NewLocalizedRepo[models.Page, *models.Page](db, "page")

	origin := &models.Page{Title: "Returns", Slug: "returns"}
	require.NoError(t, repo.Create(ctx, origin, "en", 0))

	// another writer stores the same translation after the duplicate check ran
	inserted := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:concurrent_writer", func(tx *gorm.DB) {
		page, ok := tx.Statement.Dest.(*models.Page)
		if !ok || inserted {
			return
		}
		inserted = true
		now := time.Now()
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO pages (title, slug, body, locale, document_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			"Retouren", "returns", "", page.Locale, page.DocumentID, now, now,
		).Error)
	}))

	err := repo.Create(ctx, &models.Page{Title: "Rücksendung", Slug: "returns"}, "de", origin.ID)
	require.True(t, inserted)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLocalizedRepo_CreateUnknownOrigin(t *testing.T) {
	repo := newPageRepo(t)

	err := repo.Create(context.Background(), &models.Page{Title: "x", Slug: "x"}, "fr", 404)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLocalizedRepo_ListAttachesLocalizations(t *testing.T) {
	ctx := context.Background()
	repo := newPageRepo(t)

	about := &models.Page{Title: "About", Slug: "about"}
	require.NoError(t, repo.Create(ctx, about, "en", 0))
	require.NoError(t, repo.Create(ctx, &models.Page{Title: "A propos", Slug: "about"}, "fr", about.ID))
	require.NoError(t, repo.Create(ctx, &models.Page{Title: "Terms", Slug: "terms"}, "en", 0))

	pages, err := repo.List(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("locale = ?", "en") }, "slug")

	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "about", pages[0].Slug)
	assert.Len(t, pages[0].Localizations, 1)
	assert.Empty(t, pages[1].Localizations)
}

func TestLocalizedRepo_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newPageRepo(t)

	page := &models.Page{Title: "FAQ", Slug: "faq"}
	require.NoError(t, repo.Create(ctx, page, "en", 0))

	updated, err := repo.Update(ctx, page.ID, map[string]interface{}{"title": "Help"})
	require.NoError(t, err)
	assert.Equal(t, "Help", updated.Title)

	_, err = repo.Update(ctx, 999, map[string]interface{}{"title": "nope"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, page.ID))
	_, err = repo.FetchByID(ctx, page.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, page.ID), apperrors.ErrNotFound)
}

func TestLocalizedRepo_ResolvesThroughLocale(t *testing.T) {
	ctx := context.Background()
	db := databasetest.New(t)
	repo := NewLocalizedRepo[models.FAQ, *models.FAQ](db, "faq", "Category")

	cat := models.Category{Name: "Lenses", Slug: "lenses"}
	cat.AssignDocument("cat-doc", "en")
	require.NoError(t, db.Create(&cat).Error)

	en := &models.FAQ{Question: "Do you ship?", Answer: "Yes", CategoryID: &cat.ID}
	require.NoError(t, repo.Create(ctx, en, "en", 0))
	fr := &models.FAQ{Question: "Livrez-vous ?", Answer: "Oui", CategoryID: &cat.ID}
	require.NoError(t, repo.Create(ctx, fr, "fr", en.ID))

	base, err := repo.FetchByID(ctx, en.ID)
	require.NoError(t, err)

	got, err := locale.Resolve[*models.FAQ](ctx, base, "fr", "en", repo)

	require.NoError(t, err)
	assert.Equal(t, fr.ID, got.ID)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Lenses", got.Category.Name)
}
