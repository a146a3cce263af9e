// Package store holds the gorm repository shared by every localized
// content type.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/locale"
	"gorm.io/gorm"
)

// Record is the pointer form of a model that embeds models.Localizable.
type Record[T any] interface {
	*T
	locale.Entity
	DocumentKey() string
	AssignDocument(key, tag string)
	SetLocalizations(refs []locale.Ref)
}

// Scope narrows a query, in the style of gorm scopes.
type Scope func(*gorm.DB) *gorm.DB

// LocalizedRepo loads and stores one localized content type. Every record it
// returns has its Localizations filled from the sibling rows.
type LocalizedRepo[T any, PT Record[T]] struct {
	db       *gorm.DB
	resource string
	preloads []string
}

func NewLocalizedRepo[T any, PT Record[T]](db *gorm.DB, resource string, preloads ...string) *LocalizedRepo[T, PT] {
	return &LocalizedRepo[T, PT]{db: db, resource: resource, preloads: preloads}
}

func (r *LocalizedRepo[T, PT]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

// FetchByID implements locale.Fetcher.
func (r *LocalizedRepo[T, PT]) FetchByID(ctx context.Context, id uint) (PT, error) {
	return r.First(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) })
}

// First returns the first record matching scope by primary key order.
func (r *LocalizedRepo[T, PT]) First(ctx context.Context, scope Scope) (PT, error) {
	var rec T
	if err := r.query(ctx).Scopes(scope).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(r.resource, "")
		}
		return nil, apperrors.Unexpected("failed to load "+r.resource, err)
	}

	ptr := PT(&rec)
	if err := r.attachLocalizations(ctx, []PT{ptr}); err != nil {
		return nil, err
	}
	return ptr, nil
}

// List returns every record matching scope in the given order.
func (r *LocalizedRepo[T, PT]) List(ctx context.Context, scope Scope, order string) ([]PT, error) {
	var recs []T
	if err := r.query(ctx).Scopes(scope).Order(order).Find(&recs).Error; err != nil {
		return nil, apperrors.Unexpected("failed to list "+r.resource, err)
	}

	out := make([]PT, len(recs))
	for i := range recs {
		out[i] = PT(&recs[i])
	}
	if err := r.attachLocalizations(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts rec in tag. When localizationOf is set, rec joins that
// record's translation group, which must not already hold tag.
func (r *LocalizedRepo[T, PT]) Create(ctx context.Context, rec PT, tag string, localizationOf uint) error {
	tag = locale.Normalize(tag)
	key := uuid.NewString()

	if localizationOf != 0 {
		origin, err := r.FetchByID(ctx, localizationOf)
		if err != nil {
			return err
		}
		if tag == locale.Normalize(origin.LocaleCode()) {
			return apperrors.Validation("%s %d is already in locale %q", r.resource, localizationOf, tag)
		}
		if _, exists := locale.Find(origin.LocalizationRefs(), tag); exists {
			return apperrors.Validation("%s %d already has a %q localization", r.resource, localizationOf, tag)
		}
		key = origin.DocumentKey()
	}

	rec.AssignDocument(key, tag)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if apperrors.IsUniqueViolation(err) {
			return apperrors.Validation("%s already has a %q localization", r.resource, tag)
		}
		return apperrors.Unexpected("failed to create "+r.resource, err)
	}

	return r.attachLocalizations(ctx, []PT{rec})
}

// Update applies column updates to the record with id.
func (r *LocalizedRepo[T, PT]) Update(ctx context.Context, id uint, updates map[string]interface{}) (PT, error) {
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, apperrors.Unexpected("failed to update "+r.resource, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, apperrors.NotFound(r.resource, id)
		}
	}
	return r.FetchByID(ctx, id)
}

// Delete removes the record with id. Its translations are left in place.
func (r *LocalizedRepo[T, PT]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return apperrors.Unexpected("failed to delete "+r.resource, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(r.resource, id)
	}
	return nil
}

// DeleteDocument removes every locale of one document.
func (r *LocalizedRepo[T, PT]) DeleteDocument(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).Where("document_id = ?", key).Delete(new(T))
	if res.Error != nil {
		return apperrors.Unexpected("failed to delete "+r.resource, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(r.resource, key)
	}
	return nil
}

type siblingRow struct {
	ID         uint
	Locale     string
	DocumentID string
}

func (r *LocalizedRepo[T, PT]) attachLocalizations(ctx context.Context, recs []PT) error {
	if len(recs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(recs))
	for _, rec := range recs {
		keys = append(keys, rec.DocumentKey())
	}

	var rows []siblingRow
	if err := r.db.WithContext(ctx).Model(new(T)).
		Select("id", "locale", "document_id").
		Where("document_id IN ?", keys).
		Order("id").
		Scan(&rows).Error; err != nil {
		return apperrors.Unexpected("failed to load "+r.resource+" localizations", err)
	}

	byDocument := make(map[string][]siblingRow)
	for _, row := range rows {
		byDocument[row.DocumentID] = append(byDocument[row.DocumentID], row)
	}

	for _, rec := range recs {
		refs := []locale.Ref{}
		for _, row := range byDocument[rec.DocumentKey()] {
			if row.Locale != rec.LocaleCode() {
				refs = append(refs, locale.Ref{ID: row.ID, Locale: row.Locale})
			}
		}
		rec.SetLocalizations(refs)
	}
	return nil
}
