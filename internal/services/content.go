package services

import (
	"context"
	"time"

	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/cache"
	"github.com/princeprakhar/eyewear-backend/internal/locale"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/store"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
	"github.com/princeprakhar/eyewear-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// localizedContent bundles the repository of one content type with the
// fetcher used for locale resolution, cached when Redis is configured.
type localizedContent[T any, PT store.Record[T]] struct {
	repo    *store.LocalizedRepo[T, PT]
	fetcher locale.Fetcher[PT]
	cache   *cache.ReadThrough[PT]
	columns []string
}

func newLocalizedContent[T any, PT store.Record[T]](db *gorm.DB, rdb *redis.Client, ttl time.Duration, resource string, columns []string, preloads ...string) *localizedContent[T, PT] {
	repo := store.NewLocalizedRepo[T, PT](db, resource, preloads...)
	c := &localizedContent[T, PT]{repo: repo, fetcher: repo, columns: columns}
	if rdb != nil {
		c.cache = cache.NewReadThrough[PT](rdb, resource, ttl, repo)
		c.fetcher = c.cache
	}
	return c
}

func (c *localizedContent[T, PT]) resolve(ctx context.Context, rec PT, tag, defaultLocale string) (PT, error) {
	return locale.Resolve[PT](ctx, rec, tag, defaultLocale, c.fetcher)
}

func (c *localizedContent[T, PT]) resolveAll(ctx context.Context, recs []PT, tag, defaultLocale string) ([]PT, error) {
	out := make([]PT, 0, len(recs))
	for _, rec := range recs {
		resolved, err := c.resolve(ctx, rec, tag, defaultLocale)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// invalidate drops the cached record and every translation of it, since
// their localization lists may have changed.
func (c *localizedContent[T, PT]) invalidate(ctx context.Context, id uint, rec PT) {
	if c.cache == nil {
		return
	}
	ids := []uint{id}
	if rec != nil {
		for _, ref := range rec.LocalizationRefs() {
			ids = append(ids, ref.ID)
		}
	}
	if err := c.cache.Invalidate(ctx, ids...); err != nil {
		logger.Warn("content cache invalidation failed: ", err)
	}
}

func (c *localizedContent[T, PT]) update(ctx context.Context, id uint, fields map[string]interface{}) (PT, error) {
	updates := make(map[string]interface{})
	for _, col := range c.columns {
		if v, ok := fields[col]; ok {
			updates[col] = v
		}
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("no updatable fields supplied")
	}

	rec, err := c.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id, rec)
	return rec, nil
}

// remove deletes a record. Reads always start from the default locale, so
// deleting a default-locale record takes its translations with it. detach
// runs first with every id about to go.
func (c *localizedContent[T, PT]) remove(ctx context.Context, id uint, defaultLocale string, detach func([]uint) error) error {
	rec, err := c.repo.FetchByID(ctx, id)
	if err != nil {
		return err
	}

	ids := []uint{id}
	wholeGroup := locale.Normalize(rec.LocaleCode()) == defaultLocale
	if wholeGroup {
		for _, ref := range rec.LocalizationRefs() {
			ids = append(ids, ref.ID)
		}
	}
	if detach != nil {
		if err := detach(ids); err != nil {
			return err
		}
	}

	if wholeGroup {
		err = c.repo.DeleteDocument(ctx, rec.DocumentKey())
	} else {
		err = c.repo.Delete(ctx, id)
	}
	if err != nil {
		return err
	}
	c.invalidate(ctx, id, rec)
	return nil
}

func (c *localizedContent[T, PT]) create(ctx context.Context, rec PT, tag string, localizationOf uint) error {
	if err := c.repo.Create(ctx, rec, tag, localizationOf); err != nil {
		return err
	}
	if localizationOf != 0 {
		c.invalidate(ctx, localizationOf, rec)
	}
	return nil
}

// ContentService serves the localized content types: categories, pages and
// FAQs. Reads look up the default-locale record and resolve it to the
// requested locale.
type ContentService struct {
	db            *gorm.DB
	defaultLocale string
	supported     []string
	categories    *localizedContent[models.Category, *models.Category]
	pages         *localizedContent[models.Page, *models.Page]
	faqs          *localizedContent[models.FAQ, *models.FAQ]
}

// NewContentService builds the service. rdb may be nil to disable caching.
func NewContentService(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration, defaultLocale string, supported []string) *ContentService {
	if defaultLocale == "" {
		defaultLocale = locale.DefaultLocale
	}
	return &ContentService{
		db:            db,
		defaultLocale: locale.Normalize(defaultLocale),
		supported:     supported,
		categories:    newLocalizedContent[models.Category, *models.Category](db, rdb, cacheTTL, "category", []string{"name", "slug", "description"}),
		pages:         newLocalizedContent[models.Page, *models.Page](db, rdb, cacheTTL, "page", []string{"title", "slug", "body"}),
		faqs:          newLocalizedContent[models.FAQ, *models.FAQ](db, rdb, cacheTTL, "faq", []string{"question", "answer", "sort_order"}, "Category"),
	}
}

func (s *ContentService) DefaultLocale() string {
	return s.defaultLocale
}

func (s *ContentService) inDefaultLocale(db *gorm.DB) *gorm.DB {
	return db.Where("locale = ?", s.defaultLocale)
}

// writeLocale validates the locale a new record is written in.
func (s *ContentService) writeLocale(tag string) (string, error) {
	tag = locale.Normalize(tag)
	if tag == "" {
		return s.defaultLocale, nil
	}
	if len(s.supported) == 0 {
		return tag, nil
	}
	for _, l := range s.supported {
		if l == tag {
			return tag, nil
		}
	}
	return "", apperrors.Validation("unsupported locale %q", tag)
}

func (s *ContentService) ListCategories(ctx context.Context, tag string) ([]*models.Category, error) {
	recs, err := s.categories.repo.List(ctx, s.inDefaultLocale, "name")
	if err != nil {
		return nil, err
	}
	return s.categories.resolveAll(ctx, recs, tag, s.defaultLocale)
}

func (s *ContentService) GetCategory(ctx context.Context, slug, tag string) (*models.Category, error) {
	rec, err := s.categories.repo.First(ctx, func(db *gorm.DB) *gorm.DB {
		return s.inDefaultLocale(db).Where("slug = ?", slug)
	})
	if err != nil {
		return nil, err
	}
	return s.categories.resolve(ctx, rec, tag, s.defaultLocale)
}

// ResolveCategory returns cat in the requested locale. cat's localization
// list is loaded when it was populated as a plain relation.
func (s *ContentService) ResolveCategory(ctx context.Context, cat *models.Category, tag string) (*models.Category, error) {
	if cat == nil {
		return nil, nil
	}
	if tag = locale.Normalize(tag); tag == "" || tag == s.defaultLocale {
		return cat, nil
	}
	if cat.Localizations == nil {
		full, err := s.categories.fetcher.FetchByID(ctx, cat.ID)
		if err != nil {
			return cat, nil
		}
		cat = full
	}
	return s.categories.resolve(ctx, cat, tag, s.defaultLocale)
}

func (s *ContentService) CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.Category, error) {
	tag, err := s.writeLocale(req.Locale)
	if err != nil {
		return nil, err
	}
	cat := &models.Category{
		Name:        utils.SanitizeString(req.Name),
		Slug:        utils.SanitizeString(req.Slug),
		Description: req.Description,
	}
	if err := s.categories.create(ctx, cat, tag, req.LocalizationOf); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *ContentService) UpdateCategory(ctx context.Context, id uint, req models.UpdateContentRequest) (*models.Category, error) {
	return s.categories.update(ctx, id, contentFields(req))
}

// DeleteCategory removes a category and detaches the products and FAQs
// filed under it.
func (s *ContentService) DeleteCategory(ctx context.Context, id uint) error {
	return s.categories.remove(ctx, id, s.defaultLocale, func(ids []uint) error {
		db := s.db.WithContext(ctx)
		if err := db.Model(&models.Product{}).Where("category_id IN ?", ids).Update("category_id", nil).Error; err != nil {
			return apperrors.Unexpected("failed to detach products from category", err)
		}
		if err := db.Model(&models.FAQ{}).Where("category_id IN ?", ids).Update("category_id", nil).Error; err != nil {
			return apperrors.Unexpected("failed to detach faqs from category", err)
		}
		return nil
	})
}

func (s *ContentService) GetPage(ctx context.Context, slug, tag string) (*models.Page, error) {
	rec, err := s.pages.repo.First(ctx, func(db *gorm.DB) *gorm.DB {
		return s.inDefaultLocale(db).Where("slug = ?", slug)
	})
	if err != nil {
		return nil, err
	}
	return s.pages.resolve(ctx, rec, tag, s.defaultLocale)
}

func (s *ContentService) CreatePage(ctx context.Context, req models.CreatePageRequest) (*models.Page, error) {
	tag, err := s.writeLocale(req.Locale)
	if err != nil {
		return nil, err
	}
	page := &models.Page{
		Title: utils.SanitizeString(req.Title),
		Slug:  utils.SanitizeString(req.Slug),
		Body:  req.Body,
	}
	if err := s.pages.create(ctx, page, tag, req.LocalizationOf); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *ContentService) UpdatePage(ctx context.Context, id uint, req models.UpdateContentRequest) (*models.Page, error) {
	return s.pages.update(ctx, id, contentFields(req))
}

func (s *ContentService) DeletePage(ctx context.Context, id uint) error {
	return s.pages.remove(ctx, id, s.defaultLocale, nil)
}

// ListFAQs returns the FAQs in display order, optionally limited to one
// category.
func (s *ContentService) ListFAQs(ctx context.Context, categoryID uint, tag string) ([]*models.FAQ, error) {
	recs, err := s.faqs.repo.List(ctx, func(db *gorm.DB) *gorm.DB {
		db = s.inDefaultLocale(db)
		if categoryID != 0 {
			db = db.Where("category_id = ?", categoryID)
		}
		return db
	}, "sort_order, id")
	if err != nil {
		return nil, err
	}
	return s.faqs.resolveAll(ctx, recs, tag, s.defaultLocale)
}

func (s *ContentService) CreateFAQ(ctx context.Context, req models.CreateFAQRequest) (*models.FAQ, error) {
	tag, err := s.writeLocale(req.Locale)
	if err != nil {
		return nil, err
	}
	faq := &models.FAQ{
		Question:   utils.SanitizeString(req.Question),
		Answer:     req.Answer,
		SortOrder:  req.SortOrder,
		CategoryID: req.CategoryID,
	}
	if err := s.faqs.create(ctx, faq, tag, req.LocalizationOf); err != nil {
		return nil, err
	}
	return faq, nil
}

func (s *ContentService) UpdateFAQ(ctx context.Context, id uint, req models.UpdateContentRequest) (*models.FAQ, error) {
	return s.faqs.update(ctx, id, contentFields(req))
}

func (s *ContentService) DeleteFAQ(ctx context.Context, id uint) error {
	return s.faqs.remove(ctx, id, s.defaultLocale, nil)
}

func contentFields(req models.UpdateContentRequest) map[string]interface{} {
	fields := make(map[string]interface{})
	set := func(col string, v *string) {
		if v != nil {
			fields[col] = utils.SanitizeString(*v)
		}
	}
	set("name", req.Name)
	set("title", req.Title)
	set("slug", req.Slug)
	set("description", req.Description)
	set("body", req.Body)
	set("question", req.Question)
	set("answer", req.Answer)
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}
	return fields
}
