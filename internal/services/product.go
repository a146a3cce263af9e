package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	QueryTimeout    = 30 * time.Second
)

// CategoryResolver translates a product's category into the caller's locale.
type CategoryResolver interface {
	ResolveCategory(ctx context.Context, cat *models.Category, tag string) (*models.Category, error)
}

type ProductService struct {
	db         *gorm.DB
	categories CategoryResolver
}

func NewProductService(db *gorm.DB, categories CategoryResolver) *ProductService {
	if db == nil {
		panic("database connection cannot be nil")
	}
	return &ProductService{
		db:         db,
		categories: categories,
	}
}

type ProductFilter struct {
	CategoryID uint    `form:"category_id"`
	Brand      string  `form:"brand"`
	FrameShape string  `form:"frame_shape"`
	Gender     string  `form:"gender"`
	MinPrice   float64 `form:"min_price"`
	MaxPrice   float64 `form:"max_price"`
	Search     string  `form:"search"`
	Sort       string  `form:"sort"`
	Page       int     `form:"page"`
	Limit      int     `form:"limit"`
	Locale     string  `form:"locale"`
}

type ProductResponse struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	Pages    int              `json:"pages"`
}

var productSorts = map[string]string{
	"":           "created_at DESC, id DESC",
	"newest":     "created_at DESC, id DESC",
	"price_asc":  "price ASC, id ASC",
	"price_desc": "price DESC, id DESC",
	"rating":     "average_rating DESC, review_count DESC, id DESC",
}

// ValidateAndNormalize validates and normalizes filter parameters
func (f *ProductFilter) ValidateAndNormalize() error {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if last := utils.MaxPage(f.Limit); f.Page > last {
		f.Page = last
	}

	if f.MinPrice < 0 || f.MaxPrice < 0 {
		return apperrors.Validation("prices cannot be negative")
	}
	if f.MinPrice > 0 && f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return apperrors.Validation("min_price cannot be greater than max_price")
	}

	f.Search = strings.TrimSpace(f.Search)
	f.Brand = strings.TrimSpace(f.Brand)
	f.FrameShape = strings.TrimSpace(f.FrameShape)
	f.Gender = strings.TrimSpace(f.Gender)

	if len(f.Search) > 255 {
		return apperrors.Validation("search term too long")
	}
	if _, ok := productSorts[f.Sort]; !ok {
		return apperrors.Validation("unknown sort %q", f.Sort)
	}

	return nil
}

// GetProducts lists active products with filtering and pagination.
func (s *ProductService) GetProducts(ctx context.Context, filter ProductFilter) (*ProductResponse, error) {
	if err := filter.ValidateAndNormalize(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	query := s.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)
	query = s.applyFilters(query, filter).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Unexpected("failed to count products", err)
	}

	if total == 0 {
		return &ProductResponse{
			Products: []models.Product{},
			Page:     filter.Page,
			Limit:    filter.Limit,
		}, nil
	}

	var products []models.Product
	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Preload("Category").
		Order(productSorts[filter.Sort]).
		Offset(offset).
		Limit(filter.Limit).
		Find(&products).Error; err != nil {
		return nil, apperrors.Unexpected("failed to fetch products", err)
	}

	s.localizeCategories(ctx, products, filter.Locale)

	pages := int(total) / filter.Limit
	if int(total)%filter.Limit > 0 {
		pages++
	}

	return &ProductResponse{
		Products: products,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
		Pages:    pages,
	}, nil
}

// GetProductByID returns an active product with its category in the
// requested locale.
func (s *ProductService) GetProductByID(ctx context.Context, id uint, tag string) (*models.Product, error) {
	if id == 0 {
		return nil, apperrors.Validation("invalid product ID")
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var product models.Product
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, apperrors.Unexpected("failed to fetch product", err)
	}

	products := []models.Product{product}
	s.localizeCategories(ctx, products, tag)
	return &products[0], nil
}

func (s *ProductService) applyFilters(query *gorm.DB, filter ProductFilter) *gorm.DB {
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Brand != "" {
		query = query.Where("LOWER(brand) = ?", strings.ToLower(filter.Brand))
	}
	if filter.FrameShape != "" {
		query = query.Where("LOWER(frame_shape) = ?", strings.ToLower(filter.FrameShape))
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", strings.ToLower(filter.Gender))
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.Search != "" {
		searchTerm := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}
	return query
}

// localizeCategories swaps each product's category for its translation.
// Each distinct category is resolved once.
func (s *ProductService) localizeCategories(ctx context.Context, products []models.Product, tag string) {
	if s.categories == nil || tag == "" {
		return
	}

	resolved := make(map[uint]*models.Category)
	for i := range products {
		cat := products[i].Category
		if cat == nil {
			continue
		}
		if hit, ok := resolved[cat.ID]; ok {
			products[i].Category = hit
			continue
		}
		translated, err := s.categories.ResolveCategory(ctx, cat, tag)
		if err != nil || translated == nil {
			translated = cat
		}
		resolved[cat.ID] = translated
		products[i].Category = translated
	}
}

func (s *ProductService) GetBrands(ctx context.Context) ([]string, error) {
	brands := make([]string, 0)
	if err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND brand IS NOT NULL AND brand != ''", true).
		Distinct().
		Order("brand").
		Pluck("brand", &brands).Error; err != nil {
		return nil, apperrors.Unexpected("failed to fetch brands", err)
	}
	return brands, nil
}
