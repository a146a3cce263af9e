package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/pkg/logger"
	"gorm.io/gorm"
)

// AdminService manages the catalog. Rating columns are never written here;
// they belong to the rating aggregator.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

type ProductImportResult struct {
	ProcessedCount int      `json:"processed_count"`
	FailedRows     []string `json:"failed_rows"`
}

type DashboardStats struct {
	TotalProducts  int64 `json:"total_products"`
	TotalReviews   int64 `json:"total_reviews"`
	FlaggedReviews int64 `json:"flagged_reviews"`
	PendingOrders  int64 `json:"pending_orders"`
	OpenTickets    int64 `json:"open_tickets"`
	UnreadTickets  int64 `json:"unread_tickets"`
}

func (s *AdminService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if req == nil {
		return nil, apperrors.Validation("product request cannot be nil")
	}
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureCategory(db, req.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Brand:       strings.TrimSpace(req.Brand),
		SKU:         strings.TrimSpace(req.SKU),
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		FrameShape:  req.FrameShape,
		LensType:    req.LensType,
		Gender:      req.Gender,
		IsActive:    true,
	}

	if err := db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsUniqueViolation(err) {
			return nil, apperrors.Validation("sku %q already exists", product.SKU)
		}
		return nil, apperrors.Unexpected("failed to create product", err)
	}

	logger.WithFields(logger.Fields{"product_id": product.ID, "sku": product.SKU}).Info("product created")
	return product, nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, productID uint, req *models.UpdateProductRequest) (*models.Product, error) {
	db := s.db.WithContext(ctx)

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, apperrors.Unexpected("failed to fetch product", err)
	}

	updateData := make(map[string]interface{})
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperrors.Validation("product name cannot be empty")
		}
		updateData["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updateData["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperrors.Validation("price must be greater than 0")
		}
		updateData["price"] = *req.Price
	}
	if req.Brand != nil {
		updateData["brand"] = strings.TrimSpace(*req.Brand)
	}
	if req.SKU != nil {
		updateData["sku"] = strings.TrimSpace(*req.SKU)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperrors.Validation("stock cannot be negative")
		}
		updateData["stock"] = *req.Stock
	}
	if req.CategoryID != nil {
		if err := ensureCategory(db, req.CategoryID); err != nil {
			return nil, err
		}
		updateData["category_id"] = *req.CategoryID
	}
	if req.FrameShape != nil {
		updateData["frame_shape"] = *req.FrameShape
	}
	if req.LensType != nil {
		updateData["lens_type"] = *req.LensType
	}
	if req.Gender != nil {
		updateData["gender"] = *req.Gender
	}
	if req.IsActive != nil {
		updateData["is_active"] = *req.IsActive
	}

	if len(updateData) > 0 {
		if err := db.Model(&product).Updates(updateData).Error; err != nil {
			if apperrors.IsUniqueViolation(err) {
				return nil, apperrors.Validation("sku already exists")
			}
			return nil, apperrors.Unexpected("failed to update product", err)
		}
	}

	if err := db.Preload("Category").First(&product, productID).Error; err != nil {
		return nil, apperrors.Unexpected("failed to load updated product", err)
	}
	return &product, nil
}

// DeleteProduct removes a product together with its reviews, their likes
// and any wishlist entries pointing at it.
func (s *AdminService) DeleteProduct(ctx context.Context, productID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("product", productID)
			}
			return apperrors.Unexpected("failed to fetch product", err)
		}

		reviewIDs := tx.Model(&models.Review{}).Select("id").Where("product_id = ?", productID)
		if err := tx.Where("review_id IN (?)", reviewIDs).Delete(&models.ReviewLike{}).Error; err != nil {
			return apperrors.Unexpected("failed to delete review likes", err)
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.Review{}).Error; err != nil {
			return apperrors.Unexpected("failed to delete reviews", err)
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.WishlistItem{}).Error; err != nil {
			return apperrors.Unexpected("failed to delete wishlist entries", err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return apperrors.Unexpected("failed to delete product", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.WithFields(logger.Fields{"product_id": productID}).Info("product deleted")
	return nil
}

// ImportProducts reads products from CSV with the header
// name,description,price,brand,sku,stock[,frame_shape,lens_type,gender].
// Bad rows are reported and skipped.
func (s *AdminService) ImportProducts(ctx context.Context, r io.Reader) (*ProductImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.Validation("failed to parse CSV file")
	}
	if len(records) < 2 {
		return nil, apperrors.Validation("CSV file must have header and at least one data row")
	}

	result := &ProductImportResult{FailedRows: []string{}}
	db := s.db.WithContext(ctx)

	for i, record := range records[1:] {
		row := i + 2
		if len(record) < 6 {
			result.FailedRows = append(result.FailedRows, fmt.Sprintf("Row %d: insufficient columns", row))
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil || price <= 0 {
			result.FailedRows = append(result.FailedRows, fmt.Sprintf("Row %d: invalid price", row))
			continue
		}
		stock, err := strconv.Atoi(strings.TrimSpace(record[5]))
		if err != nil || stock < 0 {
			stock = 0
		}

		product := models.Product{
			Name:        strings.TrimSpace(record[0]),
			Description: strings.TrimSpace(record[1]),
			Price:       price,
			Brand:       strings.TrimSpace(record[3]),
			SKU:         strings.TrimSpace(record[4]),
			Stock:       stock,
			IsActive:    true,
		}
		if len(record) > 6 {
			product.FrameShape = strings.TrimSpace(record[6])
		}
		if len(record) > 7 {
			product.LensType = strings.TrimSpace(record[7])
		}
		if len(record) > 8 {
			product.Gender = strings.ToLower(strings.TrimSpace(record[8]))
		}
		if product.Name == "" || product.SKU == "" {
			result.FailedRows = append(result.FailedRows, fmt.Sprintf("Row %d: name and sku are required", row))
			continue
		}

		if err := db.Create(&product).Error; err != nil {
			result.FailedRows = append(result.FailedRows, fmt.Sprintf("Row %d: %s", row, err.Error()))
			continue
		}
		result.ProcessedCount++
	}

	logger.WithFields(logger.Fields{
		"processed": result.ProcessedCount,
		"failed":    len(result.FailedRows),
	}).Info("product import finished")
	return result, nil
}

func (s *AdminService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&models.Product{}).Where("is_active = ?", true), &stats.TotalProducts},
		{db.Model(&models.Review{}).Where("is_active = ?", true), &stats.TotalReviews},
		{db.Model(&models.Review{}).Where("is_flagged = ? AND is_active = ?", true, true), &stats.FlaggedReviews},
		{db.Model(&models.Order{}).Where("status = ?", models.OrderPending), &stats.PendingOrders},
		{db.Model(&models.SupportTicket{}).Where("status = ?", models.TicketOpen), &stats.OpenTickets},
		{db.Model(&models.SupportTicket{}).Where("unread_by_admin > 0"), &stats.UnreadTickets},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, apperrors.Unexpected("failed to load dashboard stats", err)
		}
	}
	return stats, nil
}

func validateProductRequest(req *models.CreateProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.Validation("product name cannot be empty")
	}
	if strings.TrimSpace(req.SKU) == "" {
		return apperrors.Validation("product sku cannot be empty")
	}
	if req.Price <= 0 {
		return apperrors.Validation("product price must be greater than 0")
	}
	if req.Stock < 0 {
		return apperrors.Validation("product stock cannot be negative")
	}
	return nil
}

func ensureCategory(db *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := db.Model(&models.Category{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return apperrors.Unexpected("failed to check category", err)
	}
	if count == 0 {
		return apperrors.Validation("category %d does not exist", *id)
	}
	return nil
}
