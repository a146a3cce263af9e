package services

import (
	"context"
	"errors"

	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistService struct {
	db *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

// Add saves a product to the user's wishlist. Adding it twice is a no-op.
func (s *WishlistService) Add(ctx context.Context, userID, productID uint) (*models.WishlistItem, error) {
	db := s.db.WithContext(ctx)

	var product models.Product
	if err := db.Where("id = ? AND is_active = ?", productID, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, apperrors.Unexpected("failed to fetch product", err)
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(item).Error; err != nil {
		return nil, apperrors.Unexpected("failed to add wishlist item", err)
	}

	if err := db.Where("user_id = ? AND product_id = ?", userID, productID).First(item).Error; err != nil {
		return nil, apperrors.Unexpected("failed to load wishlist item", err)
	}
	item.Product = &product
	return item, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return apperrors.Unexpected("failed to remove wishlist item", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("wishlist item", productID)
	}
	return nil
}

func (s *WishlistService) List(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	items := make([]models.WishlistItem, 0)
	if err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, apperrors.Unexpected("failed to fetch wishlist", err)
	}
	return items, nil
}
