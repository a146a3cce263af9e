package services

import (
	"context"
	"errors"

	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/rating"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
	"github.com/princeprakhar/eyewear-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingRecalculator refreshes a product's derived rating fields inside the
// caller's transaction.
type RatingRecalculator interface {
	Recalculate(ctx context.Context, tx *gorm.DB, productID uint) (rating.Summary, error)
}

type ReviewService struct {
	db         *gorm.DB
	aggregator RatingRecalculator
}

func NewReviewService(db *gorm.DB, aggregator RatingRecalculator) *ReviewService {
	return &ReviewService{db: db, aggregator: aggregator}
}

type CreateReviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment" binding:"max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty"`
	Comment *string `json:"comment,omitempty" binding:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ID           uint   `json:"id"`
	UserID       uint   `json:"user_id"`
	ProductID    uint   `json:"product_id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	CreatedAt    string `json:"created_at"`
	LikeCount    int    `json:"like_count"`
	DislikeCount int    `json:"dislike_count"`
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// ReviewResult is a mutated review together with the product aggregate it
// produced.
type ReviewResult struct {
	Review  *models.Review `json:"review,omitempty"`
	Product rating.Summary `json:"product_rating"`
}

// CreateReview stores the user's review of a product. A user has at most one
// review per product, so an existing one is overwritten. A review removed by
// moderation cannot be posted again.
func (s *ReviewService) CreateReview(ctx context.Context, userID uint, req CreateReviewRequest) (*ReviewResult, error) {
	if !utils.IsValidRating(req.Rating) {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	result := &ReviewResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Select("id").Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("product", req.ProductID)
			}
			return apperrors.Unexpected("failed to load product", err)
		}

		upsert := models.Review{
			UserID:    userID,
			ProductID: req.ProductID,
			Rating:    req.Rating,
			Comment:   utils.SanitizeString(req.Comment),
			IsActive:  true,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).Create(&upsert).Error; err != nil {
			return apperrors.Unexpected("failed to save review", err)
		}

		var review models.Review
		if err := tx.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&review).Error; err != nil {
			return apperrors.Unexpected("failed to load review", err)
		}
		// moderation removal is final; the rollback discards the overwrite
		if !review.IsActive {
			return apperrors.Forbidden("this review was removed by a moderator")
		}

		summary, err := s.aggregator.Recalculate(ctx, tx, req.ProductID)
		if err != nil {
			return err
		}
		result.Review = &review
		result.Product = summary
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"review_id":  result.Review.ID,
		"product_id": result.Review.ProductID,
		"user_id":    userID,
		"rating":     result.Review.Rating,
	}).Info("review saved")

	return result, nil
}

// UpdateReview edits a review owned by userID.
func (s *ReviewService) UpdateReview(ctx context.Context, userID, reviewID uint, req UpdateReviewRequest) (*ReviewResult, error) {
	if req.Rating != nil && !utils.IsValidRating(*req.Rating) {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	result := &ReviewResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := findActiveReview(tx, reviewID)
		if err != nil {
			return err
		}
		if review.UserID != userID {
			return apperrors.Forbidden("you can only edit your own reviews")
		}

		if req.Rating != nil {
			review.Rating = *req.Rating
		}
		if req.Comment != nil {
			review.Comment = utils.SanitizeString(*req.Comment)
		}
		if err := tx.Save(review).Error; err != nil {
			return apperrors.Unexpected("failed to update review", err)
		}

		summary, err := s.aggregator.Recalculate(ctx, tx, review.ProductID)
		if err != nil {
			return err
		}
		result.Review = review
		result.Product = summary
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteReview removes a review. Customers may delete only their own;
// admins may delete any.
func (s *ReviewService) DeleteReview(ctx context.Context, userID uint, role string, reviewID uint) (*ReviewResult, error) {
	result := &ReviewResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("review", reviewID)
			}
			return apperrors.Unexpected("failed to find review", err)
		}
		if role != utils.RoleAdmin && review.UserID != userID {
			return apperrors.Forbidden("you can only delete your own reviews")
		}

		if err := tx.Where("review_id = ?", review.ID).Delete(&models.ReviewLike{}).Error; err != nil {
			return apperrors.Unexpected("failed to delete review likes", err)
		}
		if err := tx.Delete(&review).Error; err != nil {
			return apperrors.Unexpected("failed to delete review", err)
		}

		summary, err := s.aggregator.Recalculate(ctx, tx, review.ProductID)
		if err != nil {
			return err
		}
		result.Product = summary
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ReviewService) GetProductReviews(ctx context.Context, productID uint, page, limit int) (*ReviewListResponse, error) {
	db := s.db.WithContext(ctx)

	var product models.Product
	if err := db.Select("id").Where("id = ? AND is_active = ?", productID, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, apperrors.Unexpected("failed to load product", err)
	}

	query := db.Model(&models.Review{}).
		Where("product_id = ? AND is_active = ?", productID, true).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Unexpected("failed to count reviews", err)
	}

	var reviews []models.Review
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return nil, apperrors.Unexpected("failed to fetch reviews", err)
	}

	counts, err := s.likeCounts(db, reviews)
	if err != nil {
		return nil, err
	}

	response := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		c := counts[review.ID]
		response = append(response, ReviewResponse{
			ID:           review.ID,
			UserID:       review.UserID,
			ProductID:    review.ProductID,
			Rating:       review.Rating,
			Comment:      review.Comment,
			CreatedAt:    review.CreatedAt.Format("2006-01-02 15:04:05"),
			LikeCount:    c.likes,
			DislikeCount: c.dislikes,
		})
	}

	return &ReviewListResponse{Reviews: response, Total: total, Page: page, Limit: limit}, nil
}

type likeTally struct {
	likes    int
	dislikes int
}

func (s *ReviewService) likeCounts(db *gorm.DB, reviews []models.Review) (map[uint]likeTally, error) {
	counts := make(map[uint]likeTally, len(reviews))
	if len(reviews) == 0 {
		return counts, nil
	}

	ids := make([]uint, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}

	var rows []struct {
		ReviewID uint
		IsLike   bool
		Total    int
	}
	if err := db.Model(&models.ReviewLike{}).
		Select("review_id, is_like, COUNT(*) AS total").
		Where("review_id IN ?", ids).
		Group("review_id, is_like").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Unexpected("failed to count review likes", err)
	}

	for _, row := range rows {
		tally := counts[row.ReviewID]
		if row.IsLike {
			tally.likes = row.Total
		} else {
			tally.dislikes = row.Total
		}
		counts[row.ReviewID] = tally
	}
	return counts, nil
}

func (s *ReviewService) LikeReview(ctx context.Context, userID, reviewID uint, isLike bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findActiveReview(tx, reviewID); err != nil {
			return err
		}

		var existing models.ReviewLike
		err := tx.Where("user_id = ? AND review_id = ?", userID, reviewID).First(&existing).Error
		if err == nil {
			existing.IsLike = isLike
			if err := tx.Save(&existing).Error; err != nil {
				return apperrors.Unexpected("failed to update like/dislike", err)
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Unexpected("failed to process like/dislike", err)
		}

		like := models.ReviewLike{UserID: userID, ReviewID: reviewID, IsLike: isLike}
		if err := tx.Create(&like).Error; err != nil {
			return apperrors.Unexpected("failed to create like/dislike", err)
		}
		return nil
	})
}

func (s *ReviewService) FlagReview(ctx context.Context, reviewID uint) error {
	db := s.db.WithContext(ctx)
	if _, err := findActiveReview(db, reviewID); err != nil {
		return err
	}

	if err := db.Model(&models.Review{}).Where("id = ?", reviewID).Update("is_flagged", true).Error; err != nil {
		return apperrors.Unexpected("failed to flag review", err)
	}
	return nil
}

func (s *ReviewService) GetFlaggedReviews(ctx context.Context) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := s.db.WithContext(ctx).
		Where("is_flagged = ? AND is_active = ?", true, true).
		Order("updated_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, apperrors.Unexpected("failed to fetch flagged reviews", err)
	}
	return reviews, nil
}

// ModerateReview applies an admin decision to a review. "approve" clears the
// flag; "remove" hides the review and drops it from the product aggregate.
func (s *ReviewService) ModerateReview(ctx context.Context, reviewID uint, action string) (*ReviewResult, error) {
	if action != "approve" && action != "remove" {
		return nil, apperrors.Validation("invalid action, use 'approve' or 'remove'")
	}

	result := &ReviewResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("review", reviewID)
			}
			return apperrors.Unexpected("failed to find review", err)
		}

		if action == "approve" {
			review.IsFlagged = false
		} else {
			review.IsFlagged = false
			review.IsActive = false
		}
		if err := tx.Save(&review).Error; err != nil {
			return apperrors.Unexpected("failed to moderate review", err)
		}

		summary, err := s.aggregator.Recalculate(ctx, tx, review.ProductID)
		if err != nil {
			return err
		}
		result.Review = &review
		result.Product = summary
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func findActiveReview(db *gorm.DB, reviewID uint) (*models.Review, error) {
	var review models.Review
	if err := db.Where("id = ? AND is_active = ?", reviewID, true).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("review", reviewID)
		}
		return nil, apperrors.Unexpected("failed to find review", err)
	}
	return &review, nil
}
