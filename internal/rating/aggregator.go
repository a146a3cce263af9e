// Package rating keeps a product's average_rating and review_count in step
// with its active reviews.
package rating

import (
	"context"
	"errors"
	"math"

	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/pkg/logger"
	"gorm.io/gorm"
)

// Summary is the derived rating state of one product.
type Summary struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// Summarize computes the mean of ratings rounded to two decimals, or zero
// for an empty set.
func Summarize(ratings []int) Summary {
	if len(ratings) == 0 {
		return Summary{}
	}

	total := 0
	for _, r := range ratings {
		total += r
	}
	mean := float64(total) / float64(len(ratings))

	return Summary{
		AverageRating: math.Round(mean*100) / 100,
		ReviewCount:   len(ratings),
	}
}

type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Recalculate recomputes the product's aggregate from its active reviews and
// writes it back in one update. tx may be nil to run outside a transaction.
// A product that no longer exists is not an error: the zero Summary is
// returned and nothing is written.
func (a *Aggregator) Recalculate(ctx context.Context, tx *gorm.DB, productID uint) (Summary, error) {
	db := tx
	if db == nil {
		db = a.db
	}
	db = db.WithContext(ctx)

	var product models.Product
	if err := db.Select("id").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(logger.Fields{"product_id": productID}).Debug("skipping rating recompute for missing product")
			return Summary{}, nil
		}
		return Summary{}, apperrors.Unexpected("failed to load product", err)
	}

	var ratings []int
	if err := db.Model(&models.Review{}).
		Where("product_id = ? AND is_active = ?", productID, true).
		Pluck("rating", &ratings).Error; err != nil {
		return Summary{}, apperrors.Unexpected("failed to load product ratings", err)
	}

	summary := Summarize(ratings)

	if err := db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumns(map[string]interface{}{
			"average_rating": summary.AverageRating,
			"review_count":   summary.ReviewCount,
		}).Error; err != nil {
		return Summary{}, apperrors.Unexpected("failed to store product rating", err)
	}

	return summary, nil
}
