package rating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/princeprakhar/eyewear-backend/internal/database/databasetest"
	"github.com/princeprakhar/eyewear-backend/internal/models"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    Summary
	}{
		{"empty", nil, Summary{AverageRating: 0, ReviewCount: 0}},
		{"single", []int{5}, Summary{AverageRating: 5, ReviewCount: 1}},
		{"whole mean", []int{4, 5, 3}, Summary{AverageRating: 4, ReviewCount: 3}},
		{"rounds down", []int{5, 4, 4}, Summary{AverageRating: 4.33, ReviewCount: 3}},
		{"rounds up", []int{5, 5, 4}, Summary{AverageRating: 4.67, ReviewCount: 3}},
		{"two decimals", []int{1, 2, 2, 2, 5, 5, 4}, Summary{AverageRating: 3, ReviewCount: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.ratings))
		})
	}
}

func seedProduct(t *testing.T, db *gorm.DB, ratings ...int) models.Product {
	t.Helper()
	product := models.Product{Name: "Aviator", Price: 120, SKU: "AV-1", Stock: 5, IsActive: true}
	require.NoError(t, db.Create(&product).Error)

	for i, r := range ratings {
		review := models.Review{UserID: uint(i + 1), ProductID: product.ID, Rating: r, IsActive: true}
		require.NoError(t, db.Create(&review).Error)
	}
	return product
}

func reload(t *testing.T, db *gorm.DB, id uint) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p
}

func TestRecalculate_PersistsSummary(t *testing.T) {
	db := databasetest.New(t)
	product := seedProduct(t, db, 4, 5, 3)
	agg := NewAggregator(db)

	summary, err := agg.Recalculate(context.Background(), nil, product.ID)

	require.NoError(t, err)
	assert.Equal(t, Summary{AverageRating: 4.0, ReviewCount: 3}, summary)

	stored := reload(t, db, product.ID)
	assert.Equal(t, 4.0, stored.AverageRating)
	assert.Equal(t, 3, stored.ReviewCount)
}

func TestRecalculate_IgnoresInactiveReviews(t *testing.T) {
	db := databasetest.New(t)
	product := seedProduct(t, db, 5, 5)
	hidden := models.Review{UserID: 99, ProductID: product.ID, Rating: 1, IsActive: false}
	require.NoError(t, db.Create(&hidden).Error)

	summary, err := NewAggregator(db).Recalculate(context.Background(), nil, product.ID)

	require.NoError(t, err)
	assert.Equal(t, Summary{AverageRating: 5, ReviewCount: 2}, summary)
}

func TestRecalculate_LastReviewDeletedResetsToZero(t *testing.T) {
	db := databasetest.New(t)
	product := seedProduct(t, db, 2)
	agg := NewAggregator(db)
	_, err := agg.Recalculate(context.Background(), nil, product.ID)
	require.NoError(t, err)

	require.NoError(t, db.Where("product_id = ?", product.ID).Delete(&models.Review{}).Error)
	summary, err := agg.Recalculate(context.Background(), nil, product.ID)

	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
	stored := reload(t, db, product.ID)
	assert.Zero(t, stored.AverageRating)
	assert.Zero(t, stored.ReviewCount)
}

func TestRecalculate_MissingProductIsNoop(t *testing.T) {
	db := databasetest.New(t)

	summary, err := NewAggregator(db).Recalculate(context.Background(), nil, 4242)

	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

func TestRecalculate_UsesTransaction(t *testing.T) {
	db := databasetest.New(t)
	product := seedProduct(t, db, 3)
	agg := NewAggregator(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		extra := models.Review{UserID: 50, ProductID: product.ID, Rating: 5, IsActive: true}
		if err := tx.Create(&extra).Error; err != nil {
			return err
		}
		summary, err := agg.Recalculate(context.Background(), tx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, Summary{AverageRating: 4, ReviewCount: 2}, summary)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, reload(t, db, product.ID).ReviewCount)
}
