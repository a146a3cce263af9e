package models

import (
	"time"
)

type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_user_product"`
	ProductID uint      `json:"product_id" gorm:"not null;index;uniqueIndex:idx_reviews_user_product"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string    `json:"comment"`
	IsFlagged bool      `json:"is_flagged" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Likes []ReviewLike `json:"likes,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

type ReviewLike struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_review_likes_user_review"`
	ReviewID uint `json:"review_id" gorm:"not null;uniqueIndex:idx_review_likes_user_review"`
	IsLike   bool `json:"is_like"` // true for like, false for dislike
}

func (ReviewLike) TableName() string {
	return "review_likes"
}
