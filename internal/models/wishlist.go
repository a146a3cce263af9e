package models

import (
	"time"
)

type WishlistItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_wishlist_user_product"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
