package models

import (
	"time"
)

type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	Brand       string    `json:"brand" gorm:"index"`
	SKU         string    `json:"sku" gorm:"uniqueIndex"`
	Stock       int       `json:"stock" gorm:"not null"`
	CategoryID  *uint     `json:"category_id" gorm:"index"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	FrameShape  string    `json:"frame_shape"`
	LensType    string    `json:"lens_type"`
	Gender      string    `json:"gender"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Derived from the active reviews; written only by the rating aggregator.
	AverageRating float64 `json:"average_rating" gorm:"not null;default:0"`
	ReviewCount   int     `json:"review_count" gorm:"not null;default:0"`

	// Relations
	Reviews []Review `json:"reviews,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// Request structs for API
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description string  `json:"description" binding:"max=2000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Brand       string  `json:"brand" binding:"max=100"`
	SKU         string  `json:"sku" binding:"required,max=64"`
	Stock       int     `json:"stock" binding:"min=0"`
	CategoryID  *uint   `json:"category_id"`
	FrameShape  string  `json:"frame_shape" binding:"max=50"`
	LensType    string  `json:"lens_type" binding:"max=50"`
	Gender      string  `json:"gender" binding:"omitempty,oneof=men women unisex kids"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Brand       *string  `json:"brand,omitempty"`
	SKU         *string  `json:"sku,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	CategoryID  *uint    `json:"category_id,omitempty"`
	FrameShape  *string  `json:"frame_shape,omitempty"`
	LensType    *string  `json:"lens_type,omitempty"`
	Gender      *string  `json:"gender,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}
