package models

import (
	"time"

	"github.com/princeprakhar/eyewear-backend/internal/locale"
)

// Localizable is embedded by every content type stored once per locale.
// Rows sharing a DocumentID are translations of the same record.
type Localizable struct {
	Locale        string       `json:"locale" gorm:"size:10;not null;uniqueIndex:,composite:document_locale"`
	DocumentID    string       `json:"document_id" gorm:"size:36;not null;index;uniqueIndex:,composite:document_locale"`
	Localizations []locale.Ref `json:"localizations" gorm:"-"`
}

func (l Localizable) LocaleCode() string { return l.Locale }

func (l Localizable) LocalizationRefs() []locale.Ref { return l.Localizations }

func (l Localizable) DocumentKey() string { return l.DocumentID }

func (l *Localizable) AssignDocument(key, tag string) {
	l.DocumentID = key
	l.Locale = tag
}

func (l *Localizable) SetLocalizations(refs []locale.Ref) {
	l.Localizations = refs
}

type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"not null;index"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Localizable
}

type Page struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"not null;index"`
	Body      string    `json:"body" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Localizable
}

type FAQ struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Question   string    `json:"question" gorm:"not null"`
	Answer     string    `json:"answer" gorm:"type:text"`
	SortOrder  int       `json:"sort_order"`
	CategoryID *uint     `json:"category_id"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Localizable
}

func (FAQ) TableName() string {
	return "faqs"
}

type CreateCategoryRequest struct {
	Name           string `json:"name" binding:"required,max=100"`
	Slug           string `json:"slug" binding:"required,max=100"`
	Description    string `json:"description"`
	Locale         string `json:"locale"`
	LocalizationOf uint   `json:"localization_of"`
}

type CreatePageRequest struct {
	Title          string `json:"title" binding:"required,max=255"`
	Slug           string `json:"slug" binding:"required,max=100"`
	Body           string `json:"body"`
	Locale         string `json:"locale"`
	LocalizationOf uint   `json:"localization_of"`
}

type CreateFAQRequest struct {
	Question       string `json:"question" binding:"required"`
	Answer         string `json:"answer" binding:"required"`
	SortOrder      int    `json:"sort_order"`
	CategoryID     *uint  `json:"category_id"`
	Locale         string `json:"locale"`
	LocalizationOf uint   `json:"localization_of"`
}

// UpdateContentRequest carries the editable text fields shared by the
// localized content types; fields a type does not have are ignored.
type UpdateContentRequest struct {
	Name        *string `json:"name,omitempty"`
	Title       *string `json:"title,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	Body        *string `json:"body,omitempty"`
	Question    *string `json:"question,omitempty"`
	Answer      *string `json:"answer,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
}
