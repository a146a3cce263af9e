package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

const (
	SenderCustomer = "customer"
	SenderAdmin    = "admin"
)

// SupportTicket is a customer-support conversation. Each side has its own
// unread counter, bumped by the other side's messages.
type SupportTicket struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	UserID        uint             `json:"user_id" gorm:"not null;index"`
	ContactEmail  string           `json:"contact_email"`
	Subject       string           `json:"subject" gorm:"not null"`
	Status        TicketStatus     `json:"status" gorm:"size:20;not null;index"`
	UnreadByUser  int              `json:"unread_by_user" gorm:"not null;default:0"`
	UnreadByAdmin int              `json:"unread_by_admin" gorm:"not null;default:0"`
	LastMessageAt time.Time        `json:"last_message_at" gorm:"index"`
	Messages      []SupportMessage `json:"messages,omitempty" gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type SupportMessage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TicketID   uint      `json:"ticket_id" gorm:"not null;index"`
	SenderID   uint      `json:"sender_id" gorm:"not null"`
	SenderRole string    `json:"sender_role" gorm:"size:20;not null"`
	Body       string    `json:"body" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	ChatSenderUser  = "user"
	ChatSenderAgent = "agent"
)

// ChatSession is a user's chat thread with the shop assistant.
// UnreadCount counts agent messages the user has not read yet.
type ChatSession struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uint          `json:"user_id" gorm:"not null;index"`
	Title         string        `json:"title"`
	UnreadCount   int           `json:"unread_count" gorm:"not null;default:0"`
	IsArchived    bool          `json:"is_archived" gorm:"not null"`
	LastMessageAt time.Time     `json:"last_message_at" gorm:"index"`
	Messages      []ChatMessage `json:"messages,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type ChatMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID uuid.UUID `json:"session_id" gorm:"type:uuid;not null;index"`
	Sender    string    `json:"sender" gorm:"size:10;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	IsRead    bool      `json:"is_read" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

type OpenTicketRequest struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

type PostMessageRequest struct {
	Body string `json:"body" binding:"required,max=5000"`
}

type CreateChatSessionRequest struct {
	Title string `json:"title" binding:"max=200"`
}

type PostChatMessageRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}
