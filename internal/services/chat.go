package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
	"gorm.io/gorm"
)

const defaultChatTitle = "New conversation"

type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

func (s *ChatService) CreateSession(ctx context.Context, userID uint, req models.CreateChatSessionRequest) (*models.ChatSession, error) {
	title := utils.SanitizeString(req.Title)
	if title == "" {
		title = defaultChatTitle
	}

	session := &models.ChatSession{
		UserID:        userID,
		Title:         title,
		LastMessageAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, apperrors.Unexpected("failed to create chat session", err)
	}
	return session, nil
}

// ListSessions returns the user's sessions, most recently active first.
func (s *ChatService) ListSessions(ctx context.Context, userID uint, includeArchived bool) ([]models.ChatSession, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}

	sessions := make([]models.ChatSession, 0)
	if err := query.Order("last_message_at DESC").Find(&sessions).Error; err != nil {
		return nil, apperrors.Unexpected("failed to fetch chat sessions", err)
	}
	return sessions, nil
}

// PostUserMessage appends the user's own message to their session.
func (s *ChatService) PostUserMessage(ctx context.Context, userID uint, sessionID uuid.UUID, req models.PostChatMessageRequest) (*models.ChatMessage, error) {
	return s.post(ctx, sessionID, models.ChatSenderUser, req.Content, func(session *models.ChatSession) error {
		if session.UserID != userID {
			return apperrors.NotFound("chat session", sessionID)
		}
		return nil
	})
}

// PostAgentMessage appends a reply from the shop and counts it as unread
// for the session owner.
func (s *ChatService) PostAgentMessage(ctx context.Context, sessionID uuid.UUID, req models.PostChatMessageRequest) (*models.ChatMessage, error) {
	return s.post(ctx, sessionID, models.ChatSenderAgent, req.Content, nil)
}

func (s *ChatService) post(ctx context.Context, sessionID uuid.UUID, sender, content string, check func(*models.ChatSession) error) (*models.ChatMessage, error) {
	content = utils.SanitizeString(content)
	if content == "" {
		return nil, apperrors.Validation("message content is required")
	}

	message := &models.ChatMessage{
		SessionID: sessionID,
		Sender:    sender,
		Content:   content,
		IsRead:    sender == models.ChatSenderUser,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := findSession(tx, sessionID)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(session); err != nil {
				return err
			}
		}
		if err := tx.Create(message).Error; err != nil {
			return apperrors.Unexpected("failed to save chat message", err)
		}

		updates := map[string]interface{}{
			"last_message_at": time.Now().UTC(),
			"is_archived":     false,
		}
		if sender == models.ChatSenderAgent {
			updates["unread_count"] = gorm.Expr("unread_count + 1")
		}
		if err := tx.Model(session).Updates(updates).Error; err != nil {
			return apperrors.Unexpected("failed to update chat session", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

// GetMessages returns the session's messages in order and marks the agent's
// replies as read.
func (s *ChatService) GetMessages(ctx context.Context, userID uint, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	messages := make([]models.ChatMessage, 0)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := findSession(tx, sessionID)
		if err != nil {
			return err
		}
		if session.UserID != userID {
			return apperrors.NotFound("chat session", sessionID)
		}

		if err := tx.Model(&models.ChatMessage{}).
			Where("session_id = ? AND sender = ? AND is_read = ?", sessionID, models.ChatSenderAgent, false).
			Update("is_read", true).Error; err != nil {
			return apperrors.Unexpected("failed to mark messages read", err)
		}
		if err := tx.Model(session).UpdateColumn("unread_count", 0).Error; err != nil {
			return apperrors.Unexpected("failed to reset unread count", err)
		}

		if err := tx.Where("session_id = ?", sessionID).Order("created_at, id").Find(&messages).Error; err != nil {
			return apperrors.Unexpected("failed to fetch chat messages", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *ChatService) ArchiveSession(ctx context.Context, userID uint, sessionID uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&models.ChatSession{}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Update("is_archived", true)
	if res.Error != nil {
		return apperrors.Unexpected("failed to archive chat session", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("chat session", sessionID)
	}
	return nil
}

// TotalUnread sums unread agent messages over the user's sessions.
func (s *ChatService) TotalUnread(ctx context.Context, userID uint) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.ChatSession{}).
		Select("COALESCE(SUM(unread_count), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error; err != nil {
		return 0, apperrors.Unexpected("failed to count unread messages", err)
	}
	return total, nil
}

func findSession(tx *gorm.DB, sessionID uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := tx.Where("id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("chat session", sessionID)
		}
		return nil, apperrors.Unexpected("failed to fetch chat session", err)
	}
	return &session, nil
}
