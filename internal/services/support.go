package services

import (
	"context"
	"errors"
	"time"

	"github.com/princeprakhar/eyewear-backend/internal/apperrors"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
	"github.com/princeprakhar/eyewear-backend/pkg/logger"
	"gorm.io/gorm"
)

// SupportService runs the customer support inbox. Messages from one side
// bump the other side's unread counter; reading a thread clears the
// reader's counter.
type SupportService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewSupportService builds the service. notifier may be nil.
func NewSupportService(db *gorm.DB, notifier Notifier) *SupportService {
	return &SupportService{db: db, notifier: notifier}
}

func (s *SupportService) OpenTicket(ctx context.Context, userID uint, email string, req models.OpenTicketRequest) (*models.SupportTicket, error) {
	subject := utils.SanitizeString(req.Subject)
	body := utils.SanitizeString(req.Message)
	if subject == "" || body == "" {
		return nil, apperrors.Validation("subject and message are required")
	}

	now := time.Now().UTC()
	ticket := &models.SupportTicket{
		UserID:        userID,
		ContactEmail:  email,
		Subject:       subject,
		Status:        models.TicketOpen,
		UnreadByAdmin: 1,
		LastMessageAt: now,
		Messages: []models.SupportMessage{{
			SenderID:   userID,
			SenderRole: models.SenderCustomer,
			Body:       body,
		}},
	}
	if err := s.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, apperrors.Unexpected("failed to open ticket", err)
	}

	logger.WithFields(logger.Fields{"ticket_id": ticket.ID, "user_id": userID}).Info("support ticket opened")
	s.notify(ticket, &ticket.Messages[0])
	return ticket, nil
}

// PostMessage appends a message to a ticket. A customer reply reopens a
// closed ticket.
func (s *SupportService) PostMessage(ctx context.Context, userID uint, role string, ticketID uint, req models.PostMessageRequest) (*models.SupportMessage, error) {
	body := utils.SanitizeString(req.Body)
	if body == "" {
		return nil, apperrors.Validation("message body is required")
	}

	senderRole := models.SenderCustomer
	if role == utils.RoleAdmin {
		senderRole = models.SenderAdmin
	}

	var ticket models.SupportTicket
	message := &models.SupportMessage{
		TicketID:   ticketID,
		SenderID:   userID,
		SenderRole: senderRole,
		Body:       body,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findTicket(tx, ticketID, userID, role, &ticket); err != nil {
			return err
		}
		if err := tx.Create(message).Error; err != nil {
			return apperrors.Unexpected("failed to post message", err)
		}

		updates := map[string]interface{}{"last_message_at": time.Now().UTC()}
		if senderRole == models.SenderAdmin {
			updates["unread_by_user"] = gorm.Expr("unread_by_user + 1")
		} else {
			updates["unread_by_admin"] = gorm.Expr("unread_by_admin + 1")
			if ticket.Status == models.TicketClosed {
				updates["status"] = models.TicketOpen
			}
		}
		if err := tx.Model(&ticket).Updates(updates).Error; err != nil {
			return apperrors.Unexpected("failed to update ticket", err)
		}
		if err := tx.First(&ticket, ticketID).Error; err != nil {
			return apperrors.Unexpected("failed to reload ticket", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if senderRole == models.SenderCustomer {
		s.notify(&ticket, message)
	}
	return message, nil
}

// GetTicket returns a ticket with its messages and marks it read for the
// caller's side.
func (s *SupportService) GetTicket(ctx context.Context, userID uint, role string, ticketID uint) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findTicket(tx, ticketID, userID, role, &ticket); err != nil {
			return err
		}

		column := "unread_by_user"
		if role == utils.RoleAdmin {
			column = "unread_by_admin"
		}
		if err := tx.Model(&ticket).UpdateColumn(column, 0).Error; err != nil {
			return apperrors.Unexpected("failed to mark ticket read", err)
		}

		if err := tx.Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at, id")
		}).First(&ticket, ticketID).Error; err != nil {
			return apperrors.Unexpected("failed to load ticket", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListTickets returns the caller's tickets, or every ticket for admins,
// most recently active first.
func (s *SupportService) ListTickets(ctx context.Context, userID uint, role string, status models.TicketStatus) ([]models.SupportTicket, error) {
	query := s.db.WithContext(ctx).Model(&models.SupportTicket{})
	if role != utils.RoleAdmin {
		query = query.Where("user_id = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	tickets := make([]models.SupportTicket, 0)
	if err := query.Order("last_message_at DESC, id DESC").Find(&tickets).Error; err != nil {
		return nil, apperrors.Unexpected("failed to fetch tickets", err)
	}
	return tickets, nil
}

func (s *SupportService) CloseTicket(ctx context.Context, ticketID uint) (*models.SupportTicket, error) {
	db := s.db.WithContext(ctx)

	var ticket models.SupportTicket
	if err := db.First(&ticket, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("ticket", ticketID)
		}
		return nil, apperrors.Unexpected("failed to fetch ticket", err)
	}
	if err := db.Model(&ticket).Update("status", models.TicketClosed).Error; err != nil {
		return nil, apperrors.Unexpected("failed to close ticket", err)
	}
	return &ticket, nil
}

// UnreadCount sums the caller's unread messages over all tickets.
func (s *SupportService) UnreadCount(ctx context.Context, userID uint, role string) (int64, error) {
	var total int64
	query := s.db.WithContext(ctx).Model(&models.SupportTicket{})
	if role == utils.RoleAdmin {
		query = query.Select("COALESCE(SUM(unread_by_admin), 0)")
	} else {
		query = query.Select("COALESCE(SUM(unread_by_user), 0)").Where("user_id = ?", userID)
	}
	if err := query.Scan(&total).Error; err != nil {
		return 0, apperrors.Unexpected("failed to count unread messages", err)
	}
	return total, nil
}

func findTicket(tx *gorm.DB, ticketID, userID uint, role string, ticket *models.SupportTicket) error {
	if err := tx.First(ticket, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("ticket", ticketID)
		}
		return apperrors.Unexpected("failed to fetch ticket", err)
	}
	if role != utils.RoleAdmin && ticket.UserID != userID {
		return apperrors.NotFound("ticket", ticketID)
	}
	return nil
}

func (s *SupportService) notify(ticket *models.SupportTicket, message *models.SupportMessage) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifySupportMessage(ticket, message); err != nil {
		logger.WithFields(logger.Fields{"ticket_id": ticket.ID, "error": err}).Warn("support notification failed")
	}
}
