package services

import (
	"fmt"
	"html"

	"github.com/princeprakhar/eyewear-backend/internal/config"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Notifier sends the transactional emails the services emit. Delivery is
// best effort: callers log failures and carry on.
type Notifier interface {
	NotifySupportMessage(ticket *models.SupportTicket, message *models.SupportMessage) error
	NotifyOrderStatus(order *models.Order) error
}

type EmailService struct {
	config *config.Config
}

func NewEmailService(config *config.Config) *EmailService {
	return &EmailService{config: config}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	if s.config.SMTPHost == "" {
		logger.WithFields(logger.Fields{"to": to, "subject": subject}).Debug("smtp disabled, dropping email")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	return d.DialAndSend(m)
}

func (s *EmailService) NotifySupportMessage(ticket *models.SupportTicket, message *models.SupportMessage) error {
	subject := fmt.Sprintf("[Ticket #%d] %s", ticket.ID, ticket.Subject)
	body := fmt.Sprintf(`
		<h2>New customer message</h2>
		<p><strong>Ticket:</strong> #%d (%s)</p>
		<p><strong>From user:</strong> %d %s</p>
		<blockquote>%s</blockquote>
	`, ticket.ID, html.EscapeString(ticket.Subject), ticket.UserID, html.EscapeString(ticket.ContactEmail), html.EscapeString(message.Body))

	return s.SendEmail(s.config.SupportInbox, subject, body)
}

func (s *EmailService) NotifyOrderStatus(order *models.Order) error {
	if order.ContactEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Your order #%d is %s", order.ID, order.Status)
	body := fmt.Sprintf(`
		<h2>Order update</h2>
		<p>Your order <strong>#%d</strong> is now <strong>%s</strong>.</p>
		<p>Order total: %.2f</p>
		<p>Thank you for shopping with us.</p>
	`, order.ID, order.Status, order.Total)

	return s.SendEmail(order.ContactEmail, subject, body)
}
