package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/harvestbox/subscriptions/internal/application/subscription/usecases"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for email links (e.g., "https://shop.example.com")
	ConfirmPath string // Path of the confirmation page, the token is appended as ?token=
}

// sender is the part of gomail.Dialer the service uses.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer sender
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

// SendReminder emails the delivery reminder with the confirmation link.
func (s *SMTPEmailService) SendReminder(ctx context.Context, msg usecases.ReminderMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := renderReminder(reminderData{
		RecipientName: msg.RecipientName,
		ProductName:   msg.ProductName,
		DeliveryDate:  msg.ScheduledDate.Format("Monday, 02 Jan 2006"),
		ConfirmURL:    s.confirmURL(msg.Token),
		CustomMessage: msg.CustomMessageHTML,
	})
	if err != nil {
		return err
	}

	return s.sendEmail(msg.RecipientEmail, content.Subject, content.HTML, content.Plain)
}

func (s *SMTPEmailService) confirmURL(token string) string {
	base := strings.TrimRight(s.config.BaseURL, "/")
	path := "/" + strings.TrimLeft(s.config.ConfirmPath, "/")
	return fmt.Sprintf("%s%s?token=%s", base, path, url.QueryEscape(token))
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
