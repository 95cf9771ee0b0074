// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
)

// Email represents an outgoing message
type Email struct {
	To      string
	Subject string
	HTML    string
}

// EmailService sends transactional mail over SMTP
type EmailService struct {
	config *config.Config
	logger *logrus.Logger
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, logger *logrus.Logger) *EmailService {
	return &EmailService{
		config: cfg,
		logger: logger,
	}
}

// SendEmail sends an email through the configured SMTP relay. In development
// with no relay configured the message is logged instead of sent.
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	cfg := s.config.External.Email
	if cfg.SMTPHost == "" {
		s.logger.WithFields(logrus.Fields{
			"to":      email.To,
			"subject": email.Subject,
		}).Info("SMTP not configured, skipping email delivery")
		return nil
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", cfg.FromName, cfg.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", email.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(email.HTML)

	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, cfg.FromEmail, []string{email.To}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var recoveryTemplate = template.Must(template.New("recovery").Parse(`
<html>
  <body>
    <p>Hello {{.Name}},</p>
    <p>We received a request to reset your password. Use the token below to set a new one:</p>
    <p><strong>{{.Token}}</strong></p>
    <p>The token expires in {{.ExpiresIn}}. If you did not request this, ignore this message.</p>
  </body>
</html>`))

// SendPasswordRecoveryEmail mails a single-use reset token to the account owner
func (s *EmailService) SendPasswordRecoveryEmail(ctx context.Context, userEmail, userName, token string) error {
	var body bytes.Buffer
	err := recoveryTemplate.Execute(&body, map[string]string{
		"Name":      userName,
		"Token":     token,
		"ExpiresIn": s.config.Security.RecoveryTokenExpiry.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to render recovery email: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:      userEmail,
		Subject: "Password recovery",
		HTML:    body.String(),
	})
}
