// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/restitch/restitch-backend/internal/config"
	"github.com/restitch/restitch-backend/internal/models"
)

// NotificationService sends transactional email. Sending is best-effort:
// callers log failures and never surface them.
type NotificationService struct {
	config *config.Config
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{
		config: config,
	}
}

const confirmationEmailBody = `
<html>
<body>
	<p>Hi {{.FullName}},</p>
	<p>Welcome to {{.PlatformName}}. Please confirm your email address by clicking the link below:</p>
	<p><a href="{{.ConfirmationURL}}">Confirm email</a></p>
	<p>If you did not create an account you can ignore this message.</p>
</body>
</html>
`

const passwordResetEmailBody = `
<html>
<body>
	<p>Hi {{.FullName}},</p>
	<p>We received a request to reset your password. The link below is valid for {{.ExpiresIn}}:</p>
	<p><a href="{{.ResetURL}}">Reset password</a></p>
	<p>If you did not request a reset you can ignore this message.</p>
</body>
</html>
`

func (s *NotificationService) SendConfirmationEmail(user *models.User, token string) error {
	data := map[string]interface{}{
		"FullName":        user.FullName,
		"ConfirmationURL": fmt.Sprintf("%s/verify-email?token=%s", s.config.Frontend.BaseURL, token),
		"PlatformName":    s.config.Email.FromName,
	}

	body, err := s.renderTemplate(confirmationEmailBody, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, "Confirm your email", body)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, token string) error {
	data := map[string]interface{}{
		"FullName":  user.FullName,
		"ResetURL":  fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, token),
		"ExpiresIn": "1 hour",
	}

	body, err := s.renderTemplate(passwordResetEmailBody, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, "Password reset request", body)
}

func (s *NotificationService) renderTemplate(tmpl string, data map[string]interface{}) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) sendEmail(to, subject, htmlBody string) error {
	cfg := s.config.Email
	if cfg.SMTPUsername == "" {
		// No SMTP configured (local development); treat as sent.
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		cfg.FromName, cfg.FromEmail, to, subject, htmlBody,
	)

	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	addr := cfg.SMTPHost + ":" + cfg.SMTPPort

	if err := smtp.SendMail(addr, auth, cfg.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}
