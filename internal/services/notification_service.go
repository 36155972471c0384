// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/bankhub/credit-backend/internal/config"
	"github.com/bankhub/credit-backend/internal/models"
)

// NotificationService sends applicant-facing emails. Calls are fire and
// forget from the services that trigger them; failures are logged, never
// surfaced to the request path.
type NotificationService struct {
	config *config.Config
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	return &NotificationService{config: cfg}
}

func (s *NotificationService) SendWelcomeEmail(user *models.User) {
	data := map[string]interface{}{
		"Name": user.FullName,
		"Bank": s.config.Email.FromName,
	}

	body, err := s.renderTemplate(welcomeTemplate, data)
	if err != nil {
		logrus.WithError(err).Error("Failed to render welcome email")
		return
	}

	if err := s.sendEmail(user.Email, "Welcome to "+s.config.Email.FromName, body); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Warn("Failed to send welcome email")
	}
}

// SendStatusChangeEmail notifies the applicant that staff moved their
// application to a new status.
func (s *NotificationService) SendStatusChangeEmail(application *models.CreditApplication) {
	comment := ""
	if application.ManagerComment != nil {
		comment = *application.ManagerComment
	}

	data := map[string]interface{}{
		"Name":    application.CustomerName,
		"ID":      application.ID.String(),
		"Status":  application.Status.Label(),
		"Comment": comment,
	}

	body, err := s.renderTemplate(statusChangeTemplate, data)
	if err != nil {
		logrus.WithError(err).Error("Failed to render status change email")
		return
	}

	subject := fmt.Sprintf("Your credit application: %s", application.Status.Label())
	if err := s.sendEmail(application.Email, subject, body); err != nil {
		logrus.WithError(err).WithField("application_id", application.ID).Warn("Failed to send status change email")
	}
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

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPUsername == "" {
		// SMTP not configured; skip silently in development.
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)
	addr := s.config.Email.SMTPHost + ":" + s.config.Email.SMTPPort

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.config.Email.FromName, s.config.Email.FromEmail, to, subject, body,
	))

	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

const welcomeTemplate = `
<html><body>
<h2>Welcome, {{.Name}}!</h2>
<p>Your account at {{.Bank}} has been created. You can now browse credit
products, use the loan calculator and submit applications online.</p>
</body></html>`

const statusChangeTemplate = `
<html><body>
<h2>Application update</h2>
<p>Dear {{.Name}},</p>
<p>The status of your credit application <b>#{{.ID}}</b> has changed to
<b>{{.Status}}</b>.</p>
{{if .Comment}}<p>Manager comment: {{.Comment}}</p>{{end}}
</body></html>`
