package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/nickppf/nickppf-api/internal/infra/queue"
)

//go:embed templates/*.html
var templatesFS embed.FS

var leadTemplate = template.Must(template.ParseFS(templatesFS, "templates/lead_notification.html"))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// NotifyLead avisa a equipe por e-mail. Consumido pelo worker da fila.
func (s *EmailSender) NotifyLead(ctx context.Context, event queue.LeadSubmittedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.leadMessage(event)
	if err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func (s *EmailSender) leadMessage(event queue.LeadSubmittedEvent) (*gomail.Message, error) {
	data := LeadEmailData{
		Name:        event.Name,
		Email:       event.Email,
		Phone:       event.Phone,
		Services:    event.Services,
		Message:     event.Message,
		SubmittedAt: event.SubmittedAt.Format("2006-01-02 15:04 MST"),
		LeadIDs:     event.LeadIDs,
	}

	var body bytes.Buffer
	if err := leadTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	if event.Email != "" {
		m.SetHeader("Reply-To", event.Email)
	}
	m.SetHeader("Subject", fmt.Sprintf("Шинэ хүсэлт: %s (%s)", event.Name, strings.Join(event.Services, ", ")))
	m.SetBody("text/html", body.String())
	return m, nil
}
