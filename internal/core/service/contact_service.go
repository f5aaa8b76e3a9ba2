package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/contalink/backoffice/internal/api/metrics"
	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

type contactService struct {
	mailer  ports.Mailer
	limiter ports.RateLimiter
	to      []string
	log     zerolog.Logger
}

// NewContactService returns a ContactService delivering messages to the
// recipients in to.
func NewContactService(mailer ports.Mailer, limiter ports.RateLimiter, to []string, log zerolog.Logger) ports.ContactService {
	return &contactService{mailer: mailer, limiter: limiter, to: to, log: log}
}

// Send validates and emails a contact message. Submissions are rate limited
// per client IP; a limiter outage lets the message through.
func (s *contactService) Send(ctx context.Context, clientIP string, form *schema.ContactForm) (err error) {
	defer func() {
		metrics.ContactMessagesTotal.WithLabelValues(outcome(err)).Inc()
	}()

	if err := schema.Validate(form); err != nil {
		return err
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, "contact:"+clientIP)
		if err != nil {
			s.log.Warn().Err(err).Str("ip", clientIP).Msg("contact rate limiter unavailable")
		} else if !ok {
			s.log.Info().Str("ip", clientIP).Msg("contact rate limit exceeded")
			return domain.ErrRateLimited
		}
	}

	subject := form.Subject
	if subject == "" {
		subject = "Nuevo mensaje de contacto"
	}
	msg := ports.Email{
		To:      s.to,
		ReplyTo: form.Email,
		Subject: subject + " - " + form.Name,
		Text:    fmt.Sprintf("Nombre: %s\nCorreo: %s\n\n%s", form.Name, form.Email, form.Message),
		HTML:    contactHTML(form),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Msg("failed to send contact email")
		return fmt.Errorf("send contact email: %w", err)
	}

	s.log.Info().Str("from", form.Email).Msg("contact message sent")
	return nil
}

func contactHTML(form *schema.ContactForm) string {
	var b strings.Builder
	b.WriteString("<p><strong>Nombre:</strong> ")
	b.WriteString(html.EscapeString(form.Name))
	b.WriteString("</p><p><strong>Correo:</strong> ")
	b.WriteString(html.EscapeString(form.Email))
	b.WriteString("</p><p>")
	b.WriteString(strings.ReplaceAll(html.EscapeString(form.Message), "\n", "<br>"))
	b.WriteString("</p>")
	return b.String()
}
