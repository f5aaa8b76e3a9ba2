// Package mail delivers outgoing email through the Resend REST API.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
)

const DefaultBaseURL = "https://api.resend.com"

// Config captures the settings of the Resend client.
type Config struct {
	APIKey  string
	From    string
	BaseURL string
	Timeout time.Duration
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ResendMailer implements ports.Mailer.
type ResendMailer struct {
	http   *resty.Client
	from   string
	apiKey string
	logger zerolog.Logger
}

var _ ports.Mailer = (*ResendMailer)(nil)

func NewResendMailer(cfg Config, logger zerolog.Logger) *ResendMailer {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &ResendMailer{http: client, from: cfg.From, apiKey: cfg.APIKey, logger: logger}
}

// Send posts msg to /emails. A mailer without sender or key reports
// domain.ErrMailerNotConfigured without calling the API.
func (m *ResendMailer) Send(ctx context.Context, msg ports.Email) error {
	if m.from == "" || m.apiKey == "" || len(msg.To) == 0 {
		return domain.ErrMailerNotConfigured
	}

	var (
		result sendResponse
		apiErr errorResponse
	)
	resp, err := m.http.R().
		SetContext(ctx).
		SetBody(sendRequest{
			From:    m.from,
			To:      msg.To,
			ReplyTo: msg.ReplyTo,
			Subject: msg.Subject,
			HTML:    msg.HTML,
			Text:    msg.Text,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}
	if resp.IsError() {
		m.logger.Error().Int("status", resp.StatusCode()).Str("name", apiErr.Name).Str("msg", apiErr.Message).Msg("resend rejected email")
		return fmt.Errorf("resend: status %d: %s", resp.StatusCode(), apiErr.Message)
	}

	m.logger.Debug().Str("email_id", result.ID).Msg("email accepted by resend")
	return nil
}
