package ports

import "context"

// Email is an outgoing message.
type Email struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers email through an external provider.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// RateLimiter answers whether the caller identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
