// Package notification delivers outbound mail. Delivery is best-effort:
// callers log failures and move on.
package notification

import (
	"context"
	"fmt"

	"github.com/besimplit/task-tracker/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Message is a plain-text mail.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer hands a message to a delivery backend.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the mailer selected by MAIL_BACKEND. rdb is only required for
// the redis backend.
func New(cfg config.MailConfig, rdb *redis.Client, log zerolog.Logger) (Mailer, error) {
	switch cfg.Backend {
	case config.MailBackendLog:
		return NewLogMailer(cfg.From, log), nil
	case config.MailBackendSMTP:
		return NewSMTPMailer(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.From,
			Timeout:  cfg.SMTPTimeout,
		}), nil
	case config.MailBackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("notification: redis backend requires a redis client")
		}
		return NewStreamMailer(rdb, cfg.Stream, cfg.From), nil
	default:
		return nil, fmt.Errorf("notification: unsupported mail backend %q", cfg.Backend)
	}
}
