package notification

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// Timeout caps dialing and each relay round trip. Zero keeps the
	// client default.
	Timeout time.Duration
}

// SMTPMailer sends mail through a relay. Authentication is only attempted
// when a username is configured, and STARTTLS is used when offered.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers msg and returns no later than ctx's deadline, even when the
// relay accepts the connection and then goes silent.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mm, err := m.buildMessage(msg)
	if err != nil {
		return err
	}
	client, err := m.client()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- client.DialAndSendWithContext(ctx, mm)
	}()

	select {
	case err := <-done:
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("smtp send to %s: %w", msg.To, ctxErr)
		}
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w", msg.To, ctx.Err())
	}
}

func (m *SMTPMailer) client() (*mail.Client, error) {
	port, err := strconv.Atoi(m.cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("smtp: invalid port %q: %w", m.cfg.Port, err)
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.cfg.Timeout))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp: %w", err)
	}
	return client, nil
}

// headerSanitizer strips CR and LF so header values cannot inject new headers.
var headerSanitizer = strings.NewReplacer("\r", "", "\n", " ")

func (m *SMTPMailer) buildMessage(msg Message) (*mail.Msg, error) {
	mm := mail.NewMsg()
	if err := mm.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("smtp: invalid sender %q: %w", m.cfg.From, err)
	}
	if err := mm.To(msg.To); err != nil {
		return nil, fmt.Errorf("smtp: invalid recipient %q: %w", msg.To, err)
	}
	mm.Subject(headerSanitizer.Replace(msg.Subject))
	mm.SetBodyString(mail.TypeTextPlain, msg.Body)
	return mm, nil
}
