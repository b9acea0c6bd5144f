package notification

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer writes messages to the structured log instead of sending them.
// Used in development, like a console email backend.
type LogMailer struct {
	from string
	log  zerolog.Logger
}

func NewLogMailer(from string, log zerolog.Logger) *LogMailer {
	return &LogMailer{from: from, log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info().
		Str("from", m.from).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("mail")
	return nil
}
