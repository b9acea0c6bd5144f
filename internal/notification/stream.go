package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	SchemaVersionV1 = "v1"

	streamMaxLen = 10000
)

// StreamMailer publishes messages to a Redis stream for an external mail
// worker to deliver.
type StreamMailer struct {
	rdb    *redis.Client
	stream string
	from   string
}

func NewStreamMailer(rdb *redis.Client, stream, from string) *StreamMailer {
	return &StreamMailer{rdb: rdb, stream: stream, from: from}
}

// streamEnvelope is the JSON payload carried in the stream entry.
type streamEnvelope struct {
	From string `json:"from"`
	Message
}

func (m *StreamMailer) Send(ctx context.Context, msg Message) error {
	values, err := m.entryValues(msg, time.Now())
	if err != nil {
		return err
	}

	result := m.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: m.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		ID:     "*",
		Values: values,
	})
	if result.Err() != nil {
		return fmt.Errorf("failed to publish mail to stream: %w", result.Err())
	}
	return nil
}

func (m *StreamMailer) entryValues(msg Message, now time.Time) (map[string]interface{}, error) {
	payload, err := json.Marshal(streamEnvelope{From: m.from, Message: msg})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mail: %w", err)
	}
	return map[string]interface{}{
		"payload":        string(payload),
		"published_at":   now.Unix(),
		"schema_version": SchemaVersionV1,
	}, nil
}
