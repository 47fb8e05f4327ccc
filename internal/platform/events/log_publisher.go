package events

import (
	"context"
	"encoding/json"
	"log/slog"
)

// LogPublisher writes events to a slog.Logger instead of a broker.
// The payload is logged at debug level only.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher returns a LogPublisher. A nil logger uses slog.Default().
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "event published", "routing_key", routingKey)
	p.logger.DebugContext(ctx, "event payload", "routing_key", routingKey, "body", string(body))
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }
