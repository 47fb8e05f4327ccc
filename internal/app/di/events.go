package di

import (
	"log/slog"

	"storefront_backend/internal/platform/events"
)

// NewPublisher connects to the broker at url. An empty url or an unreachable
// broker yields a publisher that only logs.
func NewPublisher(url string, logger *slog.Logger) events.Publisher {
	if url == "" {
		return events.NewLogPublisher(logger)
	}
	pub, err := events.DialAMQP(url)
	if err != nil {
		logger.Warn("AMQP unavailable, events will only be logged", "error", err)
		return events.NewLogPublisher(logger)
	}
	return pub
}
