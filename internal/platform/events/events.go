// Package events publishes domain events to RabbitMQ, or to the log when no
// broker is configured. Publish failures never fail the calling request.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	orderentity "storefront_backend/internal/feature/orders/domain/entity"
)

// Routing keys. Each one is also the name of a durable queue.
const (
	KeyOrderCompleted         = "order.completed"
	KeyPasswordResetRequested = "password.reset.requested"
)

// Publisher sends a JSON-encodable payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// OrderCompleted is the payload of KeyOrderCompleted.
type OrderCompleted struct {
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
	CompletedAt time.Time       `json:"completed_at"`
}

// PasswordResetRequested is the payload of KeyPasswordResetRequested.
type PasswordResetRequested struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Dispatcher turns domain calls into published events.
type Dispatcher struct {
	pub Publisher
}

// NewDispatcher wraps pub.
func NewDispatcher(pub Publisher) *Dispatcher {
	return &Dispatcher{pub: pub}
}

// NotifyPasswordReset publishes the reset token for out-of-band delivery.
func (d *Dispatcher) NotifyPasswordReset(ctx context.Context, email, token string, expiresAt time.Time) error {
	return d.pub.Publish(ctx, KeyPasswordResetRequested, PasswordResetRequested{
		Email:     email,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
	})
}

// PublishOrderCompleted publishes a completed order. Errors are logged only.
func (d *Dispatcher) PublishOrderCompleted(ctx context.Context, order *orderentity.Order) {
	evt := OrderCompleted{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Total:       order.Total,
		ItemCount:   order.ItemCount(),
		CompletedAt: order.CreatedAt.UTC(),
	}
	if err := d.pub.Publish(ctx, KeyOrderCompleted, evt); err != nil {
		slog.Warn("failed to publish order event", "order_id", order.ID, "error", err)
	}
}
