package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderentity "storefront_backend/internal/feature/orders/domain/entity"
)

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	bodies [][]byte
	err    error
}

func (r *recordingPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if r.err != nil {
		return r.err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, routingKey)
	r.bodies = append(r.bodies, b)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func TestDispatcher_NotifyPasswordReset(t *testing.T) {
	t.Parallel()

	rec := &recordingPublisher{}
	expires := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, NewDispatcher(rec).NotifyPasswordReset(context.Background(), "a@x.com", "tok", expires))

	require.Equal(t, []string{KeyPasswordResetRequested}, rec.keys)
	assert.JSONEq(t, `{"email":"a@x.com","token":"tok","expires_at":"2024-05-01T12:00:00Z"}`, string(rec.bodies[0]))
}

func TestDispatcher_PublishOrderCompleted(t *testing.T) {
	t.Parallel()

	rec := &recordingPublisher{}
	order := &orderentity.Order{
		ID:        "o-1",
		UserID:    "u-1",
		Total:     decimal.RequireFromString("40.97"),
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Items: []orderentity.OrderItem{
			{ProductID: "1", Quantity: 2},
			{ProductID: "6", Quantity: 1},
		},
	}

	NewDispatcher(rec).PublishOrderCompleted(context.Background(), order)

	require.Equal(t, []string{KeyOrderCompleted}, rec.keys)
	assert.JSONEq(t, `{"order_id":"o-1","user_id":"u-1","total":"40.97","item_count":3,"completed_at":"2024-05-01T12:00:00Z"}`, string(rec.bodies[0]))
}

func TestDispatcher_PublishOrderCompleted_ErrorIsSwallowed(t *testing.T) {
	t.Parallel()

	rec := &recordingPublisher{err: errors.New("broker gone")}
	assert.NotPanics(t, func() {
		NewDispatcher(rec).PublishOrderCompleted(context.Background(), &orderentity.Order{ID: "o-1"})
	})
}

func TestLogPublisher(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	pub := NewLogPublisher(logger)

	require.NoError(t, pub.Publish(context.Background(), KeyPasswordResetRequested,
		PasswordResetRequested{Email: "a@x.com", Token: "secret-token"}))

	assert.Contains(t, buf.String(), KeyPasswordResetRequested)
	assert.NotContains(t, buf.String(), "secret-token", "payload is debug only")
	assert.NoError(t, pub.Close())

	assert.Error(t, pub.Publish(context.Background(), "bad", make(chan int)))
}

// fakeChannel records AMQP calls.
type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	closed     int
	publishErr error
	declareErr error
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if f.declareErr != nil {
		return amqp.Queue{}, f.declareErr
	}
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed++
	return nil
}

func TestAMQPPublisher_Publish(t *testing.T) {
	t.Parallel()

	ch := &fakeChannel{}
	pub := newAMQPPublisher(func() (amqpChannel, error) { return ch, nil })

	for i := 0; i < 2; i++ {
		require.NoError(t, pub.Publish(context.Background(), KeyOrderCompleted, OrderCompleted{OrderID: "o-1"}))
	}

	assert.Equal(t, []string{KeyOrderCompleted}, ch.declared, "queue declared once")
	assert.Equal(t, []string{KeyOrderCompleted, KeyOrderCompleted}, ch.keys)
	assert.Equal(t, 2, ch.closed, "channel closed after each publish")

	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Contains(t, string(msg.Body), `"order_id":"o-1"`)
	assert.NoError(t, pub.Close())
}

func TestAMQPPublisher_Errors(t *testing.T) {
	t.Parallel()

	t.Run("channel open", func(t *testing.T) {
		t.Parallel()
		pub := newAMQPPublisher(func() (amqpChannel, error) { return nil, errors.New("closed") })
		assert.Error(t, pub.Publish(context.Background(), KeyOrderCompleted, OrderCompleted{}))
	})

	t.Run("declare failure is retried next time", func(t *testing.T) {
		t.Parallel()
		ch := &fakeChannel{declareErr: errors.New("denied")}
		pub := newAMQPPublisher(func() (amqpChannel, error) { return ch, nil })

		assert.Error(t, pub.Publish(context.Background(), KeyOrderCompleted, OrderCompleted{}))
		ch.declareErr = nil
		assert.NoError(t, pub.Publish(context.Background(), KeyOrderCompleted, OrderCompleted{}))
		assert.Equal(t, []string{KeyOrderCompleted}, ch.declared)
	})

	t.Run("publish", func(t *testing.T) {
		t.Parallel()
		ch := &fakeChannel{publishErr: errors.New("nack")}
		pub := newAMQPPublisher(func() (amqpChannel, error) { return ch, nil })
		assert.Error(t, pub.Publish(context.Background(), KeyOrderCompleted, OrderCompleted{}))
		assert.Equal(t, 1, ch.closed)
	})

	t.Run("unencodable payload", func(t *testing.T) {
		t.Parallel()
		pub := newAMQPPublisher(func() (amqpChannel, error) { return &fakeChannel{}, nil })
		assert.Error(t, pub.Publish(context.Background(), KeyOrderCompleted, make(chan int)))
	})
}
