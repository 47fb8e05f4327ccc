package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the subset of *amqp.Channel used for publishing.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes persistent JSON messages to durable queues on the
// default exchange. One connection is reused; a channel is opened per publish.
type AMQPPublisher struct {
	conn        *amqp.Connection
	openChannel func() (amqpChannel, error)

	mu       sync.Mutex
	declared map[string]bool
	now      func() time.Time
}

// DialAMQP connects to the broker at url.
func DialAMQP(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	p := newAMQPPublisher(func() (amqpChannel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	})
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(open func() (amqpChannel, error)) *AMQPPublisher {
	return &AMQPPublisher{
		openChannel: open,
		declared:    map[string]bool{},
		now:         time.Now,
	}
}

// Publish declares the queue named routingKey (once) and publishes payload to it.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	ch, err := p.openChannel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := p.declare(ch, routingKey); err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", routingKey, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) declare(ch amqpChannel, queue string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.declared[queue] {
		return nil
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}
	p.declared[queue] = true
	return nil
}

// Close closes the broker connection.
func (p *AMQPPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
