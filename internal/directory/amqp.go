package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tbourn/mindwell-api/internal/domain"
)

// DefaultQueue is the queue utilization events are published to.
const DefaultQueue = "resource.utilization"

// ErrPublisherClosed is returned by TrackUtilization after Close.
var ErrPublisherClosed = errors.New("amqp publisher closed")

// UtilizationEvent is the JSON body published per utilization call.
type UtilizationEvent struct {
	ResourceID   string               `json:"resourceId"`
	Action       string               `json:"action"`
	Demographics *domain.Demographics `json:"userDemographics,omitempty"`
	Attributes   domain.Attributes    `json:"metadata,omitempty"`
	OccurredAt   time.Time            `json:"occurredAt"`
}

// publishChannel is the subset of *amqp.Channel the publisher uses.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes a persistent UtilizationEvent to a durable queue
// on the default exchange. One channel is shared and guarded by a mutex
// because amqp091 channels are not safe for concurrent publishing.
type AMQPPublisher struct {
	Queue string

	mu     sync.Mutex
	ch     publishChannel
	conn   *amqp.Connection
	closed bool
	now    func() time.Time
}

// DialAMQP connects to url, opens a channel and declares queue as durable.
func DialAMQP(url, queue string) (*AMQPPublisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare %s: %w", queue, err)
	}
	return &AMQPPublisher{Queue: queue, ch: ch, conn: conn}, nil
}

// TrackUtilization implements Manager.
func (p *AMQPPublisher) TrackUtilization(ctx context.Context, resourceID, action string, demographics *domain.Demographics) error {
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	ts := now().UTC()
	body, err := json.Marshal(UtilizationEvent{
		ResourceID:   resourceID,
		Action:       action,
		Demographics: demographics,
		Attributes:   domain.AttributesFrom(ctx),
		OccurredAt:   ts,
	})
	if err != nil {
		return fmt.Errorf("amqp marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.ch == nil {
		return ErrPublisherClosed
	}
	if err := p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    ts,
			Type:         DefaultQueue,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// Close closes the channel and the connection. It is safe to call twice.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
