package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher hands domain events to the broker. Implementations never
// fail the caller: errors are logged.
type Publisher interface {
	UserRegistered(ctx context.Context, ev UserRegisteredEvent)
	VideoPublished(ctx context.Context, ev VideoPublishedEvent)
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) UserRegistered(context.Context, UserRegisteredEvent) {}
func (NopPublisher) VideoPublished(context.Context, VideoPublishedEvent) {}

// AMQPPublisher queues events in memory and sends them from a single
// Run goroutine, opening a connection per event. Event volume is low
// (sign-ups and publishes), so no connection is held between events.
type AMQPPublisher struct {
	url     string
	log     *zap.Logger
	timeout time.Duration
	dial    func(url string) (amqpChannel, func(), error)
	pending chan outbound
}

type outbound struct {
	queue string
	v     any
}

const defaultBacklog = 256

// amqpChannel is the part of *amqp.Channel the publisher needs.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

func NewAMQPPublisher(url string, log *zap.Logger) *AMQPPublisher {
	return newAMQPPublisher(url, log, defaultBacklog)
}

func newAMQPPublisher(url string, log *zap.Logger, backlog int) *AMQPPublisher {
	p := &AMQPPublisher{url: url, log: log, timeout: 3 * time.Second, pending: make(chan outbound, backlog)}
	p.dial = p.dialBroker
	return p
}

func (p *AMQPPublisher) UserRegistered(_ context.Context, ev UserRegisteredEvent) {
	p.enqueue(QueueUserRegistered, ev)
}

func (p *AMQPPublisher) VideoPublished(_ context.Context, ev VideoPublishedEvent) {
	p.enqueue(QueueVideoPublished, ev)
}

// enqueue never blocks; when the backlog is full the event is dropped.
func (p *AMQPPublisher) enqueue(queue string, v any) {
	select {
	case p.pending <- outbound{queue: queue, v: v}:
	default:
		p.log.Warn("event backlog full, dropping event", zap.String("queue", queue))
	}
}

// Run sends queued events until ctx is done. Events still queued at that
// point are dropped.
func (p *AMQPPublisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			if n := len(p.pending); n > 0 {
				p.log.Warn("dropping queued events on shutdown", zap.Int("count", n))
			}
			return
		case ob := <-p.pending:
			if err := p.Publish(ctx, ob.queue, ob.v); err != nil {
				p.log.Warn("publish event failed", zap.String("queue", ob.queue), zap.Error(err))
			}
		}
	}
}

func (p *AMQPPublisher) dialBroker(url string) (amqpChannel, func(), error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(p.timeout)})
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, func() { _ = ch.Close(); _ = conn.Close() }, nil
}

// Publish marshals v and sends it to queue as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, queue string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ch, closeFn, err := p.dial(p.url)
	if err != nil {
		return err
	}
	defer closeFn()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
