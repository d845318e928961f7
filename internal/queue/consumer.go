package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const activityLogName = "activity.log"

// ActivityLog appends one human-readable line per event to
// <dir>/activity.log.
type ActivityLog struct {
	dir string
	mu  sync.Mutex
}

func NewActivityLog(dir string) *ActivityLog { return &ActivityLog{dir: dir} }

// Handle decodes body according to queue and appends its line.
func (a *ActivityLog) Handle(queue string, body []byte) error {
	line, err := formatEvent(queue, body)
	if err != nil {
		return err
	}
	return a.append(line)
}

func formatEvent(queue string, body []byte) (string, error) {
	switch queue {
	case QueueUserRegistered:
		var ev UserRegisteredEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] User registered | user_id=%s | username=%q | email=%q\n",
			ev.RegisteredAt.UTC().Format(time.RFC3339), ev.UserID, ev.Username, ev.Email), nil
	case QueueVideoPublished:
		var ev VideoPublishedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Video published | video_id=%s | owner_id=%s | title=%q\n",
			ev.PublishedAt.UTC().Format(time.RFC3339), ev.VideoID, ev.OwnerID, ev.Title), nil
	}
	return "", fmt.Errorf("unknown queue %q", queue)
}

func (a *ActivityLog) append(line string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", a.dir, err)
	}
	f, err := os.OpenFile(filepath.Join(a.dir, activityLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// StartActivityConsumer consumes both event queues into the activity log
// until ctx is cancelled, reconnecting with exponential backoff (capped at
// 30s) whenever the broker goes away.
func StartActivityConsumer(ctx context.Context, url string, sink *ActivityLog, log *zap.Logger) {
	backoff := time.Second
	for ctx.Err() == nil {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("activity consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(ctx, conn, sink, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		log.Warn("activity consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, sink *ActivityLog, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("activity consumer: set QoS failed", zap.Error(err))
	}

	deliveries := make(map[string]<-chan amqp.Delivery, 2)
	for _, q := range []string{QueueUserRegistered, QueueVideoPublished} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		deliveries[q] = msgs
	}

	users, videos := deliveries[QueueUserRegistered], deliveries[QueueVideoPublished]
	for {
		var (
			d  amqp.Delivery
			ok bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok = <-users:
		case d, ok = <-videos:
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := sink.Handle(d.RoutingKey, d.Body); err != nil {
			log.Error("activity consumer: handle message failed", zap.String("queue", d.RoutingKey), zap.Error(err))
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
