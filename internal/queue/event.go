// Package queue carries domain events over RabbitMQ: a publisher used by
// the services and a background consumer that records them in an
// activity log.
package queue

import "time"

// Queue names double as routing keys on the default exchange.
const (
	QueueUserRegistered = "user.registered"
	QueueVideoPublished = "video.published"
)

// UserRegisteredEvent is published after an account is created.
type UserRegisteredEvent struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// VideoPublishedEvent is published when a video is uploaded or its
// publish flag is switched on.
type VideoPublishedEvent struct {
	VideoID     string    `json:"videoId"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"publishedAt"`
}
