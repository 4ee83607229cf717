// Package events publishes domain events (new postings, applications and
// their status changes) to Redis pub/sub for downstream consumers such as
// notification workers. Publishing is best-effort: failures are logged and
// never fail the request that produced the event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event types
const (
	TypeJobPosted                = "job.posted"
	TypeApplicationCreated       = "application.created"
	TypeApplicationStatusChanged = "application.status_changed"
)

// DefaultChannel is used when no channel is configured
const DefaultChannel = "jobboard:events"

// Event is the envelope written to the channel
type Event struct {
	Type       string            `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Data       map[string]string `json:"data"`
}

// Publisher delivers events
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// JobPosted builds the event for a newly published posting
func JobPosted(jobID, companyID uuid.UUID, title string) Event {
	return newEvent(TypeJobPosted, map[string]string{
		"job_id":     jobID.String(),
		"company_id": companyID.String(),
		"title":      title,
	})
}

// ApplicationCreated builds the event for a new application
func ApplicationCreated(applicationID, jobID, userID uuid.UUID) Event {
	return newEvent(TypeApplicationCreated, map[string]string{
		"application_id": applicationID.String(),
		"job_id":         jobID.String(),
		"user_id":        userID.String(),
	})
}

// ApplicationStatusChanged builds the event for a reviewed application
func ApplicationStatusChanged(applicationID uuid.UUID, from, to string) Event {
	return newEvent(TypeApplicationStatusChanged, map[string]string{
		"application_id": applicationID.String(),
		"from":           from,
		"to":             to,
	})
}

func newEvent(typ string, data map[string]string) Event {
	return Event{Type: typ, OccurredAt: time.Now().UTC(), Data: data}
}

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// redisClient is the subset of *redis.Client the publisher needs
type redisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publishes JSON-encoded events to one pub/sub channel
type RedisPublisher struct {
	rdb     redisClient
	channel string
}

// NewRedisPublisher creates a publisher on channel (DefaultChannel if empty)
func NewRedisPublisher(rdb redisClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel}
}

// Publish encodes e and publishes it
func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s failed: %w", e.Type, err)
	}
	return nil
}

// LogPublisher only logs events. Used when Redis is not configured.
type LogPublisher struct{}

// Publish logs e
func (LogPublisher) Publish(_ context.Context, e Event) error {
	log.Printf("[events] %s %v", e.Type, e.Data)
	return nil
}

// Emit publishes e and logs, rather than returns, any failure
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.Printf("[events] Warning: %v", err)
	}
}
