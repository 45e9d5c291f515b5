package notification

import (
	"context"
	"time"
)

// Topic identifies the kind of lifecycle message.
type Topic string

const (
	TopicPublished Topic = "event.published"
	TopicApproved  Topic = "event.approved"
	TopicCancelled Topic = "event.cancelled"
)

// Message describes a committed lifecycle change for downstream consumers.
type Message struct {
	Topic            Topic     `json:"topic"`
	EventID          string    `json:"eventId"`
	EventName        string    `json:"eventName"`
	Status           string    `json:"status"`
	SpeakerID        string    `json:"speakerId"`
	SpeakerEmail     string    `json:"speakerEmail,omitempty"`
	VenueID          string    `json:"venueId"`
	VenueName        string    `json:"venueName,omitempty"`
	VenueCapacity    int       `json:"venueCapacity,omitempty"`
	BookingStartDate time.Time `json:"bookingStartDate"`
	BookingEndDate   time.Time `json:"bookingEndDate"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// Publisher accepts messages on a best-effort basis.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Multi fans a message out to several publishers and returns the first error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, msg Message) error {
	var firstErr error
	for _, p := range m {
		if err := p.Publish(ctx, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Nop discards every message.
type Nop struct{}

func (Nop) Publish(context.Context, Message) error { return nil }
