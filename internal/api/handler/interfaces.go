package handler

import (
	"context"

	"github.com/Buffden/Event-Management-System-sub004/internal/application"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/actor"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
)

// EventServiceInterface is the lifecycle surface the HTTP layer drives.
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, a actor.Actor, input application.CreateEventInput) (*event.Event, error)
	UpdateEvent(ctx context.Context, a actor.Actor, id string, patch event.Patch) (*event.Event, error)
	SubmitEvent(ctx context.Context, a actor.Actor, id string) (*event.Event, error)
	ApproveEvent(ctx context.Context, a actor.Actor, id string) (*event.Event, error)
	RejectEvent(ctx context.Context, a actor.Actor, id, reason string) (*event.Event, error)
	CancelEvent(ctx context.Context, a actor.Actor, id string) (*event.Event, error)
	MarkCompleted(ctx context.Context, a actor.Actor, id string) (*event.Event, error)
	DeleteEvent(ctx context.Context, a actor.Actor, id string) error
	GetEvent(ctx context.Context, a actor.Actor, id string) (*event.Event, error)
	ListEvents(ctx context.Context, q application.ListQuery, includePrivate bool) (event.Page, error)
}

// VenueServiceInterface is the read-only venue catalogue.
type VenueServiceInterface interface {
	ListVenues(ctx context.Context) ([]*venue.Venue, error)
	GetVenue(ctx context.Context, id string) (*venue.Venue, error)
}
