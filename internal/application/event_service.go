package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/actor"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/transaction"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/logger"
	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/metrics"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// EventService drives the event lifecycle. Every operation that can take a
// venue reservation runs its availability check and its write in one
// transaction, so no two committed active events ever overlap at a venue.
type EventService struct {
	txManager  transaction.Manager
	events     event.Repository
	venues     venue.Repository
	arbiter    *AvailabilityArbiter
	dispatcher *EffectDispatcher
	locker     VenueLocker
	metrics    *metrics.Metrics
	now        func() time.Time
}

// Option configures an EventService.
type Option func(*EventService)

// WithVenueLocker serializes reservations per venue before the transaction starts.
func WithVenueLocker(l VenueLocker) Option {
	return func(s *EventService) { s.locker = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *EventService) { s.now = now }
}

// WithMetrics records lifecycle and availability metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *EventService) { s.metrics = m }
}

func NewEventService(tm transaction.Manager, events event.Repository, venues venue.Repository, dispatcher *EffectDispatcher, opts ...Option) *EventService {
	s := &EventService{
		txManager:  tm,
		events:     events,
		venues:     venues,
		dispatcher: dispatcher,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.arbiter = NewAvailabilityArbiter(events, s.metrics)
	return s
}

// CreateEventInput holds the fields of a new event.
type CreateEventInput struct {
	Name             string
	Description      string
	Category         string
	BannerURL        string
	VenueID          string
	BookingStartDate time.Time
	BookingEndDate   time.Time
}

// CreateEvent creates an event owned by the actor. Speakers get a DRAFT;
// admins get a PUBLISHED event and a published notification.
func (s *EventService) CreateEvent(ctx context.Context, a actor.Actor, input CreateEventInput) (*event.Event, error) {
	if err := event.Authorize(event.OpCreate, a, a.ID); err != nil {
		return nil, s.fail(event.OpCreate, err)
	}
	e := event.NewEvent(a, event.Draft{
		Name:             input.Name,
		Description:      input.Description,
		Category:         input.Category,
		BannerURL:        input.BannerURL,
		VenueID:          input.VenueID,
		BookingStartDate: input.BookingStartDate,
		BookingEndDate:   input.BookingEndDate,
	}, s.now())
	if err := e.Validate(s.now()); err != nil {
		return nil, s.fail(event.OpCreate, err)
	}
	if _, err := s.venues.GetByID(ctx, e.VenueID); err != nil {
		return nil, s.fail(event.OpCreate, err)
	}

	release := s.lockVenue(ctx, e.VenueID)
	defer release()

	var created *event.Event
	err := transaction.Run(ctx, s.txManager, func(ctx context.Context) error {
		candidate := e.Clone()
		if err := s.arbiter.Check(ctx, candidate.VenueID, window(candidate), ""); err != nil {
			return err
		}
		if err := s.events.Create(ctx, candidate); err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		created = candidate
		return nil
	})
	if err != nil {
		return nil, s.fail(event.OpCreate, err)
	}

	s.succeed(ctx, event.OpCreate, created.CreationEffects())
	return created, nil
}

// UpdateEvent applies a partial update. A change of venue or dates is
// re-arbitrated against the other active events.
func (s *EventService) UpdateEvent(ctx context.Context, a actor.Actor, id string, patch event.Patch) (*event.Event, error) {
	current, err := s.precheck(ctx, a, id, event.OpUpdate)
	if err != nil {
		return nil, s.fail(event.OpUpdate, err)
	}
	venueID := current.VenueID
	if patch.VenueID != nil && *patch.VenueID != "" && *patch.VenueID != current.VenueID {
		if _, err := s.venues.GetByID(ctx, *patch.VenueID); err != nil {
			return nil, s.fail(event.OpUpdate, err)
		}
		venueID = *patch.VenueID
	}

	return s.commit(ctx, event.OpUpdate, id, venueID, func(ctx context.Context, e *event.Event) ([]event.Effect, error) {
		change, err := e.ApplyPatch(a, patch, s.now())
		if err != nil {
			return nil, err
		}
		if change.Changed() {
			if err := s.arbiter.Check(ctx, e.VenueID, window(e), e.ID); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
}

// SubmitEvent sends a DRAFT or REJECTED event for approval. The event starts
// holding the venue, so the window is arbitrated.
func (s *EventService) SubmitEvent(ctx context.Context, a actor.Actor, id string) (*event.Event, error) {
	current, err := s.precheck(ctx, a, id, event.OpSubmit)
	if err != nil {
		return nil, s.fail(event.OpSubmit, err)
	}
	return s.commit(ctx, event.OpSubmit, id, current.VenueID, func(ctx context.Context, e *event.Event) ([]event.Effect, error) {
		if err := e.Submit(a, s.now()); err != nil {
			return nil, err
		}
		return nil, s.arbiter.Check(ctx, e.VenueID, window(e), e.ID)
	})
}

// ApproveEvent publishes an event after re-checking availability.
func (s *EventService) ApproveEvent(ctx context.Context, a actor.Actor, id string) (*event.Event, error) {
	current, err := s.precheck(ctx, a, id, event.OpApprove)
	if err != nil {
		return nil, s.fail(event.OpApprove, err)
	}
	return s.commit(ctx, event.OpApprove, id, current.VenueID, func(ctx context.Context, e *event.Event) ([]event.Effect, error) {
		if err := event.CanTransition(e.Status, event.OpApprove, a, e.SpeakerID); err != nil {
			return nil, err
		}
		if err := s.arbiter.Check(ctx, e.VenueID, window(e), e.ID); err != nil {
			return nil, err
		}
		return e.Approve(a, s.now())
	})
}

// RejectEvent rejects a pending event with a reason.
func (s *EventService) RejectEvent(ctx context.Context, a actor.Actor, id, reason string) (*event.Event, error) {
	if _, err := s.precheck(ctx, a, id, event.OpReject); err != nil {
		return nil, s.fail(event.OpReject, err)
	}
	return s.commit(ctx, event.OpReject, id, "", func(_ context.Context, e *event.Event) ([]event.Effect, error) {
		return nil, e.Reject(a, reason, s.now())
	})
}

// CancelEvent withdraws a published event and releases its venue.
func (s *EventService) CancelEvent(ctx context.Context, a actor.Actor, id string) (*event.Event, error) {
	if _, err := s.precheck(ctx, a, id, event.OpCancel); err != nil {
		return nil, s.fail(event.OpCancel, err)
	}
	return s.commit(ctx, event.OpCancel, id, "", func(_ context.Context, e *event.Event) ([]event.Effect, error) {
		return e.Cancel(a, s.now())
	})
}

// MarkCompleted moves a published event to COMPLETED.
func (s *EventService) MarkCompleted(ctx context.Context, a actor.Actor, id string) (*event.Event, error) {
	if _, err := s.precheck(ctx, a, id, event.OpComplete); err != nil {
		return nil, s.fail(event.OpComplete, err)
	}
	return s.commit(ctx, event.OpComplete, id, "", func(_ context.Context, e *event.Event) ([]event.Effect, error) {
		return nil, e.Complete(a, s.now())
	})
}

// DeleteEvent hard-deletes a DRAFT event.
func (s *EventService) DeleteEvent(ctx context.Context, a actor.Actor, id string) error {
	if _, err := s.precheck(ctx, a, id, event.OpDelete); err != nil {
		return s.fail(event.OpDelete, err)
	}
	err := transaction.Run(ctx, s.txManager, func(ctx context.Context) error {
		e, err := s.events.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := e.CheckDelete(a); err != nil {
			return err
		}
		return s.events.Delete(ctx, id)
	})
	if err != nil {
		return s.fail(event.OpDelete, err)
	}
	s.succeed(ctx, event.OpDelete, nil)
	return nil
}

// GetEvent returns an event. Events that are not published are visible only
// to their owner and to admins; everyone else gets ErrEventNotFound.
func (s *EventService) GetEvent(ctx context.Context, a actor.Actor, id string) (*event.Event, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != event.StatusPublished && !a.IsAdmin() && !a.Owns(e.SpeakerID) {
		return nil, event.ErrEventNotFound
	}
	return e, nil
}

// ListQuery selects a page of events.
type ListQuery struct {
	Status    *event.Status
	Category  string
	VenueID   string
	SpeakerID string
	From      *time.Time
	To        *time.Time
	Search    string
	Page      int
	Limit     int
}

// ListEvents returns one page of events ordered by booking start. Without
// includePrivate only PUBLISHED events are visible.
func (s *EventService) ListEvents(ctx context.Context, q ListQuery, includePrivate bool) (event.Page, error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	result := event.Page{Items: []*event.Event{}, Page: page, Limit: limit}

	f := event.Filter{
		Category:  q.Category,
		VenueID:   q.VenueID,
		SpeakerID: q.SpeakerID,
		From:      q.From,
		To:        q.To,
		Search:    q.Search,
	}
	switch {
	case !includePrivate:
		if q.Status != nil && *q.Status != event.StatusPublished {
			return result, nil
		}
		f.Statuses = []event.Status{event.StatusPublished}
	case q.Status != nil:
		f.Statuses = []event.Status{*q.Status}
	}

	total, err := s.events.Count(ctx, f)
	if err != nil {
		return event.Page{}, fmt.Errorf("failed to count events: %w", err)
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit
	items, err := s.events.List(ctx, f)
	if err != nil {
		return event.Page{}, fmt.Errorf("failed to list events: %w", err)
	}
	if items != nil {
		result.Items = items
	}
	result.Total = total
	return result, nil
}

// CompleteEnded marks every published event whose booking window closed
// before now as COMPLETED and returns how many were moved.
func (s *EventService) CompleteEnded(ctx context.Context) (int, error) {
	now := s.now()
	ended, err := s.events.List(ctx, event.Filter{
		Statuses:   []event.Status{event.StatusPublished},
		EndsBefore: &now,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list ended events: %w", err)
	}

	completed := 0
	for _, e := range ended {
		if err := ctx.Err(); err != nil {
			return completed, err
		}
		_, err := s.MarkCompleted(ctx, actor.System(), e.ID)
		switch {
		case err == nil:
			completed++
		case errors.Is(err, event.ErrInvalidState), errors.Is(err, event.ErrNotFound):
			// changed concurrently
		default:
			return completed, err
		}
	}
	return completed, nil
}

// precheck loads the event and rejects the operation early, before any lock
// or transaction is taken. The transaction re-validates on fresh data.
func (s *EventService) precheck(ctx context.Context, a actor.Actor, id string, op event.Operation) (*event.Event, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := event.CanTransition(e.Status, op, a, e.SpeakerID); err != nil {
		return nil, err
	}
	return e, nil
}

type mutation func(ctx context.Context, e *event.Event) ([]event.Effect, error)

// commit reloads the event inside a transaction, applies fn and persists the
// result. When venueID is set the venue lock is held for the whole unit.
func (s *EventService) commit(ctx context.Context, op event.Operation, id, venueID string, fn mutation) (*event.Event, error) {
	if venueID != "" {
		release := s.lockVenue(ctx, venueID)
		defer release()
	}

	var (
		updated *event.Event
		effects []event.Effect
	)
	err := transaction.Run(ctx, s.txManager, func(ctx context.Context) error {
		e, err := s.events.GetByID(ctx, id)
		if err != nil {
			return err
		}
		eff, err := fn(ctx, e)
		if err != nil {
			return err
		}
		if err := s.events.Update(ctx, e); err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		updated, effects = e, eff
		return nil
	})
	if err != nil {
		return nil, s.fail(op, err)
	}

	s.succeed(ctx, op, effects)
	return updated, nil
}

func (s *EventService) lockVenue(ctx context.Context, venueID string) func() {
	if s.locker == nil {
		return func() {}
	}
	release, err := s.locker.LockVenue(ctx, venueID)
	if err != nil {
		logger.Warn("proceeding without venue lock", zap.String("venue_id", venueID), zap.Error(err))
		return func() {}
	}
	return release
}

func (s *EventService) succeed(ctx context.Context, op event.Operation, effects []event.Effect) {
	s.metrics.RecordOperation(string(op), "success")
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, effects)
	}
}

func (s *EventService) fail(op event.Operation, err error) error {
	s.metrics.RecordOperation(string(op), outcome(err))
	return err
}

func outcome(err error) string {
	switch {
	case errors.Is(err, event.ErrConflict):
		return "conflict"
	case errors.Is(err, event.ErrNotFound):
		return "not_found"
	case errors.Is(err, event.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, event.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, event.ErrValidation):
		return "validation"
	default:
		return "error"
	}
}

func window(e *event.Event) event.Window {
	return event.Window{Start: e.BookingStartDate, End: e.BookingEndDate}
}
