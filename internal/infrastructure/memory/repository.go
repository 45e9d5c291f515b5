package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/transaction"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
)

// EventRepository implements event.Repository on a Store.
type EventRepository struct {
	store *Store
}

// NewEventRepository creates an EventRepository.
func NewEventRepository(s *Store) *EventRepository {
	return &EventRepository{store: s}
}

func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	return r.store.withEvents(ctx, true, func(events map[string]*event.Event) error {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if _, exists := events[e.ID]; exists {
			return fmt.Errorf("event %s already exists", e.ID)
		}
		events[e.ID] = e.Clone()
		return nil
	})
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	var found *event.Event
	err := r.store.withEvents(ctx, false, func(events map[string]*event.Event) error {
		e, ok := events[id]
		if !ok {
			return event.ErrEventNotFound
		}
		found = e.Clone()
		return nil
	})
	return found, err
}

func (r *EventRepository) List(ctx context.Context, f event.Filter) ([]*event.Event, error) {
	var result []*event.Event
	err := r.store.withEvents(ctx, false, func(events map[string]*event.Event) error {
		for _, e := range events {
			if matches(e, f) {
				result = append(result, e.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortEvents(result)
	if f.Offset > 0 {
		if f.Offset >= len(result) {
			return []*event.Event{}, nil
		}
		result = result[f.Offset:]
	}
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result, nil
}

func (r *EventRepository) Count(ctx context.Context, f event.Filter) (int, error) {
	count := 0
	err := r.store.withEvents(ctx, false, func(events map[string]*event.Event) error {
		for _, e := range events {
			if matches(e, f) {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	return r.store.withEvents(ctx, true, func(events map[string]*event.Event) error {
		current, ok := events[e.ID]
		if !ok {
			return event.ErrEventNotFound
		}
		if current.Version != e.Version {
			return fmt.Errorf("event %s was modified concurrently: %w", e.ID, transaction.ErrSerialization)
		}
		e.Version++
		events[e.ID] = e.Clone()
		return nil
	})
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.store.withEvents(ctx, true, func(events map[string]*event.Event) error {
		if _, ok := events[id]; !ok {
			return event.ErrEventNotFound
		}
		delete(events, id)
		return nil
	})
}

var _ event.Repository = (*EventRepository)(nil)

// VenueRepository implements venue.Repository on a Store.
type VenueRepository struct {
	store *Store
}

// NewVenueRepository creates a VenueRepository.
func NewVenueRepository(s *Store) *VenueRepository {
	return &VenueRepository{store: s}
}

func (r *VenueRepository) GetByID(_ context.Context, id string) (*venue.Venue, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	v, ok := r.store.venues[id]
	if !ok {
		return nil, venue.ErrVenueNotFound
	}
	c := *v
	return &c, nil
}

func (r *VenueRepository) List(_ context.Context) ([]*venue.Venue, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make([]*venue.Venue, 0, len(r.store.venues))
	for _, v := range r.store.venues {
		c := *v
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

var _ venue.Repository = (*VenueRepository)(nil)
var _ transaction.Manager = (*Store)(nil)
