// Package memory is an in-process store with the same transactional
// contract as the postgres adapter. Transactions are fully serialized, which
// makes every committed history serializable.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/transaction"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
)

var errTxDone = errors.New("transaction has already been committed or rolled back")

// Store holds events and venues.
type Store struct {
	sem chan struct{} // one writer at a time

	mu     sync.RWMutex
	events map[string]*event.Event
	venues map[string]*venue.Venue
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sem:    make(chan struct{}, 1),
		events: make(map[string]*event.Event),
		venues: make(map[string]*venue.Venue),
	}
}

// AddVenue inserts or replaces a venue.
func (s *Store) AddVenue(v *venue.Venue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *v
	if c.ID == "" {
		c.ID = uuid.NewString()
		v.ID = c.ID
	}
	s.venues[c.ID] = &c
}

type memTx struct {
	store  *Store
	events map[string]*event.Event
	done   bool
}

// Begin starts a transaction working on a private copy of the events.
func (s *Store) Begin(ctx context.Context) (transaction.Tx, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.RLock()
	snapshot := make(map[string]*event.Event, len(s.events))
	for id, e := range s.events {
		snapshot[id] = e.Clone()
	}
	s.mu.RUnlock()
	return &memTx{store: s, events: snapshot}, nil
}

func (t *memTx) Commit() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.store.mu.Lock()
	t.store.events = t.events
	t.store.mu.Unlock()
	<-t.store.sem
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	<-t.store.sem
	return nil
}

// withEvents runs fn against the event map visible to ctx. Outside a
// transaction, writes take the writer slot so they cannot be lost by a
// concurrent commit.
func (s *Store) withEvents(ctx context.Context, write bool, fn func(events map[string]*event.Event) error) error {
	if tx, ok := transaction.FromContext(ctx); ok {
		mt, ok := tx.(*memTx)
		if !ok || mt.store != s {
			return errors.New("memory: foreign transaction in context")
		}
		if mt.done {
			return errTxDone
		}
		return fn(mt.events)
	}
	if !write {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return fn(s.events)
	}
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.sem }()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.events)
}

func matches(e *event.Event, f event.Filter) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if e.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(e.Category, f.Category) {
		return false
	}
	if f.VenueID != "" && e.VenueID != f.VenueID {
		return false
	}
	if f.SpeakerID != "" && e.SpeakerID != f.SpeakerID {
		return false
	}
	if f.From != nil && e.BookingStartDate.Before(*f.From) {
		return false
	}
	if f.To != nil && e.BookingEndDate.After(*f.To) {
		return false
	}
	if f.EndsBefore != nil && !e.BookingEndDate.Before(*f.EndsBefore) {
		return false
	}
	if f.Overlapping != nil && !e.Overlaps(f.Overlapping.Start, f.Overlapping.End) {
		return false
	}
	if f.ExcludeID != "" && e.ID == f.ExcludeID {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func sortEvents(events []*event.Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].BookingStartDate.Equal(events[j].BookingStartDate) {
			return events[i].ID < events[j].ID
		}
		return events[i].BookingStartDate.Before(events[j].BookingStartDate)
	})
}
