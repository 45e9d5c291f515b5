package event

import (
	"context"
	"time"
)

// Window is a half-open booking interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Filter selects events. Zero-valued fields do not constrain the result.
type Filter struct {
	Statuses  []Status
	Category  string
	VenueID   string
	SpeakerID string
	// From and To bound the booking window: start >= From, end <= To.
	From *time.Time
	To   *time.Time
	// EndsBefore selects events whose booking window closed before the instant.
	EndsBefore *time.Time
	// Overlapping selects events whose window overlaps the given one.
	Overlapping *Window
	ExcludeID   string
	Search      string
	Limit       int
	Offset      int
}

// Page is one page of a listing.
type Page struct {
	Items []*Event
	Total int
	Page  int
	Limit int
}

// TotalPages returns the number of pages for the total count.
func (p Page) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// Repository is the event store. Implementations join the transaction
// carried by ctx when there is one.
type Repository interface {
	// Create inserts the event and assigns its ID.
	Create(ctx context.Context, e *Event) error

	// GetByID returns ErrEventNotFound when the id does not resolve.
	GetByID(ctx context.Context, id string) (*Event, error)

	// List returns the events matching the filter, ordered by booking start.
	List(ctx context.Context, f Filter) ([]*Event, error)

	// Count returns the number of events matching the filter, ignoring Limit/Offset.
	Count(ctx context.Context, f Filter) (int, error)

	// Update persists the event (optimistic lock on Version).
	Update(ctx context.Context, e *Event) error

	// Delete hard-deletes the event.
	Delete(ctx context.Context, id string) error
}
