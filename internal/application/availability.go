package application

import (
	"context"
	"fmt"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/metrics"
)

// AvailabilityArbiter decides whether a venue is free for a booking window.
// Only events in an active status hold the venue.
type AvailabilityArbiter struct {
	events  event.Repository
	metrics *metrics.Metrics
}

func NewAvailabilityArbiter(events event.Repository, m *metrics.Metrics) *AvailabilityArbiter {
	return &AvailabilityArbiter{events: events, metrics: m}
}

// Check returns nil when no active event other than excludeID overlaps the
// window at the venue, and an error wrapping event.ErrConflict otherwise.
// Called with a transactional context it reads inside that transaction.
func (a *AvailabilityArbiter) Check(ctx context.Context, venueID string, w event.Window, excludeID string) error {
	candidates, err := a.events.List(ctx, event.Filter{
		Statuses:    event.ActiveStatuses,
		VenueID:     venueID,
		Overlapping: &w,
		ExcludeID:   excludeID,
	})
	if err != nil {
		a.metrics.RecordAvailability("error")
		return fmt.Errorf("failed to load bookings for venue %s: %w", venueID, err)
	}

	for _, c := range candidates {
		if c.ID == excludeID || !c.Status.IsActive() || !c.Overlaps(w.Start, w.End) {
			continue
		}
		a.metrics.RecordAvailability("conflict")
		return fmt.Errorf("%w (event %s, %s - %s)", event.ErrConflict, c.ID,
			c.BookingStartDate.UTC().Format("2006-01-02T15:04Z07:00"),
			c.BookingEndDate.UTC().Format("2006-01-02T15:04Z07:00"))
	}
	a.metrics.RecordAvailability("available")
	return nil
}
