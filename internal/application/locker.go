package application

import "context"

// VenueLocker serializes check-and-reserve work per venue across processes.
// It only reduces transaction retries; the store stays the source of truth.
type VenueLocker interface {
	// LockVenue blocks until the venue lock is held and returns its release func.
	LockVenue(ctx context.Context, venueID string) (release func(), err error)
}
