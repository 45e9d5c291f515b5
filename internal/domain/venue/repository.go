package venue

import "context"

// Repository is the read-only venue store.
type Repository interface {
	// GetByID returns ErrVenueNotFound when the id does not resolve.
	GetByID(ctx context.Context, id string) (*Venue, error)

	// List returns all venues ordered by name.
	List(ctx context.Context) ([]*Venue, error)
}
