package application

import (
	"context"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
)

// VenueService serves the read-only venue catalogue.
type VenueService struct {
	venues venue.Repository
}

func NewVenueService(venues venue.Repository) *VenueService {
	return &VenueService{venues: venues}
}

func (s *VenueService) ListVenues(ctx context.Context) ([]*venue.Venue, error) {
	return s.venues.List(ctx)
}

func (s *VenueService) GetVenue(ctx context.Context, id string) (*venue.Venue, error) {
	return s.venues.GetByID(ctx, id)
}
