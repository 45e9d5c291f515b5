package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
)

func TestVenueService_ListVenues(t *testing.T) {
	repo := new(MockVenueRepository)
	repo.On("List", mock.Anything).Return([]*venue.Venue{{ID: "venue-1", Name: "Main Hall"}}, nil)

	venues, err := NewVenueService(repo).ListVenues(context.Background())

	require.NoError(t, err)
	assert.Len(t, venues, 1)
}

func TestVenueService_GetVenue_NotFound(t *testing.T) {
	repo := new(MockVenueRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, venue.ErrVenueNotFound)

	_, err := NewVenueService(repo).GetVenue(context.Background(), "missing")

	assert.ErrorIs(t, err, event.ErrNotFound)
}
