package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/Buffden/Event-Management-System-sub004/internal/application"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/actor"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) eventResult(args mock.Arguments) (*event.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) CreateEvent(ctx context.Context, a actor.Actor, input application.CreateEventInput) (*event.Event, error) {
	return m.eventResult(m.Called(ctx, a, input))
}

func (m *MockEventService) UpdateEvent(ctx context.Context, a actor.Actor, id string, patch event.Patch) (*event.Event, error) {
	return m.eventResult(m.Called(ctx, a, id, patch))
}

func (m *MockEventService) SubmitEvent(ctx context.Context, a actor.Actor, id string) (*event.Event, error) {
	return m.eventResult(m.Called(ctx, a, id))
}

func (m *MockEventService) ApproveEvent(ctx context.Context, a actor.Actor, id string) (*event.Event, error) {
	return m.eventResult(m.Called(ctx, a, id))
}

func (m *MockEventService) RejectEvent(ctx context.Context, a actor.Actor, id, reason string) (*event.Event, error) {
	return m.eventResult(m.Called(ctx, a, id, reason))
}

func (m *MockEventService) CancelEvent(ctx context.Context, a actor.Actor, id string) (*event.Event, error) {
	return m.eventResult(m.Called(ctx, a, id))
}

func (m *MockEventService) MarkCompleted(ctx context.Context, a actor.Actor, id string) (*event.Event, error) {
	return m.eventResult(m.Called(ctx, a, id))
}

func (m *MockEventService) DeleteEvent(ctx context.Context, a actor.Actor, id string) error {
	return m.Called(ctx, a, id).Error(0)
}

func (m *MockEventService) GetEvent(ctx context.Context, a actor.Actor, id string) (*event.Event, error) {
	return m.eventResult(m.Called(ctx, a, id))
}

func (m *MockEventService) ListEvents(ctx context.Context, q application.ListQuery, includePrivate bool) (event.Page, error) {
	args := m.Called(ctx, q, includePrivate)
	return args.Get(0).(event.Page), args.Error(1)
}

type MockVenueService struct {
	mock.Mock
}

func (m *MockVenueService) ListVenues(ctx context.Context) ([]*venue.Venue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*venue.Venue), args.Error(1)
}

func (m *MockVenueService) GetVenue(ctx context.Context, id string) (*venue.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

var (
	speaker = actor.Actor{ID: "speaker-1", Email: "speaker@example.com", Role: actor.RoleSpeaker}
	admin   = actor.Actor{ID: "admin-1", Email: "admin@example.com", Role: actor.RoleAdmin}
)

type staticResolver map[string]actor.Actor

func (r staticResolver) Resolve(_ context.Context, token string) (actor.Actor, error) {
	a, ok := r[token]
	if !ok {
		return actor.Actor{}, actor.ErrInvalidToken
	}
	return a, nil
}

type testServer struct {
	echo   *echo.Echo
	events *MockEventService
	venues *MockVenueService
}

func newTestServer() *testServer {
	s := &testServer{
		echo:   NewTestEcho(),
		events: new(MockEventService),
		venues: new(MockVenueService),
	}
	Routes{
		Health:   NewHealthHandler(nil),
		Events:   NewEventHandler(s.events),
		Venues:   NewVenueHandler(s.venues),
		Resolver: staticResolver{"speaker-token": speaker, "admin-token": admin},
	}.Register(s.echo)
	return s
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

var (
	testStart = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	testNow   = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
)

func sampleEvent(status event.Status) *event.Event {
	return &event.Event{
		ID:               "event-1",
		SpeakerID:        speaker.ID,
		SpeakerEmail:     speaker.Email,
		Name:             "Go Meetup",
		Description:      "Monthly meetup",
		Category:         "Technology",
		VenueID:          "venue-1",
		BookingStartDate: testStart,
		BookingEndDate:   testEnd,
		Status:           status,
		CreatedAt:        testNow,
		UpdatedAt:        testNow,
	}
}
