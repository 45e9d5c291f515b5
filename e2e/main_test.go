package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Buffden/Event-Management-System-sub004/internal/app"
	"github.com/Buffden/Event-Management-System-sub004/internal/config"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/actor"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/notification"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
	"github.com/Buffden/Event-Management-System-sub004/internal/infrastructure/auth"
)

const (
	jwtSecret = "e2e-secret"
	jwtIssuer = "e2e"

	mainHallID = "7b1e4f0c-1d2a-4c3b-8e9f-0a1b2c3d4e5f"
	labID      = "9c2d5e1f-3a4b-4c5d-9e0f-1a2b3c4d5e6f"
)

var testNow = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []notification.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg notification.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) topics() []notification.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notification.Topic, len(p.messages))
	for i, m := range p.messages {
		out[i] = m.Topic
	}
	return out
}

// TestServer is a fully wired service backed by the memory store and miniredis.
type TestServer struct {
	App       *app.App
	Redis     *miniredis.Miniredis
	Published *recordingPublisher
	issuer    *auth.JWTIssuer
}

func newTestServer(t *testing.T) *TestServer {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{
		Env:   "test",
		Store: config.StoreConfig{Driver: "memory"},
		Auth: config.AuthConfig{
			JWTSecret:       jwtSecret,
			Issuer:          jwtIssuer,
			IdentityTimeout: time.Second,
		},
		Notification: config.NotificationConfig{
			ChannelPrefix:  "e2e:",
			PublishTimeout: time.Second,
			Mail:           config.MailConfig{Provider: "noop"},
		},
		Lock: config.LockConfig{
			Enabled:    true,
			TTL:        5 * time.Second,
			MaxRetries: 200,
			RetryDelay: 5 * time.Millisecond,
		},
		Cache: config.CacheConfig{VenueTTL: time.Minute},
	}

	published := &recordingPublisher{}
	a, err := app.New(context.Background(), cfg,
		app.WithRegistry(prometheus.NewRegistry()),
		app.WithRedisClient(client),
		app.WithPublisher(published),
		app.WithClock(func() time.Time { return testNow }),
		app.WithVenues(
			&venue.Venue{ID: mainHallID, Name: "Main Hall", Address: "1 Campus Way", Capacity: 300, OpeningTime: "08:00", ClosingTime: "22:00"},
			&venue.Venue{ID: labID, Name: "Lab", Address: "2 Campus Way", Capacity: 40, OpeningTime: "09:00", ClosingTime: "18:00"},
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
	})

	return &TestServer{
		App:       a,
		Redis:     mr,
		Published: published,
		issuer:    auth.NewJWTIssuer(jwtSecret, jwtIssuer),
	}
}

// Token issues a bearer token for the actor.
func (s *TestServer) Token(t *testing.T, a actor.Actor) string {
	t.Helper()
	token, err := s.issuer.Issue(a, time.Hour)
	require.NoError(t, err)
	return token
}

// Request sends a JSON request through the full middleware stack.
func (s *TestServer) Request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.App.Echo.ServeHTTP(rec, req)
	return rec
}

type eventBody struct {
	ID              string  `json:"id"`
	SpeakerID       string  `json:"speakerId"`
	Status          string  `json:"status"`
	VenueID         string  `json:"venueId"`
	RejectionReason *string `json:"rejectionReason"`
}

type errorBody struct {
	Error    string `json:"error"`
	CodeName string `json:"code_name"`
}

func decodeEvent(t *testing.T, rec *httptest.ResponseRecorder) eventBody {
	t.Helper()
	var resp struct {
		Data eventBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var resp errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func requireStatus(t *testing.T, want int, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}

func eventInput(name, venueID, start, end string) map[string]string {
	return map[string]string{
		"name":             name,
		"description":      "An event about " + name,
		"category":         "Technology",
		"venueId":          venueID,
		"bookingStartDate": start,
		"bookingEndDate":   end,
	}
}

var (
	speakerA = actor.Actor{ID: "speaker-a", Email: "a@example.com", Role: actor.RoleSpeaker}
	speakerB = actor.Actor{ID: "speaker-b", Email: "b@example.com", Role: actor.RoleSpeaker}
	admin    = actor.Actor{ID: "admin-1", Email: "admin@example.com", Role: actor.RoleAdmin}
)

func pathFor(kind, id, action string) string {
	p := "/api/v1/" + kind + "/events/" + id
	if action != "" {
		p += "/" + action
	}
	return p
}

