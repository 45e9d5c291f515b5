package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Check(t *testing.T) {
	e := NewTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewHealthHandler(nil).Check(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"timestamp"`)
	assert.NotContains(t, rec.Body.String(), `"components"`)
}

func TestHealthHandler_Components(t *testing.T) {
	h := NewHealthHandler(map[string]HealthCheck{
		"database": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	})
	h.now = func() time.Time { return testNow }

	e := NewTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	require.NoError(t, h.Check(c))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp HealthResponse
	decode(t, rec.Body.Bytes(), &resp)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "2025-05-01T08:00:00Z", resp.Timestamp)
	assert.Equal(t, map[string]string{"database": "up", "redis": "down"}, resp.Components)
}

func TestHealthHandler_Route(t *testing.T) {
	s := newTestServer()
	rec := s.do(http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
