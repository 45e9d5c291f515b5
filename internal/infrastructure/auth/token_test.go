package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/actor"
)

const testSecret = "test-secret"

func TestJWTResolver_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		actor actor.Actor
	}{
		{"speaker", actor.Actor{ID: "user-123", Email: "speaker@example.com", Role: actor.RoleSpeaker}},
		{"admin", actor.Actor{ID: "admin-1", Email: "admin@example.com", Role: actor.RoleAdmin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := NewJWTIssuer(testSecret, "ems-auth").Issue(tt.actor, time.Hour)
			require.NoError(t, err)

			got, err := NewJWTResolver(testSecret, "ems-auth").Resolve(context.Background(), token)

			require.NoError(t, err)
			assert.Equal(t, tt.actor, got)
		})
	}
}

func TestJWTResolver_Rejects(t *testing.T) {
	valid, err := NewJWTIssuer(testSecret, "ems-auth").Issue(actor.Actor{ID: "user-1"}, time.Hour)
	require.NoError(t, err)
	expired, err := NewJWTIssuer(testSecret, "ems-auth").Issue(actor.Actor{ID: "user-1"}, -time.Hour)
	require.NoError(t, err)
	otherKey, err := NewJWTIssuer("another-secret", "ems-auth").Issue(actor.Actor{ID: "user-1"}, time.Hour)
	require.NoError(t, err)
	otherIssuer, err := NewJWTIssuer(testSecret, "someone-else").Issue(actor.Actor{ID: "user-1"}, time.Hour)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	resolver := NewJWTResolver(testSecret, "ems-auth")
	_, err = resolver.Resolve(context.Background(), valid)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "  ", actor.ErrMissingToken},
		{"garbage", "not.a.jwt", actor.ErrInvalidToken},
		{"expired", expired, actor.ErrInvalidToken},
		{"wrong key", otherKey, actor.ErrInvalidToken},
		{"wrong issuer", otherIssuer, actor.ErrInvalidToken},
		{"no expiry", noExpiry, actor.ErrInvalidToken},
		{"alg none", noneAlg, actor.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTResolver_RolesClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-9",
		"email": "ops@example.com",
		"roles": []string{"speaker", "admin"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	got, err := NewJWTResolver(testSecret, "").Resolve(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, actor.RoleAdmin, got.Role)
	assert.True(t, got.IsAdmin())
}

func TestJWTResolver_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewJWTResolver(testSecret, "").Resolve(ctx, "anything")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestJWTIssuer_RequiresID(t *testing.T) {
	_, err := NewJWTIssuer(testSecret, "").Issue(actor.Actor{}, time.Hour)
	assert.Error(t, err)
}
