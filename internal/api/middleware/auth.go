package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/actor"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
)

const actorContextKey = "actor"

// DefaultIdentityTimeout bounds a single identity lookup.
const DefaultIdentityTimeout = 5 * time.Second

// BearerAuth resolves the Authorization bearer token into an Actor and
// stores it on the context. Requests without a valid token are rejected.
func BearerAuth(resolver actor.Resolver, timeout time.Duration) echo.MiddlewareFunc {
	return bearerAuth(resolver, timeout, true)
}

// OptionalBearerAuth behaves like BearerAuth but lets anonymous requests
// through. A token that is present must still be valid.
func OptionalBearerAuth(resolver actor.Resolver, timeout time.Duration) echo.MiddlewareFunc {
	return bearerAuth(resolver, timeout, false)
}

func bearerAuth(resolver actor.Resolver, timeout time.Duration, required bool) echo.MiddlewareFunc {
	if timeout <= 0 {
		timeout = DefaultIdentityTimeout
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				if required {
					return actor.ErrMissingToken
				}
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			a, err := resolver.Resolve(ctx, token)
			cancel()
			if err != nil {
				if errors.Is(err, actor.ErrMissingToken) || errors.Is(err, actor.ErrInvalidToken) {
					return err
				}
				return fmt.Errorf("%w: %v", actor.ErrInvalidToken, err)
			}

			c.Set(actorContextKey, a)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAdmin rejects authenticated actors without the admin role.
// It must run after BearerAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a, ok := ActorFrom(c)
			if !ok {
				return actor.ErrMissingToken
			}
			if !a.IsAdmin() {
				return event.ErrAdminOnly
			}
			return next(c)
		}
	}
}

// ActorFrom returns the actor resolved for the request, if any.
func ActorFrom(c echo.Context) (actor.Actor, bool) {
	a, ok := c.Get(actorContextKey).(actor.Actor)
	return a, ok
}
