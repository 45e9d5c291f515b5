package actor

import (
	"context"
	"errors"
	"strings"
)

// Role is the coarse permission level of an actor.
type Role string

const (
	RoleSpeaker Role = "SPEAKER"
	RoleAdmin   Role = "ADMIN"
	// RoleSystem is used by in-process schedulers acting outside a request.
	RoleSystem Role = "SYSTEM"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing bearer token")
)

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID    string
	Email string
	Role  Role
}

// IsAdmin reports whether the actor bypasses ownership checks.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSystem
}

// Owns reports whether the actor is the given owner.
func (a Actor) Owns(ownerID string) bool {
	return a.ID != "" && a.ID == ownerID
}

// System returns the actor used by background workers.
func System() Actor {
	return Actor{ID: "system", Role: RoleSystem}
}

// ParseRole maps a role claim to a Role. Unknown values fall back to speaker.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleSystem:
		return RoleSystem
	default:
		return RoleSpeaker
	}
}

// Resolver resolves a bearer token into an Actor.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Actor, error)
}
