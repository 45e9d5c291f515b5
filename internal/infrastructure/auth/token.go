package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/actor"
)

// claims carries the identity issued by the auth service. Either Role or
// Roles may be present; an ADMIN entry in either makes the actor an admin.
type claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

func (c *claims) role() actor.Role {
	best := actor.ParseRole(c.Role)
	for _, r := range c.Roles {
		if parsed := actor.ParseRole(r); parsed == actor.RoleAdmin {
			return parsed
		}
	}
	return best
}

// JWTResolver resolves HS256 bearer tokens into actors.
type JWTResolver struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTResolver creates a resolver. issuer is checked only when non-empty.
func NewJWTResolver(secret, issuer string) *JWTResolver {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &JWTResolver{secret: []byte(secret), parser: jwt.NewParser(opts...)}
}

func (r *JWTResolver) Resolve(ctx context.Context, token string) (actor.Actor, error) {
	if err := ctx.Err(); err != nil {
		return actor.Actor{}, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return actor.Actor{}, actor.ErrMissingToken
	}

	var c claims
	parsed, err := r.parser.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return r.secret, nil
	})
	if err != nil || !parsed.Valid {
		return actor.Actor{}, fmt.Errorf("%w: %v", actor.ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return actor.Actor{}, fmt.Errorf("%w: missing subject", actor.ErrInvalidToken)
	}
	return actor.Actor{ID: c.Subject, Email: c.Email, Role: c.role()}, nil
}

var _ actor.Resolver = (*JWTResolver)(nil)

// JWTIssuer signs HS256 tokens for an actor. Used by tooling and tests.
type JWTIssuer struct {
	secret []byte
	issuer string
}

func NewJWTIssuer(secret, issuer string) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), issuer: issuer}
}

func (i *JWTIssuer) Issue(a actor.Actor, expiry time.Duration) (string, error) {
	if a.ID == "" {
		return "", errors.New("actor id is required")
	}
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: a.Email,
		Role:  string(a.Role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
