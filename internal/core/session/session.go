// Package session carries the authenticated actor between the transport layer
// and the actions, and defines the claims of the session token.
package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/contalink/backoffice/internal/core/domain"
)

type ctxKey struct{}

// Claims is the payload of the session JWT. The subject is the user id.
type Claims struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the identity passed to actions.
func (c *Claims) Actor() *domain.Actor {
	return &domain.Actor{
		UserID:   c.Subject,
		TenantID: c.TenantID,
		Role:     c.Role,
		Name:     c.Name,
		Email:    c.Email,
	}
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

// ActorFrom returns the actor stored in ctx, or nil when the request is anonymous.
func ActorFrom(ctx context.Context) *domain.Actor {
	actor, _ := ctx.Value(ctxKey{}).(*domain.Actor)
	return actor
}

// Issuer is the iss claim of every session token.
const Issuer = "backoffice"

// NewClaims returns the claims of a session for user valid for ttl.
func NewClaims(user *domain.User, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		TenantID: user.TenantID,
		Role:     user.Role,
		Email:    user.Email,
		Name:     user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// Sign encodes claims as an HS256 token.
func Sign(claims *Claims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse verifies token and returns its claims. Only HS256 tokens issued by
// this service with a subject and a tenant are accepted.
func Parse(token, secret string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.TenantID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
