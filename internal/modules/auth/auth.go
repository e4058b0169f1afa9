package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/mkj2903/finalshowmo/internal/modules/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAdmin           = errors.New("admin access required")
	ErrInvalidToken       = errors.New("invalid token")
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login checks an admin's password and issues a signed token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// ParseToken verifies signature and expiry and returns the claims.
	ParseToken(token string) (*Claims, error)
}

// Claims are carried in every issued token. Subject holds the user id.
type Claims struct {
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
	jwt.StandardClaims
}

type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      *user.User `json:"user"`
}

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying c.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFrom returns the claims stored by RequireAdmin.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}
