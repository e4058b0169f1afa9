package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	CountUsers(ctx context.Context) (int, error)

	// EnsureAdmin creates the admin account on first boot. An existing
	// account with that email is left untouched.
	EnsureAdmin(ctx context.Context, email, password string) error
}
