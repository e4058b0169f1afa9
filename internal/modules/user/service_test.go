package user

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type memRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemRepo() *memRepo { return &memRepo{users: map[string]*User{}} }

func (m *memRepo) CreateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return ErrEmailTaken
	}
	m.users[u.Email] = u
	return nil
}

func (m *memRepo) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m *memRepo) GetUserByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) ListUsers(context.Context) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*User{}
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memRepo) CountUsers(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func TestCreateUser(t *testing.T) {
	repo := newMemRepo()
	s := NewService(repo, zap.NewNop())
	ctx := context.Background()

	u, err := s.CreateUser(ctx, CreateUserRequest{Email: " Ops@Shop.in ", Password: "s3cret-pass", Name: "Ops"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Email != "ops@shop.in" || u.Role != RoleCustomer {
		t.Errorf("user = %+v", u)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")) != nil {
		t.Error("password hash does not match")
	}

	if _, err := s.CreateUser(ctx, CreateUserRequest{Email: "ops@shop.in", Password: "another-pass"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate = %v, want ErrEmailTaken", err)
	}

	bad := []struct {
		req   CreateUserRequest
		field string
	}{
		{CreateUserRequest{Email: "nope", Password: "longenough"}, "email"},
		{CreateUserRequest{Email: "a@b.in", Password: "short"}, "password"},
		{CreateUserRequest{Email: "a@b.in", Password: "longenough", Role: "root"}, "role"},
	}
	for _, tt := range bad {
		_, err := s.CreateUser(ctx, tt.req)
		if ve, ok := validation.As(err); !ok || ve.Field != tt.field {
			t.Errorf("CreateUser(%+v) = %v, want %s validation error", tt.req, err, tt.field)
		}
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	repo := newMemRepo()
	s := NewService(repo, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := s.EnsureAdmin(ctx, "admin@shop.in", "admin-password"); err != nil {
			t.Fatalf("EnsureAdmin #%d: %v", i, err)
		}
	}
	if n, _ := s.CountUsers(ctx); n != 1 || !repo.users["admin@shop.in"].IsAdmin() {
		t.Errorf("users = %+v", repo.users)
	}
	if err := s.EnsureAdmin(ctx, "", ""); err != nil {
		t.Errorf("EnsureAdmin without credentials: %v", err)
	}
}

func TestUserEndpoints(t *testing.T) {
	s := NewService(newMemRepo(), zap.NewNop())
	r := chi.NewRouter()
	NewHandler(s, zap.NewNop()).RegisterAdminRoutes(r)

	body := `{"email":"staff@shop.in","password":"password123","name":"Staff","role":"admin"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response leaks password hash")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/does-not-exist", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want 404", rec.Code)
	}
}
