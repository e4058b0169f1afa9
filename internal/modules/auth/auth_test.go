package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mkj2903/finalshowmo/internal/modules/user"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers map[string]*user.User

func (f fakeUsers) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := f[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func newTestService(t *testing.T) *service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	users := fakeUsers{
		"admin@shop.in": {ID: uuid.New(), Email: "admin@shop.in", PasswordHash: string(hash), Role: user.RoleAdmin},
		"buyer@shop.in": {ID: uuid.New(), Email: "buyer@shop.in", PasswordHash: string(hash), Role: user.RoleCustomer},
	}
	return NewService(users, "test-secret", time.Hour, zap.NewNop()).(*service)
}

func TestLogin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	res, err := s.Login(ctx, " Admin@Shop.in", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := s.ParseToken(res.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Email != "admin@shop.in" || claims.Role != user.RoleAdmin || claims.Subject != res.User.ID.String() {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := s.Login(ctx, "admin@shop.in", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password = %v", err)
	}
	if _, err := s.Login(ctx, "ghost@shop.in", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user = %v", err)
	}
	if _, err := s.Login(ctx, "buyer@shop.in", "correct-horse"); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("customer login = %v, want ErrNotAdmin", err)
	}
}

func TestParseTokenRejectsExpiredAndForeignTokens(t *testing.T) {
	s := newTestService(t)
	s.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	res, err := s.Login(context.Background(), "admin@shop.in", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := s.ParseToken(res.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token = %v, want ErrInvalidToken", err)
	}

	other := NewService(fakeUsers{}, "other-secret", time.Hour, zap.NewNop())
	s.now = time.Now
	res, _ = s.Login(context.Background(), "admin@shop.in", "correct-horse")
	if _, err := other.ParseToken(res.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token from another key = %v, want ErrInvalidToken", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	s := newTestService(t)
	res, err := s.Login(context.Background(), "admin@shop.in", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	r := chi.NewRouter()
	r.Use(RequireAdmin(s))
	r.Get("/secret", func(w http.ResponseWriter, r *http.Request) {
		c, ok := ClaimsFrom(r.Context())
		if !ok {
			t.Error("claims missing from context")
			return
		}
		w.Write([]byte(c.Email))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid", "Bearer " + res.Token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secret", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && rec.Body.String() != "admin@shop.in" {
				t.Errorf("body = %q", rec.Body)
			}
		})
	}
}

func signForTest(s *service, c *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.jwtKey)
}

func TestRequireAdminForbidsCustomerToken(t *testing.T) {
	s := newTestService(t)
	claims := &Claims{Email: "buyer@shop.in", Role: user.RoleCustomer}
	claims.ExpiresAt = time.Now().Add(time.Hour).Unix()
	token, err := signForTest(s, claims)
	if err != nil {
		t.Fatal(err)
	}

	h := RequireAdmin(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with customer token")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestLoginEndpoint(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(newTestService(t), zap.NewNop()).RegisterAdminRoutes(r)

	tests := []struct {
		body string
		want int
	}{
		{`{"email":"admin@shop.in","password":"correct-horse"}`, http.StatusOK},
		{`{"email":"admin@shop.in","password":"nope"}`, http.StatusUnauthorized},
		{`{"email":"buyer@shop.in","password":"correct-horse"}`, http.StatusForbidden},
		{`{"email":""}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body)))
		if rec.Code != tt.want {
			t.Errorf("POST /login %s: status = %d, want %d", tt.body, rec.Code, tt.want)
		}
	}
}
