package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/mkj2903/finalshowmo/internal/modules/user"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserFinder looks accounts up by email.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
}

type service struct {
	users  UserFinder
	jwtKey []byte
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new auth service.
func NewService(users UserFinder, secret string, ttl time.Duration, logger *zap.Logger) Service {
	return &service{users: users, jwtKey: []byte(secret), ttl: ttl, logger: logger, now: time.Now}
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("failed login", zap.String("email", u.Email))
		return nil, ErrInvalidCredentials
	}
	if !u.IsAdmin() {
		return nil, ErrNotAdmin
	}

	now := s.now()
	expirationTime := now.Add(s.ttl)
	claims := &Claims{
		Email: u.Email,
		Role:  u.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin logged in", zap.String("email", u.Email))
	return &LoginResult{Token: tokenString, ExpiresAt: expirationTime, User: u}, nil
}

func (s *service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
