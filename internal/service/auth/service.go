// Package auth resolves who is acting. The core treats the result as an
// opaque Actor; nothing below the handlers looks at tokens or passwords.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alshifa-clinic/booking-api/internal/model"
	"github.com/alshifa-clinic/booking-api/internal/repository"
	apperrors "github.com/alshifa-clinic/booking-api/pkg/errors"
)

const bcryptCost = 12

var ErrInvalidCredentials = errors.New("invalid credentials")

type Config struct {
	Secret      string
	ExpiryHours int
}

type Claims struct {
	jwt.RegisteredClaims
	Name string     `json:"name"`
	Role model.Role `json:"role"`
}

type Service struct {
	users  repository.UserRepository
	config Config
}

func NewService(users repository.UserRepository, config Config) *Service {
	return &Service{users: users, config: config}
}

// Register creates a patient account. Admin and doctor accounts are seeded
// or created out of band, never through self-registration.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Forbidden("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         model.RolePatient,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}

	return s.issueToken(user)
}

// ValidateToken parses the token and returns the acting identity.
func (s *Service) ValidateToken(tokenString string) (*model.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized(err)
	}
	if !claims.Role.Valid() {
		return nil, apperrors.Unauthorized(fmt.Errorf("unknown role %q", claims.Role))
	}
	return &model.Actor{
		ID:   claims.Subject,
		Name: claims.Name,
		Role: claims.Role,
	}, nil
}

func (s *Service) issueToken(user *model.User) (*model.TokenResponse, error) {
	expiry := time.Now().Add(time.Duration(s.config.ExpiryHours) * time.Hour)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Name: user.Name,
		Role: user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: signed,
		ExpiresAt:   expiry.Unix(),
		User:        user,
	}, nil
}

// HashPassword is used by seeding to store credentials for the default
// accounts.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
