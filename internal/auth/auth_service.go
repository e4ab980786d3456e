package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "github.com/mikexportit-jpg/attendance/internal/auth/errors"
	"github.com/mikexportit-jpg/attendance/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, username, password string) (accessToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
}

type service struct {
	users user.Repository
}

func NewService(users user.Repository) Service {
	return &service{users: users}
}

func (s *service) Login(ctx context.Context, username, password string) (string, AuthResponse, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		return "", AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := generateToken(u.ID.String(), u.Role, 12*time.Hour)
	if err != nil {
		return "", AuthResponse{}, err
	}

	return token, AuthResponse{
		ID:       u.ID.String(),
		Name:     u.Name,
		Username: u.Username,
		Role:     u.Role,
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrInvalidToken
		}
		return AuthResponse{}, err
	}
	return AuthResponse{
		ID:       u.ID.String(),
		Name:     u.Name,
		Username: u.Username,
		Role:     u.Role,
	}, nil
}

func generateToken(userID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
