package auth

import (
	"context"
	"os"
	"time"

	autherrors "go-faceattend/internal/auth/errors"
	"go-faceattend/internal/authz"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	Me(ctx context.Context, name string) (*AuthResponse, error)
}

type service struct {
	directory authz.Directory
}

func NewService(directory authz.Directory) Service {
	return &service{directory: directory}
}

func (s *service) Login(ctx context.Context, username, password string) (string, string, AuthResponse, error) {
	cred, err := s.directory.FindCredential(ctx, username)
	if err != nil || cred == nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// Face-only users have no hash and cannot open a session.
	if cred.PasswordHash == "" {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	accessToken, err := generateToken(cred.Name, string(cred.Role), accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := generateToken(cred.Name, string(cred.Role), refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, AuthResponse{
		Name: cred.Name,
		Role: string(cred.Role),
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	name, ok := claims["name"].(string)
	if !ok || name == "" {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	// Re-resolve the credential so a retired identity cannot refresh its way
	// back in.
	cred, err := s.directory.FindCredential(ctx, name)
	if err != nil || cred == nil || cred.PasswordHash == "" {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	newAccessToken, err := generateToken(cred.Name, string(cred.Role), accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := generateToken(cred.Name, string(cred.Role), refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, AuthResponse{
		Name: cred.Name,
		Role: string(cred.Role),
	}, nil
}

func (s *service) Me(ctx context.Context, name string) (*AuthResponse, error) {
	cred, err := s.directory.FindCredential(ctx, name)
	if err != nil || cred == nil {
		return nil, autherrors.ErrInvalidToken
	}
	return &AuthResponse{
		Name: cred.Name,
		Role: string(cred.Role),
	}, nil
}

func generateToken(name, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"name": name,
		"role": role,
		"exp":  time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
