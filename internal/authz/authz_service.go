package authz

import (
	"context"

	authzerrors "go-faceattend/internal/authz/errors"

	"golang.org/x/crypto/bcrypt"
)

// Credential is the slice of an identity the engine needs to decide.
type Credential struct {
	Name         string
	Role         Role
	PasswordHash string
}

// Directory resolves a username to its credential. The identity package
// provides the production implementation; tests plug in fakes.
type Directory interface {
	FindCredential(ctx context.Context, name string) (*Credential, error)
}

//go:generate mockgen -source=authz_service.go -destination=mock/authz_service_mock.go -package=mock
type Service interface {
	// Authorize checks, in order: identity exists, password hash matches,
	// role satisfies required. Each failure has its own error value.
	Authorize(ctx context.Context, username, password string, required Role) (*Credential, error)
}

type service struct {
	directory Directory
}

func NewService(directory Directory) Service {
	return &service{directory: directory}
}

func (s *service) Authorize(ctx context.Context, username, password string, required Role) (*Credential, error) {
	cred, err := s.directory.FindCredential(ctx, username)
	if err != nil || cred == nil {
		return nil, authzerrors.ErrUnknownIdentity
	}

	// Plain users carry no password hash and can never authenticate.
	if cred.PasswordHash == "" {
		return nil, authzerrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, authzerrors.ErrInvalidCredentials
	}

	if !cred.Role.Satisfies(required) {
		return nil, authzerrors.ErrInsufficientRole
	}

	return cred, nil
}
