package identity

import (
	"context"

	"go-faceattend/internal/authz"
)

// directory adapts the identity store to the authorization engine's lookup
// interface.
type directory struct {
	repo Repository
}

func NewDirectory(repo Repository) authz.Directory {
	return &directory{repo: repo}
}

func (d *directory) FindCredential(ctx context.Context, name string) (*authz.Credential, error) {
	ident, err := d.repo.FindByName(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &authz.Credential{
		Name:         ident.Name,
		Role:         ident.Role,
		PasswordHash: ident.PasswordHash,
	}, nil
}
