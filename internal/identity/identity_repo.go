package identity

import (
	"context"

	"go-faceattend/internal/authz"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=identity_repo.go -destination=mock/identity_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ident *Identity) error
	FindByName(ctx context.Context, name string) (*Identity, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Identity, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
	FindAll(ctx context.Context) ([]Identity, error)
	FindAllByRole(ctx context.Context, role authz.Role) ([]Identity, error)
	// CountByRole counts identities holding role; bootstrap rows are
	// excluded when excludeBootstrap is set (they do not occupy cap slots).
	CountByRole(ctx context.Context, role authz.Role, excludeBootstrap bool) (int64, error)
	FindBootstrap(ctx context.Context) ([]Identity, error)
	Update(ctx context.Context, ident *Identity) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn() *gorm.DB {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) Create(ctx context.Context, ident *Identity) error {
	return r.conn().WithContext(ctx).Create(ident).Error
}

func (r *repository) FindByName(ctx context.Context, name string) (*Identity, error) {
	var ident Identity
	err := r.conn().WithContext(ctx).
		Where("name = ?", name).
		First(&ident).Error
	return &ident, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Identity, error) {
	var ident Identity
	err := r.conn().WithContext(ctx).
		Where("id = ?", id).
		First(&ident).Error
	return &ident, err
}

func (r *repository) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.conn().WithContext(ctx).
		Model(&Identity{}).
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAll(ctx context.Context) ([]Identity, error) {
	var rows []Identity
	err := r.conn().WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByRole(ctx context.Context, role authz.Role) ([]Identity, error) {
	var rows []Identity
	err := r.conn().WithContext(ctx).
		Where("role = ?", role).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByRole(ctx context.Context, role authz.Role, excludeBootstrap bool) (int64, error) {
	var count int64
	q := r.conn().WithContext(ctx).
		Model(&Identity{}).
		Where("role = ?", role)
	if excludeBootstrap {
		q = q.Where("is_bootstrap = false")
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *repository) FindBootstrap(ctx context.Context) ([]Identity, error) {
	var rows []Identity
	err := r.conn().WithContext(ctx).
		Where("is_bootstrap = true").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, ident *Identity) error {
	return r.conn().WithContext(ctx).Save(ident).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn().WithContext(ctx).
		Where("id = ?", id).
		Delete(&Identity{}).Error
}
