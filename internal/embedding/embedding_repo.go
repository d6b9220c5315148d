package embedding

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=embedding_repo.go -destination=mock/embedding_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, identityID uuid.UUID, name string, vector []float32) error
	FindAll(ctx context.Context) ([]FaceEmbedding, error)
	FindByIdentity(ctx context.Context, identityID uuid.UUID) (*FaceEmbedding, error)
	DeleteByIdentity(ctx context.Context, identityID uuid.UUID) error
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

func (r *repository) Upsert(ctx context.Context, identityID uuid.UUID, name string, vector []float32) error {
	row := FaceEmbedding{
		IdentityID: identityID,
		Name:       name,
		Embedding:  pgvector.NewVector(vector),
	}
	return r.conn().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "embedding", "updated_at"}),
		}).
		Create(&row).Error
}

func (r *repository) FindAll(ctx context.Context) ([]FaceEmbedding, error) {
	var rows []FaceEmbedding
	err := r.conn().WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIdentity(ctx context.Context, identityID uuid.UUID) (*FaceEmbedding, error) {
	var row FaceEmbedding
	err := r.conn().WithContext(ctx).
		Where("identity_id = ?", identityID).
		First(&row).Error
	return &row, err
}

func (r *repository) DeleteByIdentity(ctx context.Context, identityID uuid.UUID) error {
	// Missing rows are fine: identities created without a face have no
	// embedding to remove.
	return r.conn().WithContext(ctx).
		Where("identity_id = ?", identityID).
		Delete(&FaceEmbedding{}).Error
}
