package embedding

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// FaceEmbedding holds the single face vector stored for an identity.
// Re-registering a face replaces the row in place.
type FaceEmbedding struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	IdentityID uuid.UUID       `gorm:"column:identity_id;type:uuid;not null;uniqueIndex"`
	Name       string          `gorm:"column:name;type:varchar(100);not null"`
	Embedding  pgvector.Vector `gorm:"column:embedding;type:vector(512);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (FaceEmbedding) TableName() string {
	return "face_embeddings"
}
