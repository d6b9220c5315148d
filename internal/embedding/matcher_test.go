package embedding

import (
	"context"
	"testing"

	"go-faceattend/internal/config"
	embeddingerrors "go-faceattend/internal/embedding/errors"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmbeddingRepo struct {
	rows []FaceEmbedding
}

func (f *fakeEmbeddingRepo) WithTx(tx *gorm.DB) Repository { return f }
func (f *fakeEmbeddingRepo) Upsert(ctx context.Context, identityID uuid.UUID, name string, vector []float32) error {
	return nil
}
func (f *fakeEmbeddingRepo) FindAll(ctx context.Context) ([]FaceEmbedding, error) {
	return f.rows, nil
}
func (f *fakeEmbeddingRepo) FindByIdentity(ctx context.Context, identityID uuid.UUID) (*FaceEmbedding, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmbeddingRepo) DeleteByIdentity(ctx context.Context, identityID uuid.UUID) error {
	return nil
}

type fakeConfigRepo struct {
	threshold float64
}

func (f *fakeConfigRepo) Get(ctx context.Context) (*config.SystemConfig, error) {
	return &config.SystemConfig{
		ID:              1,
		MaxMasterAdmins: config.DefaultMaxMasterAdmins,
		MatchThreshold:  f.threshold,
	}, nil
}

func (f *fakeConfigRepo) Update(ctx context.Context, cfg *config.SystemConfig) error { return nil }

func enrolled(id uuid.UUID, vec []float32) FaceEmbedding {
	return FaceEmbedding{IdentityID: id, Embedding: pgvector.NewVector(vec)}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, CosineSimilarity(tc.a, tc.b), 1e-9)
		})
	}
}

func TestMatcher_PicksBestAboveThreshold(t *testing.T) {
	near := uuid.New()
	far := uuid.New()
	repo := &fakeEmbeddingRepo{rows: []FaceEmbedding{
		enrolled(far, []float32{0, 1, 0}),
		enrolled(near, []float32{0.9, 0.1, 0}),
	}}

	m := NewMatcher(repo, &fakeConfigRepo{threshold: 0.7})
	got, err := m.Match(context.Background(), []float32{1, 0, 0})

	assert.NoError(t, err)
	assert.Equal(t, near, got.IdentityID)
	assert.Greater(t, got.Score, 0.7)
}

func TestMatcher_BestBelowThresholdIsNoMatch(t *testing.T) {
	repo := &fakeEmbeddingRepo{rows: []FaceEmbedding{
		enrolled(uuid.New(), []float32{0, 1, 0}),
	}}

	m := NewMatcher(repo, &fakeConfigRepo{threshold: 0.7})
	_, err := m.Match(context.Background(), []float32{1, 0, 0})

	assert.ErrorIs(t, err, embeddingerrors.ErrNoMatch)
}

func TestMatcher_ThresholdIsExclusive(t *testing.T) {
	// A score exactly at the threshold must not match.
	repo := &fakeEmbeddingRepo{rows: []FaceEmbedding{
		enrolled(uuid.New(), []float32{1, 0, 0}),
	}}

	m := NewMatcher(repo, &fakeConfigRepo{threshold: 1.0})
	_, err := m.Match(context.Background(), []float32{1, 0, 0})

	assert.ErrorIs(t, err, embeddingerrors.ErrNoMatch)
}

func TestMatcher_EmptyStore(t *testing.T) {
	m := NewMatcher(&fakeEmbeddingRepo{}, &fakeConfigRepo{threshold: 0.7})
	_, err := m.Match(context.Background(), []float32{1, 0, 0})

	assert.ErrorIs(t, err, embeddingerrors.ErrNoMatch)
}

func TestMatcher_EmptyProbe(t *testing.T) {
	m := NewMatcher(&fakeEmbeddingRepo{}, &fakeConfigRepo{threshold: 0.7})
	_, err := m.Match(context.Background(), nil)

	assert.ErrorIs(t, err, embeddingerrors.ErrEmptyVector)
}
