package embedding

import (
	"context"

	"go-faceattend/internal/config"
	embeddingerrors "go-faceattend/internal/embedding/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Match is the winning identity for a probe vector.
type Match struct {
	IdentityID uuid.UUID
	Name       string
	Score      float64
}

//go:generate mockgen -source=matcher.go -destination=mock/matcher_mock.go -package=mock
type Matcher interface {
	// Match scans every enrolled embedding and returns the best-scoring
	// identity, provided its similarity exceeds the configured threshold.
	Match(ctx context.Context, probe []float32) (*Match, error)
}

type matcher struct {
	repo   Repository
	config config.Repository
	logger *zap.Logger
}

func NewMatcher(repo Repository, configRepo config.Repository, logger ...*zap.Logger) Matcher {
	l := zap.L().Named("embedding.matcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("embedding.matcher")
	}
	return &matcher{repo: repo, config: configRepo, logger: l}
}

func (m *matcher) Match(ctx context.Context, probe []float32) (*Match, error) {
	if len(probe) == 0 {
		return nil, embeddingerrors.ErrEmptyVector
	}

	cfg, err := m.config.Get(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := m.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var best *Match
	for _, row := range rows {
		score := CosineSimilarity(probe, row.Embedding.Slice())
		// Strictly-better keeps the earliest enrolled identity on ties.
		if best == nil || score > best.Score {
			best = &Match{IdentityID: row.IdentityID, Name: row.Name, Score: score}
		}
	}

	if best == nil || best.Score <= cfg.MatchThreshold {
		m.logger.Debug("no embedding above threshold",
			zap.Int("candidates", len(rows)),
			zap.Float64("threshold", cfg.MatchThreshold),
		)
		return nil, embeddingerrors.ErrNoMatch
	}

	return best, nil
}
