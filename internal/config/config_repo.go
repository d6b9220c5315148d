package config

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=config_repo.go -destination=mock/config_repo_mock.go -package=mock
type Repository interface {
	// Get returns the stored config, creating the default row on first run.
	Get(ctx context.Context) (*SystemConfig, error)
	Update(ctx context.Context, cfg *SystemConfig) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (*SystemConfig, error) {
	var cfg SystemConfig
	err := r.db.WithContext(ctx).First(&cfg, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = defaultConfig()
		if err := r.db.WithContext(ctx).Create(&cfg).Error; err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *repository) Update(ctx context.Context, cfg *SystemConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}
