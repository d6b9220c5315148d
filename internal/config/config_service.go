package config

import (
	"context"

	"go-faceattend/internal/authz"
	configerrors "go-faceattend/internal/config/errors"
	"go-faceattend/internal/shared/contextutil"

	"go.uber.org/zap"
)

//go:generate mockgen -source=config_service.go -destination=mock/config_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context) (ConfigResponse, error)
	// Update mutates system-wide settings; master-admin credentials are
	// verified before anything is written.
	Update(ctx context.Context, req UpdateConfigRequest) (ConfigResponse, error)
}

type service struct {
	repo   Repository
	authz  authz.Service
	logger *zap.Logger
}

func NewService(repo Repository, authzService authz.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("config.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("config.service")
	}
	return &service{repo: repo, authz: authzService, logger: l}
}

func (s *service) Get(ctx context.Context) (ConfigResponse, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Error("load system config failed", zap.Error(err))
		return ConfigResponse{}, err
	}
	return mapToResponse(*cfg), nil
}

func (s *service) Update(ctx context.Context, req UpdateConfigRequest) (ConfigResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := s.authz.Authorize(ctx, req.AdminUsername, req.AdminPassword, authz.RoleMasterAdmin); err != nil {
		return ConfigResponse{}, err
	}

	if req.MaxMasterAdmins < 1 {
		return ConfigResponse{}, configerrors.ErrInvalidMasterAdminCap
	}
	if req.MatchThreshold <= 0 || req.MatchThreshold > 1 {
		return ConfigResponse{}, configerrors.ErrInvalidMatchThreshold
	}

	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return ConfigResponse{}, err
	}

	cfg.MaxMasterAdmins = req.MaxMasterAdmins
	cfg.MatchThreshold = req.MatchThreshold

	if err := s.repo.Update(ctx, cfg); err != nil {
		s.logger.Error("update system config failed", zap.String("request_id", rid), zap.Error(err))
		return ConfigResponse{}, err
	}

	s.logger.Info("system config updated",
		zap.String("request_id", rid),
		zap.String("updated_by", req.AdminUsername),
		zap.Int("max_master_admins", cfg.MaxMasterAdmins),
		zap.Float64("match_threshold", cfg.MatchThreshold),
	)

	return mapToResponse(*cfg), nil
}

func mapToResponse(cfg SystemConfig) ConfigResponse {
	return ConfigResponse{
		MaxMasterAdmins: cfg.MaxMasterAdmins,
		MatchThreshold:  cfg.MatchThreshold,
	}
}
