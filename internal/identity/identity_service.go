package identity

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-faceattend/internal/authz"
	"go-faceattend/internal/config"
	"go-faceattend/internal/embedding"
	identityerrors "go-faceattend/internal/identity/errors"
	"go-faceattend/internal/messaging/kafka"
	"go-faceattend/internal/shared/contextutil"
	"go-faceattend/internal/shared/counter"
	"go-faceattend/internal/vision"

	"go-faceattend/internal/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const DirectoryCacheKey = "identities:directory"

const counterEmployeeNumber = "employee_number"

//go:generate mockgen -source=identity_service.go -destination=mock/identity_service_mock.go -package=mock
type Service interface {
	// RegisterUser enrolls a face-tracked user. Registering an existing name
	// overwrites that identity's embedding instead of failing.
	RegisterUser(ctx context.Context, req RegisterUserRequest) (IdentityResponse, error)
	ReRegisterFace(ctx context.Context, name string, req ReRegisterFaceRequest) (IdentityResponse, error)
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (IdentityResponse, error)
	// CreateMasterAdmin enforces the configured cap and retires any
	// bootstrap identity in the same transaction.
	CreateMasterAdmin(ctx context.Context, req CreateMasterAdminRequest) (IdentityResponse, error)
	Delete(ctx context.Context, name string, req DeleteIdentityRequest) error
	GetAll(ctx context.Context) ([]IdentityResponse, error)
	// EnsureBootstrap seeds the initial master admin when the directory has
	// none. Called once at startup.
	EnsureBootstrap(ctx context.Context, username, password string) error
}

// Hasher is bcrypt in production; tests swap in a cheap stand-in.
type Hasher interface {
	Hash(password string) (string, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	embeddings embedding.Repository
	detector   vision.Detector
	authz      authz.Service
	config     config.Repository
	counter    counter.Repository
	hasher     Hasher
	outbox     kafka.OutboxRepository
	rdb        *redis.Client
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	embeddings embedding.Repository,
	detector vision.Detector,
	authzService authz.Service,
	configRepo config.Repository,
	counterRepo counter.Repository,
	hasher Hasher,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, embeddings, detector, authzService, configRepo, counterRepo, hasher, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	embeddings embedding.Repository,
	detector vision.Detector,
	authzService authz.Service,
	configRepo config.Repository,
	counterRepo counter.Repository,
	hasher Hasher,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("identity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("identity.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		embeddings: embeddings,
		detector:   detector,
		authz:      authzService,
		config:     configRepo,
		counter:    counterRepo,
		hasher:     hasher,
		outbox:     outboxRepo,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		logger:     l,
	}
}

func (s *service) RegisterUser(ctx context.Context, req RegisterUserRequest) (IdentityResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("register user requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
	)

	if _, err := s.authz.Authorize(ctx, req.AdminUsername, req.AdminPassword, authz.RoleAdmin); err != nil {
		return IdentityResponse{}, err
	}

	if _, err := time.Parse("15:04", req.OfficeStartTime); err != nil {
		return IdentityResponse{}, identityerrors.ErrInvalidOfficeStartTime
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		return IdentityResponse{}, identityerrors.ErrInvalidImage
	}

	vector, err := s.detector.DetectAndEmbed(ctx, image)
	if err != nil {
		s.logger.Warn("register user detection failed",
			zap.String("request_id", rid),
			zap.String("name", req.Name),
			zap.Error(err),
		)
		return IdentityResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("register user begin tx failed", zap.String("request_id", rid), zap.Error(tx.Error))
		return IdentityResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qemb := s.embeddings.WithTx(tx)

	existing, err := qtx.FindByName(ctx, req.Name)
	if err == nil {
		// Same name: treat as face re-registration, profile untouched.
		if err := qemb.Upsert(ctx, existing.ID, existing.Name, vector); err != nil {
			s.logger.Error("register user overwrite embedding failed", zap.Error(err))
			return IdentityResponse{}, err
		}
		if err := tx.Commit().Error; err != nil {
			return IdentityResponse{}, err
		}
		s.invalidateDirectoryCache(ctx)
		s.logger.Info("face re-registered for existing identity",
			zap.String("request_id", rid),
			zap.String("identity_id", existing.ID.String()),
		)
		return mapToResponse(*existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return IdentityResponse{}, mapRepositoryError(err)
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		nextVal, err := s.counter.GetNextValue(ctx, counterEmployeeNumber)
		if err != nil {
			s.logger.Error("register user generate employee id failed", zap.Error(err))
			return IdentityResponse{}, err
		}
		employeeID = fmt.Sprintf("EMP-%06d", nextVal)
	} else {
		// Check-then-write inside the transaction keeps the uniqueness
		// failure a clean Conflict rather than a driver error.
		taken, err := qtx.ExistsByEmployeeID(ctx, employeeID)
		if err != nil {
			return IdentityResponse{}, err
		}
		if taken {
			return IdentityResponse{}, identityerrors.ErrEmployeeIDAlreadyExists
		}
	}

	ident := &Identity{
		ID:              uuid.New(),
		Name:            req.Name,
		EmployeeID:      employeeID,
		Role:            authz.RoleUser,
		Designation:     req.Designation,
		Email:           req.Email,
		PerDaySalary:    req.PerDaySalary,
		EmploymentType:  req.EmploymentType,
		OfficeStartTime: req.OfficeStartTime,
	}

	if err := qtx.Create(ctx, ident); err != nil {
		s.logger.Error("register user persist failed", zap.Error(err))
		return IdentityResponse{}, mapRepositoryError(err)
	}

	if err := qemb.Upsert(ctx, ident.ID, ident.Name, vector); err != nil {
		s.logger.Error("register user persist embedding failed", zap.Error(err))
		return IdentityResponse{}, err
	}

	if s.outbox != nil {
		event := events.IdentityRegisteredEvent{
			EventType:  "identity_registered",
			RequestID:  rid,
			IdentityID: ident.ID.String(),
			Name:       ident.Name,
			EmployeeID: ident.EmployeeID,
			Email:      ident.Email,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return IdentityResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "identity",
			AggregateID:   ident.ID.String(),
			EventType:     event.EventType,
			Topic:         events.IdentityRegisteredTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("register user outbox persist failed",
				zap.String("identity_id", ident.ID.String()),
				zap.Error(err),
			)
			return IdentityResponse{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("register user commit failed", zap.String("request_id", rid), zap.Error(err))
		return IdentityResponse{}, err
	}

	s.invalidateDirectoryCache(ctx)

	s.logger.Info("register user success",
		zap.String("request_id", rid),
		zap.String("identity_id", ident.ID.String()),
		zap.String("employee_id", ident.EmployeeID),
	)

	return mapToResponse(*ident), nil
}

func (s *service) ReRegisterFace(ctx context.Context, name string, req ReRegisterFaceRequest) (IdentityResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := s.authz.Authorize(ctx, req.AdminUsername, req.AdminPassword, authz.RoleAdmin); err != nil {
		return IdentityResponse{}, err
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		return IdentityResponse{}, identityerrors.ErrInvalidImage
	}

	vector, err := s.detector.DetectAndEmbed(ctx, image)
	if err != nil {
		return IdentityResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return IdentityResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ident, err := qtx.FindByName(ctx, name)
	if err != nil {
		return IdentityResponse{}, mapRepositoryError(err)
	}

	if err := s.embeddings.WithTx(tx).Upsert(ctx, ident.ID, ident.Name, vector); err != nil {
		s.logger.Error("re-register face persist failed", zap.Error(err))
		return IdentityResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return IdentityResponse{}, err
	}

	s.logger.Info("face re-registered",
		zap.String("request_id", rid),
		zap.String("identity_id", ident.ID.String()),
	)

	return mapToResponse(*ident), nil
}

func (s *service) CreateAdmin(ctx context.Context, req CreateAdminRequest) (IdentityResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := s.authz.Authorize(ctx, req.AdminUsername, req.AdminPassword, authz.RoleAdmin); err != nil {
		return IdentityResponse{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return IdentityResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return IdentityResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ident, err := s.createAdminClass(ctx, qtx, req.Name, req.Email, hash, authz.RoleAdmin)
	if err != nil {
		return IdentityResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return IdentityResponse{}, err
	}

	s.invalidateDirectoryCache(ctx)
	s.logger.Info("admin created",
		zap.String("request_id", rid),
		zap.String("identity_id", ident.ID.String()),
	)

	return mapToResponse(*ident), nil
}

func (s *service) CreateMasterAdmin(ctx context.Context, req CreateMasterAdminRequest) (IdentityResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := s.authz.Authorize(ctx, req.AdminUsername, req.AdminPassword, authz.RoleMasterAdmin); err != nil {
		return IdentityResponse{}, err
	}

	cfg, err := s.config.Get(ctx)
	if err != nil {
		return IdentityResponse{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return IdentityResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return IdentityResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Bootstrap rows never occupy a cap slot, otherwise the default cap of 1
	// would block the first real master admin forever.
	count, err := qtx.CountByRole(ctx, authz.RoleMasterAdmin, true)
	if err != nil {
		return IdentityResponse{}, err
	}
	if count >= int64(cfg.MaxMasterAdmins) {
		return IdentityResponse{}, identityerrors.ErrMasterAdminCapReached
	}

	ident, err := s.createAdminClass(ctx, qtx, req.Name, req.Email, hash, authz.RoleMasterAdmin)
	if err != nil {
		return IdentityResponse{}, err
	}

	// A real master admin succeeds the bootstrap identity; retire it in the
	// same transaction so there is no window with both valid.
	bootstraps, err := qtx.FindBootstrap(ctx)
	if err != nil {
		return IdentityResponse{}, err
	}
	for _, b := range bootstraps {
		if err := qtx.Delete(ctx, b.ID); err != nil {
			return IdentityResponse{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return IdentityResponse{}, err
	}

	s.invalidateDirectoryCache(ctx)

	if len(bootstraps) > 0 {
		s.logger.Info("bootstrap master admin retired",
			zap.String("request_id", rid),
			zap.Int("retired", len(bootstraps)),
		)
	}
	s.logger.Info("master admin created",
		zap.String("request_id", rid),
		zap.String("identity_id", ident.ID.String()),
	)

	return mapToResponse(*ident), nil
}

func (s *service) createAdminClass(ctx context.Context, qtx Repository, name, email, hash string, role authz.Role) (*Identity, error) {
	_, err := qtx.FindByName(ctx, name)
	if err == nil {
		return nil, identityerrors.ErrNameAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapRepositoryError(err)
	}

	nextVal, err := s.counter.GetNextValue(ctx, counterEmployeeNumber)
	if err != nil {
		return nil, err
	}

	ident := &Identity{
		ID:           uuid.New(),
		Name:         name,
		EmployeeID:   fmt.Sprintf("EMP-%06d", nextVal),
		Role:         role,
		Email:        email,
		PasswordHash: hash,
	}
	if err := qtx.Create(ctx, ident); err != nil {
		return nil, mapRepositoryError(err)
	}
	return ident, nil
}

func (s *service) Delete(ctx context.Context, name string, req DeleteIdentityRequest) error {
	rid := contextutil.GetRequestID(ctx)

	if _, err := s.authz.Authorize(ctx, req.AdminUsername, req.AdminPassword, authz.RoleAdmin); err != nil {
		return err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ident, err := qtx.FindByName(ctx, name)
	if err != nil {
		return mapRepositoryError(err)
	}

	if ident.Role == authz.RoleMasterAdmin {
		total, err := qtx.CountByRole(ctx, authz.RoleMasterAdmin, false)
		if err != nil {
			return err
		}
		if total <= 1 {
			return identityerrors.ErrLastMasterAdmin
		}
	}

	if err := qtx.Delete(ctx, ident.ID); err != nil {
		s.logger.Error("delete identity failed", zap.Error(err))
		return err
	}
	// Identity and embedding leave together; a missing embedding row is fine.
	if err := s.embeddings.WithTx(tx).DeleteByIdentity(ctx, ident.ID); err != nil {
		s.logger.Error("delete embedding failed", zap.Error(err))
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.invalidateDirectoryCache(ctx)
	s.logger.Info("identity deleted",
		zap.String("request_id", rid),
		zap.String("identity_id", ident.ID.String()),
		zap.String("name", ident.Name),
	)
	return nil
}

func (s *service) GetAll(ctx context.Context) ([]IdentityResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, DirectoryCacheKey).Result(); err == nil {
			var resp []IdentityResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(DirectoryCacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(rows)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, DirectoryCacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]IdentityResponse), nil
}

func (s *service) EnsureBootstrap(ctx context.Context, username, password string) error {
	count, err := s.repo.CountByRole(ctx, authz.RoleMasterAdmin, false)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	nextVal, err := s.counter.GetNextValue(ctx, counterEmployeeNumber)
	if err != nil {
		return err
	}

	ident := &Identity{
		ID:           uuid.New(),
		Name:         username,
		EmployeeID:   fmt.Sprintf("EMP-%06d", nextVal),
		Role:         authz.RoleMasterAdmin,
		PasswordHash: hash,
		IsBootstrap:  true,
	}
	if err := s.repo.Create(ctx, ident); err != nil {
		// A concurrent boot already seeded it.
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, identityerrors.ErrNameAlreadyExists) {
			return nil
		}
		return mapped
	}

	s.logger.Info("bootstrap master admin seeded", zap.String("name", username))
	return nil
}

func (s *service) invalidateDirectoryCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, DirectoryCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate directory cache",
			zap.Error(err),
			zap.String("key", DirectoryCacheKey),
		)
	}
}

func mapToResponse(ident Identity) IdentityResponse {
	return IdentityResponse{
		ID:              ident.ID.String(),
		Name:            ident.Name,
		EmployeeID:      ident.EmployeeID,
		Role:            string(ident.Role),
		Designation:     ident.Designation,
		Email:           ident.Email,
		PerDaySalary:    ident.PerDaySalary,
		EmploymentType:  ident.EmploymentType,
		OfficeStartTime: ident.OfficeStartTime,
		IsBootstrap:     ident.IsBootstrap,
		CreatedAt:       ident.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(rows []Identity) []IdentityResponse {
	res := make([]IdentityResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
