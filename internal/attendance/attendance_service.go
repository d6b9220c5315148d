package attendance

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	attendanceerrors "go-faceattend/internal/attendance/errors"
	"go-faceattend/internal/embedding"
	"go-faceattend/internal/identity"
	"go-faceattend/internal/shared/contextutil"
	"go-faceattend/internal/vision"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	// MarkIn resolves the face to an identity and opens today's punch.
	MarkIn(ctx context.Context, req PunchRequest) (PunchResponse, error)
	// MarkOut closes today's punch and settles the day's status.
	MarkOut(ctx context.Context, req PunchRequest) (PunchResponse, error)
	GetMonth(ctx context.Context, month string) ([]PunchResponse, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	identities identity.Repository
	detector   vision.Detector
	matcher    embedding.Matcher
	nowFn      func() time.Time
	logger     *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	identities identity.Repository,
	detector vision.Detector,
	matcher embedding.Matcher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		identities: identities,
		detector:   detector,
		matcher:    matcher,
		nowFn:      time.Now,
		logger:     l,
	}
}

// resolveFace runs detection and matching for a captured image.
func (s *service) resolveFace(ctx context.Context, imageBase64 string) (*embedding.Match, error) {
	image, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidImage
	}

	vector, err := s.detector.DetectAndEmbed(ctx, image)
	if err != nil {
		return nil, err
	}

	return s.matcher.Match(ctx, vector)
}

func (s *service) MarkIn(ctx context.Context, req PunchRequest) (PunchResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	match, err := s.resolveFace(ctx, req.ImageBase64)
	if err != nil {
		return PunchResponse{}, err
	}

	ident, err := s.identities.FindByID(ctx, match.IdentityID)
	if err != nil {
		return PunchResponse{}, err
	}

	now := s.nowFn()

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("mark in begin tx failed", zap.String("request_id", rid), zap.Error(tx.Error))
		return PunchResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	_, err = qtx.FindByIdentityAndDate(ctx, ident.ID, now)
	if err == nil {
		return PunchResponse{}, attendanceerrors.ErrAlreadyPunchedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PunchResponse{}, err
	}

	status, err := statusAtIn(ident.OfficeStartTime, now)
	if err != nil {
		s.logger.Error("mark in bad office start time",
			zap.String("identity_id", ident.ID.String()),
			zap.String("office_start_time", ident.OfficeStartTime),
			zap.Error(err),
		)
		return PunchResponse{}, err
	}

	punch := &Punch{
		ID:         uuid.New(),
		IdentityID: ident.ID,
		Name:       ident.Name,
		PunchDate:  now,
		InTime:     now,
		Status:     status,
	}
	if err := qtx.Create(ctx, punch); err != nil {
		s.logger.Error("mark in persist failed", zap.Error(err))
		return PunchResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("mark in commit failed", zap.String("request_id", rid), zap.Error(err))
		return PunchResponse{}, err
	}

	s.logger.Info("in-punch recorded",
		zap.String("request_id", rid),
		zap.String("identity_id", ident.ID.String()),
		zap.String("status", string(status)),
		zap.Float64("similarity", match.Score),
	)

	return mapToResponse(*punch, match.Score), nil
}

func (s *service) MarkOut(ctx context.Context, req PunchRequest) (PunchResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	match, err := s.resolveFace(ctx, req.ImageBase64)
	if err != nil {
		return PunchResponse{}, err
	}

	ident, err := s.identities.FindByID(ctx, match.IdentityID)
	if err != nil {
		return PunchResponse{}, err
	}

	now := s.nowFn()

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("mark out begin tx failed", zap.String("request_id", rid), zap.Error(tx.Error))
		return PunchResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	punch, err := qtx.FindByIdentityAndDate(ctx, ident.ID, now)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PunchResponse{}, attendanceerrors.ErrNoPunchIn
	}
	if err != nil {
		return PunchResponse{}, err
	}
	if punch.OutTime != nil {
		return PunchResponse{}, attendanceerrors.ErrAlreadyPunchedOut
	}

	punch.OutTime = &now
	punch.Status = resolveAtOut(punch.Status, punch.InTime, now)

	if err := qtx.Update(ctx, punch); err != nil {
		s.logger.Error("mark out persist failed", zap.Error(err))
		return PunchResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("mark out commit failed", zap.String("request_id", rid), zap.Error(err))
		return PunchResponse{}, err
	}

	s.logger.Info("out-punch recorded",
		zap.String("request_id", rid),
		zap.String("identity_id", ident.ID.String()),
		zap.String("status", string(punch.Status)),
	)

	return mapToResponse(*punch, match.Score), nil
}

func (s *service) GetMonth(ctx context.Context, month string) ([]PunchResponse, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, attendanceerrors.ErrInvalidMonth
	}

	rows, err := s.repo.FindAllByMonth(ctx, month)
	if err != nil {
		s.logger.Error("get month failed", zap.String("month", month), zap.Error(err))
		return nil, err
	}

	res := make([]PunchResponse, len(rows))
	for i, p := range rows {
		res[i] = mapToResponse(p, 0)
	}
	return res, nil
}

func mapToResponse(p Punch, similarity float64) PunchResponse {
	resp := PunchResponse{
		ID:         p.ID.String(),
		Name:       p.Name,
		PunchDate:  p.PunchDate.Format("2006-01-02"),
		InTime:     p.InTime.Format(time.RFC3339),
		Status:     string(p.Status),
		Similarity: similarity,
	}
	if p.OutTime != nil {
		out := p.OutTime.Format(time.RFC3339)
		resp.OutTime = &out
	}
	return resp
}
