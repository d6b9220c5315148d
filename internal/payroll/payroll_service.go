package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-faceattend/internal/attendance"
	"go-faceattend/internal/authz"
	"go-faceattend/internal/identity"
	identityerrors "go-faceattend/internal/identity/errors"
	payrollerrors "go-faceattend/internal/payroll/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	reportCacheKeyPrefix = "payroll:report:"
	reportCacheTTL       = 10 * time.Minute
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	MonthlySummary(ctx context.Context, name, month string) (MonthlySummary, error)
	MonthlyReport(ctx context.Context, month string) (MonthlyReport, error)
}

type service struct {
	punches    attendance.Repository
	identities identity.Repository
	rdb        *redis.Client
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(
	punches attendance.Repository,
	identities identity.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	var log *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0].Named("payroll")
	} else {
		log = zap.NewNop()
	}

	return &service{
		punches:    punches,
		identities: identities,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		logger:     log,
	}
}

func validateMonth(month string) error {
	if _, err := time.Parse("2006-01", month); err != nil {
		return payrollerrors.ErrInvalidPeriodFormat
	}
	return nil
}

// tally earns one full rate per FULL_DAY and half a rate per HALF_DAY.
// PENDING days (no out-punch) earn nothing until resolved.
func tally(ident identity.Identity, month string, punches []attendance.Punch) MonthlySummary {
	summary := MonthlySummary{
		Name:         ident.Name,
		EmployeeID:   ident.EmployeeID,
		Month:        month,
		PerDaySalary: ident.PerDaySalary,
	}

	for _, p := range punches {
		switch p.Status {
		case attendance.StatusFullDay:
			summary.FullDays++
		case attendance.StatusHalfDay:
			summary.HalfDays++
		}
	}

	summary.TotalSalary = float64(summary.FullDays)*ident.PerDaySalary +
		float64(summary.HalfDays)*ident.PerDaySalary/2
	return summary
}

func (s *service) MonthlySummary(ctx context.Context, name, month string) (MonthlySummary, error) {
	if err := validateMonth(month); err != nil {
		return MonthlySummary{}, err
	}

	ident, err := s.identities.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MonthlySummary{}, identityerrors.ErrIdentityNotFound
		}
		return MonthlySummary{}, err
	}

	punches, err := s.punches.FindAllByNameAndMonth(ctx, name, month)
	if err != nil {
		return MonthlySummary{}, err
	}

	return tally(*ident, month, punches), nil
}

func (s *service) MonthlyReport(ctx context.Context, month string) (MonthlyReport, error) {
	if err := validateMonth(month); err != nil {
		return MonthlyReport{}, err
	}

	cacheKey := reportCacheKeyPrefix + month

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var report MonthlyReport
			if json.Unmarshal([]byte(cached), &report) == nil {
				return report, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		report, err := s.buildReport(ctx, month)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(report); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, reportCacheTTL)
			}
		}

		return report, nil
	})
	if err != nil {
		return MonthlyReport{}, err
	}

	return v.(MonthlyReport), nil
}

func (s *service) buildReport(ctx context.Context, month string) (MonthlyReport, error) {
	punches, err := s.punches.FindAllByMonth(ctx, month)
	if err != nil {
		return MonthlyReport{}, err
	}

	idents, err := s.identities.FindAllByRole(ctx, authz.RoleUser)
	if err != nil {
		return MonthlyReport{}, err
	}

	byIdentity := make(map[string][]attendance.Punch, len(idents))
	for _, p := range punches {
		byIdentity[p.IdentityID.String()] = append(byIdentity[p.IdentityID.String()], p)
	}

	report := MonthlyReport{
		Month:     month,
		Rows:      make([]ReportRow, 0, len(punches)),
		Summaries: make([]MonthlySummary, 0, len(idents)),
	}

	// Admin-class identities never appear in the report, even when an admin
	// has punch rows of their own.
	userIDs := make(map[string]struct{}, len(idents))
	for _, ident := range idents {
		userIDs[ident.ID.String()] = struct{}{}
	}

	for _, p := range punches {
		if _, ok := userIDs[p.IdentityID.String()]; !ok {
			continue
		}
		report.Rows = append(report.Rows, mapToReportRow(p))
	}

	for _, ident := range idents {
		report.Summaries = append(report.Summaries, tally(ident, month, byIdentity[ident.ID.String()]))
	}

	s.logger.Debug("monthly report built",
		zap.String("month", month),
		zap.Int("rows", len(report.Rows)),
		zap.Int("identities", len(report.Summaries)),
	)

	return report, nil
}

func mapToReportRow(p attendance.Punch) ReportRow {
	row := ReportRow{
		Name:      p.Name,
		PunchDate: p.PunchDate.Format("2006-01-02"),
		InTime:    p.InTime.Format(time.RFC3339),
		Status:    string(p.Status),
	}
	if p.OutTime != nil {
		v := p.OutTime.Format(time.RFC3339)
		row.OutTime = &v
	}
	return row
}
