package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, p *Punch) error
	FindByIdentityAndDate(ctx context.Context, identityID uuid.UUID, date time.Time) (*Punch, error)
	// FindAllByMonth returns every punch whose date falls in month "2006-01",
	// ordered for report rendering.
	FindAllByMonth(ctx context.Context, month string) ([]Punch, error)
	FindAllByNameAndMonth(ctx context.Context, name, month string) ([]Punch, error)
	Update(ctx context.Context, p *Punch) error
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

func (r *repository) Create(ctx context.Context, p *Punch) error {
	return r.conn().WithContext(ctx).Create(p).Error
}

func (r *repository) FindByIdentityAndDate(ctx context.Context, identityID uuid.UUID, date time.Time) (*Punch, error) {
	var p Punch
	err := r.conn().WithContext(ctx).
		Where("identity_id = ?", identityID).
		Where("punch_date = ?", date.Format("2006-01-02")).
		First(&p).Error
	return &p, err
}

func (r *repository) FindAllByMonth(ctx context.Context, month string) ([]Punch, error) {
	var rows []Punch
	err := r.conn().WithContext(ctx).
		Where("to_char(punch_date, 'YYYY-MM') = ?", month).
		Order("name ASC, punch_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByNameAndMonth(ctx context.Context, name, month string) ([]Punch, error) {
	var rows []Punch
	err := r.conn().WithContext(ctx).
		Where("name = ?", name).
		Where("to_char(punch_date, 'YYYY-MM') = ?", month).
		Order("punch_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, p *Punch) error {
	return r.conn().WithContext(ctx).Save(p).Error
}
