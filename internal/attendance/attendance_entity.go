package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Punch is one identity's attendance record for one day. A row is created at
// in-punch and completed (or left PENDING) at out-punch.
type Punch struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	IdentityID uuid.UUID  `gorm:"column:identity_id;type:uuid;not null;uniqueIndex:uq_punch_identity_date"`
	Name       string     `gorm:"column:name;type:varchar(100);not null;index"`
	PunchDate  time.Time  `gorm:"column:punch_date;type:date;not null;uniqueIndex:uq_punch_identity_date;index"`
	InTime     time.Time  `gorm:"column:in_time;type:timestamptz;not null"`
	OutTime    *time.Time `gorm:"column:out_time;type:timestamptz"`
	Status     Status     `gorm:"column:status;type:varchar(20);not null;default:PENDING"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (Punch) TableName() string {
	return "punches"
}
