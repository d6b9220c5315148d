package identity

import (
	"time"

	"go-faceattend/internal/authz"

	"github.com/google/uuid"
)

const (
	EmploymentFullTime = "FULL_TIME"
	EmploymentIntern   = "INTERN"
)

// Identity is one directory entry: a tracked user, an admin, or a master
// admin. Plain users never carry a password hash; admin-class rows always do.
type Identity struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string     `gorm:"column:name;type:varchar(100);not null;uniqueIndex:uq_identity_name"`
	EmployeeID      string     `gorm:"column:employee_id;type:varchar(20);not null;uniqueIndex:uq_identity_employee_id"`
	Role            authz.Role `gorm:"column:role;type:varchar(20);not null;default:USER"`
	Designation     string     `gorm:"column:designation;type:varchar(100)"`
	Email           string     `gorm:"column:email;type:varchar(150)"`
	PerDaySalary    float64    `gorm:"column:per_day_salary;not null;default:0"`
	EmploymentType  string     `gorm:"column:employment_type;type:varchar(20);not null;default:FULL_TIME"`
	OfficeStartTime string     `gorm:"column:office_start_time;type:varchar(5);not null;default:'09:00'"`
	PasswordHash    string     `gorm:"column:password_hash;type:varchar(100)"`
	IsBootstrap     bool       `gorm:"column:is_bootstrap;not null;default:false"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (Identity) TableName() string {
	return "identities"
}
