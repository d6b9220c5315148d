package config

import "time"

const (
	DefaultMaxMasterAdmins = 1
	DefaultMatchThreshold  = 0.7
)

// SystemConfig is a single-row table; the fixed primary key keeps it that way.
type SystemConfig struct {
	ID              int     `gorm:"column:id;primaryKey"`
	MaxMasterAdmins int     `gorm:"column:max_master_admins;not null"`
	MatchThreshold  float64 `gorm:"column:match_threshold;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SystemConfig) TableName() string {
	return "system_config"
}

func defaultConfig() SystemConfig {
	return SystemConfig{
		ID:              1,
		MaxMasterAdmins: DefaultMaxMasterAdmins,
		MatchThreshold:  DefaultMatchThreshold,
	}
}
