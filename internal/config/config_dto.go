package config

type UpdateConfigRequest struct {
	AdminUsername   string  `json:"admin_username" binding:"required"`
	AdminPassword   string  `json:"admin_password" binding:"required"`
	MaxMasterAdmins int     `json:"max_master_admins" binding:"required"`
	MatchThreshold  float64 `json:"match_threshold" binding:"required"`
}

type ConfigResponse struct {
	MaxMasterAdmins int     `json:"max_master_admins"`
	MatchThreshold  float64 `json:"match_threshold"`
}
