package identity

// Admin-gated mutations carry the acting admin's credentials in the body;
// the service re-verifies them on every call.

type RegisterUserRequest struct {
	AdminUsername   string  `json:"admin_username" binding:"required"`
	AdminPassword   string  `json:"admin_password" binding:"required"`
	Name            string  `json:"name" binding:"required,max=100"`
	EmployeeID      string  `json:"employee_id" binding:"omitempty,max=20"`
	Designation     string  `json:"designation" binding:"required,max=100"`
	Email           string  `json:"email" binding:"omitempty,email"`
	PerDaySalary    float64 `json:"per_day_salary" binding:"gte=0"`
	EmploymentType  string  `json:"employment_type" binding:"required,oneof=FULL_TIME INTERN"`
	OfficeStartTime string  `json:"office_start_time" binding:"required"`
	ImageBase64     string  `json:"image_base64" binding:"required"`
}

type ReRegisterFaceRequest struct {
	AdminUsername string `json:"admin_username" binding:"required"`
	AdminPassword string `json:"admin_password" binding:"required"`
	ImageBase64   string `json:"image_base64" binding:"required"`
}

type CreateAdminRequest struct {
	AdminUsername string `json:"admin_username" binding:"required"`
	AdminPassword string `json:"admin_password" binding:"required"`
	Name          string `json:"name" binding:"required,max=100"`
	Password      string `json:"password" binding:"required,min=8"`
	Email         string `json:"email" binding:"omitempty,email"`
}

type CreateMasterAdminRequest struct {
	AdminUsername string `json:"admin_username" binding:"required"`
	AdminPassword string `json:"admin_password" binding:"required"`
	Name          string `json:"name" binding:"required,max=100"`
	Password      string `json:"password" binding:"required,min=8"`
	Email         string `json:"email" binding:"omitempty,email"`
}

type DeleteIdentityRequest struct {
	AdminUsername string `json:"admin_username" binding:"required"`
	AdminPassword string `json:"admin_password" binding:"required"`
}

type IdentityResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	EmployeeID      string  `json:"employee_id"`
	Role            string  `json:"role"`
	Designation     string  `json:"designation,omitempty"`
	Email           string  `json:"email,omitempty"`
	PerDaySalary    float64 `json:"per_day_salary"`
	EmploymentType  string  `json:"employment_type,omitempty"`
	OfficeStartTime string  `json:"office_start_time,omitempty"`
	IsBootstrap     bool    `json:"is_bootstrap,omitempty"`
	CreatedAt       string  `json:"created_at"`
}
