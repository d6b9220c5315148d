package payroll

import (
	"go-faceattend/internal/authz"
	"go-faceattend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	payroll := r.Group("/payroll")
	payroll.Use(middleware.AuthMiddleware(), middleware.RequireRole(authz.RoleAdmin))
	{
		payroll.GET("/:month", handler.GetReport)
		// Report builds hit the database hard; throttle per admin.
		payroll.GET("/:month/export", middleware.RateLimitByActor(1, 2), handler.ExportCSV)
		payroll.GET("/:month/identities/:name", handler.GetSummary)
	}
}
