package attendance

import (
	"go-faceattend/internal/authz"
	"go-faceattend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	punches := r.Group("/punches")
	{
		// Kiosk endpoints: the face is the credential, so no session is
		// required, only an IP throttle against camera loops.
		punches.POST("/in", middleware.RateLimitByIP(1, 3), h.MarkIn)
		punches.POST("/out", middleware.RateLimitByIP(1, 3), h.MarkOut)

		punches.GET("/:month", middleware.AuthMiddleware(), middleware.RequireRole(authz.RoleAdmin), h.GetMonth)
	}
}
