package config

import (
	"go-faceattend/internal/authz"
	"go-faceattend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	cfg := r.Group("/config")
	{
		// Reads need an admin session; the update carries master-admin
		// credentials in the body and is re-verified by the service.
		cfg.GET("", middleware.AuthMiddleware(), middleware.RequireRole(authz.RoleAdmin), h.Get)
		cfg.PUT("", h.Update)
	}
}
