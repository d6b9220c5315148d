package identity

import (
	"go-faceattend/internal/authz"
	"go-faceattend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb ...*redis.Client) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	identities := r.Group("/identities")
	{
		// Mutations carry admin credentials in the body and are verified by
		// the service; the listing rides the JWT session instead.
		if redisClient != nil {
			identities.POST("", middleware.Idempotency(redisClient), h.RegisterUser)
		} else {
			identities.POST("", h.RegisterUser)
		}
		identities.PUT("/:name/face", h.ReRegisterFace)
		identities.POST("/admins", h.CreateAdmin)
		identities.POST("/master-admins", h.CreateMasterAdmin)
		identities.DELETE("/:name", h.Delete)
		identities.GET("", middleware.AuthMiddleware(), middleware.RequireRole(authz.RoleAdmin), h.GetAll)
	}
}
