package auth

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nexus-esports/nexushub/config"
	mw "github.com/nexus-esports/nexushub/internal/middleware"
)

func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	authRepo := NewAuthRepository(db)
	authController := NewAuthController(authRepo, appConfig)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authController.Login)
		authGroup.GET("/me", mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db), authController.Me)
	}
}
