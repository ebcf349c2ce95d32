package registration

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nexus-esports/nexushub/config"
	"github.com/nexus-esports/nexushub/internal/event"
	mw "github.com/nexus-esports/nexushub/internal/middleware"
	"github.com/nexus-esports/nexushub/pkg/rmiddleware"
)

func RegisterRegistrationRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, notifier Notifier) {
	repo := NewRegistrationRepository(db)
	eventRepo := event.NewEventRepository(db)
	controller := NewRegistrationController(repo, eventRepo, notifier, appConfig)

	// Public intake
	router.POST("/events/register", controller.Submit)

	authenticated := router.Group("/admin")
	authenticated.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	authenticated.Use(rmiddleware.AdminMiddleware())
	{
		authenticated.GET("/events/:event_id/registrations", controller.ListByEvent)
		authenticated.GET("/registrations/:registration_id", controller.GetRegistration)
		authenticated.PUT("/registrations/:registration_id", controller.UpdateRegistration)
		authenticated.POST("/registrations/:registration_id/approve", controller.Approve)
		authenticated.POST("/registrations/:registration_id/reject", controller.Reject)
	}
}
