package event

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nexus-esports/nexushub/config"
	mw "github.com/nexus-esports/nexushub/internal/middleware"
	"github.com/nexus-esports/nexushub/pkg/rmiddleware"
)

func RegisterEventRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	eventRepo := NewEventRepository(db)
	eventController := NewEventController(eventRepo, appConfig)

	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", eventController.GetAllEvents)
		publicEvents.GET("/:slug", eventController.GetEventBySlug)
	}

	adminEvents := router.Group("/admin/events")
	adminEvents.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	adminEvents.Use(rmiddleware.AdminMiddleware())
	{
		adminEvents.POST("", eventController.CreateEvent)
		adminEvents.PUT("/:event_id", eventController.UpdateEvent)
		adminEvents.DELETE("/:event_id", eventController.DeleteEvent)
	}
}
