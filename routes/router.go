package routes

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nexus-esports/nexushub/config"
	"github.com/nexus-esports/nexushub/internal/auth"
	"github.com/nexus-esports/nexushub/internal/content"
	"github.com/nexus-esports/nexushub/internal/event"
	"github.com/nexus-esports/nexushub/internal/mailer"
	"github.com/nexus-esports/nexushub/internal/payment"
	"github.com/nexus-esports/nexushub/internal/registration"
	"github.com/nexus-esports/nexushub/pkg/objectstore"
)

func SetupRoutes(appConfig *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default()) // allows all origins, GET/POST/PUT

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	db := config.DB

	var store objectstore.Uploader
	if appConfig.Storage.Endpoint != "" {
		s3Store, err := objectstore.NewS3Store(appConfig)
		if err != nil {
			log.Printf("object storage unavailable, gallery uploads disabled: %v", err)
		} else {
			store = s3Store
		}
	}

	notifier := mailer.NewMailer(appConfig)

	// API routes
	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	event.RegisterEventRoutes(api, db, appConfig)
	registration.RegisterRegistrationRoutes(api, db, appConfig, notifier)
	payment.RegisterPaymentRoutes(api, db, appConfig)
	content.RegisterContentRoutes(api, db, appConfig, store)

	return r
}
