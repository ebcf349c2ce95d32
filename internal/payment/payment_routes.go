package payment

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nexus-esports/nexushub/config"
	"github.com/nexus-esports/nexushub/internal/event"
	"github.com/nexus-esports/nexushub/internal/registration"
)

func RegisterPaymentRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	gateway := NewRazorpayClient(appConfig.Razorpay.KeyID, appConfig.Razorpay.KeySecret, appConfig.Razorpay.BaseURL)
	regRepo := registration.NewRegistrationRepository(db)
	eventRepo := event.NewEventRepository(db)
	controller := NewPaymentController(gateway, regRepo, eventRepo, appConfig)

	payments := router.Group("/payments")
	{
		payments.POST("/order", controller.CreateOrder)
		payments.POST("/verify", controller.VerifyPayment)
	}
}
