package content

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nexus-esports/nexushub/config"
	mw "github.com/nexus-esports/nexushub/internal/middleware"
	"github.com/nexus-esports/nexushub/pkg/objectstore"
	"github.com/nexus-esports/nexushub/pkg/rmiddleware"
)

func RegisterContentRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, store objectstore.Uploader) {
	contentRepo := NewContentRepository(db)
	contentController := NewContentController(contentRepo, store)

	public := router.Group("")
	{
		public.GET("/prizes", contentController.ListPrizes)
		public.GET("/gallery", contentController.ListGallery)
		public.GET("/videos", contentController.ListVideos)
		public.GET("/legal/:slug", contentController.GetLegalDocument)
	}

	admin := router.Group("/admin")
	admin.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	admin.Use(rmiddleware.AdminMiddleware())
	{
		admin.POST("/prizes", contentController.CreatePrize)
		admin.PUT("/prizes/:id", contentController.UpdatePrize)
		admin.DELETE("/prizes/:id", contentController.DeletePrize)

		admin.POST("/gallery", contentController.UploadGalleryImage)
		admin.DELETE("/gallery/:id", contentController.DeleteGalleryImage)

		admin.POST("/videos", contentController.CreateVideo)
		admin.PUT("/videos/:id", contentController.UpdateVideo)
		admin.DELETE("/videos/:id", contentController.DeleteVideo)

		admin.PUT("/legal", contentController.UpsertLegalDocument)
	}
}
