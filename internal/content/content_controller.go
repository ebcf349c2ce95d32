package content

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexus-esports/nexushub/pkg/objectstore"
	"github.com/nexus-esports/nexushub/pkg/utils"
)

// ContentController handles prize, gallery, video and legal page requests.
type ContentController struct {
	repo  ContentRepository
	store objectstore.Uploader
}

// NewContentController creates a new content controller
func NewContentController(repo ContentRepository, store objectstore.Uploader) *ContentController {
	return &ContentController{repo: repo, store: store}
}

func parseIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequestJSON(ctx, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// ListPrizes godoc
// @Summary List prizes for an event
// @Tags content
// @Produce json
// @Param event_id query int true "Event ID"
// @Success 200 {array} Prize
// @Failure 400 {object} utils.ErrorResponse "Invalid event id"
// @Router /prizes [get]
func (c *ContentController) ListPrizes(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Query("event_id"), 10, 32)
	if err != nil {
		utils.BadRequestJSON(ctx, "event_id query parameter is required")
		return
	}
	prizes, err := c.repo.ListPrizesByEvent(uint(eventID))
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, prizes)
}

// CreatePrize godoc
// @Summary Create a prize tier
// @Tags content
// @Accept json
// @Produce json
// @Param prize body PrizeInput true "Prize information"
// @Success 201 {object} Prize
// @Failure 400 {object} utils.ErrorResponse "Invalid input"
// @Router /admin/prizes [post]
// @Security Bearer
func (c *ContentController) CreatePrize(ctx *gin.Context) {
	var input PrizeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: err.Error()})
		return
	}

	prize := &Prize{
		EventID: input.EventID,
		Rank:    input.Rank,
		Title:   input.Title,
		Amount:  input.Amount,
	}
	if err := c.repo.CreatePrize(prize); err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, prize)
}

// UpdatePrize godoc
// @Summary Update a prize tier
// @Tags content
// @Accept json
// @Produce json
// @Param id path int true "Prize ID"
// @Param prize body PrizeInput true "Prize information"
// @Success 200 {object} Prize
// @Failure 404 {object} utils.ErrorResponse "Prize not found"
// @Router /admin/prizes/{id} [put]
// @Security Bearer
func (c *ContentController) UpdatePrize(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	var input PrizeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: err.Error()})
		return
	}

	prize, err := c.repo.GetPrizeByID(id)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if prize == nil {
		utils.NotFoundJSON(ctx, "prize")
		return
	}

	prize.EventID = input.EventID
	prize.Rank = input.Rank
	prize.Title = input.Title
	prize.Amount = input.Amount
	if err := c.repo.UpdatePrize(prize); err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, prize)
}

// DeletePrize godoc
// @Summary Delete a prize tier
// @Tags content
// @Param id path int true "Prize ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/prizes/{id} [delete]
// @Security Bearer
func (c *ContentController) DeletePrize(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	if err := c.repo.DeletePrize(id); err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// ListGallery godoc
// @Summary List gallery images
// @Tags content
// @Produce json
// @Param event_id query int false "Filter by event"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /gallery [get]
func (c *ContentController) ListGallery(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var eventID *uint
	if raw := ctx.Query("event_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.BadRequestJSON(ctx, "invalid event_id")
			return
		}
		id := uint(parsed)
		eventID = &id
	}

	images, total, err := c.repo.ListGalleryImages(eventID, page, limit)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	utils.PaginatedJSON(ctx, images, page, limit, total)
}

// UploadGalleryImage godoc
// @Summary Upload a gallery image
// @Description Accepts a multipart file, stores it in the media bucket and records the public URL
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Param title formData string false "Caption"
// @Param event_id formData int false "Event to attach to"
// @Success 201 {object} GalleryImage
// @Failure 400 {object} utils.ErrorResponse "Missing or invalid file"
// @Router /admin/gallery [post]
// @Security Bearer
func (c *ContentController) UploadGalleryImage(ctx *gin.Context) {
	if c.store == nil {
		ctx.JSON(http.StatusServiceUnavailable, utils.ErrorResponse{Error: "media storage is not configured"})
		return
	}
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		utils.BadRequestJSON(ctx, "image file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		utils.BadRequestJSON(ctx, "unsupported image type")
		return
	}

	var eventID *uint
	if raw := ctx.PostForm("event_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.BadRequestJSON(ctx, "invalid event_id")
			return
		}
		id := uint(parsed)
		eventID = &id
	}

	key := "gallery/" + uuid.NewString() + ext
	url, err := c.store.Upload(ctx.Request.Context(), fileHeader, key)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}

	image := &GalleryImage{
		EventID: eventID,
		Title:   ctx.PostForm("title"),
		URL:     url,
		Key:     key,
	}
	if err := c.repo.CreateGalleryImage(image); err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, image)
}

// DeleteGalleryImage godoc
// @Summary Delete a gallery image
// @Tags content
// @Param id path int true "Image ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse "Image not found"
// @Router /admin/gallery/{id} [delete]
// @Security Bearer
func (c *ContentController) DeleteGalleryImage(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	image, err := c.repo.GetGalleryImageByID(id)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if image == nil {
		utils.NotFoundJSON(ctx, "image")
		return
	}
	if err := c.repo.DeleteGalleryImage(id); err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// ListVideos godoc
// @Summary List videos
// @Tags content
// @Produce json
// @Param featured query bool false "Only featured videos"
// @Success 200 {array} Video
// @Router /videos [get]
func (c *ContentController) ListVideos(ctx *gin.Context) {
	featuredOnly := ctx.Query("featured") == "true"
	videos, err := c.repo.ListVideos(featuredOnly)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, videos)
}

// CreateVideo godoc
// @Summary Add a video
// @Tags content
// @Accept json
// @Produce json
// @Param video body VideoInput true "Video information"
// @Success 201 {object} Video
// @Failure 400 {object} utils.ErrorResponse "Invalid input"
// @Router /admin/videos [post]
// @Security Bearer
func (c *ContentController) CreateVideo(ctx *gin.Context) {
	var input VideoInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: err.Error()})
		return
	}

	video := &Video{
		EventID:  input.EventID,
		Title:    input.Title,
		URL:      input.URL,
		Featured: input.Featured,
	}
	if err := c.repo.CreateVideo(video); err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, video)
}

// UpdateVideo godoc
// @Summary Update a video
// @Tags content
// @Accept json
// @Produce json
// @Param id path int true "Video ID"
// @Param video body VideoInput true "Video information"
// @Success 200 {object} Video
// @Failure 404 {object} utils.ErrorResponse "Video not found"
// @Router /admin/videos/{id} [put]
// @Security Bearer
func (c *ContentController) UpdateVideo(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	var input VideoInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: err.Error()})
		return
	}

	video, err := c.repo.GetVideoByID(id)
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if video == nil {
		utils.NotFoundJSON(ctx, "video")
		return
	}

	video.EventID = input.EventID
	video.Title = input.Title
	video.URL = input.URL
	video.Featured = input.Featured
	if err := c.repo.UpdateVideo(video); err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, video)
}

// DeleteVideo godoc
// @Summary Delete a video
// @Tags content
// @Param id path int true "Video ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/videos/{id} [delete]
// @Security Bearer
func (c *ContentController) DeleteVideo(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	if err := c.repo.DeleteVideo(id); err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// GetLegalDocument godoc
// @Summary Fetch a legal page by slug
// @Tags content
// @Produce json
// @Param slug path string true "Document slug (terms, privacy, refund)"
// @Success 200 {object} LegalDocument
// @Failure 404 {object} utils.ErrorResponse "Document not found"
// @Router /legal/{slug} [get]
func (c *ContentController) GetLegalDocument(ctx *gin.Context) {
	doc, err := c.repo.GetLegalDocumentBySlug(ctx.Param("slug"))
	if err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	if doc == nil {
		utils.NotFoundJSON(ctx, "document")
		return
	}
	ctx.JSON(http.StatusOK, doc)
}

// UpsertLegalDocument godoc
// @Summary Create or replace a legal page
// @Tags content
// @Accept json
// @Produce json
// @Param document body LegalDocumentInput true "Document content"
// @Success 200 {object} LegalDocument
// @Failure 400 {object} utils.ErrorResponse "Invalid input"
// @Router /admin/legal [put]
// @Security Bearer
func (c *ContentController) UpsertLegalDocument(ctx *gin.Context) {
	var input LegalDocumentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.ErrorResponse{Error: err.Error()})
		return
	}

	doc := &LegalDocument{
		Slug:     strings.ToLower(strings.TrimSpace(input.Slug)),
		Title:    input.Title,
		Markdown: input.Markdown,
	}
	if err := c.repo.UpsertLegalDocument(doc); err != nil {
		utils.InternalErrorJSON(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, doc)
}
