package content

import (
	"errors"

	"gorm.io/gorm"
)

// ContentRepository defines data access for prizes, gallery, videos and
// legal documents.
type ContentRepository interface {
	// Prizes
	CreatePrize(prize *Prize) error
	ListPrizesByEvent(eventID uint) ([]Prize, error)
	UpdatePrize(prize *Prize) error
	DeletePrize(id uint) error
	GetPrizeByID(id uint) (*Prize, error)

	// Gallery
	CreateGalleryImage(image *GalleryImage) error
	ListGalleryImages(eventID *uint, page, limit int) ([]GalleryImage, int64, error)
	DeleteGalleryImage(id uint) error
	GetGalleryImageByID(id uint) (*GalleryImage, error)

	// Videos
	CreateVideo(video *Video) error
	ListVideos(featuredOnly bool) ([]Video, error)
	UpdateVideo(video *Video) error
	DeleteVideo(id uint) error
	GetVideoByID(id uint) (*Video, error)

	// Legal documents
	UpsertLegalDocument(doc *LegalDocument) error
	GetLegalDocumentBySlug(slug string) (*LegalDocument, error)
	ListLegalDocuments() ([]LegalDocument, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new instance of ContentRepository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) CreatePrize(prize *Prize) error {
	return r.db.Create(prize).Error
}

func (r *contentRepository) ListPrizesByEvent(eventID uint) ([]Prize, error) {
	var prizes []Prize
	err := r.db.Where("event_id = ?", eventID).Order("rank asc").Find(&prizes).Error
	return prizes, err
}

func (r *contentRepository) UpdatePrize(prize *Prize) error {
	return r.db.Save(prize).Error
}

func (r *contentRepository) DeletePrize(id uint) error {
	return r.db.Delete(&Prize{}, id).Error
}

func (r *contentRepository) GetPrizeByID(id uint) (*Prize, error) {
	var prize Prize
	err := r.db.First(&prize, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prize, nil
}

func (r *contentRepository) CreateGalleryImage(image *GalleryImage) error {
	return r.db.Create(image).Error
}

func (r *contentRepository) ListGalleryImages(eventID *uint, page, limit int) ([]GalleryImage, int64, error) {
	var images []GalleryImage
	var total int64

	query := r.db.Model(&GalleryImage{})
	if eventID != nil {
		query = query.Where("event_id = ?", *eventID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&images).Error
	return images, total, err
}

func (r *contentRepository) DeleteGalleryImage(id uint) error {
	return r.db.Delete(&GalleryImage{}, id).Error
}

func (r *contentRepository) GetGalleryImageByID(id uint) (*GalleryImage, error) {
	var image GalleryImage
	err := r.db.First(&image, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *contentRepository) CreateVideo(video *Video) error {
	return r.db.Create(video).Error
}

func (r *contentRepository) ListVideos(featuredOnly bool) ([]Video, error) {
	var videos []Video
	query := r.db.Order("created_at desc")
	if featuredOnly {
		query = query.Where("featured = ?", true)
	}
	err := query.Find(&videos).Error
	return videos, err
}

func (r *contentRepository) UpdateVideo(video *Video) error {
	return r.db.Save(video).Error
}

func (r *contentRepository) DeleteVideo(id uint) error {
	return r.db.Delete(&Video{}, id).Error
}

func (r *contentRepository) GetVideoByID(id uint) (*Video, error) {
	var video Video
	err := r.db.First(&video, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *contentRepository) UpsertLegalDocument(doc *LegalDocument) error {
	var existing LegalDocument
	err := r.db.Where("slug = ?", doc.Slug).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(doc).Error
	}
	if err != nil {
		return err
	}
	existing.Title = doc.Title
	existing.Markdown = doc.Markdown
	return r.db.Save(&existing).Error
}

func (r *contentRepository) GetLegalDocumentBySlug(slug string) (*LegalDocument, error) {
	var doc LegalDocument
	err := r.db.Where("slug = ?", slug).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *contentRepository) ListLegalDocuments() ([]LegalDocument, error) {
	var docs []LegalDocument
	err := r.db.Order("slug asc").Find(&docs).Error
	return docs, err
}
