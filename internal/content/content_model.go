package content

import "gorm.io/gorm"

// Prize is a single payout tier for an event.
type Prize struct {
	gorm.Model
	EventID uint   `json:"event_id" gorm:"index;not null"`
	Rank    int    `json:"rank" gorm:"not null"`
	Title   string `json:"title" gorm:"not null"`
	Amount  int64  `json:"amount"`
}

// PrizeInput represents prize data for creation/update
type PrizeInput struct {
	EventID uint   `json:"event_id" binding:"required"`
	Rank    int    `json:"rank" binding:"required,min=1"`
	Title   string `json:"title" binding:"required"`
	Amount  int64  `json:"amount" binding:"min=0"`
}

// GalleryImage is an uploaded media asset, optionally tied to an event.
type GalleryImage struct {
	gorm.Model
	EventID *uint  `json:"event_id,omitempty" gorm:"index"`
	Title   string `json:"title"`
	URL     string `json:"url" gorm:"not null"`
	Key     string `json:"-" gorm:"not null"`
}

// Video is an embedded highlight or stream VOD link.
type Video struct {
	gorm.Model
	EventID  *uint  `json:"event_id,omitempty" gorm:"index"`
	Title    string `json:"title" gorm:"not null"`
	URL      string `json:"url" gorm:"not null"`
	Featured bool   `json:"featured" gorm:"default:false"`
}

// VideoInput represents video data for creation/update
type VideoInput struct {
	EventID  *uint  `json:"event_id"`
	Title    string `json:"title" binding:"required"`
	URL      string `json:"url" binding:"required,url"`
	Featured bool   `json:"featured"`
}

// LegalDocument is a markdown policy page, addressed by slug
// (terms, privacy, refund).
type LegalDocument struct {
	gorm.Model
	Slug     string `json:"slug" gorm:"uniqueIndex;not null"`
	Title    string `json:"title" gorm:"not null"`
	Markdown string `json:"markdown" gorm:"type:text"`
}

// LegalDocumentInput represents legal document data for creation/update
type LegalDocumentInput struct {
	Slug     string `json:"slug" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Markdown string `json:"markdown" binding:"required"`
}
