package catalog

import "time"

// Video references its category by id only; nothing in the store enforces it.
type Video struct {
	ID string `gorm:"type:varchar(64);primaryKey" json:"id"`

	Title        string `gorm:"not null" json:"title"`
	ThumbnailURL string `gorm:"column:thumbnail;not null" json:"thumbnail"`
	VideoURL     string `gorm:"column:video;not null" json:"video"`
	CategoryID   string `gorm:"column:category;type:varchar(64);not null;index" json:"category"`
	Duration     string `gorm:"not null" json:"duration"`
	IsActive     bool   `gorm:"not null" json:"isActive"`

	CreatedBy string     `gorm:"type:varchar(128);index" json:"createdBy"`
	CreatedAt time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}

// AssetURLs returns the download URLs the video holds, empty ones included.
func (v Video) AssetURLs() []string {
	return []string{v.ThumbnailURL, v.VideoURL}
}
