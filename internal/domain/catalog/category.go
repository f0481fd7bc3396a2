package catalog

import "time"

type Category struct {
	ID string `gorm:"type:varchar(64);primaryKey" json:"id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	IsActive    bool   `gorm:"not null" json:"isActive"`

	CreatedBy string     `gorm:"type:varchar(128);index" json:"createdBy"`
	CreatedAt time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}
