package users

import (
	"time"
)

// User mirrors an identity-service account that has signed in to the dashboard.
type User struct {
	ID          string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	UID         string     `gorm:"column:uid;type:varchar(128);not null;uniqueIndex:idx_users_uid" json:"uid"`
	Email       string     `gorm:"index" json:"email"`
	DisplayName string     `json:"displayName,omitempty"`
	PhotoURL    string     `gorm:"column:photo_url" json:"photoURL,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}
