// Package models contains data structures for the application's domain models.
package models

import "time"

// Profile is the public identity row of a user. Rows are created by the
// external auth provider on signup; this service only reads them and keeps
// SubscriberCount in step with the subscriptions table.
type Profile struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Username        string    `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName     string    `gorm:"not null" json:"display_name"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	BannerURL       string    `json:"banner_url,omitempty"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	SubscriberCount int64     `gorm:"not null;default:0" json:"subscriber_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
