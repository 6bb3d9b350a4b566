package models

import "time"

// Subscription links a subscriber to a channel (the channel is the owning
// profile of the videos). Existence of the row means subscribed.
type Subscription struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	SubscriberID         uint      `gorm:"not null;uniqueIndex:idx_subscriber_channel" json:"subscriber_id"`
	ChannelID            uint      `gorm:"not null;uniqueIndex:idx_subscriber_channel;index" json:"channel_id"`
	NotificationsEnabled bool      `gorm:"not null;default:false" json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
}

// WatchHistory is an append-only view log; every view by an authenticated
// viewer adds a row, duplicates included.
type WatchHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	VideoID   uint      `gorm:"not null;index" json:"video_id"`
	Video     *Video    `gorm:"foreignKey:VideoID" json:"video,omitempty"`
	WatchedAt time.Time `gorm:"not null;index" json:"watched_at"`
}

// TableName keeps the singular table name used by the hosted schema.
func (WatchHistory) TableName() string {
	return "watch_history"
}
