package models

import "time"

// VideoStatus gates whether a video shows up in listings.
type VideoStatus string

const (
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusPublished  VideoStatus = "published"
	VideoStatusPrivate    VideoStatus = "private"
	VideoStatusUnlisted   VideoStatus = "unlisted"
)

// Valid reports whether s is one of the known statuses.
func (s VideoStatus) Valid() bool {
	switch s {
	case VideoStatusProcessing, VideoStatusPublished, VideoStatusPrivate, VideoStatusUnlisted:
		return true
	}
	return false
}

// Video is a metadata row pointing at pre-hosted media. The counters are
// denormalised aggregates; view_count is maintained by RecordView and the
// like/dislike counters are recomputed from video_likes after every vote.
type Video struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	OwnerID      uint        `gorm:"not null;index" json:"owner_id"`
	Owner        *Profile    `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title        string      `gorm:"size:100;not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description"`
	MediaURL     string      `gorm:"not null" json:"media_url"`
	ThumbnailURL string      `json:"thumbnail_url"`
	Duration     int         `gorm:"not null;default:0" json:"duration"`
	ViewCount    int64       `gorm:"not null;default:0;index" json:"view_count"`
	LikeCount    int64       `gorm:"not null;default:0" json:"like_count"`
	DislikeCount int64       `gorm:"not null;default:0" json:"dislike_count"`
	Category     string      `gorm:"size:32;index" json:"category"`
	Tags         Tags        `json:"tags"`
	Status       VideoStatus `gorm:"size:16;not null;default:processing;index" json:"status"`
	CreatedAt    time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
