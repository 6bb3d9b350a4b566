package models

import "time"

// VideoLike is a viewer's reaction on a video. Absence of a row means no
// opinion; IsLike distinguishes like from dislike.
type VideoLike struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	VideoID   uint      `gorm:"primaryKey;autoIncrement:false;index" json:"video_id"`
	IsLike    bool      `gorm:"not null" json:"is_like"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentLike marks that a user likes a comment.
// The combination of CommentID and UserID must be unique.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_user" json:"comment_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
