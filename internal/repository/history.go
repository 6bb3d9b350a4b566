package repository

import (
	"context"
	"time"

	"vidtube/internal/models"

	"gorm.io/gorm"
)

// WatchHistoryRepository appends and lists watch history rows.
type WatchHistoryRepository interface {
	Append(ctx context.Context, userID, videoID uint) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.WatchHistory, error)
}

type watchHistoryRepository struct {
	db *gorm.DB
}

// NewWatchHistoryRepository returns a new WatchHistoryRepository implementation.
func NewWatchHistoryRepository(db *gorm.DB) WatchHistoryRepository {
	return &watchHistoryRepository{db: db}
}

func (r *watchHistoryRepository) Append(ctx context.Context, userID, videoID uint) error {
	entry := models.WatchHistory{UserID: userID, VideoID: videoID, WatchedAt: time.Now().UTC()}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *watchHistoryRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.WatchHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var entries []*models.WatchHistory
	err := r.db.WithContext(ctx).
		Preload("Video").
		Preload("Video.Owner").
		Where("user_id = ?", userID).
		Order("watched_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
