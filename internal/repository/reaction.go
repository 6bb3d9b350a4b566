package repository

import (
	"context"
	"errors"

	"vidtube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository is the gateway for video_likes rows.
type ReactionRepository interface {
	Get(ctx context.Context, userID, videoID uint) (*models.VideoLike, error)
	Upsert(ctx context.Context, userID, videoID uint, isLike bool) error
	Delete(ctx context.Context, userID, videoID uint) error
	Counts(ctx context.Context, videoID uint) (likes, dislikes int64, err error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository returns a new ReactionRepository implementation.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Get returns the viewer's vote or nil when none exists.
func (r *reactionRepository) Get(ctx context.Context, userID, videoID uint) (*models.VideoLike, error) {
	var like models.VideoLike
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &like, nil
}

func (r *reactionRepository) Upsert(ctx context.Context, userID, videoID uint, isLike bool) error {
	like := models.VideoLike{UserID: userID, VideoID: videoID, IsLike: isLike}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_like", "updated_at"}),
	}).Create(&like).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) Delete(ctx context.Context, userID, videoID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&models.VideoLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Counts recomputes like and dislike totals from the vote rows.
func (r *reactionRepository) Counts(ctx context.Context, videoID uint) (int64, int64, error) {
	var rows []struct {
		IsLike bool
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.VideoLike{}).
		Select("is_like, COUNT(*) AS total").
		Where("video_id = ?", videoID).
		Group("is_like").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, models.NewInternalError(err)
	}

	var likes, dislikes int64
	for _, row := range rows {
		if row.IsLike {
			likes = row.Total
		} else {
			dislikes = row.Total
		}
	}
	return likes, dislikes, nil
}
