package repository

import (
	"context"
	"errors"

	"vidtube/internal/models"

	"gorm.io/gorm"
)

// VideoOrder selects the listing sort.
type VideoOrder int

const (
	// OrderRecent sorts newest first.
	OrderRecent VideoOrder = iota
	// OrderMostViewed sorts by view_count descending.
	OrderMostViewed
)

// VideoFilter narrows ListPublished. A zero Limit means no cap.
type VideoFilter struct {
	Query string
	Order VideoOrder
	Limit int
}

// VideoRepository is the gateway for the videos table.
type VideoRepository interface {
	ListPublished(ctx context.Context, filter VideoFilter) ([]*models.Video, error)
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	Create(ctx context.Context, video *models.Video) error
	IncrementViews(ctx context.Context, id uint) (int64, error)
	IncrementViewsReadWrite(ctx context.Context, id uint) (int64, error)
	SetReactionCounts(ctx context.Context, id uint, likes, dislikes int64) error
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository returns a new VideoRepository implementation.
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) ListPublished(ctx context.Context, filter VideoFilter) ([]*models.Video, error) {
	q := r.db.WithContext(ctx).
		Preload("Owner").
		Where("status = ?", models.VideoStatusPublished)

	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		q = q.Where(
			`LOWER(title) LIKE LOWER(?) ESCAPE '\' OR LOWER(description) LIKE LOWER(?) ESCAPE '\'`,
			pattern, pattern,
		)
	}

	switch filter.Order {
	case OrderMostViewed:
		q = q.Order("view_count DESC").Order("created_at DESC").Order("id DESC")
	default:
		q = q.Order("created_at DESC").Order("id DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var videos []*models.Video
	if err := q.Find(&videos).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return videos, nil
}

func (r *videoRepository) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).Preload("Owner").First(&video, id).Error; err != nil {
		return nil, notFoundOrInternal(err, "Video", id)
	}
	return &video, nil
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// IncrementViews adds one view in a single statement and returns the new total.
func (r *videoRepository) IncrementViews(ctx context.Context, id uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Video{}).
			Where("id = ?", id).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Video{}).Where("id = ?", id).Pluck("view_count", &total).Error
	})
	if err != nil {
		return 0, notFoundOrInternal(err, "Video", id)
	}
	return total, nil
}

// IncrementViewsReadWrite reads view_count then writes value+1. Concurrent
// callers can lose increments.
func (r *videoRepository) IncrementViewsReadWrite(ctx context.Context, id uint) (int64, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).Select("id", "view_count").First(&video, id).Error; err != nil {
		return 0, notFoundOrInternal(err, "Video", id)
	}
	next := video.ViewCount + 1
	if err := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumn("view_count", next).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return next, nil
}

func (r *videoRepository) SetReactionCounts(ctx context.Context, id uint, likes, dislikes int64) error {
	if likes < 0 || dislikes < 0 {
		return models.NewInternalError(errors.New("reaction counts must not be negative"))
	}
	err := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"like_count":    likes,
			"dislike_count": dislikes,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
