package repository

import (
	"context"

	"vidtube/internal/cache"
	"vidtube/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository is the gateway for subscriber/channel rows.
type SubscriptionRepository interface {
	Exists(ctx context.Context, subscriberID, channelID uint) (bool, error)
	Create(ctx context.Context, subscriberID, channelID uint) error
	Delete(ctx context.Context, subscriberID, channelID uint) error
	RefreshSubscriberCount(ctx context.Context, channelID uint) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository returns a new SubscriptionRepository implementation.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Create inserts the subscription. An existing row counts as success.
func (r *subscriptionRepository) Create(ctx context.Context, subscriberID, channelID uint) error {
	sub := models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	if err := r.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, subscriberID, channelID uint) error {
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&models.Subscription{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RefreshSubscriberCount recounts the channel's subscribers and stores the
// total on its profile.
func (r *subscriptionRepository) RefreshSubscriberCount(ctx context.Context, channelID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Subscription{}).
			Where("channel_id = ?", channelID).
			Count(&total).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).
			Where("id = ?", channelID).
			UpdateColumn("subscriber_count", total).Error
	})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, channelID)
	return total, nil
}
