package database

import "vidtube/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.Video{},
		&models.VideoLike{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Subscription{},
		&models.WatchHistory{},
	}
}
