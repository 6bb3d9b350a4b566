package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidtube/internal/middleware"
	"vidtube/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	VideoKeyPrefix     = "video:%d"
	VideoListKeyPrefix = "videos:list:%s"
	ProfileKeyPrefix   = "profile:%d"
	videoListPattern   = "videos:list:*"
)

const (
	VideoTTL   = 2 * time.Minute
	ProfileTTL = 5 * time.Minute
)

// ListTTL is the lifetime of cached anonymous listings. It is overridden from config.
var ListTTL = 30 * time.Second

func VideoKey(videoID uint) string {
	return fmt.Sprintf(VideoKeyPrefix, videoID)
}

func ProfileKey(profileID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, profileID)
}

// VideoListKey derives a listing key from the view mode and normalized search term.
func VideoListKey(view, query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	return fmt.Sprintf(VideoListKeyPrefix, view+":"+q)
}

// GetJSON loads key into dest. It reports false on a miss or when caching is disabled.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value under key for ttl.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, raw, ttl).Err()
}

// Aside reads key into dest, calling load on a miss and caching its result.
// Cache failures are logged and fall through to load; load errors are returned.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	namespace := strings.SplitN(key, ":", 2)[0]

	hit, err := GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		observability.CacheLookups.WithLabelValues(namespace, "error").Inc()
		middleware.Logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	case hit:
		observability.CacheLookups.WithLabelValues(namespace, "hit").Inc()
		return nil
	default:
		observability.CacheLookups.WithLabelValues(namespace, "miss").Inc()
	}

	if err := load(); err != nil {
		return err
	}
	if err := SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateVideo(ctx context.Context, videoID uint) {
	Invalidate(ctx, VideoKey(videoID))
}

func InvalidateProfile(ctx context.Context, profileID uint) {
	Invalidate(ctx, ProfileKey(profileID))
}

// InvalidateVideoLists drops every cached listing.
func InvalidateVideoLists(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, videoListPattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache scan failed", "pattern", videoListPattern, "error", err)
		return
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}
