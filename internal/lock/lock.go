// Package lock serializes read-modify-write sequences on shared rows across
// server instances using Redis-backed mutexes.
package lock

import (
	"context"
	"fmt"
	"time"

	"vidtube/internal/observability"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultExpiry = 5 * time.Second
	defaultTries  = 20
	retryDelay    = 50 * time.Millisecond
)

// Locker hands out named mutexes. A nil Locker runs callbacks unlocked, which
// is what single-instance deployments without Redis get.
type Locker struct {
	rs *redsync.Redsync
}

// New returns a Locker backed by client, or nil when client is nil.
func New(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{rs: redsync.New(goredis.NewPool(client))}
}

// VideoReactionKey scopes the lock for one viewer's reaction on one video.
func VideoReactionKey(userID, videoID uint) string {
	return fmt.Sprintf("lock:reaction:video:%d:user:%d", videoID, userID)
}

// CommentLikeKey scopes the lock for one viewer's like on one comment.
func CommentLikeKey(userID, commentID uint) string {
	return fmt.Sprintf("lock:like:comment:%d:user:%d", commentID, userID)
}

// SubscriptionKey scopes the lock for one subscriber/channel pair.
func SubscriptionKey(subscriberID, channelID uint) string {
	return fmt.Sprintf("lock:subscription:%d:%d", subscriberID, channelID)
}

// WithLock runs fn while holding the mutex named key.
func (l *Locker) WithLock(ctx context.Context, scope, key string, fn func(ctx context.Context) error) error {
	if l == nil {
		return fn(ctx)
	}

	m := l.rs.NewMutex(key,
		redsync.WithExpiry(defaultExpiry),
		redsync.WithTries(defaultTries),
		redsync.WithRetryDelay(retryDelay),
	)

	start := time.Now()
	if err := m.LockContext(ctx); err != nil {
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}
	observability.ObserveLockWait(scope, start)

	fnErr := fn(ctx)

	// Unlock on a context that survives request cancellation so the key is released promptly.
	unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if _, err := m.UnlockContext(unlockCtx); err != nil && fnErr == nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return fnErr
}
