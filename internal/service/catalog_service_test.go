package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"vidtube/internal/cache"
	"vidtube/internal/models"
	"vidtube/internal/repository"
	"vidtube/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseView(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]View{"": ViewHome, "home": ViewHome, " Trending ": ViewTrending} {
		got, err := ParseView(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseView("popular")
	assertValidationError(t, err)
}

func TestCatalogService_ListVideos_Filters(t *testing.T) {
	t.Parallel()

	var seen []repository.VideoFilter
	videos := noopVideoRepo()
	videos.listPublishedFn = func(_ context.Context, f repository.VideoFilter) ([]*models.Video, error) {
		seen = append(seen, f)
		return []*models.Video{{ID: 1}}, nil
	}
	svc := NewCatalogService(videos, noopProfileRepo(), noopHistoryRepo())
	ctx := context.Background()

	_, err := svc.ListVideos(ctx, ListFilter{View: ViewTrending, Query: "  cats "})
	require.NoError(t, err)
	_, err = svc.ListVideos(ctx, ListFilter{View: ViewHome, Query: "dogs"})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, repository.VideoFilter{Query: "cats", Order: repository.OrderMostViewed, Limit: TrendingLimit}, seen[0])
	assert.Equal(t, repository.VideoFilter{Query: "dogs", Order: repository.OrderRecent}, seen[1])
}

func TestCatalogService_ListVideos_HomeIsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	calls := 0
	videos := noopVideoRepo()
	videos.listPublishedFn = func(context.Context, repository.VideoFilter) ([]*models.Video, error) {
		calls++
		return []*models.Video{{ID: uint(calls), Title: "clip"}}, nil
	}
	svc := NewCatalogService(videos, noopProfileRepo(), noopHistoryRepo())
	ctx := context.Background()

	first, err := svc.ListVideos(ctx, ListFilter{View: ViewHome})
	require.NoError(t, err)
	second, err := svc.ListVideos(ctx, ListFilter{View: ViewHome})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first[0].ID, second[0].ID)

	_, err = svc.PublishDemo(ctx, session.ForViewer(1), UploadInput{Title: "New", Category: "Music"})
	require.NoError(t, err)

	third, err := svc.ListVideos(ctx, ListFilter{View: ViewHome})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, uint(2), third[0].ID)
}

func TestCatalogService_PublishDemo(t *testing.T) {
	t.Parallel()

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		svc := NewCatalogService(noopVideoRepo(), noopProfileRepo(), noopHistoryRepo())
		ctx := context.Background()
		viewer := session.ForViewer(1)

		tests := []struct {
			name  string
			in    UploadInput
			field string
		}{
			{"missing title", UploadInput{Title: "   ", Category: "Music"}, "title"},
			{"long title", UploadInput{Title: strings.Repeat("t", 101), Category: "Music"}, "title"},
			{"long description", UploadInput{Title: "ok", Description: strings.Repeat("d", 5001), Category: "Music"}, "description"},
			{"unknown category", UploadInput{Title: "ok", Category: "Cooking"}, "category"},
			{"negative demo", UploadInput{DemoIndex: -1, Title: "ok", Category: "Music"}, "demo_index"},
			{"demo out of range", UploadInput{DemoIndex: 6, Title: "ok", Category: "Music"}, "demo_index"},
		}
		for _, tt := range tests {
			_, err := svc.PublishDemo(ctx, viewer, tt.in)
			assertValidationError(t, err)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr, tt.name)
			assert.Equal(t, tt.field, appErr.Field, tt.name)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		svc := NewCatalogService(noopVideoRepo(), noopProfileRepo(), noopHistoryRepo())
		_, err := svc.PublishDemo(context.Background(), session.Anonymous(), UploadInput{Title: "x", Category: "Music"})
		assertUnauthenticatedError(t, err)
	})

	t.Run("copies demo media and parses tags", func(t *testing.T) {
		t.Parallel()
		var created *models.Video
		videos := noopVideoRepo()
		videos.createFn = func(_ context.Context, v *models.Video) error {
			v.ID = 77
			created = v
			return nil
		}
		videos.getByIDFn = func(_ context.Context, id uint) (*models.Video, error) {
			return created, nil
		}
		svc := NewCatalogService(videos, noopProfileRepo(), noopHistoryRepo())

		got, err := svc.PublishDemo(context.Background(), session.ForViewer(3), UploadInput{
			DemoIndex: 1,
			Title:     "  React 101 ",
			Category:  "Education",
			Tags:      "react, , js,react ,  web",
		})
		require.NoError(t, err)
		assert.Equal(t, uint(77), got.ID)
		assert.Equal(t, "React 101", created.Title)
		assert.Equal(t, uint(3), created.OwnerID)
		assert.Equal(t, 653, created.Duration)
		assert.Contains(t, created.MediaURL, "ElephantsDream.mp4")
		assert.Equal(t, models.VideoStatusPublished, created.Status)
		assert.Equal(t, models.Tags{"react", "js", "web"}, created.Tags)
	})
}

func TestCatalogService_GetVideo(t *testing.T) {
	t.Parallel()

	videos := noopVideoRepo()
	videos.getByIDFn = func(_ context.Context, id uint) (*models.Video, error) {
		status := models.VideoStatusPublished
		if id == 2 {
			status = models.VideoStatusPrivate
		}
		return &models.Video{
			ID: id, OwnerID: 9, Status: status, ViewCount: 1500, LikeCount: 12,
			CreatedAt: time.Now().Add(-2 * time.Hour),
			Owner:     &models.Profile{ID: 9, SubscriberCount: 2_300_000},
		}, nil
	}
	svc := NewCatalogService(videos, noopProfileRepo(), noopHistoryRepo())
	ctx := context.Background()

	detail, err := svc.GetVideo(ctx, session.Anonymous(), 1)
	require.NoError(t, err)
	assert.Equal(t, "1.5K", detail.ViewsLabel)
	assert.Equal(t, "12", detail.LikesLabel)
	assert.Equal(t, "2.3M", detail.SubscribersLabel)
	assert.Equal(t, "2 hours ago", detail.PublishedAgo)

	_, err = svc.GetVideo(ctx, session.ForViewer(4), 2)
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.GetVideo(ctx, session.ForViewer(9), 2)
	assert.NoError(t, err)
}

func TestCatalogService_History(t *testing.T) {
	t.Parallel()

	history := noopHistoryRepo()
	history.listByUserFn = func(_ context.Context, userID uint, limit, offset int) ([]*models.WatchHistory, error) {
		return []*models.WatchHistory{{UserID: userID, VideoID: 1}}, nil
	}
	svc := NewCatalogService(noopVideoRepo(), noopProfileRepo(), history)

	_, err := svc.History(context.Background(), session.Anonymous(), 10, 0)
	assertUnauthenticatedError(t, err)

	entries, err := svc.History(context.Background(), session.ForViewer(5), 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint(5), entries[0].UserID)
}
