package server

import (
	"fmt"
	"net/http"
	"testing"

	"vidtube/internal/catalog"
	"vidtube/internal/models"
	"vidtube/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListVideos(t *testing.T) {
	t.Parallel()
	app, db := newTestApp(t)

	owner := seedProfile(t, db, "owner")
	seedVideo(t, db, owner.ID, "Big Buck Bunny", 10, models.VideoStatusPublished)
	seedVideo(t, db, owner.ID, "Elephants Dream", 500, models.VideoStatusPublished)
	seedVideo(t, db, owner.ID, "Hidden", 9999, models.VideoStatusPrivate)

	t.Run("home is newest first and published only", func(t *testing.T) {
		resp, raw := doRequest(t, app, http.MethodGet, "/api/videos", "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
		videos := decode[[]models.Video](t, raw)
		require.Len(t, videos, 2)
		assert.Equal(t, "Elephants Dream", videos[0].Title)
	})

	t.Run("trending is most viewed first", func(t *testing.T) {
		resp, raw := doRequest(t, app, http.MethodGet, "/api/videos?view=trending", "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		videos := decode[[]models.Video](t, raw)
		require.Len(t, videos, 2)
		assert.Equal(t, int64(500), videos[0].ViewCount)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		resp, raw := doRequest(t, app, http.MethodGet, "/api/videos?q=BUNNY", "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		videos := decode[[]models.Video](t, raw)
		require.Len(t, videos, 1)
		assert.Equal(t, "Big Buck Bunny", videos[0].Title)
	})

	t.Run("no match is an empty array", func(t *testing.T) {
		resp, raw := doRequest(t, app, http.MethodGet, "/api/videos?q=nothing-matches", "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, "[]", string(raw))
	})

	t.Run("unknown view", func(t *testing.T) {
		resp, raw := doRequest(t, app, http.MethodGet, "/api/videos?view=popular", "", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, models.CodeValidation, decode[models.ErrorResponse](t, raw).Code)
	})
}

func TestGetVideo(t *testing.T) {
	t.Parallel()
	app, db := newTestApp(t)

	owner := seedProfile(t, db, "owner")
	other := seedProfile(t, db, "other")
	public := seedVideo(t, db, owner.ID, "Public", 1500, models.VideoStatusPublished)
	private := seedVideo(t, db, owner.ID, "Private", 0, models.VideoStatusPrivate)

	resp, raw := doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/videos/%d", public.ID), "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	detail := decode[map[string]any](t, raw)
	assert.Equal(t, "1.5K", detail["views_label"])
	assert.Equal(t, "just now", detail["published_ago"])
	assert.Equal(t, "owner", detail["owner"].(map[string]any)["username"])

	path := fmt.Sprintf("/api/videos/%d", private.ID)
	resp, _ = doRequest(t, app, http.MethodGet, path, "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = doRequest(t, app, http.MethodGet, path, bearer(t, other.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = doRequest(t, app, http.MethodGet, path, bearer(t, owner.ID), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/videos/999", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = doRequest(t, app, http.MethodGet, "/api/videos/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid ID", decode[models.ErrorResponse](t, raw).Error)
}

func TestCatalogEndpoints(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/videos/categories", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, catalog.Categories(), decode[[]string](t, raw))

	resp, raw = doRequest(t, app, http.MethodGet, "/api/videos/demo", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]catalog.DemoVideo](t, raw), len(catalog.DemoVideos()))
}

func TestPublishVideo(t *testing.T) {
	t.Parallel()
	app, db := newTestApp(t)
	owner := seedProfile(t, db, "creator")

	t.Run("requires auth", func(t *testing.T) {
		resp, _ := doRequest(t, app, http.MethodPost, "/api/videos", "", `{"title":"x","category":"Music"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("field errors", func(t *testing.T) {
		resp, raw := doRequest(t, app, http.MethodPost, "/api/videos", bearer(t, owner.ID),
			`{"demo_index":0,"title":"   ","category":"Music"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[models.ErrorResponse](t, raw)
		assert.Equal(t, "title", body.Field)

		resp, raw = doRequest(t, app, http.MethodPost, "/api/videos", bearer(t, owner.ID),
			`{"demo_index":0,"title":"ok","category":"Cooking"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "category", decode[models.ErrorResponse](t, raw).Field)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, _ := doRequest(t, app, http.MethodPost, "/api/videos", bearer(t, owner.ID), `{"title":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("publishes from the demo catalog", func(t *testing.T) {
		resp, raw := doRequest(t, app, http.MethodPost, "/api/videos", bearer(t, owner.ID),
			`{"demo_index":1,"title":"  My Upload ","category":"Gaming","tags":"a, b,,a"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
		video := decode[models.Video](t, raw)
		demo, ok := catalog.Demo(1)
		require.True(t, ok)
		assert.Equal(t, "My Upload", video.Title)
		assert.Equal(t, demo.MediaURL, video.MediaURL)
		assert.Equal(t, models.VideoStatusPublished, video.Status)
		assert.Equal(t, models.Tags{"a", "b"}, video.Tags)
		assert.Equal(t, owner.ID, video.OwnerID)

		resp, raw = doRequest(t, app, http.MethodGet, "/api/videos", "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, decode[[]models.Video](t, raw), 1)
	})
}

func TestReactionFlow(t *testing.T) {
	t.Parallel()
	app, db := newTestApp(t)

	owner := seedProfile(t, db, "owner")
	viewer := seedProfile(t, db, "viewer")
	video := seedVideo(t, db, owner.ID, "Reacted", 0, models.VideoStatusPublished)
	base := fmt.Sprintf("/api/videos/%d", video.ID)
	auth := bearer(t, viewer.ID)

	resp, raw := doRequest(t, app, http.MethodGet, base+"/reaction", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, service.ReactionState{Reaction: service.ReactionNone}, decode[service.ReactionState](t, raw))

	resp, _ = doRequest(t, app, http.MethodPost, base+"/like", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	steps := []struct {
		path     string
		reaction service.Reaction
		likes    int64
		dislikes int64
	}{
		{"/like", service.ReactionLike, 1, 0},
		{"/dislike", service.ReactionDislike, 0, 1},
		{"/dislike", service.ReactionNone, 0, 0},
		{"/like", service.ReactionLike, 1, 0},
	}
	for _, step := range steps {
		resp, raw := doRequest(t, app, http.MethodPost, base+step.path, auth, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
		result := decode[service.ReactResult](t, raw)
		assert.Equal(t, step.reaction, result.Reaction)
		assert.Equal(t, step.likes, result.LikeCount)
		assert.Equal(t, step.dislikes, result.DislikeCount)
	}

	resp, raw = doRequest(t, app, http.MethodGet, base+"/reaction", auth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, service.ReactionLike, decode[service.ReactionState](t, raw).Reaction)

	var stored models.Video
	require.NoError(t, db.First(&stored, video.ID).Error)
	assert.Equal(t, int64(1), stored.LikeCount)
	assert.Equal(t, int64(0), stored.DislikeCount)

	resp, _ = doRequest(t, app, http.MethodPost, "/api/videos/999/like", auth, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubscriptionFlow(t *testing.T) {
	t.Parallel()
	app, db := newTestApp(t)

	channel := seedProfile(t, db, "channel")
	fan := seedProfile(t, db, "fan")
	path := fmt.Sprintf("/api/channels/%d/subscription", channel.ID)

	resp, raw := doRequest(t, app, http.MethodPost, path, bearer(t, fan.ID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, service.SubscriptionResult{Subscribed: true, SubscriberCount: 1},
		decode[service.SubscriptionResult](t, raw))

	resp, raw = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/profiles/%d", channel.ID), "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), decode[models.Profile](t, raw).SubscriberCount)

	resp, raw = doRequest(t, app, http.MethodPost, path, bearer(t, fan.ID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, service.SubscriptionResult{Subscribed: false, SubscriberCount: 0},
		decode[service.SubscriptionResult](t, raw))

	resp, _ = doRequest(t, app, http.MethodPost, path, bearer(t, channel.ID), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPost, "/api/channels/999/subscription", bearer(t, fan.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecordViewAndHistory(t *testing.T) {
	t.Parallel()
	app, db := newTestApp(t)

	owner := seedProfile(t, db, "owner")
	viewer := seedProfile(t, db, "viewer")
	video := seedVideo(t, db, owner.ID, "Watched", 0, models.VideoStatusPublished)
	path := fmt.Sprintf("/api/videos/%d/views", video.ID)

	resp, raw := doRequest(t, app, http.MethodPost, path, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, service.ViewResult{ViewCount: 1}, decode[service.ViewResult](t, raw))

	for i := 0; i < 2; i++ {
		resp, raw = doRequest(t, app, http.MethodPost, path, bearer(t, viewer.ID), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, decode[service.ViewResult](t, raw).HistoryWritten)
	}

	resp, raw = doRequest(t, app, http.MethodGet, "/api/me/history", bearer(t, viewer.ID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	history := decode[[]models.WatchHistory](t, raw)
	require.Len(t, history, 2)
	require.NotNil(t, history[0].Video)
	assert.Equal(t, video.ID, history[0].Video.ID)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/me/history", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var stored models.Video
	require.NoError(t, db.First(&stored, video.ID).Error)
	assert.Equal(t, int64(3), stored.ViewCount)

	resp, _ = doRequest(t, app, http.MethodPost, "/api/videos/999/views", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCommentFlow(t *testing.T) {
	t.Parallel()
	app, db := newTestApp(t)

	owner := seedProfile(t, db, "owner")
	alice := seedProfile(t, db, "alice")
	video := seedVideo(t, db, owner.ID, "Discussed", 0, models.VideoStatusPublished)
	other := seedVideo(t, db, owner.ID, "Elsewhere", 0, models.VideoStatusPublished)
	base := fmt.Sprintf("/api/videos/%d/comments", video.ID)
	auth := bearer(t, alice.ID)

	resp, raw := doRequest(t, app, http.MethodGet, base, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(raw))

	resp, _ = doRequest(t, app, http.MethodPost, base, "", `{"content":"hi"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw = doRequest(t, app, http.MethodPost, base, auth, `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "content", decode[models.ErrorResponse](t, raw).Field)

	resp, raw = doRequest(t, app, http.MethodPost, base, auth, `{"content":"  first!  "}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	root := decode[models.Comment](t, raw)
	assert.Equal(t, "first!", root.Content)
	require.NotNil(t, root.Author)
	assert.Equal(t, "alice", root.Author.Username)

	resp, raw = doRequest(t, app, http.MethodPost, base, auth, fmt.Sprintf(`{"content":"reply","parent_id":%d}`, root.ID))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	reply := decode[models.Comment](t, raw)

	resp, _ = doRequest(t, app, http.MethodPost, base, auth, fmt.Sprintf(`{"content":"nested","parent_id":%d}`, reply.ID))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	otherPath := fmt.Sprintf("/api/videos/%d/comments", other.ID)
	resp, _ = doRequest(t, app, http.MethodPost, otherPath, auth, fmt.Sprintf(`{"content":"wrong","parent_id":%d}`, root.ID))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPost, "/api/videos/999/comments", auth, `{"content":"lost"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	likePath := fmt.Sprintf("/api/comments/%d/like", root.ID)
	resp, raw = doRequest(t, app, http.MethodPost, likePath, auth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, service.CommentLikeResult{Liked: true, LikeCount: 1}, decode[service.CommentLikeResult](t, raw))

	resp, raw = doRequest(t, app, http.MethodGet, base, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	thread := decode[[]service.RootComment](t, raw)
	require.Len(t, thread, 1)
	assert.Equal(t, int64(1), thread[0].LikeCount)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, reply.ID, thread[0].Replies[0].ID)
	assert.Equal(t, root.ID, thread[0].Replies[0].ParentRootID)

	resp, raw = doRequest(t, app, http.MethodPost, likePath, auth, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, service.CommentLikeResult{Liked: false, LikeCount: 0}, decode[service.CommentLikeResult](t, raw))

	resp, _ = doRequest(t, app, http.MethodPost, "/api/comments/999/like", auth, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetMyFeatureFlags(t *testing.T) {
	t.Parallel()
	app, db := newTestApp(t)
	viewer := seedProfile(t, db, "viewer")

	resp, raw := doRequest(t, app, http.MethodGet, "/api/me/feature-flags", bearer(t, viewer.ID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]bool{"atomic_view_count": true}, decode[map[string]bool](t, raw))
}
