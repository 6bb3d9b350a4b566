package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"vidtube/internal/cache"
	"vidtube/internal/catalog"
	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/repository"
	"vidtube/internal/session"

	"github.com/go-playground/validator/v10"
)

// TrendingLimit caps the trending listing.
const TrendingLimit = 50

// View selects the listing screen.
type View string

const (
	ViewHome     View = "home"
	ViewTrending View = "trending"
)

type ListFilter struct {
	Query string
	View  View
}

// UploadInput publishes one demo catalog entry under the viewer's channel.
type UploadInput struct {
	DemoIndex   int    `json:"demo_index" validate:"gte=0"`
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"required,video_category"`
	Tags        string `json:"tags"`
}

// VideoDetail is a video with display-ready counters.
type VideoDetail struct {
	*models.Video
	ViewsLabel       string `json:"views_label"`
	LikesLabel       string `json:"likes_label"`
	SubscribersLabel string `json:"subscribers_label"`
	PublishedAgo     string `json:"published_ago"`
}

type CatalogService struct {
	videoRepo   repository.VideoRepository
	profileRepo repository.ProfileRepository
	historyRepo repository.WatchHistoryRepository
	validate    *validator.Validate
	now         func() time.Time
}

func NewCatalogService(
	videoRepo repository.VideoRepository,
	profileRepo repository.ProfileRepository,
	historyRepo repository.WatchHistoryRepository,
) *CatalogService {
	return &CatalogService{
		videoRepo:   videoRepo,
		profileRepo: profileRepo,
		historyRepo: historyRepo,
		validate:    newValidator(),
		now:         time.Now,
	}
}

// ParseView maps the query parameter onto a View. Empty means home.
func ParseView(raw string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ViewHome:
		return ViewHome, nil
	case ViewTrending:
		return ViewTrending, nil
	default:
		return "", models.NewFieldError("view", "must be home or trending")
	}
}

// ListVideos returns published videos. Trending sorts by views and is capped;
// home is newest first. The unfiltered home listing is served from cache.
func (s *CatalogService) ListVideos(ctx context.Context, filter ListFilter) ([]*models.Video, error) {
	query := strings.TrimSpace(filter.Query)
	rf := repository.VideoFilter{Query: query, Order: repository.OrderRecent}
	if filter.View == ViewTrending {
		rf.Order = repository.OrderMostViewed
		rf.Limit = TrendingLimit
	}

	load := func() ([]*models.Video, error) {
		videos, err := s.videoRepo.ListPublished(ctx, rf)
		if err != nil {
			middleware.Logger.ErrorContext(ctx, "list videos failed",
				slog.String("view", string(filter.View)), slog.String("error", err.Error()))
			return nil, err
		}
		return videos, nil
	}

	if filter.View == ViewTrending || query != "" {
		return load()
	}

	var videos []*models.Video
	err := cache.Aside(ctx, cache.VideoListKey(string(ViewHome), ""), &videos, cache.ListTTL, func() error {
		var err error
		videos, err = load()
		return err
	})
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// PublishDemo creates a published video for the viewer from a demo entry.
func (s *CatalogService) PublishDemo(ctx context.Context, sess session.Session, in UploadInput) (*models.Video, error) {
	if !sess.Authenticated() {
		return nil, models.NewUnauthenticatedError("Sign in to upload videos")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	demo, ok := catalog.Demo(in.DemoIndex)
	if !ok {
		return nil, models.NewFieldError("demo_index", "does not match a demo video")
	}

	video := &models.Video{
		OwnerID:      sess.ViewerID,
		Title:        in.Title,
		Description:  in.Description,
		MediaURL:     demo.MediaURL,
		ThumbnailURL: demo.ThumbnailURL,
		Duration:     demo.Duration,
		Category:     in.Category,
		Tags:         models.ParseTags(in.Tags),
		Status:       models.VideoStatusPublished,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		middleware.Logger.ErrorContext(ctx, "publish video failed", slog.String("error", err.Error()))
		return nil, err
	}
	cache.InvalidateVideoLists(ctx)

	middleware.Logger.InfoContext(ctx, "video published",
		slog.Uint64("video_id", uint64(video.ID)), slog.Int("demo_index", in.DemoIndex))
	return s.videoRepo.GetByID(ctx, video.ID)
}

// GetVideo returns a watchable video. Private and processing videos are
// only visible to their owner.
func (s *CatalogService) GetVideo(ctx context.Context, sess session.Session, id uint) (*VideoDetail, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch video.Status {
	case models.VideoStatusPublished, models.VideoStatusUnlisted:
	default:
		if video.OwnerID != sess.ViewerID {
			return nil, models.NewNotFoundError("Video", id)
		}
	}

	detail := &VideoDetail{
		Video:        video,
		ViewsLabel:   FormatCount(video.ViewCount),
		LikesLabel:   FormatCount(video.LikeCount),
		PublishedAgo: TimeAgo(video.CreatedAt, s.now()),
	}
	if video.Owner != nil {
		detail.SubscribersLabel = FormatCount(video.Owner.SubscriberCount)
	}
	return detail, nil
}

// History lists the viewer's watch history newest first.
func (s *CatalogService) History(ctx context.Context, sess session.Session, limit, offset int) ([]*models.WatchHistory, error) {
	if !sess.Authenticated() {
		return nil, models.NewUnauthenticatedError("Sign in to see your history")
	}
	return s.historyRepo.ListByUser(ctx, sess.ViewerID, limit, offset)
}

// Profile returns a channel profile.
func (s *CatalogService) Profile(ctx context.Context, id uint) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

// DemoCatalog lists the demo entries an upload can pick from.
func (s *CatalogService) DemoCatalog() []catalog.DemoVideo {
	return catalog.DemoVideos()
}

// Categories lists the allowed upload categories.
func (s *CatalogService) Categories() []string {
	return catalog.Categories()
}
