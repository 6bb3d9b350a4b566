// Package seed fills a development database with demo channels, the demo
// video catalog and some engagement on top. It is not used by the API.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vidtube/internal/catalog"
	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures a seeding run. A zero RandSeed picks one from the clock.
type Options struct {
	Profiles         int
	CommentsPerVideo int
	Clean            bool
	RandSeed         int64
}

// Result counts what a run created.
type Result struct {
	Profiles      int
	Videos        int
	Reactions     int
	Subscriptions int
	Comments      int
}

// Factory builds entities with fake data and persists them.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	now   time.Time

	reactions     repository.ReactionRepository
	videos        repository.VideoRepository
	subscriptions repository.SubscriptionRepository
	comments      repository.CommentRepository
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, randSeed int64) *Factory {
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	return &Factory{
		db:            db,
		faker:         gofakeit.New(randSeed),
		now:           time.Now(),
		reactions:     repository.NewReactionRepository(db),
		videos:        repository.NewVideoRepository(db),
		subscriptions: repository.NewSubscriptionRepository(db),
		comments:      repository.NewCommentRepository(db),
	}
}

// Run seeds the database according to opts.
func Run(ctx context.Context, db *gorm.DB, opts Options) (Result, error) {
	if opts.Profiles < 2 {
		return Result{}, fmt.Errorf("need at least 2 profiles, got %d", opts.Profiles)
	}

	f := NewFactory(db, opts.RandSeed)
	if opts.Clean {
		if err := f.ClearAll(ctx); err != nil {
			return Result{}, fmt.Errorf("clear: %w", err)
		}
	}

	var res Result
	profiles, err := f.CreateProfiles(ctx, opts.Profiles)
	if err != nil {
		return res, fmt.Errorf("profiles: %w", err)
	}
	res.Profiles = len(profiles)

	videos, err := f.CreateDemoVideos(ctx, profiles)
	if err != nil {
		return res, fmt.Errorf("videos: %w", err)
	}
	res.Videos = len(videos)

	if res.Subscriptions, err = f.CreateSubscriptions(ctx, profiles); err != nil {
		return res, fmt.Errorf("subscriptions: %w", err)
	}
	if res.Reactions, err = f.CreateReactions(ctx, profiles, videos); err != nil {
		return res, fmt.Errorf("reactions: %w", err)
	}
	if res.Comments, err = f.CreateComments(ctx, profiles, videos, opts.CommentsPerVideo); err != nil {
		return res, fmt.Errorf("comments: %w", err)
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		"profiles", res.Profiles, "videos", res.Videos, "reactions", res.Reactions,
		"subscriptions", res.Subscriptions, "comments", res.Comments)
	return res, nil
}

// ClearAll deletes every seeded table, children first.
func (f *Factory) ClearAll(ctx context.Context) error {
	for _, model := range []interface{}{
		&models.CommentLike{},
		&models.Comment{},
		&models.WatchHistory{},
		&models.VideoLike{},
		&models.Subscription{},
		&models.Video{},
		&models.Profile{},
	} {
		if err := f.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateProfiles creates n channels with unique usernames.
func (f *Factory) CreateProfiles(ctx context.Context, n int) ([]*models.Profile, error) {
	profiles := make([]*models.Profile, 0, n)
	for i := 0; i < n; i++ {
		first, last := f.faker.FirstName(), f.faker.LastName()
		p := &models.Profile{
			Username:    strings.ToLower(fmt.Sprintf("%s%s%d", first, last, i)),
			DisplayName: first + " " + last,
			AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
			Description: f.faker.Sentence(12),
		}
		profiles = append(profiles, p)
	}
	if err := f.db.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// CreateDemoVideos publishes every demo catalog entry, owners round-robin.
func (f *Factory) CreateDemoVideos(ctx context.Context, owners []*models.Profile) ([]*models.Video, error) {
	demos := catalog.DemoVideos()
	videos := make([]*models.Video, 0, len(demos))
	for i, demo := range demos {
		owner := owners[i%len(owners)]
		v := &models.Video{
			OwnerID:      owner.ID,
			Title:        demo.Title,
			Description:  demo.Description,
			MediaURL:     demo.MediaURL,
			ThumbnailURL: demo.ThumbnailURL,
			Duration:     demo.Duration,
			Category:     demo.Category,
			Tags:         models.ParseTags(strings.Join([]string{strings.ToLower(demo.Category), f.faker.HipsterWord(), "demo"}, ",")),
			Status:       models.VideoStatusPublished,
			ViewCount:    int64(f.faker.Number(0, 250000)),
			CreatedAt:    f.pastTime(60),
		}
		if err := f.db.WithContext(ctx).Create(v).Error; err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// CreateSubscriptions has each profile follow roughly half the others, then
// recounts subscriber totals.
func (f *Factory) CreateSubscriptions(ctx context.Context, profiles []*models.Profile) (int, error) {
	created := 0
	for _, sub := range profiles {
		for _, ch := range profiles {
			if sub.ID == ch.ID || !f.faker.Bool() {
				continue
			}
			if err := f.subscriptions.Create(ctx, sub.ID, ch.ID); err != nil {
				return created, err
			}
			created++
		}
	}
	for _, ch := range profiles {
		if _, err := f.subscriptions.RefreshSubscriberCount(ctx, ch.ID); err != nil {
			return created, err
		}
	}
	return created, nil
}

// CreateReactions gives each video a random mix of likes and dislikes and
// stores the recounted totals on the video.
func (f *Factory) CreateReactions(ctx context.Context, profiles []*models.Profile, videos []*models.Video) (int, error) {
	created := 0
	for _, v := range videos {
		for _, p := range profiles {
			switch f.faker.Number(0, 9) {
			case 0, 1, 2, 3, 4:
				continue
			case 9:
				if err := f.reactions.Upsert(ctx, p.ID, v.ID, false); err != nil {
					return created, err
				}
			default:
				if err := f.reactions.Upsert(ctx, p.ID, v.ID, true); err != nil {
					return created, err
				}
			}
			created++
		}
		likes, dislikes, err := f.reactions.Counts(ctx, v.ID)
		if err != nil {
			return created, err
		}
		if err := f.videos.SetReactionCounts(ctx, v.ID, likes, dislikes); err != nil {
			return created, err
		}
	}
	return created, nil
}

// CreateComments adds perVideo root comments to each video, some with replies
// and likes.
func (f *Factory) CreateComments(ctx context.Context, profiles []*models.Profile, videos []*models.Video, perVideo int) (int, error) {
	created := 0
	pick := func() *models.Profile { return profiles[f.faker.Number(0, len(profiles)-1)] }

	for _, v := range videos {
		for i := 0; i < perVideo; i++ {
			root := &models.Comment{
				VideoID:   v.ID,
				AuthorID:  pick().ID,
				Content:   f.faker.Sentence(f.faker.Number(4, 20)),
				CreatedAt: f.pastTime(30),
			}
			if err := f.comments.Create(ctx, root); err != nil {
				return created, err
			}
			created++

			for r := f.faker.Number(0, 3); r > 0; r-- {
				parentID := root.ID
				reply := &models.Comment{
					VideoID:   v.ID,
					AuthorID:  pick().ID,
					ParentID:  &parentID,
					Content:   f.faker.Sentence(f.faker.Number(3, 12)),
					CreatedAt: root.CreatedAt.Add(time.Duration(f.faker.Number(1, 600)) * time.Minute),
				}
				if err := f.comments.Create(ctx, reply); err != nil {
					return created, err
				}
				created++
			}

			for _, p := range profiles {
				if f.faker.Number(0, 3) != 0 {
					continue
				}
				if err := f.comments.AddLike(ctx, root.ID, p.ID); err != nil {
					return created, err
				}
			}
			if _, err := f.comments.RefreshLikeCount(ctx, root.ID); err != nil {
				return created, err
			}
		}
	}
	return created, nil
}

// pastTime returns a time up to maxDays before the factory's clock.
func (f *Factory) pastTime(maxDays int) time.Time {
	minutes := f.faker.Number(0, maxDays*24*60)
	return f.now.Add(-time.Duration(minutes) * time.Minute)
}
