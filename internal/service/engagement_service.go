// Package service holds the engagement, comment and catalog models that sit
// between the HTTP handlers and the repositories.
package service

import (
	"context"
	"log/slog"

	"vidtube/internal/cache"
	"vidtube/internal/featureflags"
	"vidtube/internal/lock"
	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/observability"
	"vidtube/internal/repository"
	"vidtube/internal/session"

	"go.opentelemetry.io/otel/attribute"
)

// Reaction is a viewer's vote on a video.
type Reaction string

const (
	ReactionNone    Reaction = "none"
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

func reactionOf(like *models.VideoLike) Reaction {
	switch {
	case like == nil:
		return ReactionNone
	case like.IsLike:
		return ReactionLike
	default:
		return ReactionDislike
	}
}

// ReactionState is what the player shows for one viewer on one video.
type ReactionState struct {
	Reaction   Reaction `json:"reaction"`
	Subscribed bool     `json:"subscribed"`
}

// ReactResult carries the applied deltas and the recounted totals.
type ReactResult struct {
	Reaction     Reaction `json:"reaction"`
	LikeDelta    int64    `json:"like_delta"`
	DislikeDelta int64    `json:"dislike_delta"`
	LikeCount    int64    `json:"like_count"`
	DislikeCount int64    `json:"dislike_count"`
}

// SubscriptionResult is the state after a subscription toggle.
type SubscriptionResult struct {
	Subscribed      bool  `json:"subscribed"`
	SubscriberCount int64 `json:"subscriber_count"`
}

// ViewResult reports a recorded view.
type ViewResult struct {
	ViewCount      int64 `json:"view_count"`
	HistoryWritten bool  `json:"history_written"`
}

type reactionOp int

const (
	opUpsert reactionOp = iota
	opDelete
)

type reactionTransition struct {
	next         Reaction
	likeDelta    int64
	dislikeDelta int64
	op           reactionOp
}

// transition applies a like/dislike press to the prior reaction.
func transition(prior Reaction, wantLike bool) reactionTransition {
	requested := ReactionDislike
	if wantLike {
		requested = ReactionLike
	}

	delta := func(r Reaction, d int64) (int64, int64) {
		if r == ReactionLike {
			return d, 0
		}
		return 0, d
	}

	switch prior {
	case requested:
		l, d := delta(requested, -1)
		return reactionTransition{next: ReactionNone, likeDelta: l, dislikeDelta: d, op: opDelete}
	case ReactionNone:
		l, d := delta(requested, 1)
		return reactionTransition{next: requested, likeDelta: l, dislikeDelta: d, op: opUpsert}
	default:
		ol, od := delta(prior, -1)
		nl, nd := delta(requested, 1)
		return reactionTransition{next: requested, likeDelta: ol + nl, dislikeDelta: od + nd, op: opUpsert}
	}
}

type EngagementService struct {
	videoRepo        repository.VideoRepository
	reactionRepo     repository.ReactionRepository
	subscriptionRepo repository.SubscriptionRepository
	profileRepo      repository.ProfileRepository
	historyRepo      repository.WatchHistoryRepository
	locker           *lock.Locker
	flags            *featureflags.Manager
}

func NewEngagementService(
	videoRepo repository.VideoRepository,
	reactionRepo repository.ReactionRepository,
	subscriptionRepo repository.SubscriptionRepository,
	profileRepo repository.ProfileRepository,
	historyRepo repository.WatchHistoryRepository,
	locker *lock.Locker,
	flags *featureflags.Manager,
) *EngagementService {
	return &EngagementService{
		videoRepo:        videoRepo,
		reactionRepo:     reactionRepo,
		subscriptionRepo: subscriptionRepo,
		profileRepo:      profileRepo,
		historyRepo:      historyRepo,
		locker:           locker,
		flags:            flags,
	}
}

// LoadReactionState returns the viewer's vote and whether they follow the
// video's channel. Anonymous viewers get the empty state without any lookup.
func (s *EngagementService) LoadReactionState(ctx context.Context, sess session.Session, videoID uint) (ReactionState, error) {
	state := ReactionState{Reaction: ReactionNone}
	if !sess.Authenticated() {
		return state, nil
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return state, err
	}
	like, err := s.reactionRepo.Get(ctx, sess.ViewerID, videoID)
	if err != nil {
		return state, err
	}
	subscribed, err := s.subscriptionRepo.Exists(ctx, sess.ViewerID, video.OwnerID)
	if err != nil {
		return state, err
	}

	state.Reaction = reactionOf(like)
	state.Subscribed = subscribed
	return state, nil
}

// React applies a like (wantLike) or dislike press.
func (s *EngagementService) React(ctx context.Context, sess session.Session, videoID uint, wantLike bool) (result ReactResult, err error) {
	if !sess.Authenticated() {
		return ReactResult{}, models.NewUnauthenticatedError("Sign in to react to videos")
	}

	ctx, span := observability.StartServiceSpan(ctx, "engagement", "React",
		attribute.Int64("video.id", int64(videoID)),
		attribute.Bool("reaction.like", wantLike),
	)
	defer func() { observability.EndSpan(span, err) }()

	if _, err = s.videoRepo.GetByID(ctx, videoID); err != nil {
		return ReactResult{}, err
	}

	err = s.locker.WithLock(ctx, "reaction", lock.VideoReactionKey(sess.ViewerID, videoID), func(ctx context.Context) error {
		prior, err := s.reactionRepo.Get(ctx, sess.ViewerID, videoID)
		if err != nil {
			return err
		}

		tr := transition(reactionOf(prior), wantLike)
		switch tr.op {
		case opDelete:
			err = s.reactionRepo.Delete(ctx, sess.ViewerID, videoID)
		default:
			err = s.reactionRepo.Upsert(ctx, sess.ViewerID, videoID, tr.next == ReactionLike)
		}
		if err != nil {
			return err
		}

		likes, dislikes, err := s.reactionRepo.Counts(ctx, videoID)
		if err != nil {
			return err
		}
		if err := s.videoRepo.SetReactionCounts(ctx, videoID, likes, dislikes); err != nil {
			return err
		}

		result = ReactResult{
			Reaction:     tr.next,
			LikeDelta:    tr.likeDelta,
			DislikeDelta: tr.dislikeDelta,
			LikeCount:    likes,
			DislikeCount: dislikes,
		}
		return nil
	})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "react failed",
			slog.Uint64("video_id", uint64(videoID)), slog.String("error", err.Error()))
		return ReactResult{}, err
	}

	observability.ReactionsTotal.WithLabelValues(string(result.Reaction)).Inc()
	cache.InvalidateVideo(ctx, videoID)
	return result, nil
}

// ToggleSubscription follows or unfollows channelID.
func (s *EngagementService) ToggleSubscription(ctx context.Context, sess session.Session, channelID uint) (result SubscriptionResult, err error) {
	if !sess.Authenticated() {
		return SubscriptionResult{}, models.NewUnauthenticatedError("Sign in to subscribe")
	}
	if sess.ViewerID == channelID {
		return SubscriptionResult{}, models.NewValidationError("You cannot subscribe to your own channel")
	}

	ctx, span := observability.StartServiceSpan(ctx, "engagement", "ToggleSubscription",
		attribute.Int64("channel.id", int64(channelID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if _, err = s.profileRepo.GetByID(ctx, channelID); err != nil {
		return SubscriptionResult{}, err
	}

	err = s.locker.WithLock(ctx, "subscription", lock.SubscriptionKey(sess.ViewerID, channelID), func(ctx context.Context) error {
		exists, err := s.subscriptionRepo.Exists(ctx, sess.ViewerID, channelID)
		if err != nil {
			return err
		}
		if exists {
			err = s.subscriptionRepo.Delete(ctx, sess.ViewerID, channelID)
		} else {
			err = s.subscriptionRepo.Create(ctx, sess.ViewerID, channelID)
		}
		if err != nil {
			return err
		}

		total, err := s.subscriptionRepo.RefreshSubscriberCount(ctx, channelID)
		if err != nil {
			return err
		}
		result = SubscriptionResult{Subscribed: !exists, SubscriberCount: total}
		return nil
	})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "subscription toggle failed",
			slog.Uint64("channel_id", uint64(channelID)), slog.String("error", err.Error()))
		return SubscriptionResult{}, err
	}

	direction := "unsubscribe"
	if result.Subscribed {
		direction = "subscribe"
	}
	observability.SubscriptionToggles.WithLabelValues(direction).Inc()
	return result, nil
}

// RecordView counts one view and, for signed-in viewers, appends a history
// row. Every call counts; duplicates are not suppressed.
func (s *EngagementService) RecordView(ctx context.Context, sess session.Session, videoID uint) (result ViewResult, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "engagement", "RecordView",
		attribute.Int64("video.id", int64(videoID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	mode := "read_write"
	var total int64
	if s.flags.Enabled(featureflags.AtomicViewCount, sess.ViewerID) {
		mode = "atomic"
		total, err = s.videoRepo.IncrementViews(ctx, videoID)
	} else {
		total, err = s.videoRepo.IncrementViewsReadWrite(ctx, videoID)
	}
	if err != nil {
		return ViewResult{}, err
	}
	observability.ViewsTotal.WithLabelValues(mode).Inc()
	result.ViewCount = total

	if sess.Authenticated() {
		if err = s.historyRepo.Append(ctx, sess.ViewerID, videoID); err != nil {
			middleware.Logger.ErrorContext(ctx, "watch history append failed",
				slog.Uint64("video_id", uint64(videoID)), slog.String("error", err.Error()))
			return result, err
		}
		result.HistoryWritten = true
	}
	return result, nil
}
