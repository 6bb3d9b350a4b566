package service

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"vidtube/internal/lock"
	"vidtube/internal/middleware"
	"vidtube/internal/models"
	"vidtube/internal/observability"
	"vidtube/internal/repository"
	"vidtube/internal/session"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	maxCommentLen      = 10000
	replyFetchParallel = 8
)

// CommentNode is the display form shared by roots and replies.
type CommentNode struct {
	ID        uint            `json:"id"`
	VideoID   uint            `json:"video_id"`
	Author    *models.Profile `json:"author,omitempty"`
	Content   string          `json:"content"`
	LikeCount int64           `json:"like_count"`
	CreatedAt time.Time       `json:"created_at"`
	TimeAgo   string          `json:"time_ago"`
}

// Reply is a second-level comment. Replies cannot carry replies of their own.
type Reply struct {
	CommentNode
	ParentRootID uint `json:"parent_root_id"`
}

// RootComment is a top-level comment with its replies oldest first.
type RootComment struct {
	CommentNode
	Replies []Reply `json:"replies"`
}

type PostCommentInput struct {
	VideoID  uint
	Content  string
	ParentID *uint
}

// CommentLikeResult is the state after a comment like toggle.
type CommentLikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

type CommentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	locker      *lock.Locker
	now         func() time.Time
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	videoRepo repository.VideoRepository,
	locker *lock.Locker,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		locker:      locker,
		now:         time.Now,
	}
}

func (s *CommentService) node(c *models.Comment, now time.Time) CommentNode {
	return CommentNode{
		ID:        c.ID,
		VideoID:   c.VideoID,
		Author:    c.Author,
		Content:   c.Content,
		LikeCount: c.LikeCount,
		CreatedAt: c.CreatedAt,
		TimeAgo:   TimeAgo(c.CreatedAt, now),
	}
}

// LoadThread returns the video's roots newest first, each with its replies
// oldest first. Replies are fetched per root in parallel.
func (s *CommentService) LoadThread(ctx context.Context, videoID uint) (thread []RootComment, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "comments", "LoadThread",
		attribute.Int64("video.id", int64(videoID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if _, err = s.videoRepo.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	roots, err := s.commentRepo.ListRoots(ctx, videoID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "load root comments failed",
			slog.Uint64("video_id", uint64(videoID)), slog.String("error", err.Error()))
		return nil, err
	}

	replies := make([][]*models.Comment, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(replyFetchParallel)
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			list, err := s.commentRepo.ListReplies(gctx, root.ID)
			if err != nil {
				return err
			}
			replies[i] = list
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		middleware.Logger.ErrorContext(ctx, "load replies failed",
			slog.Uint64("video_id", uint64(videoID)), slog.String("error", err.Error()))
		return nil, err
	}

	now := s.now()
	thread = make([]RootComment, 0, len(roots))
	for i, root := range roots {
		rc := RootComment{CommentNode: s.node(root, now), Replies: make([]Reply, 0, len(replies[i]))}
		for _, r := range replies[i] {
			rc.Replies = append(rc.Replies, Reply{CommentNode: s.node(r, now), ParentRootID: root.ID})
		}
		thread = append(thread, rc)
	}
	return thread, nil
}

// PostComment creates a root comment, or a reply when ParentID is set.
func (s *CommentService) PostComment(ctx context.Context, sess session.Session, in PostCommentInput) (comment *models.Comment, err error) {
	if !sess.Authenticated() {
		return nil, models.NewUnauthenticatedError("Sign in to comment")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewFieldError("content", "is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return nil, models.NewFieldError("content", "must be at most 10000 characters")
	}

	ctx, span := observability.StartServiceSpan(ctx, "comments", "PostComment",
		attribute.Int64("video.id", int64(in.VideoID)),
		attribute.Bool("comment.reply", in.ParentID != nil),
	)
	defer func() { observability.EndSpan(span, err) }()

	if _, err = s.videoRepo.GetByID(ctx, in.VideoID); err != nil {
		return nil, err
	}

	kind := "root"
	if in.ParentID != nil {
		kind = "reply"
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if !parent.IsRoot() {
			return nil, models.NewFieldError("parent_id", "cannot reply to a reply")
		}
		if parent.VideoID != in.VideoID {
			return nil, models.NewFieldError("parent_id", "belongs to a different video")
		}
	}

	comment = &models.Comment{
		VideoID:  in.VideoID,
		AuthorID: sess.ViewerID,
		ParentID: in.ParentID,
		Content:  content,
	}
	if err = s.commentRepo.Create(ctx, comment); err != nil {
		middleware.Logger.ErrorContext(ctx, "create comment failed",
			slog.Uint64("video_id", uint64(in.VideoID)), slog.String("error", err.Error()))
		return nil, err
	}
	observability.CommentsPostedTotal.WithLabelValues(kind).Inc()

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ToggleCommentLike likes the comment, or removes an existing like.
func (s *CommentService) ToggleCommentLike(ctx context.Context, sess session.Session, commentID uint) (result CommentLikeResult, err error) {
	if !sess.Authenticated() {
		return CommentLikeResult{}, models.NewUnauthenticatedError("Sign in to like comments")
	}

	ctx, span := observability.StartServiceSpan(ctx, "comments", "ToggleCommentLike",
		attribute.Int64("comment.id", int64(commentID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if _, err = s.commentRepo.GetByID(ctx, commentID); err != nil {
		return CommentLikeResult{}, err
	}

	err = s.locker.WithLock(ctx, "comment_like", lock.CommentLikeKey(sess.ViewerID, commentID), func(ctx context.Context) error {
		liked, err := s.commentRepo.HasLike(ctx, commentID, sess.ViewerID)
		if err != nil {
			return err
		}
		if liked {
			err = s.commentRepo.RemoveLike(ctx, commentID, sess.ViewerID)
		} else {
			err = s.commentRepo.AddLike(ctx, commentID, sess.ViewerID)
		}
		if err != nil {
			return err
		}

		total, err := s.commentRepo.RefreshLikeCount(ctx, commentID)
		if err != nil {
			return err
		}
		result = CommentLikeResult{Liked: !liked, LikeCount: total}
		return nil
	})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "comment like toggle failed",
			slog.Uint64("comment_id", uint64(commentID)), slog.String("error", err.Error()))
		return CommentLikeResult{}, err
	}
	return result, nil
}
