package service

import (
	"context"
	"testing"

	"vidtube/internal/models"
	"vidtube/internal/repository"

	"github.com/stretchr/testify/require"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, models.HasCode(err, code), "expected %s, got %v", code, err)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

func assertUnauthenticatedError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeUnauthenticated)
}

// videoRepoStub is a stub for repository.VideoRepository.
type videoRepoStub struct {
	listPublishedFn     func(context.Context, repository.VideoFilter) ([]*models.Video, error)
	getByIDFn           func(context.Context, uint) (*models.Video, error)
	createFn            func(context.Context, *models.Video) error
	incrementViewsFn    func(context.Context, uint) (int64, error)
	incrementViewsRWFn  func(context.Context, uint) (int64, error)
	setReactionCountsFn func(context.Context, uint, int64, int64) error
}

func (s *videoRepoStub) ListPublished(ctx context.Context, f repository.VideoFilter) ([]*models.Video, error) {
	return s.listPublishedFn(ctx, f)
}
func (s *videoRepoStub) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	return s.getByIDFn(ctx, id)
}
func (s *videoRepoStub) Create(ctx context.Context, v *models.Video) error {
	return s.createFn(ctx, v)
}
func (s *videoRepoStub) IncrementViews(ctx context.Context, id uint) (int64, error) {
	return s.incrementViewsFn(ctx, id)
}
func (s *videoRepoStub) IncrementViewsReadWrite(ctx context.Context, id uint) (int64, error) {
	return s.incrementViewsRWFn(ctx, id)
}
func (s *videoRepoStub) SetReactionCounts(ctx context.Context, id uint, likes, dislikes int64) error {
	return s.setReactionCountsFn(ctx, id, likes, dislikes)
}

func noopVideoRepo() *videoRepoStub {
	return &videoRepoStub{
		listPublishedFn: func(context.Context, repository.VideoFilter) ([]*models.Video, error) { return nil, nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Video, error) {
			return &models.Video{ID: id, OwnerID: 100, Status: models.VideoStatusPublished}, nil
		},
		createFn:            func(context.Context, *models.Video) error { return nil },
		incrementViewsFn:    func(context.Context, uint) (int64, error) { return 1, nil },
		incrementViewsRWFn:  func(context.Context, uint) (int64, error) { return 1, nil },
		setReactionCountsFn: func(context.Context, uint, int64, int64) error { return nil },
	}
}

// reactionRepoStub keeps votes in memory so toggle sequences can be replayed.
type reactionRepoStub struct {
	votes  map[[2]uint]bool
	getErr error
}

func newReactionRepoStub() *reactionRepoStub {
	return &reactionRepoStub{votes: map[[2]uint]bool{}}
}

func (s *reactionRepoStub) Get(_ context.Context, userID, videoID uint) (*models.VideoLike, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	isLike, ok := s.votes[[2]uint{userID, videoID}]
	if !ok {
		return nil, nil
	}
	return &models.VideoLike{UserID: userID, VideoID: videoID, IsLike: isLike}, nil
}
func (s *reactionRepoStub) Upsert(_ context.Context, userID, videoID uint, isLike bool) error {
	s.votes[[2]uint{userID, videoID}] = isLike
	return nil
}
func (s *reactionRepoStub) Delete(_ context.Context, userID, videoID uint) error {
	delete(s.votes, [2]uint{userID, videoID})
	return nil
}
func (s *reactionRepoStub) Counts(_ context.Context, videoID uint) (int64, int64, error) {
	var likes, dislikes int64
	for key, isLike := range s.votes {
		if key[1] != videoID {
			continue
		}
		if isLike {
			likes++
		} else {
			dislikes++
		}
	}
	return likes, dislikes, nil
}

// subscriptionRepoStub keeps subscriptions in memory.
type subscriptionRepoStub struct {
	subs     map[[2]uint]bool
	existsFn func(context.Context, uint, uint) (bool, error)
}

func newSubscriptionRepoStub() *subscriptionRepoStub {
	return &subscriptionRepoStub{subs: map[[2]uint]bool{}}
}

func (s *subscriptionRepoStub) Exists(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	if s.existsFn != nil {
		return s.existsFn(ctx, subscriberID, channelID)
	}
	return s.subs[[2]uint{subscriberID, channelID}], nil
}
func (s *subscriptionRepoStub) Create(_ context.Context, subscriberID, channelID uint) error {
	s.subs[[2]uint{subscriberID, channelID}] = true
	return nil
}
func (s *subscriptionRepoStub) Delete(_ context.Context, subscriberID, channelID uint) error {
	delete(s.subs, [2]uint{subscriberID, channelID})
	return nil
}
func (s *subscriptionRepoStub) RefreshSubscriberCount(_ context.Context, channelID uint) (int64, error) {
	var total int64
	for key := range s.subs {
		if key[1] == channelID {
			total++
		}
	}
	return total, nil
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByIDFn func(context.Context, uint) (*models.Profile, error)
	createFn  func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) Create(ctx context.Context, p *models.Profile) error {
	return s.createFn(ctx, p)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Profile, error) { return &models.Profile{ID: id}, nil },
		createFn:  func(context.Context, *models.Profile) error { return nil },
	}
}

// historyRepoStub is a stub for repository.WatchHistoryRepository.
type historyRepoStub struct {
	appendFn     func(context.Context, uint, uint) error
	listByUserFn func(context.Context, uint, int, int) ([]*models.WatchHistory, error)
}

func (s *historyRepoStub) Append(ctx context.Context, userID, videoID uint) error {
	return s.appendFn(ctx, userID, videoID)
}
func (s *historyRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.WatchHistory, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}

func noopHistoryRepo() *historyRepoStub {
	return &historyRepoStub{
		appendFn:     func(context.Context, uint, uint) error { return nil },
		listByUserFn: func(context.Context, uint, int, int) ([]*models.WatchHistory, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn           func(context.Context, *models.Comment) error
	getByIDFn          func(context.Context, uint) (*models.Comment, error)
	listRootsFn        func(context.Context, uint) ([]*models.Comment, error)
	listRepliesFn      func(context.Context, uint) ([]*models.Comment, error)
	hasLikeFn          func(context.Context, uint, uint) (bool, error)
	addLikeFn          func(context.Context, uint, uint) error
	removeLikeFn       func(context.Context, uint, uint) error
	refreshLikeCountFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListRoots(ctx context.Context, videoID uint) ([]*models.Comment, error) {
	return s.listRootsFn(ctx, videoID)
}
func (s *commentRepoStub) ListReplies(ctx context.Context, parentID uint) ([]*models.Comment, error) {
	return s.listRepliesFn(ctx, parentID)
}
func (s *commentRepoStub) HasLike(ctx context.Context, commentID, userID uint) (bool, error) {
	return s.hasLikeFn(ctx, commentID, userID)
}
func (s *commentRepoStub) AddLike(ctx context.Context, commentID, userID uint) error {
	return s.addLikeFn(ctx, commentID, userID)
}
func (s *commentRepoStub) RemoveLike(ctx context.Context, commentID, userID uint) error {
	return s.removeLikeFn(ctx, commentID, userID)
}
func (s *commentRepoStub) RefreshLikeCount(ctx context.Context, commentID uint) (int64, error) {
	return s.refreshLikeCountFn(ctx, commentID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(context.Context, *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, VideoID: 1}, nil
		},
		listRootsFn: func(context.Context, uint) ([]*models.Comment, error) {
			return nil, nil
		},
		listRepliesFn: func(context.Context, uint) ([]*models.Comment, error) {
			return nil, nil
		},
		hasLikeFn:          func(context.Context, uint, uint) (bool, error) { return false, nil },
		addLikeFn:          func(context.Context, uint, uint) error { return nil },
		removeLikeFn:       func(context.Context, uint, uint) error { return nil },
		refreshLikeCountFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}
