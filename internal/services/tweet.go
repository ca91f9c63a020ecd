package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tweetline/tweetline/internal/models"
	"github.com/tweetline/tweetline/internal/repository"
	"github.com/tweetline/tweetline/pkg/logger"
	"github.com/tweetline/tweetline/pkg/queue"
	"gorm.io/gorm"
)

// feedLimit is the hard ceiling on feed entries. It is a design
// constant, not configuration; there is no pagination cursor.
const feedLimit = 4

type TweetService struct {
	tweetRepo    *repository.TweetRepository
	likeRepo     *repository.LikeRepository
	replyRepo    *repository.ReplyRepository
	followerRepo *repository.FollowerRepository
	producer     EventPublisher
	logger       *logger.Logger
}

func NewTweetService(tweetRepo *repository.TweetRepository, likeRepo *repository.LikeRepository, replyRepo *repository.ReplyRepository, followerRepo *repository.FollowerRepository, producer EventPublisher, logger *logger.Logger) *TweetService {
	return &TweetService{
		tweetRepo:    tweetRepo,
		likeRepo:     likeRepo,
		replyRepo:    replyRepo,
		followerRepo: followerRepo,
		producer:     producer,
		logger:       logger,
	}
}

type CreateTweetRequest struct {
	Tweet string `json:"tweet"`
}

type CreateReplyRequest struct {
	Reply string `json:"reply"`
}

// authorize runs the visibility gate for a tweet-scoped read: the viewer
// must follow the tweet's author. A tweet that does not exist fails the
// same way as one the viewer may not see.
func (s *TweetService) authorize(ctx context.Context, viewerID, tweetID string) (viewer, tweet uuid.UUID, err error) {
	viewerUUID, err := uuid.Parse(viewerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, ErrUnauthorized
	}
	tweetUUID, err := uuid.Parse(tweetID)
	if err != nil {
		return uuid.Nil, uuid.Nil, ErrUnauthorized
	}

	canView, err := s.followerRepo.CanViewTweet(ctx, viewerUUID, tweetUUID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if !canView {
		return uuid.Nil, uuid.Nil, ErrUnauthorized
	}
	return viewerUUID, tweetUUID, nil
}

// Feed returns the latest tweets from followed authors, newest first,
// capped at feedLimit entries.
func (s *TweetService) Feed(ctx context.Context, userID string) ([]*models.FeedItem, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return s.tweetRepo.GetFeed(ctx, id, feedLimit)
}

// OwnTweets returns the caller's tweets with engagement counts.
func (s *TweetService) OwnTweets(ctx context.Context, userID string) ([]*models.TweetStats, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return s.tweetRepo.GetByUserWithStats(ctx, id)
}

// Detail returns one tweet's body and engagement counts, gated on the
// viewer following the author.
func (s *TweetService) Detail(ctx context.Context, viewerID, tweetID string) (*models.TweetStats, error) {
	_, tweetUUID, err := s.authorize(ctx, viewerID, tweetID)
	if err != nil {
		return nil, err
	}

	stats, err := s.tweetRepo.GetDetailWithStats(ctx, tweetUUID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		// Gate passed but the row vanished between queries.
		return nil, ErrUnauthorized
	}
	return stats, nil
}

// Likers returns the usernames that liked the tweet, gated like Detail.
func (s *TweetService) Likers(ctx context.Context, viewerID, tweetID string) ([]string, error) {
	_, tweetUUID, err := s.authorize(ctx, viewerID, tweetID)
	if err != nil {
		return nil, err
	}
	return s.likeRepo.GetLikerUsernames(ctx, tweetUUID)
}

// Repliers returns the name and body of each reply, gated like Detail.
func (s *TweetService) Repliers(ctx context.Context, viewerID, tweetID string) ([]*models.ReplyItem, error) {
	_, tweetUUID, err := s.authorize(ctx, viewerID, tweetID)
	if err != nil {
		return nil, err
	}
	return s.replyRepo.GetByTweetID(ctx, tweetUUID)
}

func (s *TweetService) Create(ctx context.Context, userID string, req *CreateTweetRequest) (*models.Tweet, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	tweet := &models.Tweet{
		UserID:   id,
		Body:     req.Tweet,
		DateTime: time.Now().UTC().Format(models.DateTimeLayout),
	}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.producer, s.logger, userID, queue.EventTweetCreated, queue.TweetEventData{
		TweetID:  tweet.ID.String(),
		UserID:   userID,
		DateTime: tweet.DateTime,
	})

	s.logger.WithField("tweet_id", tweet.ID).Info("Tweet created")
	return tweet, nil
}

// Delete removes the caller's own tweet together with its likes and
// replies. A tweet that is missing or owned by someone else reports
// ErrUnauthorized; nothing is removed.
func (s *TweetService) Delete(ctx context.Context, userID, tweetID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return ErrUnauthorized
	}
	tweetUUID, err := uuid.Parse(tweetID)
	if err != nil {
		return ErrUnauthorized
	}

	deleted, err := s.tweetRepo.DeleteOwned(ctx, tweetUUID, userUUID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrUnauthorized
	}

	publishEvent(ctx, s.producer, s.logger, userID, queue.EventTweetDeleted, queue.TweetEventData{
		TweetID: tweetID,
		UserID:  userID,
	})

	s.logger.WithField("tweet_id", tweetID).Info("Tweet removed")
	return nil
}

// Like records a like from the viewer, gated on visibility. Liking the
// same tweet twice is rejected.
func (s *TweetService) Like(ctx context.Context, viewerID, tweetID string) error {
	viewerUUID, tweetUUID, err := s.authorize(ctx, viewerID, tweetID)
	if err != nil {
		return err
	}

	like := &models.Like{
		TweetID: tweetUUID,
		UserID:  viewerUUID,
	}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyLiked
		}
		return err
	}

	publishEvent(ctx, s.producer, s.logger, viewerID, queue.EventLikeCreated, queue.LikeEventData{
		TweetID: tweetID,
		UserID:  viewerID,
	})
	return nil
}

// Reply records a reply from the viewer, gated on visibility.
func (s *TweetService) Reply(ctx context.Context, viewerID, tweetID string, req *CreateReplyRequest) error {
	viewerUUID, tweetUUID, err := s.authorize(ctx, viewerID, tweetID)
	if err != nil {
		return err
	}

	reply := &models.Reply{
		TweetID: tweetUUID,
		UserID:  viewerUUID,
		Body:    req.Reply,
	}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return err
	}

	publishEvent(ctx, s.producer, s.logger, viewerID, queue.EventReplyCreated, queue.ReplyEventData{
		TweetID: tweetID,
		UserID:  viewerID,
	})
	return nil
}
