package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tweetline/tweetline/internal/models"
	"gorm.io/gorm"
)

type TweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) *TweetRepository {
	return &TweetRepository{db: db}
}

func (r *TweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}
	return nil
}

func (r *TweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.db.WithContext(ctx).First(&tweet, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tweet: %w", err)
	}
	return &tweet, nil
}

// GetFeed returns tweets authored by whoever userID follows, newest
// first, truncated to limit.
func (r *TweetRepository) GetFeed(ctx context.Context, userID uuid.UUID, limit int) ([]*models.FeedItem, error) {
	var items []*models.FeedItem
	if err := r.db.WithContext(ctx).
		Model(&models.Tweet{}).
		Select(`"user".username AS username, tweet.body AS tweet, tweet.date_time AS date_time`).
		Joins("JOIN follower ON follower.following_user_id = tweet.user_id").
		Joins(`JOIN "user" ON "user".id = tweet.user_id`).
		Where("follower.follower_user_id = ?", userID).
		Order("tweet.date_time DESC").
		Limit(limit).
		Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	return items, nil
}

// statsQuery aggregates like and reply counts per tweet with
// count-and-group sub-queries, coalescing missing engagement to 0.
func (r *TweetRepository) statsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Tweet{}).
		Select(`tweet.body AS tweet,
			COALESCE(lc.likes, 0) AS likes,
			COALESCE(rc.replies, 0) AS replies,
			tweet.date_time AS date_time`).
		Joins(`LEFT JOIN (SELECT tweet_id, COUNT(id) AS likes FROM "like" GROUP BY tweet_id) lc ON lc.tweet_id = tweet.id`).
		Joins(`LEFT JOIN (SELECT tweet_id, COUNT(id) AS replies FROM reply GROUP BY tweet_id) rc ON rc.tweet_id = tweet.id`)
}

// GetByUserWithStats returns all of userID's own tweets with their
// engagement counts, newest first.
func (r *TweetRepository) GetByUserWithStats(ctx context.Context, userID uuid.UUID) ([]*models.TweetStats, error) {
	var stats []*models.TweetStats
	if err := r.statsQuery(ctx).
		Where("tweet.user_id = ?", userID).
		Order("tweet.date_time DESC").
		Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to get tweets with stats: %w", err)
	}
	return stats, nil
}

func (r *TweetRepository) GetDetailWithStats(ctx context.Context, tweetID uuid.UUID) (*models.TweetStats, error) {
	var stats []*models.TweetStats
	if err := r.statsQuery(ctx).
		Where("tweet.id = ?", tweetID).
		Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to get tweet detail: %w", err)
	}
	if len(stats) == 0 {
		return nil, nil
	}
	return stats[0], nil
}

// DeleteOwned removes the tweet only when owned by userID, cascading to
// its likes and replies in the same transaction. Returns the number of
// tweet rows removed (0 means not found or not the owner).
func (r *TweetRepository) DeleteOwned(ctx context.Context, tweetID, userID uuid.UUID) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", tweetID, userID).Delete(&models.Tweet{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		if deleted == 0 {
			return nil
		}
		if err := tx.Where("tweet_id = ?", tweetID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("tweet_id = ?", tweetID).Delete(&models.Reply{}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete tweet: %w", err)
	}
	return deleted, nil
}
