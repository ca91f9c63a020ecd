package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tweetline/tweetline/internal/models"
	"gorm.io/gorm"
)

type FollowerRepository struct {
	db *gorm.DB
}

func NewFollowerRepository(db *gorm.DB) *FollowerRepository {
	return &FollowerRepository{db: db}
}

func (r *FollowerRepository) Create(ctx context.Context, follow *models.Follower) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		return fmt.Errorf("failed to create follow edge: %w", err)
	}
	return nil
}

// Delete removes the edge and reports how many rows went away so callers
// can distinguish "was not following" from success.
func (r *FollowerRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("follower_user_id = ? AND following_user_id = ?", followerID, followingID).
		Delete(&models.Follower{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete follow edge: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// GetFollowingNames projects the names of everyone userID follows.
func (r *FollowerRepository) GetFollowingNames(ctx context.Context, userID uuid.UUID) ([]*models.NameItem, error) {
	var names []*models.NameItem
	if err := r.db.WithContext(ctx).
		Model(&models.Follower{}).
		Select(`"user".name AS name`).
		Joins(`JOIN "user" ON "user".id = follower.following_user_id`).
		Where("follower.follower_user_id = ?", userID).
		Scan(&names).Error; err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	return names, nil
}

// GetFollowerNames projects the names of everyone following userID.
func (r *FollowerRepository) GetFollowerNames(ctx context.Context, userID uuid.UUID) ([]*models.NameItem, error) {
	var names []*models.NameItem
	if err := r.db.WithContext(ctx).
		Model(&models.Follower{}).
		Select(`"user".name AS name`).
		Joins(`JOIN "user" ON "user".id = follower.follower_user_id`).
		Where("follower.following_user_id = ?", userID).
		Scan(&names).Error; err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	return names, nil
}

// CanViewTweet is the visibility gate: true iff a follow edge exists from
// the viewer to the tweet's author. A nonexistent tweet matches nothing
// and therefore yields false.
func (r *FollowerRepository) CanViewTweet(ctx context.Context, viewerID, tweetID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Tweet{}).
		Joins("JOIN follower ON follower.following_user_id = tweet.user_id").
		Where("tweet.id = ? AND follower.follower_user_id = ?", tweetID, viewerID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check tweet visibility: %w", err)
	}
	return count > 0, nil
}
