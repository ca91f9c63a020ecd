package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tweetline/tweetline/internal/models"
	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts the like; the (tweet_id, user_id) unique index keeps the
// relation one-per-user and surfaces duplicates as gorm.ErrDuplicatedKey.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// GetLikerUsernames projects the usernames of everyone who liked the tweet.
func (r *LikeRepository) GetLikerUsernames(ctx context.Context, tweetID uuid.UUID) ([]string, error) {
	var usernames []string
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Joins(`JOIN "user" ON "user".id = "like".user_id`).
		Where(`"like".tweet_id = ?`, tweetID).
		Pluck(`"user".username`, &usernames).Error; err != nil {
		return nil, fmt.Errorf("failed to get likers: %w", err)
	}
	return usernames, nil
}
