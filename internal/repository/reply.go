package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tweetline/tweetline/internal/models"
	"gorm.io/gorm"
)

type ReplyRepository struct {
	db *gorm.DB
}

func NewReplyRepository(db *gorm.DB) *ReplyRepository {
	return &ReplyRepository{db: db}
}

func (r *ReplyRepository) Create(ctx context.Context, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return fmt.Errorf("failed to create reply: %w", err)
	}
	return nil
}

// GetByTweetID projects each replier's name alongside the reply body.
func (r *ReplyRepository) GetByTweetID(ctx context.Context, tweetID uuid.UUID) ([]*models.ReplyItem, error) {
	var replies []*models.ReplyItem
	if err := r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Select(`"user".name AS name, reply.body AS reply`).
		Joins(`JOIN "user" ON "user".id = reply.user_id`).
		Where("reply.tweet_id = ?", tweetID).
		Scan(&replies).Error; err != nil {
		return nil, fmt.Errorf("failed to get replies: %w", err)
	}
	return replies, nil
}
