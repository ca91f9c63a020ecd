package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tweetline/tweetline/internal/models"
	"github.com/tweetline/tweetline/internal/repository"
	"github.com/tweetline/tweetline/pkg/logger"
	"github.com/tweetline/tweetline/pkg/queue"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// minPasswordLength is the registration floor; anything shorter is
// rejected before hashing.
const minPasswordLength = 6

// EventPublisher is the slice of the Kafka producer the services use.
// Event publishing is fire-and-forget: failures are logged, never
// surfaced to the request.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

type UserService struct {
	userRepo     *repository.UserRepository
	followerRepo *repository.FollowerRepository
	producer     EventPublisher
	logger       *logger.Logger
}

func NewUserService(userRepo *repository.UserRepository, followerRepo *repository.FollowerRepository, producer EventPublisher, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo:     userRepo,
		followerRepo: followerRepo,
		producer:     producer,
		logger:       logger,
	}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Gender   string `json:"gender"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type FollowRequest struct {
	Username string `json:"username"`
}

func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     req.Name,
		Username: req.Username,
		Password: string(hashedPassword),
		Gender:   req.Gender,
	}

	// The unique index on username is the duplicate check; a conflicting
	// insert comes back as a duplicated-key error regardless of how the
	// two registrations interleave.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	publishEvent(ctx, s.producer, s.logger, user.ID.String(), queue.EventUserRegistered, queue.UserEventData{
		UserID:   user.ID.String(),
		Username: user.Username,
	})

	s.logger.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidUser
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, nil
}

// Following lists the names of everyone the caller follows.
func (s *UserService) Following(ctx context.Context, userID string) ([]*models.NameItem, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return s.followerRepo.GetFollowingNames(ctx, id)
}

// Followers lists the names of everyone following the caller.
func (s *UserService) Followers(ctx context.Context, userID string) ([]*models.NameItem, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return s.followerRepo.GetFollowerNames(ctx, id)
}

// Follow creates a follow edge from the caller to the named user.
func (s *UserService) Follow(ctx context.Context, followerID, targetUsername string) error {
	followerUUID, err := uuid.Parse(followerID)
	if err != nil {
		return fmt.Errorf("invalid follower ID: %w", err)
	}

	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return fmt.Errorf("failed to get target user: %w", err)
	}
	if target == nil {
		return ErrUserNotFound
	}
	if target.ID == followerUUID {
		return ErrSelfFollow
	}

	follow := &models.Follower{
		FollowerUserID:  followerUUID,
		FollowingUserID: target.ID,
	}
	if err := s.followerRepo.Create(ctx, follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFollowing
		}
		return err
	}

	publishEvent(ctx, s.producer, s.logger, followerID, queue.EventFollowCreated, queue.FollowEventData{
		FollowerUserID:  followerID,
		FollowingUserID: target.ID.String(),
	})

	s.logger.WithFields(map[string]interface{}{
		"follower_user_id":  followerID,
		"following_user_id": target.ID,
	}).Info("Follow edge created")
	return nil
}

// Unfollow removes the caller's follow edge to followingID.
func (s *UserService) Unfollow(ctx context.Context, followerID, followingID string) error {
	followerUUID, err := uuid.Parse(followerID)
	if err != nil {
		return fmt.Errorf("invalid follower ID: %w", err)
	}
	followingUUID, err := uuid.Parse(followingID)
	if err != nil {
		return fmt.Errorf("invalid following ID: %w", err)
	}

	removed, err := s.followerRepo.Delete(ctx, followerUUID, followingUUID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrNotFollowing
	}

	publishEvent(ctx, s.producer, s.logger, followerID, queue.EventFollowDeleted, queue.FollowEventData{
		FollowerUserID:  followerID,
		FollowingUserID: followingID,
	})
	return nil
}
