package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tweetline/tweetline/internal/config"
	"github.com/tweetline/tweetline/internal/repository"
	"github.com/tweetline/tweetline/pkg/logger"
)

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	return nil
}

type testEnv struct {
	db           *repository.Database
	userRepo     *repository.UserRepository
	followerRepo *repository.FollowerRepository
	tweetRepo    *repository.TweetRepository
	likeRepo     *repository.LikeRepository
	replyRepo    *repository.ReplyRepository
	users        *UserService
	tweets       *TweetService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewDatabase(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	log := logger.NewLogger()
	env := &testEnv{
		db:           db,
		userRepo:     repository.NewUserRepository(db.DB),
		followerRepo: repository.NewFollowerRepository(db.DB),
		tweetRepo:    repository.NewTweetRepository(db.DB),
		likeRepo:     repository.NewLikeRepository(db.DB),
		replyRepo:    repository.NewReplyRepository(db.DB),
	}
	env.users = NewUserService(env.userRepo, env.followerRepo, nopPublisher{}, log)
	env.tweets = NewTweetService(env.tweetRepo, env.likeRepo, env.replyRepo, env.followerRepo, nopPublisher{}, log)
	return env
}
