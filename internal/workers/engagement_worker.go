package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tweetline/tweetline/internal/models"
	"github.com/tweetline/tweetline/pkg/cache"
	"github.com/tweetline/tweetline/pkg/logger"
	"github.com/tweetline/tweetline/pkg/queue"
)

const (
	// recentTweetsKey holds a zset of tweet IDs scored by creation time,
	// trimmed to recentTweetsMax entries.
	recentTweetsKey = "tweets:recent"
	recentTweetsMax = 1000

	counterKeyPrefix = "tweet:counters:"
	counterTTL       = 7 * 24 * time.Hour
)

// EngagementWorker consumes domain events and maintains engagement
// counters in Redis. Nothing in the serving path reads these; the HTTP
// handlers always answer from the relational store.
type EngagementWorker struct {
	cache    *cache.RedisClient
	consumer *queue.KafkaConsumer
	logger   *logger.Logger
}

func NewEngagementWorker(cache *cache.RedisClient, consumer *queue.KafkaConsumer, logger *logger.Logger) *EngagementWorker {
	return &EngagementWorker{
		cache:    cache,
		consumer: consumer,
		logger:   logger,
	}
}

func (w *EngagementWorker) Start(ctx context.Context) error {
	w.logger.Info("Engagement worker started")
	return w.consumer.Subscribe(ctx, func(msg queue.Message) error {
		if err := w.Handle(ctx, msg.Value); err != nil {
			w.logger.WithError(err).Error("Failed to handle event")
			return err
		}
		return nil
	})
}

func (w *EngagementWorker) Stop() error {
	return w.consumer.Close()
}

// Handle applies one raw event payload to the Redis counters.
func (w *EngagementWorker) Handle(ctx context.Context, payload []byte) error {
	var event queue.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}

	switch event.Type {
	case queue.EventTweetCreated:
		var data queue.TweetEventData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("failed to decode tweet event: %w", err)
		}
		return w.trackTweet(ctx, &data)

	case queue.EventTweetDeleted:
		var data queue.TweetEventData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("failed to decode tweet event: %w", err)
		}
		return w.forgetTweet(ctx, data.TweetID)

	case queue.EventLikeCreated:
		var data queue.LikeEventData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("failed to decode like event: %w", err)
		}
		return w.bumpCounter(ctx, data.TweetID, "likes")

	case queue.EventReplyCreated:
		var data queue.ReplyEventData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("failed to decode reply event: %w", err)
		}
		return w.bumpCounter(ctx, data.TweetID, "replies")

	default:
		// Registration and follow events carry nothing to count yet.
		w.logger.WithField("event_type", event.Type).Debug("Event ignored")
		return nil
	}
}

func (w *EngagementWorker) trackTweet(ctx context.Context, data *queue.TweetEventData) error {
	score := float64(time.Now().Unix())
	if ts, err := time.Parse(models.DateTimeLayout, data.DateTime); err == nil {
		score = float64(ts.Unix())
	}

	if err := w.cache.ZAdd(ctx, recentTweetsKey, &redis.Z{Score: score, Member: data.TweetID}); err != nil {
		return fmt.Errorf("failed to track tweet: %w", err)
	}
	// Keep only the newest recentTweetsMax entries.
	return w.cache.ZRemRangeByRank(ctx, recentTweetsKey, 0, -(recentTweetsMax + 1))
}

func (w *EngagementWorker) forgetTweet(ctx context.Context, tweetID string) error {
	if err := w.cache.ZRem(ctx, recentTweetsKey, tweetID); err != nil {
		return fmt.Errorf("failed to drop tweet from recents: %w", err)
	}
	return w.cache.Delete(ctx, counterKeyPrefix+tweetID)
}

func (w *EngagementWorker) bumpCounter(ctx context.Context, tweetID, field string) error {
	key := counterKeyPrefix + tweetID
	if err := w.cache.HIncrBy(ctx, key, field, 1); err != nil {
		return fmt.Errorf("failed to bump %s counter: %w", field, err)
	}
	return w.cache.Expire(ctx, key, counterTTL)
}
