package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AChakka/LiftMate/internal/entity"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrCacheMiss = errors.New("session summary not cached")

type ISummaryCache interface {
	SetSessionSummary(ctx context.Context, summary entity.SessionSummary, expiration time.Duration) error
	GetSessionSummary(ctx context.Context, sessionID string) (entity.SessionSummary, error)
	Close() error
}

type Options struct {
	Address  string
	Password string
	DB       int
}

type redisClient struct {
	client *redis.Client
	log    *logrus.Logger
}

func New(opts Options, log *logrus.Logger) (ISummaryCache, error) {
	log.Info(fmt.Sprintf("Connecting to Redis at %s...", opts.Address))

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("Successfully connected to Redis")

	return &redisClient{client: client, log: log}, nil
}

func SummaryKey(sessionID string) string {
	return "liftmate:session:" + sessionID + ":summary"
}

func (r *redisClient) SetSessionSummary(ctx context.Context, summary entity.SessionSummary, expiration time.Duration) error {
	key := SummaryKey(summary.SessionID)
	payload, err := encodeSummary(summary)
	if err != nil {
		return err
	}

	r.log.Debug(fmt.Sprintf("Caching summary for key %s with expiration %v", key, expiration))
	if err := r.client.Set(ctx, key, payload, expiration).Err(); err != nil {
		r.log.Error(fmt.Sprintf("Error caching summary for key %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) GetSessionSummary(ctx context.Context, sessionID string) (entity.SessionSummary, error) {
	key := SummaryKey(sessionID)

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.log.Debug(fmt.Sprintf("Summary not found for key %s", key))
		return entity.SessionSummary{}, ErrCacheMiss
	} else if err != nil {
		r.log.Error(fmt.Sprintf("Error getting summary for key %s: %v", key, err))
		return entity.SessionSummary{}, err
	}

	return decodeSummary(val)
}

func (r *redisClient) Close() error {
	return r.client.Close()
}

func encodeSummary(summary entity.SessionSummary) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(summary)
}

func decodeSummary(payload []byte) (entity.SessionSummary, error) {
	var summary entity.SessionSummary
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(payload, &summary); err != nil {
		return entity.SessionSummary{}, fmt.Errorf("decode cached summary: %w", err)
	}
	return summary, nil
}
