package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Service is a Redis-backed cache for computed values (dashboard summaries).
// A nil *Service is a valid no-op cache.
type Service struct {
	client *redis.Client
}

func NewService(redisURL string) (*Service, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis URL")
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return &Service{client: client}, nil
}

// Get unmarshals the cached value for key into dest; the bool reports a hit.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if s == nil {
		return false, nil
	}
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "cache get")
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, errors.Wrap(err, "cache unmarshal")
	}
	return true, nil
}

func (s *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "cache marshal")
	}
	return errors.Wrap(s.client.Set(ctx, key, data, ttl).Err(), "cache set")
}

func (s *Service) Delete(ctx context.Context, key string) error {
	if s == nil {
		return nil
	}
	return errors.Wrap(s.client.Del(ctx, key).Err(), "cache delete")
}

func (s *Service) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}
