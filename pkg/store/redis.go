package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/farelock/pkg/errors"
)

// RedisKey is the list holding reports, newest at the head.
const RedisKey = "farelock:reports"

// RedisStore keeps reports in a capped Redis list.
type RedisStore struct {
	client     *redis.Client
	key        string
	maxReports int
}

// NewRedisStore connects to the server at rawURL (redis://host:port/db)
// and verifies the connection. maxReports caps the list length; zero keeps
// everything.
func NewRedisStore(ctx context.Context, rawURL string, maxReports int) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to redis at %s", opts.Addr)
	}
	return NewRedisStoreFromClient(client, maxReports), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, maxReports int) *RedisStore {
	return &RedisStore{client: client, key: RedisKey, maxReports: maxReports}
}

func (s *RedisStore) Save(ctx context.Context, r Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "marshal report")
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key, data)
	if s.maxReports > 0 {
		pipe.LTrim(ctx, s.key, 0, int64(s.maxReports-1))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save report %s", r.ID)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, limit int) ([]Report, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	values, err := s.client.LRange(ctx, s.key, 0, stop).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list reports")
	}

	reports := make([]Report, 0, len(values))
	for _, v := range values {
		var r Report
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			continue
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
