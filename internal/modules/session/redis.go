package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	perrors "github.com/yungbote/mongoarchitect-backend/internal/pkg/errors"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

const (
	keyPrefix  = "mongoarchitect:session:"
	DefaultTTL = 24 * time.Hour
)

// NewRedisClient dials addr and pings it before handing the client out.
func NewRedisClient(addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

type RedisStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisStore stores each session as one JSON value that expires ttl after
// its last save.
func NewRedisStore(rdb *goredis.Client, ttl time.Duration, log *logger.Logger) (*RedisStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		log: log.With("service", "RedisSessionStore"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func redisKey(key string) string { return keyPrefix + normalizeKey(key) }

func (r *RedisStore) Get(ctx context.Context, key string) (*Session, error) {
	raw, err := r.rdb.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, perrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		r.log.Warn("dropping unreadable session", "session_id", normalizeKey(key), "error", err)
		_ = r.rdb.Del(ctx, redisKey(key)).Err()
		return nil, perrors.ErrNotFound
	}
	return &s, nil
}

func (r *RedisStore) Create(ctx context.Context, key string) (*Session, error) {
	s := New(normalizeKey(key))
	if err := r.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	if s == nil {
		return fmt.Errorf("session required")
	}
	s.Key = normalizeKey(s.Key)
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, redisKey(s.Key), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error { return r.rdb.Close() }
