package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"url-shortener-web/internal/domain"
)

// redisStore implements the Store interface using Redis
type redisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis session store
// Returns error if connection fails
func NewRedisStore(addr, password string, db int) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisStore{client: client}, nil
}

// Load reads and decodes a session
func (s *redisStore) Load(ctx context.Context, id string) (State, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("redis get failed: %w", err)
	}

	var state State
	if err := json.Unmarshal(val, &state); err != nil {
		return State{}, fmt.Errorf("decode session %s: %w", id, err)
	}

	return state, nil
}

// Save encodes a session and stores it with SET EX
func (s *redisStore) Save(ctx context.Context, id string, state State, ttl time.Duration) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}

	if err := s.client.Set(ctx, s.key(id), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// Delete removes a session from Redis
func (s *redisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

// Close closes the Redis connection
func (s *redisStore) Close() error {
	return s.client.Close()
}

// key adds a namespace prefix to avoid key collisions
func (s *redisStore) key(id string) string {
	return fmt.Sprintf("urlshortener-web:session:%s", id)
}
