package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "mealplan:session:"

// RedisStore keeps UiState as JSON under a per-chat key that expires after ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a client and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context, chatID int64) (UiState, error) {
	data, err := r.client.Get(ctx, key(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return UiState{}, nil
	}
	if err != nil {
		return UiState{}, fmt.Errorf("failed to load session %d: %w", chatID, err)
	}

	var state UiState
	if err := json.Unmarshal(data, &state); err != nil {
		return UiState{}, fmt.Errorf("failed to decode session %d: %w", chatID, err)
	}
	return state, nil
}

func (r *RedisStore) Save(ctx context.Context, chatID int64, state UiState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session %d: %w", chatID, err)
	}
	if err := r.client.Set(ctx, key(chatID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %d: %w", chatID, err)
	}
	return nil
}

func key(chatID int64) string {
	return keyPrefix + strconv.FormatInt(chatID, 10)
}
