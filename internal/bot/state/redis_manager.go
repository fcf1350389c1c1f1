package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
)

// SessionTTL expires abandoned onboarding dialogues
const SessionTTL = 24 * time.Hour

// RedisManager keeps onboarding sessions in Redis
type RedisManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisManager creates a new Redis-based state manager
func NewRedisManager(redisHost, redisPort, password string) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", redisHost, redisPort),
		Password:     password,
		DB:           0,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisManagerWithClient(client), nil
}

// NewRedisManagerWithClient wraps an existing client
func NewRedisManagerWithClient(client *redis.Client) *RedisManager {
	return &RedisManager{client: client, ttl: SessionTTL}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("user:%d:onboarding", userID)
}

// Get returns the session of a user, or nil when there is none
func (m *RedisManager) Get(ctx context.Context, userID int64) (*domain.OnboardingSession, error) {
	data, err := m.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "redis")
	}

	var session domain.OnboardingSession
	if err := json.Unmarshal(data, &session); err != nil {
		// A corrupt value is treated as no session
		m.client.Del(ctx, sessionKey(userID))
		return nil, nil
	}
	return &session, nil
}

// Save stores the session with TTL
func (m *RedisManager) Save(ctx context.Context, session *domain.OnboardingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := m.client.Set(ctx, sessionKey(session.UserID), data, m.ttl).Err(); err != nil {
		return apperrors.NewExternalAPIError(err, "redis")
	}
	return nil
}

// Delete removes the session of a user
func (m *RedisManager) Delete(ctx context.Context, userID int64) error {
	if err := m.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.NewExternalAPIError(err, "redis")
	}
	return nil
}

// Close closes the Redis connection
func (m *RedisManager) Close() error {
	return m.client.Close()
}
