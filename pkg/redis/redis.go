package redis

import (
	"Perception/internal/entity"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSessionNotFound is returned when no live session exists for an ID,
// either because it expired or because the user logged out.
var ErrSessionNotFound = errors.New("session not found")

type IRedis interface {
	SetSession(ctx context.Context, session entity.Session, expiration time.Duration) error
	GetSession(ctx context.Context, id string) (entity.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (r *redisClient) SetSession(ctx context.Context, session entity.Session, expiration time.Duration) error {
	err := r.client.HSet(ctx, sessionKey(session.ID), map[string]interface{}{
		"username":   session.Username,
		"created_at": session.CreatedAt.Format(time.RFC3339),
		"expires_at": session.ExpiresAt.Format(time.RFC3339),
	}).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error setting session %s: %v", session.ID, err))
		return err
	}

	if err := r.client.Expire(ctx, sessionKey(session.ID), expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error setting session TTL %s: %v", session.ID, err))
		return err
	}

	return nil
}

func (r *redisClient) GetSession(ctx context.Context, id string) (entity.Session, error) {
	vals, err := r.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error getting session %s: %v", id, err))
		return entity.Session{}, err
	}
	if len(vals) == 0 {
		return entity.Session{}, ErrSessionNotFound
	}

	createdAt, _ := time.Parse(time.RFC3339, vals["created_at"])
	expiresAt, _ := time.Parse(time.RFC3339, vals["expires_at"])

	return entity.Session{
		ID:        id,
		Username:  vals["username"],
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, nil
}

func (r *redisClient) DeleteSession(ctx context.Context, id string) error {
	result, err := r.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting session %s: %v", id, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("Session %s not found for deletion", id))
	}

	return nil
}
