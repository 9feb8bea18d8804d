package repositories

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisNotificationStream struct {
	client *redis.Client
}

func NewRedisNotificationStream(client *redis.Client) *RedisNotificationStream {
	return &RedisNotificationStream{client: client}
}

func (s *RedisNotificationStream) channel(userID uint) string {
	return fmt.Sprintf("notifications:%d", userID)
}

func (s *RedisNotificationStream) Publish(ctx context.Context, userID uint, payload []byte) error {
	return s.client.Publish(ctx, s.channel(userID), payload).Err()
}
