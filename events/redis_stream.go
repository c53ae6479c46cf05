package events

import (
	"context"
	"fmt"
	"time"

	"github.com/mini-social/api-go/models"
	"github.com/redis/go-redis/v9"
)

const DefaultStreamMaxLen = 10000

// RedisStream appends activity entries to a Redis stream with XADD.
type RedisStream struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisStream(client *redis.Client, stream string) *RedisStream {
	return &RedisStream{client: client, stream: stream, maxLen: DefaultStreamMaxLen}
}

func (r *RedisStream) Publish(ctx context.Context, activity models.ActivityLog) error {
	err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"id":         activity.ID.String(),
			"activity":   activity.Activity,
			"user_id":    activity.UserID.String(),
			"post_id":    activity.PostID.String(),
			"created_at": activity.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", r.stream, err)
	}
	return nil
}
