package blog

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/redis"
)

// RedisViewBuffer keeps per-post view counters in redis so the public read
// path never writes to the posts table.
type RedisViewBuffer struct {
	rdb *redis.Client
}

// NewRedisViewBuffer wraps the shared redis client.
func NewRedisViewBuffer(rdb *redis.Client) *RedisViewBuffer {
	return &RedisViewBuffer{rdb: rdb}
}

func (b *RedisViewBuffer) BufferView(ctx context.Context, postID uuid.UUID) error {
	_, err := b.rdb.Incr(ctx, b.rdb.ViewCountKey(postID.String()))
	return err
}
