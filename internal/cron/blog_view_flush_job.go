package cron

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"

	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

type viewBufferStore interface {
	ScanKeys(ctx context.Context, match string) ([]string, error)
	GetDel(ctx context.Context, key string) (string, error)
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)
	ViewCountPattern() string
	PostIDFromViewKey(key string) string
}

type blogViewSink interface {
	AddViews(ctx context.Context, id uuid.UUID, delta int64) error
}

// BlogViewFlushJobParams configures the buffered view-count flush.
type BlogViewFlushJobParams struct {
	Logger *logger.Logger
	Buffer viewBufferStore
	Blog   blogViewSink
}

// NewBlogViewFlushJob builds the job that folds redis-buffered blog view
// counters into the durable per-post counts.
func NewBlogViewFlushJob(params BlogViewFlushJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Buffer == nil {
		return nil, fmt.Errorf("view buffer required")
	}
	if params.Blog == nil {
		return nil, fmt.Errorf("blog repository required")
	}
	return &blogViewFlushJob{logg: params.Logger, buffer: params.Buffer, blog: params.Blog}, nil
}

type blogViewFlushJob struct {
	logg   *logger.Logger
	buffer viewBufferStore
	blog   blogViewSink
}

func (j *blogViewFlushJob) Name() string { return "blog-view-flush" }

// Run drains each buffered counter with GETDEL so a view incremented during
// the flush lands in the next cycle instead of being lost.
func (j *blogViewFlushJob) Run(ctx context.Context) error {
	keys, err := j.buffer.ScanKeys(ctx, j.buffer.ViewCountPattern())
	if err != nil {
		return fmt.Errorf("scan view buffers: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	var errs error
	flushed := 0
	for _, key := range keys {
		if err := j.flushKey(ctx, key); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("key %s: %w", key, err))
			continue
		}
		flushed++
	}

	j.logg.Info(j.logg.WithField(ctx, "flushed", flushed), "buffered blog views flushed")
	return errs
}

func (j *blogViewFlushJob) flushKey(ctx context.Context, key string) error {
	raw, err := j.buffer.GetDel(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("getdel: %w", err)
	}
	delta, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || delta <= 0 {
		return nil
	}
	postID, err := uuid.Parse(j.buffer.PostIDFromViewKey(key))
	if err != nil {
		return nil
	}

	if err := j.blog.AddViews(ctx, postID, delta); err != nil {
		// The counter was already drained; put the delta back so the
		// next cycle retries instead of dropping the views.
		if _, rbErr := j.buffer.IncrBy(ctx, key, delta); rbErr != nil {
			return multierr.Append(
				fmt.Errorf("add views: %w", err),
				fmt.Errorf("rebuffer %d views: %w", delta, rbErr),
			)
		}
		return fmt.Errorf("add views (rebuffered): %w", err)
	}
	return nil
}
