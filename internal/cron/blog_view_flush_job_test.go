package cron

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

type fakeViewBuffer struct {
	counters map[string]string
}

func (f *fakeViewBuffer) ScanKeys(ctx context.Context, match string) ([]string, error) {
	keys := make([]string, 0, len(f.counters))
	for key := range f.counters {
		keys = append(keys, key)
	}
	return keys, nil
}

func (f *fakeViewBuffer) GetDel(ctx context.Context, key string) (string, error) {
	value := f.counters[key]
	delete(f.counters, key)
	return value, nil
}

func (f *fakeViewBuffer) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	current, _ := strconv.ParseInt(f.counters[key], 10, 64)
	current += delta
	f.counters[key] = strconv.FormatInt(current, 10)
	return current, nil
}

func (f *fakeViewBuffer) ViewCountPattern() string { return "fc:blog_views:*" }

func (f *fakeViewBuffer) PostIDFromViewKey(key string) string {
	return key[len("fc:blog_views:"):]
}

type fakeViewSink struct {
	added map[uuid.UUID]int64
	err   error
}

func (f *fakeViewSink) AddViews(ctx context.Context, id uuid.UUID, delta int64) error {
	if f.err != nil {
		return f.err
	}
	if f.added == nil {
		f.added = make(map[uuid.UUID]int64)
	}
	f.added[id] += delta
	return nil
}

func TestBlogViewFlushJobDrainsCounters(t *testing.T) {
	postA := uuid.New()
	postB := uuid.New()
	buffer := &fakeViewBuffer{counters: map[string]string{
		"fc:blog_views:" + postA.String(): "7",
		"fc:blog_views:" + postB.String(): "2",
		"fc:blog_views:not-a-uuid":        "9",
	}}
	sink := &fakeViewSink{}

	job, err := NewBlogViewFlushJob(BlogViewFlushJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Buffer: buffer,
		Blog:   sink,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	if sink.added[postA] != 7 || sink.added[postB] != 2 {
		t.Fatalf("unexpected flushed counts %v", sink.added)
	}
	if len(sink.added) != 2 {
		t.Fatalf("malformed key should be dropped, got %v", sink.added)
	}
	if len(buffer.counters) != 0 {
		t.Fatalf("expected buffer drained, %d counters left", len(buffer.counters))
	}
}

func TestBlogViewFlushJobRebuffersOnSinkFailure(t *testing.T) {
	postID := uuid.New()
	key := "fc:blog_views:" + postID.String()
	buffer := &fakeViewBuffer{counters: map[string]string{key: "5"}}
	sink := &fakeViewSink{err: errors.New("db down")}

	job, err := NewBlogViewFlushJob(BlogViewFlushJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Buffer: buffer,
		Blog:   sink,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected the sink failure to surface")
	}
	// The drained delta went back into the counter for the next cycle.
	if buffer.counters[key] != "5" {
		t.Fatalf("expected counter restored to 5, got %q", buffer.counters[key])
	}

	sink.err = nil
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("retry cycle: %v", err)
	}
	if sink.added[postID] != 5 {
		t.Fatalf("expected retried flush of 5 views, got %d", sink.added[postID])
	}
	if len(buffer.counters) != 0 {
		t.Fatalf("expected buffer drained after retry, %v left", buffer.counters)
	}
}

func TestBlogViewFlushJobEmptyBuffer(t *testing.T) {
	job, err := NewBlogViewFlushJob(BlogViewFlushJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Buffer: &fakeViewBuffer{counters: map[string]string{}},
		Blog:   &fakeViewSink{},
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
}
