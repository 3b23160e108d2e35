package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
)

type fakeLock struct {
	held     bool
	acquires int
	releases int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	f.acquires++
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.releases++
	f.held = false
	return nil
}

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func newTestService(t *testing.T, lock Lock, jobs ...Job) *Service {
	t.Helper()
	service, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: NewRegistry(jobs...),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return service
}

func TestCycleRunsEveryJobDespiteFailures(t *testing.T) {
	good := &testJob{name: "good"}
	bad := &testJob{name: "bad", err: errors.New("boom")}
	lock := &fakeLock{}
	service := newTestService(t, lock, good, bad)

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if good.runs != 1 || bad.runs != 1 {
		t.Fatalf("expected each job to run once, got good=%d bad=%d", good.runs, bad.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("expected lock released once, got %d", lock.releases)
	}
}

func TestCycleSkipsWhenLockHeldElsewhere(t *testing.T) {
	job := &testJob{name: "job"}
	lock := &fakeLock{held: true}
	service := newTestService(t, lock, job)

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job must not run without the lock, ran %d", job.runs)
	}
	if lock.releases != 0 {
		t.Fatalf("must not release a lock it never acquired")
	}
}
