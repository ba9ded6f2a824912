package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeLock struct {
	mu       sync.Mutex
	acquired bool
	denied   bool
	releases int
}

func (l *fakeLock) Acquire(context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.denied {
		return false, nil
	}
	l.acquired = true
	return true, nil
}

func (l *fakeLock) Release(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.releases++
	return nil
}

type countingJob struct {
	mu   sync.Mutex
	runs int
	err  error
}

func (j *countingJob) Name() string { return "counting-job" }

func (j *countingJob) Run(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs++
	return j.err
}

func (j *countingJob) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

func TestRegistrySkipsNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &countingJob{})
	registry.Register(nil)
	registry.Register(&countingJob{})
	if got := len(registry.Jobs()); got != 2 {
		t.Fatalf("expected 2 jobs, got %d", got)
	}
}

func TestServiceRunsJobsOnce(t *testing.T) {
	job := &countingJob{}
	lock := &fakeLock{}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for job.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("job never ran")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if lock.releases == 0 {
		t.Fatal("expected lock to be released")
	}
}

func TestServiceSkipsCycleWhenLockDenied(t *testing.T) {
	job := &countingJob{}
	lock := &fakeLock{denied: true}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle returned error: %v", err)
	}
	if job.count() != 0 {
		t.Fatal("expected job to be skipped while lock is held elsewhere")
	}
}

func TestServiceContinuesAfterJobFailure(t *testing.T) {
	failing := &countingJob{err: errors.New("boom")}
	trailing := &countingJob{}
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(failing, trailing),
		Lock:     &fakeLock{},
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle returned error: %v", err)
	}
	if trailing.count() != 1 {
		t.Fatal("expected the job after the failing one to run")
	}
}
