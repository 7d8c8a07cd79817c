package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

type countingLoader struct {
	calls int32
}

func (l *countingLoader) Load() {
	atomic.AddInt32(&l.calls, 1)
}

func TestSchedulerDisabled(t *testing.T) {
	loader := &countingLoader{}
	s := New(0, loader)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	if s.Running() {
		t.Fatalf("disabled scheduler should not run")
	}
	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt32(&loader.calls); got != 0 {
		t.Fatalf("loads = %d, want 0", got)
	}
}

func TestSchedulerLoadsImmediately(t *testing.T) {
	loader := &countingLoader{}
	s := New(time.Hour, loader)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&loader.calls) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("scheduler never triggered a load")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !s.Running() {
		t.Fatalf("scheduler should report running")
	}
}
