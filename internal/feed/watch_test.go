package feed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"stall-system/internal/common/logger"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestWatchInitialFetchAndSignals(t *testing.T) {
	h := NewHub()
	defer h.Close()

	var refreshes atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		Watch(ctx, h, func(context.Context) error {
			refreshes.Add(1)
			return nil
		}, logger.New("watch-test"))
	}()

	// initial full fetch happens without any signal
	waitFor(t, func() bool { return refreshes.Load() >= 1 })

	h.Notify()
	waitFor(t, func() bool { return refreshes.Load() >= 2 })

	// duplicate signals are a harmless cue to refetch again
	h.Notify()
	h.Notify()
	waitFor(t, func() bool { return refreshes.Load() >= 3 })

	cancel()
	<-done
}

func TestWatchSurvivesRefreshFailure(t *testing.T) {
	h := NewHub()
	defer h.Close()

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		Watch(ctx, h, func(context.Context) error {
			calls.Add(1)
			return errors.New("connection reset")
		}, logger.New("watch-test"))
	}()

	waitFor(t, func() bool { return calls.Load() >= 1 })
	h.Notify()
	waitFor(t, func() bool { return calls.Load() >= 2 })

	cancel()
	<-done
}

func TestWatchStopsWhenFeedCloses(t *testing.T) {
	h := NewHub()
	done := make(chan struct{})
	go func() {
		defer close(done)
		Watch(context.Background(), h, func(context.Context) error { return nil }, logger.New("watch-test"))
	}()

	time.Sleep(10 * time.Millisecond)
	h.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop after feed close")
	}
}
