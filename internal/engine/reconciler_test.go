package engine

import (
	"testing"
	"time"
)

func TestReconciler_ScheduleReload(t *testing.T) {
	fired := make(chan struct{}, 1)
	reconciler := NewReconciler(func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	reconciler.Start()
	defer reconciler.Stop()

	reconciler.ScheduleReload(10 * time.Millisecond)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("Reload did not fire")
	}
}

func TestReconciler_StopCancelsPending(t *testing.T) {
	fired := make(chan struct{}, 1)
	reconciler := NewReconciler(func() {
		fired <- struct{}{}
	})

	reconciler.Start()
	reconciler.ScheduleReload(time.Hour)

	done := make(chan struct{})
	go func() {
		reconciler.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return with a pending reload")
	}

	select {
	case <-fired:
		t.Error("Cancelled reload must not fire")
	default:
	}
}

// A full queue drops requests instead of blocking the caller.
func TestReconciler_FullQueueDoesNotBlock(t *testing.T) {
	reconciler := NewReconciler(func() {})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			reconciler.ScheduleReload(time.Hour)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ScheduleReload blocked on a full queue")
	}
}
