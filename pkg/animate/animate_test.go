package animate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoopFrameNumbers(t *testing.T) {
	clock := NewManualClock()
	var frames []int
	done := make(chan error, 1)

	go func() {
		done <- Loop(context.Background(), clock, func(frame int) error {
			frames = append(frames, frame)
			if frame == 2 {
				return Stop
			}
			return nil
		})
	}()

	now := time.Now()
	for i := 0; i < 3; i++ {
		clock.Tick(now)
	}

	if err := <-done; err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if len(frames) != 3 || frames[0] != 0 || frames[1] != 1 || frames[2] != 2 {
		t.Errorf("frames: got %v, want [0 1 2]", frames)
	}
}

func TestLoopStopReturnsNil(t *testing.T) {
	clock := NewManualClock()
	done := make(chan error, 1)

	go func() {
		done <- Loop(context.Background(), clock, func(frame int) error {
			return Stop
		})
	}()
	clock.Tick(time.Now())

	if err := <-done; err != nil {
		t.Errorf("Stop should return nil, got %v", err)
	}
}

func TestLoopPropagatesError(t *testing.T) {
	clock := NewManualClock()
	boom := errors.New("boom")
	done := make(chan error, 1)

	go func() {
		done <- Loop(context.Background(), clock, func(frame int) error {
			return boom
		})
	}()
	clock.Tick(time.Now())

	if err := <-done; !errors.Is(err, boom) {
		t.Errorf("got %v, want boom", err)
	}
}

func TestLoopContextCancel(t *testing.T) {
	clock := NewManualClock()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Loop(ctx, clock, func(frame int) error {
			return nil
		})
	}()
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestRealClockTicks(t *testing.T) {
	clock := NewRealClock(time.Millisecond)
	defer clock.Stop()

	select {
	case <-clock.C():
	case <-time.After(time.Second):
		t.Fatal("real clock never ticked")
	}
}
