package parallel

import "context"
import "errors"
import "sync/atomic"
import "testing"
import "time"

func TestForEachVisitsAll(t *testing.T) {
	var seen [100]atomic.Bool
	var running, peak atomic.Int32
	ForEach(len(seen), 4, func(i int) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		seen[i].Store(true)
		running.Add(-1)
	})
	for i := range seen {
		if !seen[i].Load() {
			t.Fatalf("index %d not visited", i)
		}
	}
	if peak.Load() > 4 {
		t.Errorf("limit exceeded: %d", peak.Load())
	}
}

func TestForEachContextError(t *testing.T) {
	boom := errors.New("boom")
	err := ForEachContext(context.Background(), 1000, 2, func(i int) error {
		if i == 10 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestForEachContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int32
	err := ForEachContext(ctx, 100, 2, func(i int) error {
		calls.Add(1)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoopUntil(t *testing.T) {
	var found atomic.Uint32
	Loop(4).LoopUntil(func(i uint32, ender LoopStopper) bool {
		if i == 1000 {
			found.Store(i)
			return true
		}
		return false
	})
	if found.Load() != 1000 {
		t.Errorf("loop stopped before reaching 1000")
	}
}

func TestLoopUntilContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int64
	Loop(3).LoopUntilContext(ctx, func(i uint32, ender LoopStopper) bool {
		if calls.Add(1) == 100 {
			cancel()
		}
		return false
	})
	if calls.Load() < 100 {
		t.Errorf("loop stopped after %d calls", calls.Load())
	}

	calls.Store(0)
	Loop(2).LoopUntilContext(ctx, func(i uint32, ender LoopStopper) bool {
		calls.Add(1)
		return false
	})
	if n := calls.Load(); n < 2 {
		t.Errorf("each goroutine runs once on a done context, got %d calls", n)
	}
}
