// Package parallel contains the bounded ForEach and the open ended LoopUntil used by training.
package parallel

import "context"
import "math"
import "sync"
import "sync/atomic"

// LoopStopper reports whether a LoopUntil has been asked to stop.
type LoopStopper interface {
	Load() bool
}

// Loop is the number of goroutines of LoopUntil
type Loop int

// LoopUntil hands out 0, 1, 2, ... to the goroutines of l until a yield returns true.
func (l Loop) LoopUntil(yield func(i uint32, ender LoopStopper) bool) {
	l.LoopUntilContext(context.Background(), yield)
}

// LoopUntilContext is LoopUntil which also stops when ctx is done. Every
// goroutine runs at least one iteration, iterations already running finish
// before it returns.
func (l Loop) LoopUntilContext(ctx context.Context, yield func(i uint32, ender LoopStopper) bool) {
	var (
		next atomic.Uint32
		stop atomic.Bool
		wg   sync.WaitGroup
	)
	if done := ctx.Done(); done != nil {
		finished := make(chan struct{})
		defer close(finished)
		go func() {
			select {
			case <-done:
				stop.Store(true)
			case <-finished:
			}
		}()
	}

	workers := max(int(l), 1)
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for first := true; first || !stop.Load(); first = false {
				i := next.Add(1) - 1
				if i == math.MaxUint32 {
					stop.Store(true)
					return
				}
				if yield(i, &stop) {
					stop.Store(true)
				}
			}
		}()
	}
	wg.Wait()
}
