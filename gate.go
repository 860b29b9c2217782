// Copyright 2026 The go-priorwlock Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package priorwlock

import (
	"sync"
	"time"
)

// gateSpins is how many extra non-blocking attempts the adaptive gate
// makes before falling back to a blocking or timed acquisition. The first
// attempt plus these seven more give eight non-blocking tries in total
// before a goroutine ever parks.
const gateSpins = 7

// acquireGateBlocking implements the adaptive gate: it first tries the
// mutex non-blockingly, and if that fails, spins through gateSpins more
// non-blocking attempts before falling back to a blocking Lock. The short
// spin avoids syscall/park cost under light contention; the fallback
// preserves correctness under heavier contention.
func acquireGateBlocking(mu *sync.Mutex) {
	for i := 0; i < 1+gateSpins; i++ {
		if mu.TryLock() {
			return
		}
	}
	mu.Lock()
}

// acquireGateTimed is the timed counterpart: it spins the same way, then
// falls back to a deadline-bounded acquisition. It reports whether the
// gate was acquired before the deadline elapsed.
//
// sync.Mutex has no native timed Lock, so the fallback launches a helper
// goroutine to perform the blocking Lock and races it against a timer -
// the same goroutine+select shape the context-aware reader/writer mutex
// in this module's reference pack uses to bound an otherwise-unbounded
// acquisition. If the timer wins the race, the helper goroutine may still
// go on to acquire the mutex later; a second goroutine is parked to
// release it the moment that happens so the gate is never left held by
// an abandoned caller.
func acquireGateTimed(mu *sync.Mutex, deadline time.Time) bool {
	for i := 0; i < 1+gateSpins; i++ {
		if mu.TryLock() {
			return true
		}
	}

	rem := remaining(deadline)
	if rem <= 0 {
		return false
	}

	acquired := make(chan struct{})
	go func() {
		mu.Lock()
		close(acquired)
	}()

	timer := time.NewTimer(rem)
	defer timer.Stop()

	select {
	case <-acquired:
		return true
	case <-timer.C:
		go func() {
			<-acquired
			mu.Unlock()
		}()
		return false
	}
}

// waitOnCondUntil parks the calling goroutine on c until either it is
// woken (by Signal/Broadcast or a spurious wakeup) or deadline elapses.
// The caller must hold c.L. Returns true if the deadline had already
// elapsed by the time control returns to the caller.
//
// sync.Cond has no native timed Wait. This arms a timer that broadcasts
// on c under c.L when it fires, which wakes every parked waiter
// (including ones with a later deadline of their own - they simply loop
// and re-wait) rather than leaking a goroutine blocked forever in Wait.
func waitOnCondUntil(c *sync.Cond, deadline time.Time) (expired bool) {
	rem := remaining(deadline)
	if rem <= 0 {
		return true
	}

	timer := time.AfterFunc(rem, func() {
		c.L.Lock()
		c.Broadcast()
		c.L.Unlock()
	})
	defer timer.Stop()

	c.Wait()
	return !now().Before(deadline)
}
