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

import "time"

// policy is the dispatch target an RWLock's priority selects once, at
// construction time, and never changes afterward - so there is no
// partially-initialized vtable for a concurrent reader to observe.
//
// Try-read and try-write are not part of this interface: try-write is
// identical for every policy (RWLock.TryWLock implements it directly),
// and try-read differs from policy to policy only in whether it
// pre-checks writeWaiting before touching the counter, which is exposed
// as the single precheckTryRead method below.
type policy interface {
	precheckTryRead() bool
	timedRead(l *RWLock, deadline time.Time) error
	read(l *RWLock)
	timedWrite(l *RWLock, deadline time.Time) error
	write(l *RWLock)
	unlockWrite(l *RWLock)
}

// policyConfig captures the handful of knobs that actually differ between
// the three priority policies. Every policy's behavior is otherwise
// identical, so they share one engine implementation parameterized by
// this struct rather than duplicating the acquisition loops three times.
type policyConfig struct {
	// precheckTryReadFlag: TryRLock fails fast on writeWaiting instead of
	// touching the counter. True for ReadPriority and NoPriority; false
	// for WritePriority.
	precheckTryReadFlag bool

	// recheckBeforeRace: a reader that wakes from parking re-checks
	// writeWaiting before racing the counter, looping back to park again
	// if it is still set ("while"). False means the reader races the
	// counter unconditionally after its first wakeup ("if"), which is
	// ReadPriority's rush-the-readers-in behavior.
	recheckBeforeRace bool

	// trackReadWaiting/trackTimedReadWaiters: whether this policy
	// maintains the readWaiting/timedReadWaiters hints at all.
	// WritePriority tracks neither.
	trackReadWaiting      bool
	trackTimedReadWaiters bool

	// coalesceWriters: a writer arriving at the gate while writeWaiting
	// is already set inherits the current writer's ownership instead of
	// racing its own CAS. Only WritePriority does this; its counterpart
	// on release is that the gate is released without resetting body
	// whenever other writers remain queued.
	coalesceWriters bool
}

var (
	readPriorityConfig = policyConfig{
		precheckTryReadFlag:   true,
		recheckBeforeRace:     false,
		trackReadWaiting:      true,
		trackTimedReadWaiters: true,
		coalesceWriters:       false,
	}
	noPriorityConfig = policyConfig{
		precheckTryReadFlag:   true,
		recheckBeforeRace:     true,
		trackReadWaiting:      true,
		trackTimedReadWaiters: true,
		coalesceWriters:       false,
	}
	writePriorityConfig = policyConfig{
		precheckTryReadFlag:   false,
		recheckBeforeRace:     true,
		trackReadWaiting:      false,
		trackTimedReadWaiters: false,
		coalesceWriters:       true,
	}
)

// engine implements policy for a given policyConfig. readPriorityPolicy,
// noPriorityPolicy, and writePriorityPolicy are the three distinct named
// types a constructed RWLock actually holds; each is just an engine
// wrapping its own config, which keeps the three policies as genuinely
// distinct types callers can type-switch or log on, without tripling the
// acquisition logic across three copy-pasted implementations.
type engine struct {
	cfg policyConfig
}

type readPriorityPolicy struct{ engine }
type noPriorityPolicy struct{ engine }
type writePriorityPolicy struct{ engine }

func policyFor(p Policy) (policy, error) {
	switch p {
	case ReadPriority:
		return readPriorityPolicy{engine{readPriorityConfig}}, nil
	case NoPriority:
		return noPriorityPolicy{engine{noPriorityConfig}}, nil
	case WritePriority:
		return writePriorityPolicy{engine{writePriorityConfig}}, nil
	default:
		return nil, ErrInvalidArgument
	}
}

func (e engine) precheckTryRead() bool { return e.cfg.precheckTryReadFlag }

// tryReadImpl is the shared try-read entry point every policy's TryRLock
// call funnels through. precheck pre-filters the common "writer owns"
// case before touching the counter, which would otherwise transiently
// disturb a writer's CAS; WritePriority skips this filter (see
// policyConfig.precheckTryReadFlag).
func tryReadImpl(l *RWLock, precheck bool) error {
	if precheck && l.writeWaiting.Load() {
		return ErrBusy
	}
	if cnt := l.body.Add(1); cnt > 0 {
		return nil
	}
	l.body.Add(-1)
	return ErrBusy
}

// parkForWriter blocks the calling reader behind the gate until
// writeWaiting clears (or a spurious wakeup): acquire the gate, re-check
// writeWaiting under it, wait on the condvar if still set, release the
// gate.
func (e engine) parkForWriter(l *RWLock) {
	if e.cfg.trackReadWaiting {
		l.readWaiting.Store(true)
	}
	acquireGateBlocking(&l.gate)
	if l.writeWaiting.Load() {
		l.cond.Wait()
	}
	l.gate.Unlock()
}

// parkForWriterTimed is parkForWriter's timed counterpart. It reports
// whether the deadline elapsed before the reader could be released.
func (e engine) parkForWriterTimed(l *RWLock, deadline time.Time) (timedOut bool) {
	if e.cfg.trackReadWaiting {
		l.readWaiting.Store(true)
	}
	if e.cfg.trackTimedReadWaiters {
		l.timedReadWaiters.Add(1)
		defer l.timedReadWaiters.Add(^uint32(0))
	}
	if !acquireGateTimed(&l.gate, deadline) {
		return true
	}
	if l.writeWaiting.Load() {
		timedOut = waitOnCondUntil(&l.cond, deadline)
	}
	l.gate.Unlock()
	return timedOut
}

// read is the blocking-read entry point shared by all three policies.
func (e engine) read(l *RWLock) {
	for {
		if l.writeWaiting.Load() {
			e.parkForWriter(l)
			if e.cfg.recheckBeforeRace {
				continue
			}
		}
		if cnt := l.body.Add(1); cnt > 0 {
			return
		}
		l.body.Add(-1)
	}
}

// timedRead is the timed-read entry point shared by all three policies.
func (e engine) timedRead(l *RWLock, deadline time.Time) error {
	for {
		if l.writeWaiting.Load() {
			if e.parkForWriterTimed(l, deadline) {
				return ErrTimeout
			}
			if e.cfg.recheckBeforeRace {
				if remaining(deadline) <= 0 {
					return ErrTimeout
				}
				continue
			}
		}
		if cnt := l.body.Add(1); cnt > 0 {
			return nil
		}
		l.body.Add(-1)
		if remaining(deadline) <= 0 {
			return ErrTimeout
		}
	}
}

// acquireWriterSlotBlocking performs the gate acquisition and writer-count
// bookkeeping for write (acquireWriterSlotTimed does the same for
// timedWrite), returning true if the caller inherited an in-progress writer's ownership (WritePriority
// coalescing) and should return immediately without touching body.
func (e engine) acquireWriterSlotBlocking(l *RWLock) (coalesced bool) {
	if e.cfg.coalesceWriters {
		l.writers.Add(1)
	}
	acquireGateBlocking(&l.gate)
	if !e.cfg.coalesceWriters {
		l.writers.Add(1)
		return false
	}
	return l.writeWaiting.Load()
}

func (e engine) acquireWriterSlotTimed(l *RWLock, deadline time.Time) (coalesced, timedOut bool) {
	if e.cfg.coalesceWriters {
		l.writers.Add(1)
	}
	if !acquireGateTimed(&l.gate, deadline) {
		if e.cfg.coalesceWriters {
			l.writers.Add(^uint32(0))
		}
		return false, true
	}
	if !e.cfg.coalesceWriters {
		l.writers.Add(1)
		return false, false
	}
	return l.writeWaiting.Load(), false
}

// write is the blocking-write entry point shared by all three policies.
func (e engine) write(l *RWLock) {
	if e.acquireWriterSlotBlocking(l) {
		// Coalesced: inherit the current writer's ownership window.
		// Gate remains held until unlockWrite.
		return
	}
	l.writeWaiting.Store(true)
	for {
		if l.body.CompareAndSwap(0, writerBody) {
			return
		}
		if l.interval > 0 {
			time.Sleep(l.interval)
		}
	}
}

// timedWrite is the timed-write entry point shared by all three
// policies.
func (e engine) timedWrite(l *RWLock, deadline time.Time) error {
	coalesced, timedOut := e.acquireWriterSlotTimed(l, deadline)
	if timedOut {
		return ErrTimeout
	}
	if coalesced {
		return nil
	}
	l.writeWaiting.Store(true)
	for {
		if l.body.CompareAndSwap(0, writerBody) {
			return nil
		}
		if rem := remaining(deadline); rem <= 0 {
			e.abortWaitingWriter(l)
			l.gate.Unlock()
			return ErrTimeout
		} else if l.interval > 0 {
			time.Sleep(minDuration(rem, l.interval))
		}
	}
}

// abortWaitingWriter undoes a timed writer's bookkeeping after its
// deadline elapsed without acquiring body. It clears the writeWaiting
// flag the writer set, so a queued WritePriority writer does not coalesce
// into an ownership window that never began. If no writer remains queued
// behind it (or, for policies that track reader hints, if readers are
// also waiting), it wakes any parked readers before the gate is released
// by the caller.
func (e engine) abortWaitingWriter(l *RWLock) {
	l.writeWaiting.Store(false)
	remainingWriters := l.writers.Add(^uint32(0))
	if remainingWriters == 0 ||
		(e.cfg.trackReadWaiting && l.readWaiting.Load()) ||
		(e.cfg.trackTimedReadWaiters && l.timedReadWaiters.Load() > 0) {
		l.cond.Broadcast()
	}
}

// unlockWrite releases the write acquisition held by the calling
// goroutine.
//
// WritePriority (coalesceWriters) is the only policy that can skip
// resetting body back to idle on release: when another writer is already
// queued behind the gate, that writer will inherit ownership directly
// (see acquireWriterSlotBlocking/Timed) rather than re-racing the CAS, so
// leaving body at writerBody and writeWaiting set is exactly what lets it
// do so. ReadPriority and NoPriority have no such inheritance path, so
// they always reset body and broadcast on every release regardless of
// how many writers remain queued - this is also what lets a parked
// reader interleave between two queued writers under those policies,
// matching their non-starving-of-readers intent.
func (e engine) unlockWrite(l *RWLock) {
	if e.cfg.coalesceWriters {
		if l.writers.Add(^uint32(0)) != 0 {
			l.gate.Unlock()
			return
		}
	} else {
		l.writers.Add(^uint32(0))
	}
	for !l.body.CompareAndSwap(writerBody, 0) {
	}
	l.writeWaiting.Store(false)
	l.cond.Broadcast()
	l.gate.Unlock()
}
