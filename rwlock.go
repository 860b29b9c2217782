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

// Package priorwlock implements a reader-writer synchronization primitive
// built on a single signed atomic counter, augmented with a supporting
// mutex and condition variable. It offers three priority policies -
// ReadPriority, NoPriority, and WritePriority - and supports blocking,
// try, and timed acquisition in both read and write modes.
//
// ## Overview
//
// The lock's state lives almost entirely in one int32, called body.
// body == 0 means idle. body > 0 means that many readers hold the lock.
// body == math.MinInt32 means a single writer holds the lock. Readers
// acquire optimistically: they add 1 to body and check whether the result
// is still positive, undoing the add if a writer got there first. Writers
// instead go through a supporting gate (a sync.Mutex) that serializes
// them against each other, and retry a CAS from 0 to math.MinInt32 under
// that gate until outstanding readers have drained.
//
// A condition variable anchored on the gate parks readers that cannot
// make progress while a writer is pending; writers never wait on it. It
// is always broadcast, never signaled, because more than one reader may
// be parked on it at once.
//
// The three priority policies differ in a few places: the predicate a
// waiting reader uses to decide whether a writer blocks it, whether
// TryRLock fails fast on a pending writer, whether the reader-waiting
// hints are maintained, whether a releasing writer broadcasts when other
// writers are queued, and whether a second writer arriving at the gate
// coalesces into an already-waiting writer's ownership window instead of
// re-racing the counter. See policy.go for the concrete differences.
//
// This package does not support upgradeable or downgradeable locks,
// recursive acquisition of the same mode by the same goroutine, or strict
// FIFO fairness. Starvation of the non-preferred class under sustained
// load is possible under ReadPriority and WritePriority by design.
package priorwlock

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// writerBody is the sentinel value of the body counter that indicates a
// single writer holds the lock.
const writerBody = math.MinInt32

// RWLock is a reader-writer lock selectable among three priority
// policies. The zero value is not usable; construct one with New or
// NewWithAttr.
type RWLock struct {
	body             atomic.Int32
	writers          atomic.Uint32
	timedReadWaiters atomic.Uint32
	readWaiting      atomic.Bool
	writeWaiting     atomic.Bool
	closed           atomic.Bool

	interval time.Duration
	policy   policy

	gate sync.Mutex
	cond sync.Cond
}

// New returns a ready-to-use RWLock with the default attributes:
// ReadPriority and a zero write-lock interval.
func New() *RWLock {
	l, err := NewWithAttr(NewAttr())
	if err != nil {
		// NewAttr's defaults are always valid; this cannot happen.
		panic(err)
	}
	return l
}

// NewWithAttr returns a ready-to-use RWLock configured from attr. A nil
// attr is equivalent to New(). It fails only if attr holds a policy that
// somehow bypassed Attr.SetPolicy's validation.
func NewWithAttr(attr *Attr) (*RWLock, error) {
	if attr == nil {
		attr = NewAttr()
	}
	p, err := policyFor(attr.Policy())
	if err != nil {
		return nil, err
	}

	l := &RWLock{
		interval: attr.WriteLockInterval(),
		policy:   p,
	}
	l.cond.L = &l.gate
	return l, nil
}

// Close marks the lock closed. Every subsequent TryRLock, TimedRLock,
// TryWLock and TimedWLock call returns ErrClosed; RLock and WLock, which
// have no error return, do not check for it. Close does not itself release any OS resources -
// sync.Mutex and sync.Cond need none - it exists so this package's
// lifecycle mirrors the explicit init/destroy pairing of the primitive it
// is modeled on, and so that use-after-destroy is an observable error
// instead of undefined behavior.
//
// Close must not be called while any goroutine holds the lock; doing so
// is undefined, exactly as for the underlying primitive.
func (l *RWLock) Close() error {
	l.closed.Store(true)
	return nil
}

func (l *RWLock) checkOpen() error {
	if l.closed.Load() {
		return ErrClosed
	}
	return nil
}

// TryRLock attempts to acquire the lock for reading without blocking. It
// returns ErrBusy if the lock is currently held by a writer, or, under
// ReadPriority and NoPriority, about to be held by one. Under
// WritePriority a pending writer that has not yet claimed the counter
// does not make TryRLock fail.
func (l *RWLock) TryRLock() error {
	if err := l.checkOpen(); err != nil {
		return err
	}
	return tryReadImpl(l, l.policy.precheckTryRead())
}

// TimedRLock attempts to acquire the lock for reading, blocking until
// either it succeeds or deadline elapses. It returns ErrTimeout in the
// latter case, having undone its counter probe and its timed-waiter
// count; a readWaiting hint it set stays set.
func (l *RWLock) TimedRLock(deadline time.Time) error {
	if err := l.checkOpen(); err != nil {
		return err
	}
	return l.policy.timedRead(l, deadline)
}

// RLock acquires the lock for reading, blocking until it succeeds.
func (l *RWLock) RLock() {
	// RLock has no error return in this package's API (mirroring the
	// blocking rlock() of the primitive this is modeled on, which cannot
	// itself fail once the lock is validly constructed); ErrClosed use
	// after Close is still a programming error, just one this call
	// cannot usefully report without breaking that symmetry, so callers
	// needing to detect it should prefer TimedRLock with a generous
	// deadline.
	l.policy.read(l)
}

// RUnlock releases a single read acquisition. It is undefined to call
// RUnlock without a matching successful read acquisition.
func (l *RWLock) RUnlock() {
	l.body.Add(-1)
}

// TryWLock attempts to acquire the lock for writing without blocking. It
// returns ErrBusy if the supporting gate or the counter is currently
// unavailable. This entry point is shared by all three policies; only the
// timed and blocking write paths differ between them.
func (l *RWLock) TryWLock() error {
	if err := l.checkOpen(); err != nil {
		return err
	}
	if !l.gate.TryLock() {
		return ErrBusy
	}
	if l.body.CompareAndSwap(0, writerBody) {
		l.writers.Add(1)
		l.writeWaiting.Store(true)
		// Gate remains held; WUnlock releases it.
		return nil
	}
	l.gate.Unlock()
	return ErrBusy
}

// TimedWLock attempts to acquire the lock for writing, blocking until
// either it succeeds or deadline elapses.
func (l *RWLock) TimedWLock(deadline time.Time) error {
	if err := l.checkOpen(); err != nil {
		return err
	}
	return l.policy.timedWrite(l, deadline)
}

// WLock acquires the lock for writing, blocking until it succeeds.
func (l *RWLock) WLock() {
	l.policy.write(l)
}

// WUnlock releases the write acquisition held by the calling goroutine.
// It is undefined to call WUnlock without a matching successful write
// acquisition.
func (l *RWLock) WUnlock() {
	l.policy.unlockWrite(l)
}
