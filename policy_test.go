package priorwlock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPolicyForRejectsUnknown checks policyFor's validation, independent
// of Attr.SetPolicy (which also validates, but at construction time).
func TestPolicyForRejectsUnknown(t *testing.T) {
	p, err := policyFor(Policy(-1))
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// TestPolicyForReturnsDistinctTypes checks that each Policy dispatches to
// its own named engine wrapper, not just a shared engine value - the
// point of the readPriorityPolicy/noPriorityPolicy/writePriorityPolicy
// wrapper types.
func TestPolicyForReturnsDistinctTypes(t *testing.T) {
	rp, err := policyFor(ReadPriority)
	assert.NoError(t, err)
	_, ok := rp.(readPriorityPolicy)
	assert.True(t, ok, "ReadPriority must dispatch to readPriorityPolicy")

	np, err := policyFor(NoPriority)
	assert.NoError(t, err)
	_, ok = np.(noPriorityPolicy)
	assert.True(t, ok, "NoPriority must dispatch to noPriorityPolicy")

	wp, err := policyFor(WritePriority)
	assert.NoError(t, err)
	_, ok = wp.(writePriorityPolicy)
	assert.True(t, ok, "WritePriority must dispatch to writePriorityPolicy")
}

// TestPolicyConfigsMatchDesign pins the three configs' knobs against the
// component-design table: only WritePriority skips the try-read
// precheck and coalesces writers; only ReadPriority races the counter
// unconditionally after a single wakeup.
func TestPolicyConfigsMatchDesign(t *testing.T) {
	assert.True(t, readPriorityConfig.precheckTryReadFlag)
	assert.False(t, readPriorityConfig.recheckBeforeRace)
	assert.True(t, readPriorityConfig.trackReadWaiting)
	assert.True(t, readPriorityConfig.trackTimedReadWaiters)
	assert.False(t, readPriorityConfig.coalesceWriters)

	assert.True(t, noPriorityConfig.precheckTryReadFlag)
	assert.True(t, noPriorityConfig.recheckBeforeRace)
	assert.True(t, noPriorityConfig.trackReadWaiting)
	assert.True(t, noPriorityConfig.trackTimedReadWaiters)
	assert.False(t, noPriorityConfig.coalesceWriters)

	assert.False(t, writePriorityConfig.precheckTryReadFlag)
	assert.True(t, writePriorityConfig.recheckBeforeRace)
	assert.False(t, writePriorityConfig.trackReadWaiting)
	assert.False(t, writePriorityConfig.trackTimedReadWaiters)
	assert.True(t, writePriorityConfig.coalesceWriters)
}

// TestTryReadImplSucceedsWhenIdle checks the shared try-read helper
// directly: against an idle lock it must succeed and leave body at 1.
func TestTryReadImplSucceedsWhenIdle(t *testing.T) {
	l := New()
	assert.NoError(t, tryReadImpl(l, true))
	assert.Equal(t, int32(1), l.DebugBody())
	l.RUnlock()
}

// TestTryReadImplPrecheckShortCircuits checks that, with precheck
// enabled, a set writeWaiting flag fails the attempt without ever
// touching body - the optimization ReadPriority/NoPriority rely on to
// avoid disturbing a writer's own CAS.
func TestTryReadImplPrecheckShortCircuits(t *testing.T) {
	l := New()
	l.writeWaiting.Store(true)
	assert.ErrorIs(t, tryReadImpl(l, true), ErrBusy)
	assert.Equal(t, int32(0), l.DebugBody(), "precheck failure must not touch body")
}

// TestTryReadImplWithoutPrecheckStillRejectsWriter checks WritePriority's
// path: it skips the writeWaiting precheck, but a writer actually
// holding body (not just writeWaiting set) must still be rejected by the
// counter race itself, with body left unchanged.
func TestTryReadImplWithoutPrecheckStillRejectsWriter(t *testing.T) {
	l := New()
	l.body.Store(writerBody)
	assert.ErrorIs(t, tryReadImpl(l, false), ErrBusy)
	assert.Equal(t, int32(writerBody), l.DebugBody())
}

// TestAcquireWriterSlotBlockingNoCoalesce checks that a non-coalescing
// policy always increments writers after acquiring the gate and reports
// no coalescing, regardless of writeWaiting's state.
func TestAcquireWriterSlotBlockingNoCoalesce(t *testing.T) {
	l := New()
	e := engine{readPriorityConfig}
	l.writeWaiting.Store(true) // must not matter for a non-coalescing config
	coalesced := e.acquireWriterSlotBlocking(l)
	assert.False(t, coalesced)
	assert.Equal(t, uint32(1), l.DebugWriters())
	l.gate.Unlock()
}

// TestAcquireWriterSlotBlockingCoalesces checks WritePriority's
// coalescing signal: if writeWaiting is already set by the time the
// caller's turn at the gate arrives, acquireWriterSlotBlocking reports
// coalesced and leaves body alone for the caller to skip racing the CAS.
func TestAcquireWriterSlotBlockingCoalesces(t *testing.T) {
	l := New()
	e := engine{writePriorityConfig}
	l.writeWaiting.Store(true)
	coalesced := e.acquireWriterSlotBlocking(l)
	assert.True(t, coalesced)
	assert.Equal(t, uint32(1), l.DebugWriters())
	l.gate.Unlock()
}

// TestUnlockWriteCoalescingSkipsReset checks unlockWrite's WritePriority
// path: releasing with another writer still queued must leave body at
// writerBody (so the queued writer can inherit it) and must not
// broadcast the condvar.
func TestUnlockWriteCoalescingSkipsReset(t *testing.T) {
	l := New()
	e := engine{writePriorityConfig}

	l.gate.Lock()
	l.body.Store(writerBody)
	l.writeWaiting.Store(true)
	l.writers.Store(2) // a second writer is queued behind this one

	e.unlockWrite(l)

	assert.Equal(t, int32(writerBody), l.DebugBody(), "coalescing release must not reset body")
	assert.Equal(t, uint32(1), l.DebugWriters())
	assert.True(t, l.gate.TryLock(), "gate must be released")
	l.gate.Unlock()
}

// TestUnlockWriteCoalescingResetsWhenLastWriter checks that, still under
// WritePriority, a release with no writer left queued resets body to 0
// and broadcasts.
func TestUnlockWriteCoalescingResetsWhenLastWriter(t *testing.T) {
	l := New()
	e := engine{writePriorityConfig}

	l.gate.Lock()
	l.body.Store(writerBody)
	l.writeWaiting.Store(true)
	l.writers.Store(1)

	e.unlockWrite(l)

	assert.Equal(t, int32(0), l.DebugBody())
	assert.False(t, l.writeWaiting.Load())
	assert.True(t, l.gate.TryLock())
	l.gate.Unlock()
}

// TestUnlockWriteNonCoalescingAlwaysResets checks that ReadPriority and
// NoPriority always reset body and broadcast on release, even with
// writers still queued - this is what lets a parked reader interleave
// between two queued writers under those policies.
func TestUnlockWriteNonCoalescingAlwaysResets(t *testing.T) {
	for _, cfg := range []policyConfig{readPriorityConfig, noPriorityConfig} {
		l := New()
		e := engine{cfg}

		l.gate.Lock()
		l.body.Store(writerBody)
		l.writeWaiting.Store(true)
		l.writers.Store(3)

		e.unlockWrite(l)

		assert.Equal(t, int32(0), l.DebugBody())
		assert.False(t, l.writeWaiting.Load())
		assert.Equal(t, uint32(2), l.DebugWriters())
		assert.True(t, l.gate.TryLock())
		l.gate.Unlock()
	}
}
