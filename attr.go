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

// Policy selects which class of waiter - readers or writers - is favored
// when both are contending for the lock.
type Policy int

const (
	// ReadPriority lets a waiting reader check for a pending writer only
	// once before racing the counter; once a writer releases, readers
	// rush in ahead of the next writer. This is the default.
	ReadPriority Policy = iota

	// NoPriority has both readers and writers re-check their condition
	// after every wakeup, and a releasing writer broadcasts whenever
	// readers are waiting. Neither class is favored, but bounded wait is
	// not guaranteed for either.
	NoPriority

	// WritePriority coalesces back-to-back writers: a writer arriving
	// while another writer already owns (or is about to own) the gate
	// joins that writer's ownership window instead of re-contending the
	// counter. Readers are starved out under sustained writer load.
	WritePriority
)

// String renders the policy the way it would appear in a flag value or
// log line.
func (p Policy) String() string {
	switch p {
	case ReadPriority:
		return "read-priority"
	case NoPriority:
		return "no-priority"
	case WritePriority:
		return "write-priority"
	default:
		return "unknown"
	}
}

func (p Policy) valid() bool {
	switch p {
	case ReadPriority, NoPriority, WritePriority:
		return true
	default:
		return false
	}
}

// Attr bundles the construction-time options for an RWLock: which
// priority policy to dispatch through, and how long a waiting writer will
// sleep between CAS attempts while readers drain.
//
// An Attr has no OS sub-resources of its own (unlike the pthread
// mutexattr_t/condattr_t pair it is modeled on), so there is no Close
// method on it; NewAttr alone is sufficient to use and discard one.
type Attr struct {
	policy   Policy
	interval time.Duration
}

// NewAttr returns an Attr with the defaults New() would otherwise use:
// ReadPriority and a zero write-lock interval (busy-retry, no sleeping).
func NewAttr() *Attr {
	return &Attr{policy: ReadPriority, interval: 0}
}

// SetPolicy selects the priority policy. It fails with ErrInvalidArgument
// if given anything other than ReadPriority, NoPriority, or WritePriority.
func (a *Attr) SetPolicy(p Policy) error {
	if !p.valid() {
		return ErrInvalidArgument
	}
	a.policy = p
	return nil
}

// Policy returns the currently configured priority policy.
func (a *Attr) Policy() Policy {
	return a.policy
}

// SetWriteLockInterval sets the maximum single sleep slice a waiting
// writer takes between CAS attempts while readers drain. A zero interval
// disables sleeping entirely (the writer busy-retries the CAS).
func (a *Attr) SetWriteLockInterval(d time.Duration) {
	a.interval = d
}

// WriteLockInterval returns the configured write-lock interval.
func (a *Attr) WriteLockInterval() time.Duration {
	return a.interval
}
