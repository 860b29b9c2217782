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

import "errors"

// Sentinel errors returned by RWLock operations. Callers should compare
// against these with errors.Is rather than matching on string content.
var (
	// ErrInvalidArgument is returned when an Attr setter is given a value
	// it does not recognize (an unrecognized Policy, for instance).
	ErrInvalidArgument = errors.New("priorwlock: invalid argument")

	// ErrBusy is returned by the Try variants when the lock cannot be
	// acquired immediately.
	ErrBusy = errors.New("priorwlock: busy")

	// ErrTimeout is returned by the Timed variants when the deadline
	// elapses before the lock could be acquired. Any counter probe or
	// writer-count increment made while waiting is fully undone before
	// this error is returned.
	ErrTimeout = errors.New("priorwlock: timed out")

	// ErrClosed is returned by TryRLock, TimedRLock, TryWLock and
	// TimedWLock on a lock after Close has been called; the entry points
	// without an error return do not check for it. The C original this package is modeled on
	// leaves post-destroy use undefined; this package instead reports it.
	ErrClosed = errors.New("priorwlock: use of closed lock")
)

// There is no "underlying-failure" error class here: unlike the pthread
// mutex/condvar this package is modeled on, sync.Mutex and sync.Cond have
// no failure modes of their own to propagate.
