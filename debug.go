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

// DebugBody returns the current value of the lock's internal body
// counter: 0 when idle, a positive count of current readers, or
// math.MinInt32 when a writer holds the lock.
//
// This exists only so tests (in this package and callers') can assert on
// the lock's internal state without reaching into an unexported field;
// production code has no legitimate reason to call it. This replaces the
// practice, in the C library this package is modeled on, of tests reading
// lock_body directly - see SPEC_FULL.md's Open Question decisions.
func (l *RWLock) DebugBody() int32 {
	return l.body.Load()
}

// DebugWriters returns the current value of the internal writers
// counter. Debug-only, see DebugBody.
func (l *RWLock) DebugWriters() uint32 {
	return l.writers.Load()
}
