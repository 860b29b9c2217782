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

// now returns the current monotonic instant. It exists as a named seam
// (rather than calling time.Now() inline everywhere) so every deadline
// computation in this package reads the same way the C original's repeated
// clock_gettime(CLOCK_MONOTONIC, ...) calls do.
func now() time.Time {
	return time.Now()
}

// remaining returns how much time is left before deadline, measured from
// now. A non-positive result means the deadline has already passed.
func remaining(deadline time.Time) time.Duration {
	return deadline.Sub(now())
}

// minDuration returns the smaller of a and b. Used to cap a writer's sleep
// slice at whatever is left of its deadline, mirroring the C original's
// get_smaller_timespec.
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
