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

// Command rwlockbench drives a configurable read/write workload against a
// priorwlock.RWLock and reports throughput and timeout counts. It is the
// hands-on counterpart to the package's benchmark table: where
// `go test -bench` measures one process's view of the lock, this command
// lets an operator pick a policy, a write ratio, and per-operation
// deadlines and watch the resulting contention directly.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	priorwlock "github.com/nbtaylor/go-priorwlock"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "rwlockbench:", err)
		os.Exit(1)
	}
}

type config struct {
	policy        string
	readers       int
	writers       int
	duration      time.Duration
	readDeadline  time.Duration
	writeDeadline time.Duration
	interval      time.Duration
}

func parsePolicy(s string) (priorwlock.Policy, error) {
	switch s {
	case "read", "read-priority":
		return priorwlock.ReadPriority, nil
	case "no", "no-priority":
		return priorwlock.NoPriority, nil
	case "write", "write-priority":
		return priorwlock.WritePriority, nil
	default:
		return 0, fmt.Errorf("unrecognized -policy %q (want read, no, or write)", s)
	}
}

type tally struct {
	ok      atomic.Uint64
	busy    atomic.Uint64
	timeout atomic.Uint64
}

func run(args []string, out io.Writer) error {
	var cfg config
	fs := flag.NewFlagSet("rwlockbench", flag.ContinueOnError)
	fs.StringVar(&cfg.policy, "policy", "read", "priority policy: read, no, or write")
	fs.IntVar(&cfg.readers, "readers", 8, "number of concurrent reader goroutines")
	fs.IntVar(&cfg.writers, "writers", 2, "number of concurrent writer goroutines")
	fs.DurationVar(&cfg.duration, "duration", 2*time.Second, "how long to run the workload")
	fs.DurationVar(&cfg.readDeadline, "read-deadline", 50*time.Millisecond, "per-attempt deadline for TimedRLock")
	fs.DurationVar(&cfg.writeDeadline, "write-deadline", 50*time.Millisecond, "per-attempt deadline for TimedWLock")
	fs.DurationVar(&cfg.interval, "write-lock-interval", 0, "writer spin/sleep cadence; 0 busy-retries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	policy, err := parsePolicy(cfg.policy)
	if err != nil {
		return err
	}

	attr := priorwlock.NewAttr()
	if err := attr.SetPolicy(policy); err != nil {
		return err
	}
	attr.SetWriteLockInterval(cfg.interval)

	lock, err := priorwlock.NewWithAttr(attr)
	if err != nil {
		return err
	}
	defer lock.Close()

	stop := make(chan struct{})
	var readTally, writeTally tally
	var wg sync.WaitGroup

	for i := 0; i < cfg.readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runReader(lock, stop, cfg.readDeadline, &readTally)
		}()
	}
	for i := 0; i < cfg.writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runWriter(lock, stop, cfg.writeDeadline, &writeTally)
		}()
	}

	time.Sleep(cfg.duration)
	close(stop)
	wg.Wait()

	fmt.Fprintf(out, "policy=%s readers=%d writers=%d duration=%s\n", policy, cfg.readers, cfg.writers, cfg.duration)
	fmt.Fprintf(out, "reads:  ok=%d timeout=%d\n", readTally.ok.Load(), readTally.timeout.Load())
	fmt.Fprintf(out, "writes: ok=%d timeout=%d\n", writeTally.ok.Load(), writeTally.timeout.Load())
	return nil
}

func runReader(lock *priorwlock.RWLock, stop <-chan struct{}, deadline time.Duration, t *tally) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		err := lock.TimedRLock(time.Now().Add(deadline))
		switch {
		case err == nil:
			t.ok.Add(1)
			lock.RUnlock()
		case errors.Is(err, priorwlock.ErrTimeout):
			t.timeout.Add(1)
		default:
			t.busy.Add(1)
		}
	}
}

func runWriter(lock *priorwlock.RWLock, stop <-chan struct{}, deadline time.Duration, t *tally) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		err := lock.TimedWLock(time.Now().Add(deadline))
		switch {
		case err == nil:
			t.ok.Add(1)
			lock.WUnlock()
		case errors.Is(err, priorwlock.ErrTimeout):
			t.timeout.Add(1)
		default:
			t.busy.Add(1)
		}
	}
}
