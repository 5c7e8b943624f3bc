// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

import (
	"sync/atomic"
	"time"
)

// scheduler is a work-submitting executor: a pool of worker goroutines
// draining a FIFO job queue, plus a timer for Sleep. Work-stealing is
// not implemented — a single shared queue already satisfies the sole
// requirement, progress: every submitted continuation eventually runs
// unless its fiber is interrupted first.
type scheduler struct {
	jobs    chan func()
	quit    chan struct{}
	nextFid atomic.Uint64
}

// defaultQueueDepth bounds the scheduler's job channel. It is large
// enough that Fork-heavy workloads do not block a worker on submission
// under normal load; RunOption WithQueueDepth overrides it.
const defaultQueueDepth = 4096

func newScheduler(workers, queueDepth int) *scheduler {
	if workers <= 0 {
		workers = 1
	}
	if queueDepth <= 0 {
		queueDepth = defaultQueueDepth
	}
	s := &scheduler{
		jobs: make(chan func(), queueDepth),
		quit: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go s.worker()
	}
	return s
}

func (s *scheduler) worker() {
	for {
		select {
		case job := <-s.jobs:
			job()
		case <-s.quit:
			return
		}
	}
}

func (s *scheduler) submit(job func()) {
	s.jobs <- job
}

func (s *scheduler) shutdown() {
	close(s.quit)
}

// spawnFiber allocates a new fiberState, submits its root node for
// execution, and returns the fiber immediately — fork is a pure effect
// producing a handle, not a blocking call.
func (s *scheduler) spawnFiber(child node, handler func(outcome)) *fiberState {
	f := s.newFiber(handler)
	s.startFiber(f, child)
	return f
}

// newFiber allocates a fiberState without scheduling it. Callers that
// need to register an observer before the fiber can possibly finish
// (Run's single done-channel observer, in particular) call this and
// startFiber separately instead of spawnFiber, closing the race where
// a fiber finishes before its first observer is attached.
func (s *scheduler) newFiber(handler func(outcome)) *fiberState {
	id := s.nextFid.Add(1)
	return newFiberState(s, id, handler)
}

// startFiber submits f's root node for execution on the worker pool.
func (s *scheduler) startFiber(f *fiberState, child node) {
	s.submit(func() { runFiber(f, stepForward, child, outcome{}) })
}

// resubmitUnwind re-enters a parked fiber's trampoline in unwind mode
// with res as the outcome of whatever it was waiting for.
func (s *scheduler) resubmitUnwind(f *fiberState, res outcome) {
	s.submit(func() { runFiber(f, stepUnwind, nil, res) })
}

// scheduleTimer arranges for fire to run after d elapses and returns a
// canceler. sleep(d) for d <= 0 must still yield a submission so an
// interrupt delivered concurrently has a preemption point to land on;
// time.AfterFunc already guarantees at least one scheduling hop even
// for a non-positive duration.
func (s *scheduler) scheduleTimer(d time.Duration, fire func()) func() {
	t := time.AfterFunc(d, fire)
	return func() { t.Stop() }
}
