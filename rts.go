// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

import (
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// DefaultHandler is the override point for uncaught fiber errors (§6,
// §9). Fork uses it unless the caller provides its own via ForkHandled.
// It is a package-level value, not the handler carried by any single
// fiber — uncaught handlers themselves are per-fiber, not global.
var DefaultHandler = func(err any) {
	slog.Error("rts: unhandled fiber error", "error", err)
}

func reportToDefaultHandler(out outcome) {
	switch out.kind {
	case outcomeFail:
		DefaultHandler(xgxFailure(out.errVal))
	case outcomeDefect:
		DefaultHandler(xgxDefect(out.defect))
	}
}

var (
	schedMu       sync.Mutex
	sched         *scheduler
	schedWorkers  = runtime.GOMAXPROCS(0)
	schedQueueLen = defaultQueueDepth
)

// RunOption configures the process-wide scheduler. Options only take
// effect if applied before the first Run/Fork call initializes it.
type RunOption func()

// WithWorkers sets the scheduler's worker pool size.
func WithWorkers(n int) RunOption {
	return func() { schedWorkers = n }
}

// WithQueueDepth sets the scheduler's job queue capacity.
func WithQueueDepth(n int) RunOption {
	return func() { schedQueueLen = n }
}

// Configure applies RunOptions before the scheduler starts. Calling it
// after the first Run/Fork has no effect on the already-running
// scheduler; this mirrors the "init at first run" lifecycle in the
// design notes.
func Configure(opts ...RunOption) {
	schedMu.Lock()
	defer schedMu.Unlock()
	if sched != nil {
		return
	}
	for _, o := range opts {
		o()
	}
}

// Shutdown stops the process-wide scheduler's workers. It is the
// explicit "shutdown on demand" half of the RTS lifecycle; callers that
// never need to stop the scheduler do not need to call it.
func Shutdown() {
	schedMu.Lock()
	defer schedMu.Unlock()
	if sched != nil {
		sched.shutdown()
		sched = nil
	}
}

func ensureScheduler() *scheduler {
	schedMu.Lock()
	defer schedMu.Unlock()
	if sched == nil {
		sched = newScheduler(schedWorkers, schedQueueLen)
	}
	return sched
}

// Run blocks the calling goroutine until effect terminates. It returns
// the completed value, or panics: Failed(e) panics with an xgx-error
// wrapping UnhandledError(e), Interrupted(cause)/a defect panics with the
// cause itself, unchanged.
func Run[E, A any](effect Effect[E, A]) A {
	s := ensureScheduler()
	done := make(chan outcome, 1)
	f := s.newFiber(reportToDefaultHandler)
	f.addObserver(func(o outcome) { done <- o })
	s.startFiber(f, effect.n)
	out := <-done
	if out.kind == outcomeValue {
		v, _ := out.value.(A)
		return v
	}
	panic(toHostError(out))
}

// Fork schedules child on a new fiber and produces its handle
// immediately; it never blocks. Unhandled errors go to DefaultHandler.
func Fork[E, A any](child Effect[E, A]) Effect[E, Fiber[E, A]] {
	return wrap[E, Fiber[E, A]](flatMapNode{
		child: forkNode{child: child.n, handler: reportToDefaultHandler},
		k:     func(v any) node { return nowNode{value: Fiber[E, A]{s: v.(*fiberState)}} },
	})
}

// ForkHandled is fork0: it overrides the fiber's uncaught-error handler
// instead of using DefaultHandler.
func ForkHandled[E, A any](child Effect[E, A], onUnhandled func(ExitResult[E, A])) Effect[E, Fiber[E, A]] {
	handler := func(out outcome) {
		switch out.kind {
		case outcomeFail, outcomeDefect:
			onUnhandled(toExit[E, A](out))
		}
	}
	return wrap[E, Fiber[E, A]](flatMapNode{
		child: forkNode{child: child.n, handler: handler},
		k:     func(v any) node { return nowNode{value: Fiber[E, A]{s: v.(*fiberState)}} },
	})
}

// Sleep produces an effect that completes after d elapses.
func Sleep[E any](d time.Duration) Effect[E, struct{}] {
	return wrap[E, struct{}](sleepNode{d: d})
}
