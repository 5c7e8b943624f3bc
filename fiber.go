// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

import (
	"fmt"
	"sync"

	"github.com/m1gwings/treedrawer/tree"
)

// FiberStatus is a read-only snapshot of a fiber's lifecycle state.
type FiberStatus uint8

const (
	// FiberExecuting means the fiber is currently being stepped by a
	// scheduler worker (or is runnable and waiting for one).
	FiberExecuting FiberStatus = iota
	// FiberAsyncSuspended means the fiber is parked awaiting a resume:
	// an Async/AsyncPure callback, a Join on a pending fiber, or a
	// Sleep timer.
	FiberAsyncSuspended
	// FiberDone means the fiber has produced a terminal ExitResult.
	FiberDone
)

func (s FiberStatus) String() string {
	switch s {
	case FiberExecuting:
		return "executing"
	case FiberAsyncSuspended:
		return "async-suspended"
	case FiberDone:
		return "done"
	default:
		return "unknown"
	}
}

// fiberState is the non-generic internal representation of a fiber. The
// scheduler holds the only mutable reference to its stack/status at any
// instant; interrupt and join interact with it through the mutex-guarded
// fields below, never by touching the stack directly.
type fiberState struct {
	fid uint64

	sched *scheduler

	mu                 sync.Mutex
	status             FiberStatus
	maskDepth          int
	interruptRequested bool
	interruptReqCause  any
	gate               *resumeGate
	interruptDelivered bool
	result             *outcome
	observers          []func(outcome)

	uncaught func(outcome)

	// stack is only ever touched by the worker currently running this
	// fiber's trampoline; it is not guarded by mu.
	stack frame
}

func newFiberState(sched *scheduler, id uint64, uncaught func(outcome)) *fiberState {
	return &fiberState{fid: id, sched: sched, uncaught: uncaught}
}

func (f *fiberState) pollInterrupt() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.interruptRequested && f.maskDepth == 0
}

func (f *fiberState) interruptCause() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.interruptReqCause
}

func (f *fiberState) maskDepthValue() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maskDepth
}

func (f *fiberState) raiseMask() {
	f.mu.Lock()
	f.maskDepth++
	f.mu.Unlock()
}

func (f *fiberState) lowerMask() {
	f.mu.Lock()
	f.maskDepth--
	f.mu.Unlock()
}

// parkAsync transitions the fiber to AsyncSuspended, recording g as the
// gate that owns resubmitting it. If an interrupt was already
// requested and is deliverable, it is delivered through g immediately
// rather than left for a later preemption check.
func (f *fiberState) parkAsync(g *resumeGate) {
	f.mu.Lock()
	f.status = FiberAsyncSuspended
	f.gate = g
	deliverNow := f.interruptRequested && f.maskDepth == 0 && !f.interruptDelivered
	cause := f.interruptReqCause
	if deliverNow {
		f.interruptDelivered = true
	}
	f.mu.Unlock()
	if deliverNow {
		g.deliver(interruptOutcome(cause))
	}
}

// resumeEvent is whichever of {operation completion, interrupt} wins
// the race to resubmit a parked fiber.
type resumeEvent struct {
	res       outcome
	interrupt bool
}

// resumeGate serializes the two events that can end a single
// suspension — the parked operation's own completion (an async
// callback, a timer fire, a join observer) and an interrupt delivered
// while parked — through one Affine, so at most one of them ever
// resubmits the fiber. A completion that wins before the interpreter
// has finished arming the gate (every synchronous resume, since the
// operation that produces it is still being interpreted on this same
// goroutine) is latched instead: arm hands it back to the
// still-running interpreter loop so it continues inline rather than
// racing that loop's own stack access from a second goroutine.
type resumeGate struct {
	f   *fiberState
	aff *Affine[struct{}, resumeEvent]

	mu       sync.Mutex
	armed    bool
	gotLatch bool
	latched  outcome
	canceler func()
}

func (f *fiberState) newResumeGate() *resumeGate {
	g := &resumeGate{f: f}
	g.aff = Once[struct{}, resumeEvent](func(ev resumeEvent) struct{} {
		g.mu.Lock()
		if !g.armed {
			g.latched = ev.res
			g.gotLatch = true
			g.mu.Unlock()
			return struct{}{}
		}
		canceler := g.canceler
		g.mu.Unlock()
		if ev.interrupt && canceler != nil {
			canceler()
		}
		g.f.mu.Lock()
		g.f.status = FiberExecuting
		g.f.gate = nil
		g.f.mu.Unlock()
		g.f.sched.resubmitUnwind(g.f, ev.res)
		return struct{}{}
	})
	return g
}

// complete is the parked operation's own resume path: an async
// callback, a timer fire, or a join observer.
func (g *resumeGate) complete(res outcome) {
	g.aff.TryResume(resumeEvent{res: res})
}

// deliver is the interrupt-delivery resume path. It shares the same
// Affine as complete, so a timer firing at the same moment an
// interrupt is requested resubmits the fiber at most once.
func (g *resumeGate) deliver(res outcome) {
	g.aff.TryResume(resumeEvent{res: res, interrupt: true})
}

// arm records that the interpreter is done stepping forward for now
// and is genuinely parking. If complete already won the race by the
// time arm runs, it hands the latched result back so the caller can
// continue inline without ever transitioning the fiber's status.
// Otherwise it stores cancel for a subsequent interrupt and parks f.
func (g *resumeGate) arm(cancel func()) (res outcome, inline bool) {
	g.mu.Lock()
	if g.gotLatch {
		res = g.latched
		g.mu.Unlock()
		return res, true
	}
	g.armed = true
	g.canceler = cancel
	g.mu.Unlock()
	g.f.parkAsync(g)
	return outcome{}, false
}

// requestInterrupt sets the fiber's interruption flag. If the fiber is
// currently parked and unmasked, delivery happens immediately through
// its gate. Otherwise delivery is deferred to the next preemption
// point the running trampoline checks itself.
func (f *fiberState) requestInterrupt(cause any) {
	f.mu.Lock()
	if !f.interruptRequested {
		f.interruptRequested = true
		f.interruptReqCause = cause
	}
	deliverNow := f.status == FiberAsyncSuspended && f.maskDepth == 0 && !f.interruptDelivered
	g := f.gate
	storedCause := f.interruptReqCause
	if deliverNow {
		f.interruptDelivered = true
	}
	f.mu.Unlock()
	if deliverNow && g != nil {
		g.deliver(interruptOutcome(storedCause))
	}
}

// peek returns the terminal outcome and true if the fiber is done.
func (f *fiberState) peek() (outcome, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return outcome{}, false
	}
	return *f.result, true
}

// addObserver registers a callback to fire with the terminal outcome.
// If the fiber is already done, the callback fires immediately (outside
// the lock, to avoid a callback re-entering addObserver under it).
func (f *fiberState) addObserver(cb func(outcome)) {
	f.mu.Lock()
	if f.result != nil {
		res := *f.result
		f.mu.Unlock()
		cb(res)
		return
	}
	f.observers = append(f.observers, cb)
	f.mu.Unlock()
}

// finish transitions the fiber to Done, notifies observers, and — only
// if nobody was watching — reports a typed failure or defect to the
// fiber's uncaught handler. A joiner takes ownership of the outcome;
// Run always attaches its done-channel observer before the fiber is
// started, so a root run's own Failed(e)/defect is never double
// reported, it is re-raised by Run itself. Finalizer failures bypass
// this gate entirely: see reportUncaught.
func (f *fiberState) finish(out outcome) {
	f.mu.Lock()
	f.status = FiberDone
	f.result = &out
	observers := f.observers
	f.observers = nil
	unwatched := len(observers) == 0
	f.mu.Unlock()

	for _, obs := range observers {
		obs(out)
	}
	if unwatched && (out.isFail() || out.isDefect()) && f.uncaught != nil {
		f.uncaught(out)
	}
}

// reportUncaught diverts a finalizer's own failing/defecting outcome to
// the fiber's uncaught handler without altering the outcome being
// propagated.
func (f *fiberState) reportUncaught(out outcome) {
	if f.uncaught != nil {
		f.uncaught(out)
	}
}

// debugTree renders the fiber's live continuation stack as an ASCII
// tree, rooted at a label carrying its id and status.
func (f *fiberState) debugTree() string {
	f.mu.Lock()
	status := f.status
	f.mu.Unlock()

	root := tree.NewTree(tree.NodeString(fmt.Sprintf("fiber#%d [%s]", f.fid, status)))
	cur := root
	for fr := f.stack; fr != nil; fr = fr.next() {
		cur = cur.AddChild(tree.NodeString(frameLabel(fr)))
	}
	return root.String()
}

func frameLabel(fr frame) string {
	switch fr.(type) {
	case *applyFrame:
		return "Apply"
	case *recoverFrame:
		return "Recover"
	case *finalizeGuardFrame:
		return "Finalize(always)"
	case *onErrorGuardFrame:
		return "Finalize(on-error)"
	case *restoreFrame:
		return "Restore"
	default:
		return "?"
	}
}

// Fiber is the typed handle to a running or completed computation.
// Callers obtain one from Fork; it is a pure effect value producing a
// Fiber, never a side-effecting constructor.
type Fiber[E, A any] struct {
	s *fiberState
}

// ID returns the fiber's monotonic identifier, for trace and log
// correlation.
func (f Fiber[E, A]) ID() uint64 { return f.s.fid }

// Status returns a read-only snapshot of the fiber's lifecycle state.
func (f Fiber[E, A]) Status() FiberStatus {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.status
}

// DebugTree renders the fiber's live continuation stack as an ASCII
// tree for diagnostics.
func (f Fiber[E, A]) DebugTree() string { return f.s.debugTree() }

// Join is the pure effect producing the fiber's value, or propagating
// its failure/interruption into the caller.
func (f Fiber[E, A]) Join() Effect[E, A] {
	return wrap[E, A](joinNode{target: f.s})
}

// Interrupt is the pure effect that signals the fiber to terminate with
// cause, returning unit once delivery is queued.
func (f Fiber[E, A]) Interrupt(cause any) Effect[E, struct{}] {
	return wrap[E, struct{}](interruptNode{target: f.s, cause: cause})
}
