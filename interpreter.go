// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

// stepMode selects whether the trampoline is producing a node's value
// (forward) or propagating a completed outcome up the frame stack
// (unwind).
type stepMode uint8

const (
	stepForward stepMode = iota
	stepUnwind
)

// parkSignal is returned by an applyFrame's continuation function to
// tell the trampoline that the fiber has already been parked (by
// asyncPureNode's registration step) and the loop must return
// immediately without evaluating anything further.
type parkSignal struct{}

func (parkSignal) isNode() {}

// outcomeSignal carries an outcome that an asyncPureNode's registration
// effect already produced synchronously (via resumeGate.arm's inline
// path) back into unwind mode, without ever parking the fiber.
type outcomeSignal struct{ out outcome }

func (outcomeSignal) isNode() {}

// runFiber is the trampolined interpreter. It is invoked by a scheduler
// worker either to start a fiber (mode=stepForward, cur=the effect's
// root node) or to resume one after a suspension (mode=stepUnwind,
// out=the outcome the suspension produced). It runs until the fiber
// either parks again (Async, Join on a pending fiber, Sleep) or
// terminates, at which point it returns.
//
// No host-stack recursion crosses an effect boundary: every FlatMap,
// Attempt, Ensuring, and so on is represented by a frame pushed onto
// f.stack, not a Go call. Arbitrarily deep chains consume heap only.
func runFiber(f *fiberState, mode stepMode, cur node, out outcome) {
	for {
		switch mode {
		case stepForward:
			if f.pollInterrupt() {
				out = interruptOutcome(f.interruptCause())
				mode = stepUnwind
				continue
			}
			switch n := cur.(type) {
			case nowNode:
				out = valueOutcome(n.value)
				mode = stepUnwind

			case pointNode:
				v, defect := safeCallValue(n.thunk)
				if defect != nil {
					out = defectOutcome(defect)
				} else {
					out = valueOutcome(v)
				}
				mode = stepUnwind

			case syncNode:
				v, defect := safeCallValue(n.thunk)
				if defect != nil {
					out = defectOutcome(defect)
				} else {
					out = valueOutcome(v)
				}
				mode = stepUnwind

			case syncThrowableNode:
				v, defect := safeCallValue(n.thunk)
				if defect != nil {
					out = failOutcome(defect)
				} else {
					out = valueOutcome(v)
				}
				mode = stepUnwind

			case suspendNode:
				inner, defect := safeCallNode(n.thunk)
				if defect != nil {
					out = defectOutcome(defect)
					mode = stepUnwind
				} else {
					cur = inner
				}

			case failNode:
				out = failOutcome(n.errVal)
				mode = stepUnwind

			case terminateNode:
				out = defectOutcome(n.defect)
				mode = stepUnwind

			case neverNode:
				f.newResumeGate().arm(nil)
				return

			case flatMapNode:
				f.stack = pushApply(n.k, f.stack)
				cur = n.child

			case attemptNode:
				toRight, toLeft := n.toRight, n.toLeft
				f.stack = pushRecover(func(e any) node { return nowNode{value: toLeft(e)} }, f.stack)
				f.stack = pushApply(func(v any) node { return nowNode{value: toRight(v)} }, f.stack)
				cur = n.child

			case absolveNode:
				unwrap := n.unwrap
				f.stack = pushApply(func(v any) node {
					r, isRight := unwrap(v)
					if isRight {
						return nowNode{value: r}
					}
					return failNode{errVal: r}
				}, f.stack)
				cur = n.child

			case ensuringNode:
				f.stack = pushFinalizeGuard(n.finalizer, f.stack)
				cur = n.child

			case onErrorNode:
				f.stack = pushOnErrorGuard(n.handler, f.stack)
				cur = n.child

			case asyncNode:
				g := f.newResumeGate()
				cancel := n.register(func(res outcome) { g.complete(res) })
				if res, inline := g.arm(cancel); inline {
					out = res
					mode = stepUnwind
					continue
				}
				return

			case asyncPureNode:
				g := f.newResumeGate()
				regNode := n.register(func(res outcome) { g.complete(res) })
				f.stack = pushApply(func(any) node {
					if res, inline := g.arm(nil); inline {
						return outcomeSignal{out: res}
					}
					return parkSignal{}
				}, f.stack)
				cur = regNode

			case forkNode:
				child := f.sched.spawnFiber(n.child, n.handler)
				out = valueOutcome(child)
				mode = stepUnwind

			case joinNode:
				if res, done := n.target.peek(); done {
					out = res
					mode = stepUnwind
				} else {
					g := f.newResumeGate()
					n.target.addObserver(func(res outcome) { g.complete(res) })
					if res, inline := g.arm(nil); inline {
						out = res
						mode = stepUnwind
						continue
					}
					return
				}

			case interruptNode:
				n.target.requestInterrupt(n.cause)
				out = valueOutcome(struct{}{})
				mode = stepUnwind

			case sleepNode:
				g := f.newResumeGate()
				cancel := f.sched.scheduleTimer(n.d, func() {
					g.complete(valueOutcome(struct{}{}))
				})
				if res, inline := g.arm(cancel); inline {
					out = res
					mode = stepUnwind
					continue
				}
				return

			case outcomeSignal:
				out = n.out
				mode = stepUnwind

			case parkSignal:
				return

			default:
				panic("rts: unknown effect node")
			}

		case stepUnwind:
			if out.isValue() && f.maskDepthValue() == 0 && f.pollInterrupt() {
				out = interruptOutcome(f.interruptCause())
			}

			fr := f.stack
			if fr == nil {
				f.finish(out)
				return
			}
			f.stack = fr.next()

			switch fx := fr.(type) {
			case *applyFrame:
				if out.isValue() {
					k := fx.k
					v := out.value
					releaseApplyFrame(fx)
					next := k(v)
					if _, parked := next.(parkSignal); parked {
						return
					}
					cur = next
					mode = stepForward
				} else {
					releaseApplyFrame(fx)
				}

			case *recoverFrame:
				if out.isFail() {
					cur = fx.h(out.errVal)
					mode = stepForward
				}

			case *finalizeGuardFrame:
				f.raiseMask()
				f.stack = pushRestore(out, true, f.stack)
				cur = fx.finalizer
				mode = stepForward

			case *onErrorGuardFrame:
				if out.isDefect() || out.isInterrupt() {
					continue
				}
				hasErr := out.isFail()
				var errVal any
				if hasErr {
					errVal = out.errVal
				}
				f.raiseMask()
				f.stack = pushRestore(out, true, f.stack)
				cur = fx.handler(hasErr, errVal)
				mode = stepForward

			case *restoreFrame:
				if out.isFail() || out.isDefect() {
					f.reportUncaught(out)
				}
				restored := fx.saved
				unmask := fx.unmask
				releaseRestoreFrame(fx)
				if unmask {
					f.lowerMask()
				}
				out = restored
			}
		}
	}
}

// safeCallValue runs thunk, recovering a panic into a defect value.
func safeCallValue(thunk func() any) (v any, defect any) {
	defer func() {
		if r := recover(); r != nil {
			defect = r
		}
	}()
	v = thunk()
	return
}

// safeCallNode runs thunk, recovering a panic into a defect value.
func safeCallNode(thunk func() node) (n node, defect any) {
	defer func() {
		if r := recover(); r != nil {
			defect = r
		}
	}()
	n = thunk()
	return
}
