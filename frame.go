// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

// frame is the continuation stack. The interpreter never recurses on the
// host stack between effect nodes; instead it pushes one of the frame
// kinds below and pops them off during the forward or unwind phase.
//
// There are three conceptual kinds, named the way the interpretation
// rules describe them: Apply (data-flow continuation), Recover
// (error-handling continuation), and the two finalizer guards
// (Ensuring/OnError). restoreFrame is not one of the three — it is
// pushed internally while a finalizer effect itself runs, so its own
// outcome can be discarded (or diverted to the uncaught handler) in
// favor of the outcome it is guarding.
type frame interface {
	next() frame
}

// applyFrame is the Apply(k) frame: on a produced value, continue with
// k(value). Pushed by flatMapNode and by Attempt's success branch.
type applyFrame struct {
	k    func(any) node
	Next frame
}

func (f *applyFrame) next() frame { return f.Next }

// recoverFrame is the Recover(h) frame: on a typed failure, continue
// with h(err) instead of propagating further. Skipped during forward
// value production and during defect/interruption unwinding — only a
// typed Fail consumes it.
type recoverFrame struct {
	h    func(any) node
	Next frame
}

func (f *recoverFrame) next() frame { return f.Next }

// finalizeGuardFrame is the always-run Finalize frame pushed by
// Ensuring. It runs on every exit path: success, typed failure, defect,
// or interruption.
type finalizeGuardFrame struct {
	finalizer node
	Next      frame
}

func (f *finalizeGuardFrame) next() frame { return f.Next }

// onErrorGuardFrame is the on-error Finalize frame pushed by OnError.
// handler receives (false, nil) on success and (true, errVal) on typed
// failure; it is skipped entirely on defect and on interruption.
type onErrorGuardFrame struct {
	handler func(hasErr bool, errVal any) node
	Next    frame
}

func (f *onErrorGuardFrame) next() frame { return f.Next }

// restoreFrame is pushed around the execution of a finalizer's own
// effect tree. Whatever that tree produces is not the value the fiber
// is unwinding with; restoreFrame discards it (reporting a failing or
// defecting finalizer to the fiber's uncaught handler) and resumes
// unwinding with saved, the outcome that triggered the finalizer in
// the first place. unmask restores the fiber's interrupt mask depth
// once the finalizer has run to completion.
type restoreFrame struct {
	saved outcome
	unmask bool
	Next   frame
}

func (f *restoreFrame) next() frame { return f.Next }

// pushApply prepends an Apply frame onto stack.
func pushApply(k func(any) node, stack frame) frame {
	return acquireApplyFrame(k, stack)
}

// pushRecover prepends a Recover frame onto stack.
func pushRecover(h func(any) node, stack frame) frame {
	return &recoverFrame{h: h, Next: stack}
}

// pushFinalizeGuard prepends an always-run finalizer guard onto stack.
func pushFinalizeGuard(finalizer node, stack frame) frame {
	return &finalizeGuardFrame{finalizer: finalizer, Next: stack}
}

// pushOnErrorGuard prepends an on-error finalizer guard onto stack.
func pushOnErrorGuard(handler func(hasErr bool, errVal any) node, stack frame) frame {
	return &onErrorGuardFrame{handler: handler, Next: stack}
}

// pushRestore prepends a restore marker onto stack.
func pushRestore(saved outcome, unmask bool, stack frame) frame {
	return acquireRestoreFrame(saved, unmask, stack)
}
