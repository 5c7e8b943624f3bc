// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

import "sync"

// applyFramePool recycles applyFrame values across interpreter steps.
// FlatMap is the hottest node in the trampoline — a 10,000-deep chain
// pushes and pops one applyFrame per link — so pooling it avoids a
// garbage collection cycle per fiber step on long chains.
var applyFramePool = sync.Pool{
	New: func() any { return new(applyFrame) },
}

func acquireApplyFrame(k func(any) node, next frame) *applyFrame {
	f := applyFramePool.Get().(*applyFrame)
	f.k = k
	f.Next = next
	return f
}

func releaseApplyFrame(f *applyFrame) {
	f.k = nil
	f.Next = nil
	applyFramePool.Put(f)
}

// restoreFramePool recycles restoreFrame values. Every Ensuring/OnError
// guard that actually fires allocates one to carry the saved outcome
// across the finalizer's own sub-evaluation.
var restoreFramePool = sync.Pool{
	New: func() any { return new(restoreFrame) },
}

func acquireRestoreFrame(saved outcome, unmask bool, next frame) *restoreFrame {
	f := restoreFramePool.Get().(*restoreFrame)
	f.saved = saved
	f.unmask = unmask
	f.Next = next
	return f
}

func releaseRestoreFrame(f *restoreFrame) {
	f.saved = outcome{}
	f.Next = nil
	restoreFramePool.Put(f)
}
