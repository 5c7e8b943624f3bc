// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rts is an effect-system runtime: a value-oriented
// representation of side-effecting computations, together with an
// interpreter that executes them on cooperative lightweight tasks
// ("fibers").
//
// An [Effect] is a pure, lazy description of a computation; nothing
// runs until it is handed to [Run] or forked onto a fiber. The
// interpreter trampolines through the effect tree — no host-stack
// recursion crosses an effect boundary, so arbitrarily deep chains of
// [FlatMap]/[Map]/[Attempt] consume only heap.
//
// # Building effects
//
//   - [Now]: eager value, evaluated at construction
//   - [Point], [Sync]: lazy pure/effectful thunks
//   - [SyncThrowable]: like Sync, but a panic becomes a typed failure
//   - [Suspend]: lazily wraps the production of another effect
//   - [Fail], [Terminate]: typed failure and untyped defect
//   - [Never]: suspends forever, resolved only by interruption
//   - [WidenError]: structural widening of the declared error kind
//
// # Sequencing and error recovery
//
//   - [FlatMap], [Map], [Then]: sequencing combinators
//   - [Zip], [ZipWith]: pairwise combination
//   - [Attempt], [Absolve]: reify/un-reify a typed failure as [Either]
//   - [Ensuring]: guarantee a finalizer runs on every exit path
//   - [OnError]: run a handler on success/typed-failure, skipped on
//     interruption and defect
//
// # Fibers
//
//   - [Run]: block the calling goroutine until an effect terminates
//   - [Fork], [ForkHandled]: start a child fiber, with [DefaultHandler]
//     or a caller-supplied handler for unhandled errors
//   - [Fiber.Join], [Fiber.Interrupt]: observe or cancel a fiber
//   - [Fiber.DebugTree]: render a fiber's live continuation stack
//
// # Shared state
//
//   - [IORef] and the Ref* functions: a single-owner atomic cell
//   - [Promise]: a write-once cell with waiters
//
// # Error channels
//
// Three channels, never conflated: typed failures ([Fail], recoverable
// by [Attempt]/[Absolve]), defects (a panic inside [Sync], or
// [Terminate], never recoverable), and interruption (external, via
// [Fiber.Interrupt]). [Run] translates a terminated root fiber into host
// behavior — see errors.go.
//
// # Implementation notes
//
// The continuation stack is a defunctionalized frame chain (see
// frame.go), not closures: Apply, Recover, and the two finalizer guards.
// This mirrors the allocation-conscious, F-bounded-adjacent style this
// runtime's machinery grew out of — Apply and restore frames are pooled
// (framepool.go) rather than allocated fresh on every step, and async resumption is
// guarded by the same one-shot [Affine] primitive used to enforce
// single-fire continuations anywhere in the tree.
package rts
