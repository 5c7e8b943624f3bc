// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

import "sync"

// IORef is a single-owner mutable cell. All mutations are sequenced
// through effects; Go does not allow a generic method to introduce type
// parameters beyond its receiver's, so the operations below are free
// functions parameterized independently by the declared error kind E.
type IORef[A any] struct {
	mu    sync.Mutex
	value A
}

// NewIORef constructs a ref holding the given initial value.
func NewIORef[A any](a A) *IORef[A] {
	return &IORef[A]{value: a}
}

// RefRead produces the ref's current value.
func RefRead[E, A any](r *IORef[A]) Effect[E, A] {
	return Sync[E, A](func() A {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.value
	})
}

// RefWrite overwrites the ref's value.
func RefWrite[E, A any](r *IORef[A], a A) Effect[E, struct{}] {
	return Sync[E, struct{}](func() struct{} {
		r.mu.Lock()
		r.value = a
		r.mu.Unlock()
		return struct{}{}
	})
}

// RefModify applies f to the current value, storing the new value and
// producing f's first return. The read-modify-write is linearizable per
// ref: concurrent RefModify calls on the same ref from different fibers
// never interleave.
func RefModify[E, A, B any](r *IORef[A], f func(A) (B, A)) Effect[E, B] {
	return Sync[E, B](func() B {
		r.mu.Lock()
		defer r.mu.Unlock()
		b, next := f(r.value)
		r.value = next
		return b
	})
}

// RefGetAndUpdate stores f(current) and produces the pre-update value.
func RefGetAndUpdate[E, A any](r *IORef[A], f func(A) A) Effect[E, A] {
	return Sync[E, A](func() A {
		r.mu.Lock()
		defer r.mu.Unlock()
		old := r.value
		r.value = f(old)
		return old
	})
}

// RefUpdateAndGet stores f(current) and produces the post-update value.
func RefUpdateAndGet[E, A any](r *IORef[A], f func(A) A) Effect[E, A] {
	return Sync[E, A](func() A {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.value = f(r.value)
		return r.value
	})
}
