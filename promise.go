// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

import "sync"

// Promise is a write-once cell with a waiters list. Complete transitions
// Empty to Full exactly once; Get either returns immediately or
// registers as an async waiter.
type Promise[E, A any] struct {
	mu      sync.Mutex
	done    bool
	result  ExitResult[E, A]
	waiters []func(ExitResult[E, A])
}

// NewPromise constructs an empty promise.
func NewPromise[E, A any]() *Promise[E, A] {
	return &Promise[E, A]{}
}

// Complete transitions the promise to Full with x, notifying any
// waiters. Produces whether this call won the race to complete it.
func (p *Promise[E, A]) Complete(x ExitResult[E, A]) Effect[E, bool] {
	return Sync[E, bool](func() bool {
		p.mu.Lock()
		if p.done {
			p.mu.Unlock()
			return false
		}
		p.done = true
		p.result = x
		waiters := p.waiters
		p.waiters = nil
		p.mu.Unlock()
		for _, w := range waiters {
			w(x)
		}
		return true
	})
}

// Succeed completes the promise with a value.
func (p *Promise[E, A]) Succeed(a A) Effect[E, bool] {
	return p.Complete(Completed[E, A](a))
}

// Fail completes the promise with a typed failure.
func (p *Promise[E, A]) Fail(e E) Effect[E, bool] {
	return p.Complete(Failed[E, A](e))
}

// Get produces the promise's value once complete, suspending the
// calling fiber until then if it is not yet full.
func (p *Promise[E, A]) Get() Effect[E, A] {
	return AsyncPure[E, A](func(resume func(ExitResult[E, A])) Effect[E, struct{}] {
		return Sync[E, struct{}](func() struct{} {
			p.mu.Lock()
			if p.done {
				res := p.result
				p.mu.Unlock()
				resume(res)
				return struct{}{}
			}
			p.waiters = append(p.waiters, resume)
			p.mu.Unlock()
			return struct{}{}
		})
	})
}
