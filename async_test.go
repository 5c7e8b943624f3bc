// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts_test

import (
	"testing"
	"time"

	"code.hybscloud.com/rts"
)

func TestAsyncResumesWithCompletedValue(t *testing.T) {
	e := rts.Async[string, int](func(resume func(rts.ExitResult[string, int])) func() {
		go resume(rts.Completed[string, int](7))
		return nil
	})
	if got := rts.Run(e); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestAsyncResumeIsSingleFire(t *testing.T) {
	calls := 0
	e := rts.Async[string, int](func(resume func(rts.ExitResult[string, int])) func() {
		resume(rts.Completed[string, int](1))
		calls++
		resume(rts.Completed[string, int](2))
		calls++
		return nil
	})
	if got := rts.Run(e); got != 1 {
		t.Fatalf("got %d, want 1 (first resume wins)", got)
	}
	if calls != 2 {
		t.Fatalf("got %d register-side calls, want 2", calls)
	}
}

func TestAsyncPureRunsRegistrationEffect(t *testing.T) {
	registered := false
	e := rts.AsyncPure[string, int](func(resume func(rts.ExitResult[string, int])) rts.Effect[string, struct{}] {
		return rts.Sync[string](func() struct{} {
			registered = true
			go resume(rts.Completed[string, int](5))
			return struct{}{}
		})
	})
	if got := rts.Run(e); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
	if !registered {
		t.Fatal("expected the registration effect to run")
	}
}

func TestAsyncPropagatesTypedFailure(t *testing.T) {
	e := rts.Async[string, int](func(resume func(rts.ExitResult[string, int])) func() {
		resume(rts.Failed[string, int]("async-failed"))
		return nil
	})
	defer func() {
		if recover() == nil {
			t.Fatal("expected the async failure to panic through Run")
		}
	}()
	rts.Run(e)
}

func TestAsyncRegisterCancelerInvokedOnInterrupt(t *testing.T) {
	canceled := make(chan struct{}, 1)
	e := rts.FlatMap(rts.Fork(rts.Async[string, int](func(resume func(rts.ExitResult[string, int])) func() {
		return func() { canceled <- struct{}{} }
	})), func(f rts.Fiber[string, int]) rts.Effect[string, struct{}] {
		return rts.Then(rts.Sleep[string](10*time.Millisecond), f.Interrupt("bye"))
	})
	rts.Run(e)
	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("expected the async canceler to run on interrupt")
	}
}
