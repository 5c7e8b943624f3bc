// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/rts"
)

func TestEndToEndPointOne(t *testing.T) {
	if got := rts.Run(rts.Point[string](func() int { return 1 })); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}

// A panicking SyncThrowable is this runtime's "a throw inside a
// synchronous effect becomes a typed failure, observable via Attempt"
// primitive; Sync's panics surface as unrecoverable defects instead.
func TestEndToEndSyncThrowableAttemptYieldsTypedPayload(t *testing.T) {
	e := rts.Attempt(rts.SyncThrowable[string](func() int { panic("Oh") }))
	result := rts.Run(e)
	errVal, isLeft := result.GetLeft()
	if !isLeft || errVal != "Oh" {
		t.Fatalf("got isLeft=%v errVal=%q, want Left(Oh)", isLeft, errVal)
	}
}

func TestEndToEndFailEnsuringThrowsAndRunsFinalizer(t *testing.T) {
	flag := false
	e := rts.Ensuring(rts.Fail[string, int]("Oh"), rts.Sync[string](func() struct{} {
		flag = true
		return struct{}{}
	}))
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected UnhandledError(Oh) to be thrown")
			}
		}()
		rts.Run(e)
	}()
	if !flag {
		t.Fatal("expected the finalizer to have run")
	}
}

func TestEndToEndDoubleEnsuringDeliversFinalizerFailuresToTheHandler(t *testing.T) {
	var mu sync.Mutex
	var reported []any
	prev := rts.DefaultHandler
	rts.DefaultHandler = func(err any) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	}
	defer func() { rts.DefaultHandler = prev }()

	e := rts.Ensuring(
		rts.Ensuring(rts.Fail[string, int]("Oh"), rts.Terminate[string, struct{}]("E2")),
		rts.Terminate[string, struct{}]("E3"),
	)
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected UnhandledError(Oh) to be thrown")
			}
		}()
		rts.Run(e)
	}()

	mu.Lock()
	defer mu.Unlock()
	if len(reported) != 2 {
		t.Fatalf("got %d reports, want 2 (E2 and E3)", len(reported))
	}
}

func concurrentFib(n int) rts.Effect[string, int] {
	if n < 2 {
		return rts.Now[string](n)
	}
	return rts.FlatMap(rts.Fork(concurrentFib(n-1)), func(f1 rts.Fiber[string, int]) rts.Effect[string, int] {
		return rts.FlatMap(rts.Fork(concurrentFib(n-2)), func(f2 rts.Fiber[string, int]) rts.Effect[string, int] {
			return rts.ZipWith(f1.Join(), f2.Join(), func(a, b int) int { return a + b })
		})
	})
}

func pureFib(n int) int {
	if n < 2 {
		return n
	}
	return pureFib(n-1) + pureFib(n-2)
}

func TestEndToEndConcurrentFibMatchesRecursiveFib(t *testing.T) {
	if got := rts.Run(concurrentFib(20)); got != pureFib(20) {
		t.Fatalf("got %d, want %d", got, pureFib(20))
	}
}

func fibEffect(n int) rts.Effect[string, int] {
	if n < 2 {
		return rts.Now[string](n)
	}
	return rts.FlatMap(fibEffect(n-1), func(a int) rts.Effect[string, int] {
		return rts.Map(fibEffect(n-2), func(b int) int { return a + b })
	})
}

func TestEndToEndFibAsEffectMatchesPureFunction(t *testing.T) {
	if got := rts.Run(fibEffect(10)); got != 55 {
		t.Fatalf("got %d, want 55", got)
	}
	if got := pureFib(10); got != 55 {
		t.Fatalf("pureFib(10)=%d, want 55", got)
	}
}

func TestEndToEndBracketInterruptedAfterUseLogsUseThenRelease(t *testing.T) {
	var mu sync.Mutex
	var log []string
	appendLog := func(s string) rts.Effect[string, struct{}] {
		return rts.Sync[string](func() struct{} {
			mu.Lock()
			log = append(log, s)
			mu.Unlock()
			return struct{}{}
		})
	}

	acquire := rts.Now[string](struct{}{})
	release := appendLog("r")
	use := rts.Then(rts.Sleep[string](10*time.Millisecond), appendLog("u"))
	bracket := rts.FlatMap(acquire, func(struct{}) rts.Effect[string, struct{}] {
		return rts.Ensuring(use, release)
	})

	f := rts.Run(rts.Fork(bracket))

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		seenUse := len(log) > 0
		mu.Unlock()
		if seenUse || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	rts.Run(f.Interrupt("stop"))

	func() {
		defer func() { recover() }()
		rts.Run(f.Join())
	}()

	mu.Lock()
	defer mu.Unlock()
	if len(log) != 2 || log[0] != "u" || log[1] != "r" {
		t.Fatalf("got %v, want [u r]", log)
	}
}
