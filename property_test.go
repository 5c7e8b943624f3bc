// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts_test

import (
	"math/rand/v2"
	"testing"

	"code.hybscloud.com/rts"
)

const propertyN = 200

func TestPropertyMapEqualsFlatMapNow(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 0))
	for i := 0; i < propertyN; i++ {
		x := r.IntN(1000)
		f := func(v int) int { return v*2 + 1 }

		mapped := rts.Run(rts.Map(rts.Now[string](x), f))
		flatMapped := rts.Run(rts.FlatMap(rts.Now[string](x), func(v int) rts.Effect[string, int] {
			return rts.Now[string](f(v))
		}))
		if mapped != flatMapped {
			t.Fatalf("x=%d: map(f)=%d, flatMap(x=>now(f(x)))=%d", x, mapped, flatMapped)
		}
	}
}

func TestPropertyAbsolveOfAttemptIsIdentityOnSuccess(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 0))
	for i := 0; i < propertyN; i++ {
		x := r.IntN(1000)
		e := rts.Now[string](x)
		roundTripped := rts.Absolve(rts.Attempt(e))
		if got := rts.Run(roundTripped); got != x {
			t.Fatalf("x=%d: absolve(attempt(now(x)))=%d", x, got)
		}
	}
}

func TestPropertyFlatMapIsAssociative(t *testing.T) {
	r := rand.New(rand.NewPCG(13, 0))
	f := func(v int) rts.Effect[string, int] { return rts.Now[string](v + 1) }
	g := func(v int) rts.Effect[string, int] { return rts.Now[string](v * 2) }
	for i := 0; i < propertyN; i++ {
		x := r.IntN(1000)
		left := rts.FlatMap(rts.FlatMap(rts.Now[string](x), f), g)
		right := rts.FlatMap(rts.Now[string](x), func(v int) rts.Effect[string, int] {
			return rts.FlatMap(f(v), g)
		})
		if rts.Run(left) != rts.Run(right) {
			t.Fatalf("x=%d: associativity law broken", x)
		}
	}
}

func TestPropertyForkThenJoinIsIdentity(t *testing.T) {
	r := rand.New(rand.NewPCG(99, 0))
	for i := 0; i < propertyN/4; i++ {
		x := r.IntN(1000)
		direct := rts.Run(rts.Now[string](x))
		viaFork := rts.Run(rts.FlatMap(rts.Fork(rts.Now[string](x)), func(f rts.Fiber[string, int]) rts.Effect[string, int] {
			return f.Join()
		}))
		if direct != viaFork {
			t.Fatalf("x=%d: fork(e).flatMap(join) != e", x)
		}
	}
}

func TestPropertyPointIsLazyNowIsEager(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 0))
	for i := 0; i < propertyN/4; i++ {
		x := r.IntN(1000)
		evaluated := false
		e := rts.Point[string](func() int {
			evaluated = true
			return x
		})
		if evaluated {
			t.Fatal("Point evaluated eagerly")
		}
		if got := rts.Run(e); got != x {
			t.Fatalf("got %d, want %d", got, x)
		}
		if !evaluated {
			t.Fatal("Point never evaluated")
		}
	}
}
