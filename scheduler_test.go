// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts_test

import (
	"testing"
	"time"

	"code.hybscloud.com/rts"
)

func TestSleepDelaysCompletion(t *testing.T) {
	start := time.Now()
	rts.Run(rts.Sleep[string](30 * time.Millisecond))
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Fatalf("Sleep returned after %v, want at least 25ms", elapsed)
	}
}

func TestManyConcurrentFibersAllMakeProgress(t *testing.T) {
	const n = 64
	fibers := make([]rts.Effect[string, rts.Fiber[string, int]], n)
	for i := 0; i < n; i++ {
		i := i
		fibers[i] = rts.Fork(rts.Then(rts.Sleep[string](5*time.Millisecond), rts.Now[string](i)))
	}

	sum := 0
	e := rts.Now[string](0)
	started := make([]rts.Fiber[string, int], n)
	for i := 0; i < n; i++ {
		i := i
		e = rts.FlatMap(e, func(acc int) rts.Effect[string, int] {
			return rts.Map(fibers[i], func(f rts.Fiber[string, int]) int {
				started[i] = f
				return acc
			})
		})
	}
	for i := 0; i < n; i++ {
		i := i
		e = rts.FlatMap(e, func(acc int) rts.Effect[string, int] {
			return rts.Map(started[i].Join(), func(v int) int { return acc + v })
		})
	}
	sum = rts.Run(e)

	want := n * (n - 1) / 2
	if sum != want {
		t.Fatalf("got %d, want %d", sum, want)
	}
}
