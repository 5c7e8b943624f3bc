// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts_test

import (
	"testing"

	"code.hybscloud.com/rts"
)

func TestRunNow(t *testing.T) {
	got := rts.Run(rts.Now[string](1))
	if got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}

func TestPointIsLazy(t *testing.T) {
	evaluated := false
	e := rts.Point[string](func() int {
		evaluated = true
		return 42
	})
	if evaluated {
		t.Fatal("Point thunk ran at construction time")
	}
	got := rts.Run(e)
	if !evaluated {
		t.Fatal("Point thunk never ran")
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestPointConstructionNeverPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("constructing Point panicked: %v", r)
		}
	}()
	_ = rts.Point[string](func() int { panic("boom") })
}

func TestSyncPanicIsDefect(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Run to panic on a Sync defect")
		}
	}()
	e := rts.Sync[string](func() int { panic("boom") })
	rts.Run(e)
}

func TestSyncThrowableConvertsToTypedFailure(t *testing.T) {
	e := rts.SyncThrowable[string](func() int { panic("boom") })
	attempted := rts.Attempt(e)
	result := rts.Run(attempted)
	errVal, isLeft := result.GetLeft()
	if !isLeft {
		t.Fatal("expected a Left from Attempt over a SyncThrowable panic")
	}
	if errVal != "boom" {
		t.Fatalf("got %q, want %q", errVal, "boom")
	}
}

func TestSuspendDefersConstruction(t *testing.T) {
	called := false
	e := rts.Suspend(func() rts.Effect[string, int] {
		called = true
		return rts.Now[string](7)
	})
	if called {
		t.Fatal("Suspend thunk ran at construction time")
	}
	got := rts.Run(e)
	if !called {
		t.Fatal("Suspend thunk never ran")
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestFailThrowsUnhandledError(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Run to panic on Fail")
		}
	}()
	rts.Run(rts.Fail[string, int]("oh"))
}

func TestTerminateSurfacesAsDefect(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Run to panic on Terminate")
		}
	}()
	rts.Run(rts.Terminate[string, int]("kaboom"))
}
