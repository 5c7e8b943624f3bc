// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

import (
	"fmt"

	xgxerror "github.com/xgx-io/xgx-error"
)

// UnhandledError wraps a typed failure E that escaped Run. When e is an
// error, Unwrap exposes it, so callers using errors.As/Is keep working.
type UnhandledError struct {
	Err any
}

func (u *UnhandledError) Error() string {
	return fmt.Sprintf("rts: unhandled error: %v", u.Err)
}

func (u *UnhandledError) Unwrap() error {
	if err, ok := u.Err.(error); ok {
		return err
	}
	return nil
}

// toHostError translates a terminal outcome into the value run panics
// with, per §7: Failed(e) -> UnhandledError(e) inside an xgx-error;
// Interrupted(cause)/defect -> the carried cause, unchanged.
func toHostError(out outcome) any {
	switch out.kind {
	case outcomeFail:
		return xgxFailure(out.errVal)
	case outcomeDefect:
		return out.defect
	case outcomeInterrupt:
		return out.cause
	default:
		return nil
	}
}

func xgxFailure(e any) error {
	u := &UnhandledError{Err: e}
	if _, ok := e.(error); ok {
		return xgxerror.Internal(u).Code(xgxerror.CodeInternal)
	}
	return xgxerror.Ctx(u, u.Error())
}

func xgxDefect(d any) error {
	if err, ok := d.(error); ok {
		return xgxerror.Defect(err)
	}
	return xgxerror.Defect(fmt.Errorf("%v", d))
}

func xgxInterrupt(cause any) error {
	if cause == nil {
		return xgxerror.Interrupt("fiber interrupted")
	}
	return xgxerror.Interrupt(fmt.Sprintf("fiber interrupted: %v", cause))
}
