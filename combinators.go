// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

// FlatMap sequences child, applying k to its produced value.
func FlatMap[E, A, B any](child Effect[E, A], k func(A) Effect[E, B]) Effect[E, B] {
	return wrap[E, B](flatMapNode{
		child: child.n,
		k:     func(v any) node { return k(v.(A)).n },
	})
}

// Map is defined in terms of FlatMap and Now, per the laziness contract:
// map(f) ≡ flatMap(x => now(f(x))).
func Map[E, A, B any](e Effect[E, A], f func(A) B) Effect[E, B] {
	return FlatMap(e, func(a A) Effect[E, B] { return Now[E, B](f(a)) })
}

// Then sequences first then second, discarding first's result.
func Then[E, A, B any](first Effect[E, A], second Effect[E, B]) Effect[E, B] {
	return FlatMap(first, func(A) Effect[E, B] { return second })
}

// Zip pairs the results of two effects, sequencing left before right.
func Zip[E, A, B any](left Effect[E, A], right Effect[E, B]) Effect[E, Pair[A, B]] {
	return ZipWith(left, right, func(a A, b B) Pair[A, B] { return Pair[A, B]{First: a, Second: b} })
}

// Pair is a simple tuple, used by Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

// ZipWith combines the results of two effects with f, sequencing left
// before right.
func ZipWith[E, A, B, C any](left Effect[E, A], right Effect[E, B], f func(A, B) C) Effect[E, C] {
	return FlatMap(left, func(a A) Effect[E, C] {
		return FlatMap(right, func(b B) Effect[E, C] { return Now[E, C](f(a, b)) })
	})
}

// Attempt reifies child's typed failure channel into a success of
// Either[E,A]. Defects are not caught; they still propagate as defects.
func Attempt[E, A any](child Effect[E, A]) Effect[E, Either[E, A]] {
	return wrap[E, Either[E, A]](attemptNode{
		child:   child.n,
		toRight: func(v any) any { return Right[E, A](v.(A)) },
		toLeft:  func(e any) any { return Left[E, A](e.(E)) },
	})
}

// Absolve is the inverse of Attempt: child must produce an
// Either[E,A]; Right values continue as success, Left values become a
// typed failure.
func Absolve[E, A any](child Effect[E, Either[E, A]]) Effect[E, A] {
	return wrap[E, A](absolveNode{
		child: child.n,
		unwrap: func(v any) (any, bool) {
			eith := v.(Either[E, A])
			if r, ok := eith.GetRight(); ok {
				return r, true
			}
			l, _ := eith.GetLeft()
			return l, false
		},
	})
}

// Ensuring runs finalizer after child on every exit path: success,
// typed failure, defect, or interruption. finalizer runs with interrupts
// masked; a defect or failure inside finalizer does not replace child's
// propagating outcome, it is reported to the fiber's uncaught handler.
func Ensuring[E, A any](child Effect[E, A], finalizer Effect[E, struct{}]) Effect[E, A] {
	return wrap[E, A](ensuringNode{child: child.n, finalizer: finalizer.n})
}

// OnError is like Ensuring, but handler receives Some(error) on typed
// failure and None on success; it is skipped entirely on interruption
// and on defect.
func OnError[E, A any](child Effect[E, A], handler func(err Either[E, struct{}]) Effect[E, struct{}]) Effect[E, A] {
	return wrap[E, A](onErrorNode{
		child: child.n,
		handler: func(hasErr bool, errVal any) node {
			if hasErr {
				return handler(Left[E, struct{}](errVal.(E))).n
			}
			return handler(Right[E, struct{}](struct{}{})).n
		},
	})
}
