// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

// Set is the common contract shared by the ordered list and the hash set.
//
// Add reports false on a duplicate value, never an error: duplicate keys are
// an expected outcome of concurrent insertion, not a failure. Remove reports
// false when the value is absent. Contains never mutates state and confers
// no ownership over the returned value — by the time it returns, a
// concurrent Remove may already have taken effect.
type Set[T any] interface {
	Add(h Handle, value T) bool
	Remove(h Handle, value T) bool
	Contains(h Handle, value T) bool
}

// LIFO is the common contract shared by the stack variants.
type LIFO[T any] interface {
	Push(h Handle, value T) bool
	Pop(h Handle) (T, bool)
}

// FIFO is the common contract shared by the queue variants.
type FIFO[T any] interface {
	Push(h Handle, value T) bool
	Pop(h Handle) (T, bool)
}

// Registrar is implemented by every container that requires participating
// goroutines to register before calling any other method.
//
// A Handle is not a goroutine-local: Go has no supported notion of one.
// It is a small token a goroutine obtains once, from the goroutine that
// will use it, and then passes explicitly to every subsequent call, in
// place of the thread-local slot index a language with cheap TLS would
// use instead.
type Registrar interface {
	ThreadInit() (Handle, error)
}

// Handle identifies a registered goroutine to a container. Handle(0) is the
// first handle ThreadInit hands out; every successful call returns a Handle
// >= 0, one past the previous caller's, up to the container's maxThreads.
type Handle int

// Drainer is implemented by bounded containers that can be switched into a
// shutdown mode, once producers are known to be finished, in which every
// further Push is refused.
type Drainer interface {
	Drain()
}
