// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// TPStack is a tagged-pointer LIFO stack. It needs no hazard pointers at
// all: nodes come from a bucketed [stackPool], which never truly frees a
// node, so a stale reference can never observe memory handed back to
// anything but this same stack. A per-thread round-robin bucket index
// spreads pushes and pops across buckets so concurrent threads rarely
// contend on the same free list; each bucket is a fixed-capacity arena
// rather than a grow-on-demand allocator, which keeps the tagged-pointer
// reuse argument simple (see pool.go).
type TPStack[T any] struct {
	head atomix.Uint64
	_    pad

	buckets      []*stackPool[T]
	threadBucket []int
	registered   atomix.Int64
	maxThreads   int
}

// NewTPStack constructs a stack with numBuckets free-node buckets, each
// holding bucketCapacity nodes, supporting up to maxThreads concurrently
// registered goroutines.
func NewTPStack[T any](maxThreads, numBuckets, bucketCapacity int) *TPStack[T] {
	if numBuckets < 1 {
		numBuckets = 1
	}
	s := &TPStack[T]{
		buckets:      make([]*stackPool[T], numBuckets),
		threadBucket: make([]int, maxThreads),
		maxThreads:   maxThreads,
	}
	for i := range s.buckets {
		s.buckets[i] = newStackPool[T](bucketCapacity)
	}
	return s
}

// ThreadInit registers the calling goroutine.
func (s *TPStack[T]) ThreadInit() (Handle, error) {
	n := s.registered.AddAcqRel(1) - 1
	if n >= int64(s.maxThreads) {
		return 0, ErrTooManyThreads
	}
	return Handle(n), nil
}

func (s *TPStack[T]) nextBucket(h Handle) *stackPool[T] {
	idx := s.threadBucket[h] % len(s.buckets)
	s.threadBucket[h]++
	return s.buckets[idx]
}

// Push reports false when the bucket assigned to this call is exhausted.
// Retrying (possibly landing on a different bucket) or backing off is left
// to the caller, matching every other bounded operation in this package.
func (s *TPStack[T]) Push(h Handle, value T) bool {
	n := s.nextBucket(h).Get(value)
	if n == nil {
		return false
	}
	backoff := DefaultBackoff()
	for {
		head := s.head.LoadAcquire()
		n.next.StoreRelaxed(head)
		newHead := packTaggedWord(uintptr(unsafe.Pointer(n)), unpackCnt(head)+1)
		if s.head.CompareAndSwapAcqRel(head, newHead) {
			return true
		}
		backoff.Wait()
	}
}

// Pop removes and returns the top value, or reports false on an empty
// stack.
func (s *TPStack[T]) Pop(h Handle) (T, bool) {
	backoff := DefaultBackoff()
	for {
		head := s.head.LoadAcquire()
		if unpackPtr(head) == 0 {
			var zero T
			return zero, false
		}
		headPtr := ptrOfNode[T](head)
		next := headPtr.next.LoadRelaxed()
		v := headPtr.value
		newHead := packTaggedWord(unpackPtr(next), unpackCnt(head)+1)
		if s.head.CompareAndSwapAcqRel(head, newHead) {
			s.nextBucket(h).Put(headPtr)
			return v, true
		}
		backoff.Wait()
	}
}
