// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// TPQueue is a Michael-Scott FIFO queue over tagged pointers. A permanent
// dummy node keeps head and tail always non-nil, push races the tail
// forward one CAS at a time, and free nodes come from a bucketed
// [queuePool] assigned round-robin per thread so concurrent producers
// rarely contend on the same free list.
type TPQueue[T any] struct {
	head atomix.Uint64
	_    pad
	tail atomix.Uint64
	_    pad

	sentinel node[T]

	buckets      []*queuePool[T]
	threadBucket []int
	registered   atomix.Int64
	maxThreads   int

	draining atomix.Bool // Drain mode: no more Push calls accepted
}

// NewTPQueue constructs a queue with numBuckets free-node buckets, each
// holding bucketCapacity nodes, supporting up to maxThreads concurrently
// registered goroutines.
func NewTPQueue[T any](maxThreads, numBuckets, bucketCapacity int) *TPQueue[T] {
	if numBuckets < 1 {
		numBuckets = 1
	}
	q := &TPQueue[T]{
		buckets:      make([]*queuePool[T], numBuckets),
		threadBucket: make([]int, maxThreads),
		maxThreads:   maxThreads,
	}
	for i := range q.buckets {
		q.buckets[i] = newQueuePool[T](bucketCapacity)
	}
	dummy := packTaggedWord(uintptr(unsafe.Pointer(&q.sentinel)), 0)
	q.head.StoreRelaxed(dummy)
	q.tail.StoreRelaxed(dummy)
	return q
}

// ThreadInit registers the calling goroutine.
func (q *TPQueue[T]) ThreadInit() (Handle, error) {
	n := q.registered.AddAcqRel(1) - 1
	if n >= int64(q.maxThreads) {
		return 0, ErrTooManyThreads
	}
	q.threadBucket[n] = int(n) % len(q.buckets)
	return Handle(n), nil
}

// nextBucket returns the bucket the handle was pinned to at ThreadInit.
func (q *TPQueue[T]) nextBucket(h Handle) *queuePool[T] {
	return q.buckets[q.threadBucket[h]]
}

// Drain puts the queue into shutdown mode: every subsequent Push returns
// false. Callers must ensure no goroutine is still trying to Push once
// Drain is called; Pop then drains every item already enqueued and
// afterwards reports false, with no risk of a straggling Push reviving it.
func (q *TPQueue[T]) Drain() {
	q.draining.StoreRelease(true)
}

// Push reports false once the queue is draining, or when the bucket
// assigned to this handle is exhausted.
func (q *TPQueue[T]) Push(h Handle, value T) bool {
	if q.draining.LoadAcquire() {
		return false
	}
	n := q.nextBucket(h).Get(value)
	if n == nil {
		return false
	}
	n.next.StoreRelaxed(0)

	backoff := DefaultBackoff()
	for {
		tail := q.tail.LoadAcquire()
		tailPtr := ptrOfNode[T](tail)
		tnext := tailPtr.next.LoadAcquire()
		if unpackPtr(tnext) == 0 {
			newNext := packTaggedWord(uintptr(unsafe.Pointer(n)), unpackCnt(tnext)+1)
			if tailPtr.next.CompareAndSwapAcqRel(tnext, newNext) {
				q.tail.CompareAndSwapAcqRel(tail, packTaggedWord(uintptr(unsafe.Pointer(n)), unpackCnt(tail)+1))
				return true
			}
			backoff.Wait()
			continue
		}
		q.tail.CompareAndSwapAcqRel(tail, packTaggedWord(unpackPtr(tnext), unpackCnt(tail)+1))
		backoff.Wait()
	}
}

// Pop removes and returns the value at the front of the queue, or reports
// false when the queue is empty.
func (q *TPQueue[T]) Pop(h Handle) (T, bool) {
	backoff := DefaultBackoff()
	for {
		head := q.head.LoadAcquire()
		tail := q.tail.LoadAcquire()
		headPtr := ptrOfNode[T](head)
		hnext := headPtr.next.LoadAcquire()
		if unpackPtr(head) == unpackPtr(tail) {
			if unpackPtr(hnext) == 0 {
				var zero T
				return zero, false
			}
			q.tail.CompareAndSwapAcqRel(tail, packTaggedWord(unpackPtr(hnext), unpackCnt(tail)+1))
			backoff.Wait()
			continue
		}
		hnextPtr := ptrOfNode[T](hnext)
		v := hnextPtr.value
		newHead := packTaggedWord(unpackPtr(hnext), unpackCnt(head)+1)
		if q.head.CompareAndSwapAcqRel(head, newHead) {
			q.nextBucket(h).Put(headPtr)
			return v, true
		}
		backoff.Wait()
	}
}
