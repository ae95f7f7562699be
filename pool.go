// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// Free-node pools hand out and reclaim node[T] values by tagged-pointer CAS
// alone, with no hazard pointers: a pool never truly frees a node, so a
// goroutine that loses a race for a node it already dereferenced can never
// be looking at memory that has been returned to the OS. Every node a pool
// constructs is built once, up front, into a permanent arena slice the pool
// holds for its own lifetime — that slice is what keeps the GC from
// reclaiming a node whose only other reference is the bare uintptr stashed
// inside a taggedWord. Put accepts any node, so a container with several
// pools may hand a node to a pool other than the one whose arena holds it
// ([TPQueue] also puts its embedded initial dummy node into a pool); such a
// node stays rooted by its original arena, or by the queue itself.

func ptrOfNode[T any](w uint64) *node[T] {
	return (*node[T])(unsafe.Pointer(unpackPtr(w)))
}

// stackPool is a LIFO free-node pool: a Treiber stack of node[T] values,
// ABA-protected by the same tagged word used for the real containers built
// on top of it.
type stackPool[T any] struct {
	head atomix.Uint64
	_    pad

	arena []node[T]
}

// newStackPool preallocates capacity+1 nodes (the +1 is a permanent
// sentinel: the pool always keeps at least one node linked so Get can tell
// "empty" apart from "not yet initialized") and links them into a single
// free chain.
func newStackPool[T any](capacity int) *stackPool[T] {
	if capacity < 1 {
		capacity = 1
	}
	p := &stackPool[T]{arena: make([]node[T], capacity+1)}
	for i := range p.arena {
		var next uint64
		if i+1 < len(p.arena) {
			next = packTaggedWord(uintptr(unsafe.Pointer(&p.arena[i+1])), 0)
		}
		p.arena[i].next.StoreRelaxed(next)
	}
	p.head.StoreRelaxed(packTaggedWord(uintptr(unsafe.Pointer(&p.arena[0])), 0))
	return p
}

func (p *stackPool[T]) pop() *node[T] {
	backoff := DefaultBackoff()
	for {
		head := p.head.LoadAcquire()
		headPtr := ptrOfNode[T](head)
		nextWord := headPtr.next.LoadRelaxed()
		if unpackPtr(nextWord) == 0 {
			return nil
		}
		newHead := packTaggedWord(unpackPtr(nextWord), unpackCnt(head)+1)
		if p.head.CompareAndSwapAcqRel(head, newHead) {
			return headPtr
		}
		backoff.Wait()
	}
}

func (p *stackPool[T]) push(n *node[T]) {
	backoff := DefaultBackoff()
	for {
		head := p.head.LoadAcquire()
		n.next.StoreRelaxed(head)
		newHead := packTaggedWord(uintptr(unsafe.Pointer(n)), unpackCnt(head)+1)
		if p.head.CompareAndSwapAcqRel(head, newHead) {
			return
		}
		backoff.Wait()
	}
}

// Get pops a free node preloaded with value v and a nil next, or nil if the
// pool is exhausted.
func (p *stackPool[T]) Get(v T) *node[T] {
	n := p.pop()
	if n == nil {
		return nil
	}
	n.value = v
	n.next.StoreRelaxed(0)
	return n
}

// GetWithNext is Get but pre-sets the returned node's next tagged word,
// letting a caller construct a fully-linked node before it is ever
// published.
func (p *stackPool[T]) GetWithNext(next uint64, v T) *node[T] {
	n := p.pop()
	if n == nil {
		return nil
	}
	n.value = v
	n.next.StoreRelaxed(next)
	return n
}

// Put returns n to the free list.
func (p *stackPool[T]) Put(n *node[T]) {
	p.push(n)
}

// queuePool is a Michael-Scott FIFO free-node pool: nodes are handed out in
// (roughly) the order they were returned, which spreads reuse across the
// arena instead of hammering whichever node was freed last.
type queuePool[T any] struct {
	head atomix.Uint64
	_    pad
	tail atomix.Uint64
	_    pad

	arena []node[T]
}

func newQueuePool[T any](capacity int) *queuePool[T] {
	if capacity < 1 {
		capacity = 1
	}
	p := &queuePool[T]{arena: make([]node[T], capacity+1)}
	for i := range p.arena {
		var next uint64
		if i+1 < len(p.arena) {
			next = packTaggedWord(uintptr(unsafe.Pointer(&p.arena[i+1])), 0)
		}
		p.arena[i].next.StoreRelaxed(next)
	}
	dummy := packTaggedWord(uintptr(unsafe.Pointer(&p.arena[0])), 0)
	p.head.StoreRelaxed(dummy)
	p.tail.StoreRelaxed(dummy)
	return p
}

func (p *queuePool[T]) pop() *node[T] {
	backoff := DefaultBackoff()
	for {
		head := p.head.LoadAcquire()
		tail := p.tail.LoadAcquire()
		headPtr := ptrOfNode[T](head)
		hnext := headPtr.next.LoadAcquire()
		if unpackPtr(head) == unpackPtr(tail) {
			if unpackPtr(hnext) == 0 {
				return nil
			}
			p.tail.CompareAndSwapAcqRel(tail, packTaggedWord(unpackPtr(hnext), unpackCnt(tail)+1))
			backoff.Wait()
			continue
		}
		newHead := packTaggedWord(unpackPtr(hnext), unpackCnt(head)+1)
		if p.head.CompareAndSwapAcqRel(head, newHead) {
			return headPtr
		}
		backoff.Wait()
	}
}

func (p *queuePool[T]) push(n *node[T]) {
	n.next.StoreRelease(0)
	backoff := DefaultBackoff()
	for {
		tail := p.tail.LoadAcquire()
		tailPtr := ptrOfNode[T](tail)
		next := tailPtr.next.LoadAcquire()
		if unpackPtr(next) == 0 {
			newNext := packTaggedWord(uintptr(unsafe.Pointer(n)), unpackCnt(next)+1)
			if tailPtr.next.CompareAndSwapAcqRel(next, newNext) {
				p.tail.CompareAndSwapAcqRel(tail, packTaggedWord(uintptr(unsafe.Pointer(n)), unpackCnt(tail)+1))
				return
			}
		} else {
			p.tail.CompareAndSwapAcqRel(tail, packTaggedWord(unpackPtr(next), unpackCnt(tail)+1))
		}
		backoff.Wait()
	}
}

// Get pops a free node preloaded with value v and a nil next, or nil if the
// bucket is exhausted.
func (p *queuePool[T]) Get(v T) *node[T] {
	n := p.pop()
	if n == nil {
		return nil
	}
	n.value = v
	n.next.StoreRelaxed(0)
	return n
}

// Put returns n to the free list.
func (p *queuePool[T]) Put(n *node[T]) {
	p.push(n)
}
