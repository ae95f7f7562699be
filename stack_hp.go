// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

import "sync/atomic"

// HPStack is a Treiber stack with hazard-pointer reclamation. Push races
// a single CAS on the head pointer; pop publishes the observed head as a
// hazard pointer before dereferencing it, so a concurrent pop-then-reuse
// of that node elsewhere can never yank it out from under a reader still
// walking it.
type HPStack[T any] struct {
	head atomic.Pointer[hpNode[T]]
	hm   *HazardManager[hpNode[T]]
}

// NewHPStack constructs a stack supporting up to maxThreads concurrently
// registered goroutines.
func NewHPStack[T any](maxThreads int) *HPStack[T] {
	return &HPStack[T]{hm: NewHazardManager[hpNode[T]](maxThreads)}
}

// ThreadInit registers the calling goroutine.
func (s *HPStack[T]) ThreadInit() (Handle, error) {
	return s.hm.ThreadInit()
}

// Push always succeeds: the hazard-pointer stack has no fixed node budget.
func (s *HPStack[T]) Push(h Handle, value T) bool {
	n := s.hm.AllocValue(hpNode[T]{value: value})
	backoff := DefaultBackoff()
	for {
		head := s.head.Load()
		n.next.Store(&markedNext[hpNode[T]]{node: head})
		if s.head.CompareAndSwap(head, n) {
			return true
		}
		backoff.Wait()
	}
}

// Pop removes and returns the top value, or reports false on an empty
// stack.
func (s *HPStack[T]) Pop(h Handle) (T, bool) {
	backoff := DefaultBackoff()
	for {
		head := s.head.Load()
		if head == nil {
			var zero T
			return zero, false
		}
		s.hm.SetHP(h, 0, head)
		if s.head.Load() != head {
			backoff.Wait()
			continue
		}
		next := head.next.Load()
		var nextNode *hpNode[T]
		if next != nil {
			nextNode = next.node
		}
		if s.head.CompareAndSwap(head, nextNode) {
			v := head.value
			s.hm.ClearHP(h, 0)
			s.hm.Retire(h, head)
			return v, true
		}
		backoff.Wait()
	}
}
