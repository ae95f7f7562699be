// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

// OrderedList is a Harris-style lock-free ordered singly-linked set.
// Deletion is logical first (a mark on the removed node's next pointer)
// and physical second (unlinked by whichever search next passes over it),
// with hazard pointers protecting both the node a search is standing on
// and the one it is about to step into.
//
// The mark is a boxed [markedNext] rather than a stolen pointer bit, since
// Go pointers offer no spare bits to steal: every place the original
// algorithm tests or sets a mark bit becomes a read of, or a fresh
// allocation of, a markedNext value here.
type OrderedList[T any] struct {
	head *hpNode[T] // permanent sentinel, never compared against
	hm   *HazardManager[hpNode[T]]
	less func(a, b T) bool
}

// NewOrderedList constructs an empty list ordered by less, supporting up to
// maxThreads concurrently registered goroutines.
func NewOrderedList[T any](maxThreads int, less func(a, b T) bool) *OrderedList[T] {
	hm := NewHazardManager[hpNode[T]](maxThreads)
	return &OrderedList[T]{head: hm.Alloc(), hm: hm, less: less}
}

// ThreadInit registers the calling goroutine.
func (l *OrderedList[T]) ThreadInit() (Handle, error) {
	return l.hm.ThreadInit()
}

func linkNode[T any](mn *markedNext[hpNode[T]]) *hpNode[T] {
	if mn == nil {
		return nil
	}
	return mn.node
}

func linkDeleted[T any](mn *markedNext[hpNode[T]]) bool {
	return mn != nil && mn.deleted
}

func (l *OrderedList[T]) equal(a, b T) bool {
	return !l.less(a, b) && !l.less(b, a)
}

// search returns the node immediately before the first node whose value is
// >= val (prev, curr), plus the exact *markedNext currently linked from
// prev — the CAS anchor a caller must use to make prev.next changes stick.
// It physically unlinks every logically-deleted node it walks past.
func (l *OrderedList[T]) search(h Handle, val T) (prev, curr *hpNode[T], prevLink *markedNext[hpNode[T]]) {
	backoff := DefaultBackoff()
again:
	prev = l.head
	l.hm.SetHP(h, 0, prev)
	prevLink = prev.next.Load()
	curr = linkNode(prevLink)
	l.hm.SetHP(h, 1, curr)
	if prev.next.Load() != prevLink {
		goto again
	}
	for {
		if curr == nil {
			return prev, nil, prevLink
		}
		currLink := curr.next.Load()
		for linkDeleted(currLink) {
			next := linkNode(currLink)
			cleared := &markedNext[hpNode[T]]{node: next}
			if !prev.next.CompareAndSwap(prevLink, cleared) {
				backoff.Wait()
				goto again
			}
			l.hm.Retire(h, curr)
			prevLink = cleared
			if next == nil {
				return prev, nil, prevLink
			}
			curr = next
			l.hm.SetHP(h, 1, curr)
			if prev.next.Load() != prevLink {
				goto again
			}
			currLink = curr.next.Load()
		}
		if !l.less(curr.value, val) {
			return prev, curr, prevLink
		}
		prev = curr
		l.hm.SetHP(h, 0, prev)
		curr = linkNode(currLink)
		l.hm.SetHP(h, 1, curr)
		prevLink = currLink
		if prev.next.Load() != prevLink {
			goto again
		}
	}
}

func (l *OrderedList[T]) clearHP(h Handle) {
	l.hm.ClearHP(h, 0)
	l.hm.ClearHP(h, 1)
}

// Add reports false if value is already present.
func (l *OrderedList[T]) Add(h Handle, value T) bool {
	newNode := l.hm.AllocValue(hpNode[T]{value: value})
	backoff := DefaultBackoff()
	for {
		prev, curr, prevLink := l.search(h, value)
		if curr != nil && l.equal(curr.value, value) {
			l.hm.FreeNow(newNode)
			l.clearHP(h)
			return false
		}
		newNode.next.Store(&markedNext[hpNode[T]]{node: curr})
		if prev.next.CompareAndSwap(prevLink, &markedNext[hpNode[T]]{node: newNode}) {
			l.clearHP(h)
			return true
		}
		backoff.Wait()
	}
}

// Remove reports false if value is absent.
func (l *OrderedList[T]) Remove(h Handle, value T) bool {
	backoff := DefaultBackoff()
	for {
		_, curr, _ := l.search(h, value)
		if curr == nil || !l.equal(curr.value, value) {
			l.clearHP(h)
			return false
		}
		next := curr.next.Load()
		if linkDeleted(next) {
			continue
		}
		marked := &markedNext[hpNode[T]]{node: linkNode(next), deleted: true}
		if curr.next.CompareAndSwap(next, marked) {
			l.clearHP(h)
			return true
		}
		backoff.Wait()
	}
}

// Contains reports whether value is currently present.
func (l *OrderedList[T]) Contains(h Handle, value T) bool {
	_, curr, _ := l.search(h, value)
	found := curr != nil && l.equal(curr.value, value)
	l.clearHP(h)
	return found
}
