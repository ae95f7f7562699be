// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// HPNum is the number of hazard-pointer slots each registered thread owns.
// Two slots cover a search's current and previous node; the rest give the
// list/hash-set/stack algorithms room to protect a to-be-linked successor
// without releasing an already-held guard.
const HPNum = 8

// retireK is the multiplier in the retire-list capacity formula
// R = retireK * HPNum * maxThreads: once a thread's retire list reaches R
// entries it must scan before retiring further nodes, bounding how much
// logically-deleted memory the whole container can keep alive at once.
const retireK = 2

// HazardManager implements Michael's hazard-pointer scheme for safe memory
// reclamation of any hpNode/hashNode-shaped node type N: a reader publishes
// the addresses it is about to dereference in a per-thread slot before
// touching them, and a node is only physically freed once no published slot
// anywhere still names it. It is embedded by [OrderedList], [HashSet], and
// [HPStack] rather than exposed as a standalone container.
type HazardManager[N any] struct {
	maxThreads int
	alloc      allocator[N]

	registered atomix.Int64 // next Handle to hand out

	slots [][HPNum]atomix.Uintptr
	_     pad

	retireCap int
	retired   [][]*N // per-thread retire list
}

// NewHazardManager constructs a manager supporting up to maxThreads
// concurrently registered goroutines.
func NewHazardManager[N any](maxThreads int) *HazardManager[N] {
	if maxThreads < 1 {
		maxThreads = 1
	}
	m := &HazardManager[N]{
		maxThreads: maxThreads,
		slots:      make([][HPNum]atomix.Uintptr, maxThreads),
		retireCap:  retireK * HPNum * maxThreads,
		retired:    make([][]*N, maxThreads),
	}
	return m
}

// ThreadInit registers the calling goroutine, returning a [Handle] to pass
// to every subsequent hazard-pointer operation. It returns
// [ErrTooManyThreads] once maxThreads goroutines are already registered.
func (m *HazardManager[N]) ThreadInit() (Handle, error) {
	n := m.registered.AddAcqRel(1) - 1
	if n >= int64(m.maxThreads) {
		return 0, ErrTooManyThreads
	}
	return Handle(n), nil
}

// SetHP publishes p as protected in the thread's slot idx. Once this store
// is visible, no other thread's scan will physically drop p while it is
// still installed here.
func (m *HazardManager[N]) SetHP(h Handle, idx int, p *N) {
	m.slots[h][idx].StoreRelease(uintptr(unsafe.Pointer(p)))
}

// ClearHP releases the protection previously installed with SetHP.
func (m *HazardManager[N]) ClearHP(h Handle, idx int) {
	m.slots[h][idx].StoreRelease(0)
}

// GetHP returns the pointer currently published in the thread's slot idx.
func (m *HazardManager[N]) GetHP(h Handle, idx int) *N {
	return (*N)(unsafe.Pointer(m.slots[h][idx].LoadAcquire()))
}

// Alloc constructs a fresh, unpublished, zero-valued node. Nodes obtained
// this way must eventually reach Retire once they are unlinked, or FreeNow
// if the CAS that would have published them never succeeds.
func (m *HazardManager[N]) Alloc() *N {
	return m.alloc.construct()
}

// AllocValue constructs a fresh, unpublished node preloaded with v — the
// common case of allocating a node that already carries the value a caller
// is about to insert, instead of allocating zeroed and assigning the
// payload field by hand.
func (m *HazardManager[N]) AllocValue(v N) *N {
	return m.alloc.constructValue(v)
}

// FreeNow immediately destroys a node that was allocated but never made
// reachable by any other thread — the losing side of a CAS race during
// insertion, for instance, which no hazard pointer could ever have
// protected.
func (m *HazardManager[N]) FreeNow(p *N) {
	m.alloc.destroy(p)
}

// Retire places a logically-removed, previously-published node onto the
// calling thread's retire list, scanning and physically freeing whatever it
// safely can once the list reaches capacity.
func (m *HazardManager[N]) Retire(h Handle, p *N) {
	list := append(m.retired[h], p)
	if len(list) >= m.retireCap {
		list = m.scan(h, list)
	}
	m.retired[h] = list
}

// scan compares every retired pointer against every thread's published
// hazard slots, freeing the ones that are not currently protected and
// keeping the rest for the next round.
func (m *HazardManager[N]) scan(h Handle, list []*N) []*N {
	protected := make(map[uintptr]struct{}, m.maxThreads*HPNum)
	for t := range m.slots {
		for i := range HPNum {
			if addr := m.slots[t][i].LoadAcquire(); addr != 0 {
				protected[addr] = struct{}{}
			}
		}
	}
	kept := list[:0]
	for _, p := range list {
		if _, busy := protected[uintptr(unsafe.Pointer(p))]; busy {
			kept = append(kept, p)
			continue
		}
		m.alloc.destroy(p)
	}
	return kept
}
