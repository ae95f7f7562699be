// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

import (
	"hash/maphash"
	"math/bits"
	"sort"
	"unsafe"

	"code.hybscloud.com/atomix"
)

// HashSet is a split-ordered hash set built on hazard pointers: a single
// hazard-pointer-protected ordered list (the same Harris algorithm as
// [OrderedList], reimplemented here over hashNode) carries N permanent
// bucket sentinels, with real elements interleaved among them by a
// bit-reversed key so that every bucket's elements form one contiguous run
// bounded by its own sentinel and the next one. N is fixed at
// construction; the set never resizes.
type HashSet[T comparable] struct {
	n         int
	hashFn    func(T) uint64
	hm        *HazardManager[hashNode[T]]
	sentinels []*hashNode[T] // indexed by bucket

	loadFactor []atomix.Int64
	_          pad
}

// hsRegularKey and hsSentinelKey implement the split-ordered-list trick:
// both share the same top log2(N) bits (the bucket, taken from the low bits
// of the hash) once reversed, and a regular key always has its low bit set
// while a sentinel key never does, so the two families can never collide.
func hsRegularKey(hash uint64) uint64 {
	return bits.Reverse64(hash | 1<<63)
}

func hsSentinelKey(bucket uint64) uint64 {
	return bits.Reverse64(bucket)
}

// NewHashSet constructs a set with numBuckets buckets (rounded up to a
// power of two) supporting up to maxThreads concurrently registered
// goroutines. A nil hashFn defaults to a randomly seeded
// [maphash.Comparable] hash, matching the pack's own idiomatic hashing
// choice (tef-sink/map.go, other_examples/puzpuzpuz-xsync__map.go).
func NewHashSet[T comparable](maxThreads, numBuckets int, hashFn func(T) uint64) *HashSet[T] {
	n := roundToPow2(numBuckets)
	if hashFn == nil {
		seed := maphash.MakeSeed()
		hashFn = func(v T) uint64 { return maphash.Comparable(seed, v) }
	}
	hm := NewHazardManager[hashNode[T]](maxThreads)

	sentinels := make([]*hashNode[T], n)
	order := make([]int, n)
	for i := range sentinels {
		s := hm.Alloc()
		s.isSentinel = true
		s.key = hsSentinelKey(uint64(i))
		sentinels[i] = s
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return sentinels[order[a]].key < sentinels[order[b]].key
	})
	for i := 0; i < n-1; i++ {
		curr, next := sentinels[order[i]], sentinels[order[i+1]]
		curr.next.Store(&markedNext[hpNode[T]]{node: &next.hpNode})
	}

	return &HashSet[T]{
		n:          n,
		hashFn:     hashFn,
		hm:         hm,
		sentinels:  sentinels,
		loadFactor: make([]atomix.Int64, maxThreads),
	}
}

// ThreadInit registers the calling goroutine.
func (s *HashSet[T]) ThreadInit() (Handle, error) {
	return s.hm.ThreadInit()
}

func (s *HashSet[T]) bucketOf(hash uint64) uint64 {
	return hash & uint64(s.n-1)
}

func asHashNode[T any](p *hpNode[T]) *hashNode[T] {
	if p == nil {
		return nil
	}
	// hashNode embeds hpNode[T] as its first field, so this reinterpretation
	// is exactly the same pointer, addressed as its outer type.
	return (*hashNode[T])(unsafe.Pointer(p))
}

func (s *HashSet[T]) clearHP(h Handle) {
	s.hm.ClearHP(h, 0)
	s.hm.ClearHP(h, 1)
}

// search starts at start (the target bucket's own sentinel) and returns
// the node immediately before the first node whose key is >= target
// (prev, curr), plus the exact *markedNext anchor for prev.next. It stops
// as soon as it crosses into a different bucket's sentinel: every element
// of start's bucket sorts strictly between start's key and the next
// sentinel's key, so a foreign sentinel can never be a match and always
// bounds the walk to one bucket's worth of nodes.
func (s *HashSet[T]) search(h Handle, start *hashNode[T], target uint64) (prev, curr *hashNode[T], prevLink *markedNext[hpNode[T]]) {
	backoff := DefaultBackoff()
again:
	prev = start
	s.hm.SetHP(h, 0, prev)
	prevLink = prev.next.Load()
	curr = asHashNode(linkNode(prevLink))
	s.hm.SetHP(h, 1, curr)
	if prev.next.Load() != prevLink {
		goto again
	}
	for {
		if curr == nil {
			return prev, nil, prevLink
		}
		currLink := curr.next.Load()
		for linkDeleted(currLink) {
			next := asHashNode(linkNode(currLink))
			var clearedNode *hpNode[T]
			if next != nil {
				clearedNode = &next.hpNode
			}
			cleared := &markedNext[hpNode[T]]{node: clearedNode}
			if !prev.next.CompareAndSwap(prevLink, cleared) {
				backoff.Wait()
				goto again
			}
			s.hm.Retire(h, curr)
			prevLink = cleared
			if next == nil {
				return prev, nil, prevLink
			}
			curr = next
			s.hm.SetHP(h, 1, curr)
			if prev.next.Load() != prevLink {
				goto again
			}
			currLink = curr.next.Load()
		}
		if curr.key >= target || (curr.isSentinel && curr != start) {
			return prev, curr, prevLink
		}
		prev = curr
		s.hm.SetHP(h, 0, prev)
		curr = asHashNode(linkNode(currLink))
		s.hm.SetHP(h, 1, curr)
		prevLink = currLink
		if prev.next.Load() != prevLink {
			goto again
		}
	}
}

// Add reports false if value is already present.
func (s *HashSet[T]) Add(h Handle, value T) bool {
	hash := s.hashFn(value)
	bucket := s.bucketOf(hash)
	key := hsRegularKey(hash)
	newNode := s.hm.AllocValue(hashNode[T]{hpNode: hpNode[T]{value: value}, key: key})
	backoff := DefaultBackoff()
	for {
		prev, curr, prevLink := s.search(h, s.sentinels[bucket], key)
		if curr != nil && !curr.isSentinel && curr.key == key && curr.value == value {
			s.hm.FreeNow(newNode)
			s.clearHP(h)
			return false
		}
		var currNode *hpNode[T]
		if curr != nil {
			currNode = &curr.hpNode
		}
		newNode.next.Store(&markedNext[hpNode[T]]{node: currNode})
		if prev.next.CompareAndSwap(prevLink, &markedNext[hpNode[T]]{node: &newNode.hpNode}) {
			s.loadFactor[h].AddAcqRel(1)
			s.clearHP(h)
			return true
		}
		backoff.Wait()
	}
}

// Remove reports false if value is absent.
func (s *HashSet[T]) Remove(h Handle, value T) bool {
	hash := s.hashFn(value)
	key := hsRegularKey(hash)
	start := s.sentinels[s.bucketOf(hash)]
	backoff := DefaultBackoff()
	for {
		_, curr, _ := s.search(h, start, key)
		if curr == nil || curr.isSentinel || curr.key != key || curr.value != value {
			s.clearHP(h)
			return false
		}
		next := curr.next.Load()
		if linkDeleted(next) {
			continue
		}
		marked := &markedNext[hpNode[T]]{node: linkNode(next), deleted: true}
		if curr.next.CompareAndSwap(next, marked) {
			s.loadFactor[h].AddAcqRel(-1)
			s.clearHP(h)
			return true
		}
		backoff.Wait()
	}
}

// Contains reports whether value is currently present.
func (s *HashSet[T]) Contains(h Handle, value T) bool {
	hash := s.hashFn(value)
	key := hsRegularKey(hash)
	start := s.sentinels[s.bucketOf(hash)]
	_, curr, _ := s.search(h, start, key)
	found := curr != nil && !curr.isSentinel && curr.key == key && curr.value == value
	s.clearHP(h)
	return found
}

// LoadFactor returns a best-effort element count divided by bucket count.
// It is advisory only: per-thread counters are read without synchronizing
// with in-flight Add/Remove calls, and the set never resizes regardless of
// what this reports.
func (s *HashSet[T]) LoadFactor() float64 {
	var sum int64
	for i := range s.loadFactor {
		sum += s.loadFactor[i].LoadAcquire()
	}
	return float64(sum) / float64(s.n)
}
