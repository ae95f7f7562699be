// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

import (
	"hash/maphash"
	"sync"

	"code.hybscloud.com/atomix"
)

// The types in this file are lock-based reference containers: the same
// [Set]/[LIFO]/[FIFO] contracts as their lock-free counterparts, so a test
// can drive both through one interface and compare outcomes, but built the
// ordinary way. None of them need thread registration; ThreadInit is
// implemented trivially so a reference container can stand in anywhere a
// [Registrar] is expected.

// LockedList is a mutex-protected ordered set kept as a sorted slice. Add reports false on a duplicate, matching every other Set
// in this package so it is a faithful oracle for [OrderedList].
type LockedList[T any] struct {
	mu   sync.Mutex
	less func(a, b T) bool
	data []T
}

func NewLockedList[T any](less func(a, b T) bool) *LockedList[T] {
	return &LockedList[T]{less: less}
}

func (l *LockedList[T]) ThreadInit() (Handle, error) { return 0, nil }

func (l *LockedList[T]) Add(_ Handle, value T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.search(value)
	if i < len(l.data) && !l.less(value, l.data[i]) && !l.less(l.data[i], value) {
		return false
	}
	l.data = append(l.data, value)
	copy(l.data[i+1:], l.data[i:])
	l.data[i] = value
	return true
}

func (l *LockedList[T]) Remove(_ Handle, value T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.search(value)
	if i >= len(l.data) || l.less(value, l.data[i]) || l.less(l.data[i], value) {
		return false
	}
	l.data = append(l.data[:i], l.data[i+1:]...)
	return true
}

func (l *LockedList[T]) Contains(_ Handle, value T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.search(value)
	return i < len(l.data) && !l.less(value, l.data[i]) && !l.less(l.data[i], value)
}

// search returns the index of the first element >= value (mu held).
func (l *LockedList[T]) search(value T) int {
	lo, hi := 0, len(l.data)
	for lo < hi {
		mid := (lo + hi) / 2
		if l.less(l.data[mid], value) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// StripedSet is a mutex- or spinlock-per-bucket hash set. UseMutex selects
// sync.Mutex per bucket over [SpinLock]; exposing the choice lets a
// benchmark compare blocking against spinning contention without changing
// anything else about the set.
type StripedSet[T comparable] struct {
	buckets  []stripedBucket[T]
	hashFn   func(T) uint64
	n        uint64
	useMutex bool
}

type stripedBucket[T comparable] struct {
	mu   sync.Mutex
	spin SpinLock
	data map[T]struct{}
}

func (b *stripedBucket[T]) lock(useMutex bool) {
	if useMutex {
		b.mu.Lock()
	} else {
		b.spin.Lock()
	}
}

func (b *stripedBucket[T]) unlock(useMutex bool) {
	if useMutex {
		b.mu.Unlock()
	} else {
		b.spin.Unlock()
	}
}

// StripedSetConfig selects the per-bucket lock implementation.
type StripedSetConfig struct {
	UseMutex bool
}

// NewStripedSet constructs a set with numBuckets buckets. A nil hashFn
// defaults to a randomly seeded [maphash.Comparable] hash, same as
// [HashSet].
func NewStripedSet[T comparable](cfg StripedSetConfig, numBuckets int, hashFn func(T) uint64) *StripedSet[T] {
	if hashFn == nil {
		hashFn = defaultHashFn[T]()
	}
	if numBuckets < 1 {
		numBuckets = 1
	}
	s := &StripedSet[T]{
		buckets:  make([]stripedBucket[T], numBuckets),
		hashFn:   hashFn,
		n:        uint64(numBuckets),
		useMutex: cfg.UseMutex,
	}
	for i := range s.buckets {
		s.buckets[i].data = make(map[T]struct{})
	}
	return s
}

func (s *StripedSet[T]) ThreadInit() (Handle, error) { return 0, nil }

func (s *StripedSet[T]) bucket(value T) *stripedBucket[T] {
	return &s.buckets[s.hashFn(value)%s.n]
}

func (s *StripedSet[T]) Add(_ Handle, value T) bool {
	b := s.bucket(value)
	b.lock(s.useMutex)
	defer b.unlock(s.useMutex)
	if _, ok := b.data[value]; ok {
		return false
	}
	b.data[value] = struct{}{}
	return true
}

func (s *StripedSet[T]) Remove(_ Handle, value T) bool {
	b := s.bucket(value)
	b.lock(s.useMutex)
	defer b.unlock(s.useMutex)
	if _, ok := b.data[value]; !ok {
		return false
	}
	delete(b.data, value)
	return true
}

func (s *StripedSet[T]) Contains(_ Handle, value T) bool {
	b := s.bucket(value)
	b.lock(s.useMutex)
	defer b.unlock(s.useMutex)
	_, ok := b.data[value]
	return ok
}

// LockedStack is a mutex-protected LIFO.
type LockedStack[T any] struct {
	mu   sync.Mutex
	data []T
}

func NewLockedStack[T any]() *LockedStack[T] { return &LockedStack[T]{} }

func (s *LockedStack[T]) ThreadInit() (Handle, error) { return 0, nil }

func (s *LockedStack[T]) Push(_ Handle, value T) bool {
	s.mu.Lock()
	s.data = append(s.data, value)
	s.mu.Unlock()
	return true
}

func (s *LockedStack[T]) Pop(_ Handle) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data) == 0 {
		var zero T
		return zero, false
	}
	v := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return v, true
}

// LockedQueue is a mutex-protected FIFO.
type LockedQueue[T any] struct {
	mu   sync.Mutex
	data []T
}

func NewLockedQueue[T any]() *LockedQueue[T] { return &LockedQueue[T]{} }

func (q *LockedQueue[T]) ThreadInit() (Handle, error) { return 0, nil }

func (q *LockedQueue[T]) Push(_ Handle, value T) bool {
	q.mu.Lock()
	q.data = append(q.data, value)
	q.mu.Unlock()
	return true
}

func (q *LockedQueue[T]) Pop(_ Handle) (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		var zero T
		return zero, false
	}
	v := q.data[0]
	q.data = q.data[1:]
	return v, true
}

// RingQueue is a bounded single-producer single-consumer queue: Lamport's
// ring buffer with the cached-index optimization, where each side caches
// the other's last-observed position so the common case never needs to
// re-read the other side's atomic at all.
type RingQueue[T any] struct {
	_          pad
	head       atomix.Uint64
	_          pad
	cachedTail uint64
	_          pad
	tail       atomix.Uint64
	_          pad
	cachedHead uint64
	_          pad
	buffer     []T
	mask       uint64
}

// NewRingQueue constructs a ring queue. Capacity rounds up to the next
// power of 2, minimum 2.
func NewRingQueue[T any](capacity int) *RingQueue[T] {
	n := uint64(roundToPow2(capacity))
	return &RingQueue[T]{buffer: make([]T, n), mask: n - 1}
}

func (q *RingQueue[T]) ThreadInit() (Handle, error) { return 0, nil }

// Push is producer-only: exactly one goroutine may ever call it.
func (q *RingQueue[T]) Push(_ Handle, value T) bool {
	tail := q.tail.LoadRelaxed()
	if tail-q.cachedHead > q.mask {
		q.cachedHead = q.head.LoadAcquire()
		if tail-q.cachedHead > q.mask {
			return false
		}
	}
	q.buffer[tail&q.mask] = value
	q.tail.StoreRelease(tail + 1)
	return true
}

// Pop is consumer-only: exactly one goroutine may ever call it.
func (q *RingQueue[T]) Pop(_ Handle) (T, bool) {
	head := q.head.LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head >= q.cachedTail {
			var zero T
			return zero, false
		}
	}
	v := q.buffer[head&q.mask]
	var zero T
	q.buffer[head&q.mask] = zero
	q.head.StoreRelease(head + 1)
	return v, true
}

// Cap returns the queue capacity.
func (q *RingQueue[T]) Cap() int {
	return int(q.mask + 1)
}

func defaultHashFn[T comparable]() func(T) uint64 {
	seed := maphash.MakeSeed()
	return func(v T) uint64 { return maphash.Comparable(seed, v) }
}
