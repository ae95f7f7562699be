// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/lockfree"
)

func TestLockedListAddContainsRemove(t *testing.T) {
	l := lockfree.NewLockedList[int](intLess)
	h, _ := l.ThreadInit()

	if !l.Add(h, 5) {
		t.Fatal("Add(5) = false on empty list")
	}
	if l.Add(h, 5) {
		t.Fatal("Add(5) = true on a duplicate")
	}
	if !l.Contains(h, 5) {
		t.Fatal("Contains(5) = false after Add(5)")
	}
	if !l.Remove(h, 5) {
		t.Fatal("Remove(5) = false after Add(5)")
	}
	if l.Contains(h, 5) {
		t.Fatal("Contains(5) = true after Remove(5)")
	}
}

func TestLockedListStaysSorted(t *testing.T) {
	l := lockfree.NewLockedList[int](intLess)
	h, _ := l.ThreadInit()
	for _, v := range []int{5, 1, 4, 2, 3} {
		l.Add(h, v)
	}
	for _, v := range []int{1, 2, 3, 4, 5} {
		if !l.Contains(h, v) {
			t.Fatalf("Contains(%d) = false, want true", v)
		}
	}
}

func TestStripedSetMutexAndSpin(t *testing.T) {
	for _, useMutex := range []bool{true, false} {
		s := lockfree.NewStripedSet[int](lockfree.StripedSetConfig{UseMutex: useMutex}, 8, nil)
		h, _ := s.ThreadInit()
		if !s.Add(h, 1) {
			t.Fatalf("useMutex=%v: Add(1) = false", useMutex)
		}
		if s.Add(h, 1) {
			t.Fatalf("useMutex=%v: Add(1) = true on a duplicate", useMutex)
		}
		if !s.Contains(h, 1) {
			t.Fatalf("useMutex=%v: Contains(1) = false", useMutex)
		}
		if !s.Remove(h, 1) {
			t.Fatalf("useMutex=%v: Remove(1) = false", useMutex)
		}
		if s.Contains(h, 1) {
			t.Fatalf("useMutex=%v: Contains(1) = true after Remove", useMutex)
		}
	}
}

func TestStripedSetConcurrentAddRemove(t *testing.T) {
	s := lockfree.NewStripedSet[int](lockfree.StripedSetConfig{}, 16, nil)
	h, _ := s.ThreadInit()
	var wg sync.WaitGroup
	const goroutines = 8
	for g := range goroutines {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := range 100 {
				s.Add(h, g*100+i)
			}
		}(g)
	}
	wg.Wait()
	for g := range goroutines {
		for i := range 100 {
			if !s.Contains(h, g*100+i) {
				t.Fatalf("Contains(%d) = false after concurrent Add", g*100+i)
			}
		}
	}
}

func TestLockedStackLIFOOrder(t *testing.T) {
	s := lockfree.NewLockedStack[int]()
	h, _ := s.ThreadInit()
	for _, v := range []int{1, 2, 3} {
		s.Push(h, v)
	}
	for _, want := range []int{3, 2, 1} {
		got, ok := s.Pop(h)
		if !ok || got != want {
			t.Fatalf("Pop() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if _, ok := s.Pop(h); ok {
		t.Fatal("Pop() on empty stack ok = true")
	}
}

func TestLockedQueueFIFOOrder(t *testing.T) {
	q := lockfree.NewLockedQueue[int]()
	h, _ := q.ThreadInit()
	for _, v := range []int{1, 2, 3} {
		q.Push(h, v)
	}
	for _, want := range []int{1, 2, 3} {
		got, ok := q.Pop(h)
		if !ok || got != want {
			t.Fatalf("Pop() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if _, ok := q.Pop(h); ok {
		t.Fatal("Pop() on empty queue ok = true")
	}
}

func TestRingQueueFIFOAndCapacity(t *testing.T) {
	q := lockfree.NewRingQueue[int](4)
	h, _ := q.ThreadInit()
	if q.Cap() != 4 {
		t.Fatalf("Cap() = %d, want 4", q.Cap())
	}
	for _, v := range []int{1, 2, 3, 4} {
		if !q.Push(h, v) {
			t.Fatalf("Push(%d) = false", v)
		}
	}
	if q.Push(h, 5) {
		t.Fatal("Push() on a full ring queue = true")
	}
	for _, want := range []int{1, 2, 3, 4} {
		got, ok := q.Pop(h)
		if !ok || got != want {
			t.Fatalf("Pop() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if _, ok := q.Pop(h); ok {
		t.Fatal("Pop() on an empty ring queue ok = true")
	}
}

func TestRingQueueRoundsCapacityUpToPow2(t *testing.T) {
	q := lockfree.NewRingQueue[int](5)
	if q.Cap() != 8 {
		t.Fatalf("Cap() = %d, want 8 (rounded up from 5)", q.Cap())
	}
}

func TestRingQueueSingleProducerSingleConsumer(t *testing.T) {
	q := lockfree.NewRingQueue[int](64)
	h, _ := q.ThreadInit()
	const n = 10000
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range n {
			for !q.Push(h, i) {
			}
		}
	}()
	sum := 0
	go func() {
		defer wg.Done()
		for range n {
			for {
				if v, ok := q.Pop(h); ok {
					sum += v
					break
				}
			}
		}
	}()
	wg.Wait()
	want := n * (n - 1) / 2
	if sum != want {
		t.Fatalf("sum = %d, want %d", sum, want)
	}
}
