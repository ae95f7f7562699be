// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree_test

import (
	"sort"
	"sync"
	"testing"

	"code.hybscloud.com/lockfree"
)

func intLess(a, b int) bool { return a < b }

func TestOrderedListAddContainsRemove(t *testing.T) {
	l := lockfree.NewOrderedList[int](4, intLess)
	h, err := l.ThreadInit()
	if err != nil {
		t.Fatalf("ThreadInit() error: %v", err)
	}

	if !l.Add(h, 5) {
		t.Fatal("Add(5) = false on empty list")
	}
	if l.Add(h, 5) {
		t.Fatal("Add(5) = true on a duplicate")
	}
	if !l.Contains(h, 5) {
		t.Fatal("Contains(5) = false after Add(5)")
	}
	if l.Contains(h, 6) {
		t.Fatal("Contains(6) = true for an absent value")
	}
	if !l.Remove(h, 5) {
		t.Fatal("Remove(5) = false after Add(5)")
	}
	if l.Remove(h, 5) {
		t.Fatal("Remove(5) = true on an already-removed value")
	}
	if l.Contains(h, 5) {
		t.Fatal("Contains(5) = true after Remove(5)")
	}
}

func TestOrderedListStaysSorted(t *testing.T) {
	l := lockfree.NewOrderedList[int](4, intLess)
	h, err := l.ThreadInit()
	if err != nil {
		t.Fatalf("ThreadInit() error: %v", err)
	}
	values := []int{9, 1, 5, 3, 7, 0, 8, 2, 6, 4}
	for _, v := range values {
		l.Add(h, v)
	}
	for _, v := range values {
		if !l.Contains(h, v) {
			t.Fatalf("Contains(%d) = false, want true", v)
		}
	}
	sort.Ints(values)
	for _, v := range values[:5] {
		l.Remove(h, v)
	}
	for _, v := range values[:5] {
		if l.Contains(h, v) {
			t.Fatalf("Contains(%d) = true after Remove, want false", v)
		}
	}
	for _, v := range values[5:] {
		if !l.Contains(h, v) {
			t.Fatalf("Contains(%d) = false, want true", v)
		}
	}
}

func TestOrderedListConcurrentAddRemove(t *testing.T) {
	if lockfree.RaceEnabled {
		t.Skip("skip: hazard-pointer synchronization is invisible to the race detector")
	}
	const goroutines = 8
	l := lockfree.NewOrderedList[int](goroutines, intLess)
	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			h, err := l.ThreadInit()
			if err != nil {
				t.Errorf("ThreadInit() error: %v", err)
				return
			}
			base := g * 100
			for i := range 100 {
				l.Add(h, base+i)
			}
			for i := range 100 {
				if !l.Contains(h, base+i) {
					t.Errorf("Contains(%d) = false after Add", base+i)
				}
			}
			for i := range 50 {
				l.Remove(h, base+i)
			}
		}(g)
	}
	wg.Wait()
}
