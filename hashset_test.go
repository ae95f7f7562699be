// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/lockfree"
)

func TestHashSetAddContainsRemove(t *testing.T) {
	s := lockfree.NewHashSet[string](4, 8, nil)
	h, err := s.ThreadInit()
	if err != nil {
		t.Fatalf("ThreadInit() error: %v", err)
	}

	if !s.Add(h, "a") {
		t.Fatal("Add(a) = false on empty set")
	}
	if s.Add(h, "a") {
		t.Fatal("Add(a) = true on a duplicate")
	}
	if !s.Contains(h, "a") {
		t.Fatal("Contains(a) = false after Add(a)")
	}
	if s.Contains(h, "b") {
		t.Fatal("Contains(b) = true for an absent value")
	}
	if !s.Remove(h, "a") {
		t.Fatal("Remove(a) = false after Add(a)")
	}
	if s.Contains(h, "a") {
		t.Fatal("Contains(a) = true after Remove(a)")
	}
}

// TestHashSetBucketCollision exercises many keys against a small bucket
// count so multiple elements are forced to share a bucket's search range.
func TestHashSetBucketCollision(t *testing.T) {
	s := lockfree.NewHashSet[int](4, 2, func(v int) uint64 { return uint64(v) })
	h, err := s.ThreadInit()
	if err != nil {
		t.Fatalf("ThreadInit() error: %v", err)
	}
	for i := range 50 {
		if !s.Add(h, i) {
			t.Fatalf("Add(%d) = false", i)
		}
	}
	for i := range 50 {
		if !s.Contains(h, i) {
			t.Fatalf("Contains(%d) = false, want true", i)
		}
	}
	for i := 0; i < 50; i += 2 {
		if !s.Remove(h, i) {
			t.Fatalf("Remove(%d) = false", i)
		}
	}
	for i := range 50 {
		want := i%2 != 0
		if got := s.Contains(h, i); got != want {
			t.Fatalf("Contains(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestHashSetLoadFactor(t *testing.T) {
	s := lockfree.NewHashSet[int](2, 4, func(v int) uint64 { return uint64(v) })
	h, err := s.ThreadInit()
	if err != nil {
		t.Fatalf("ThreadInit() error: %v", err)
	}
	if lf := s.LoadFactor(); lf != 0 {
		t.Fatalf("LoadFactor() = %f on an empty set, want 0", lf)
	}
	for i := range 8 {
		s.Add(h, i)
	}
	if lf := s.LoadFactor(); lf != 2 {
		t.Fatalf("LoadFactor() = %f, want 2 (8 elements / 4 buckets)", lf)
	}
}

func TestHashSetConcurrentAddRemove(t *testing.T) {
	if lockfree.RaceEnabled {
		t.Skip("skip: hazard-pointer synchronization is invisible to the race detector")
	}
	const goroutines = 8
	s := lockfree.NewHashSet[int](goroutines, 16, func(v int) uint64 { return uint64(v) })
	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			h, err := s.ThreadInit()
			if err != nil {
				t.Errorf("ThreadInit() error: %v", err)
				return
			}
			base := g * 1000
			for i := range 200 {
				s.Add(h, base+i)
			}
			for i := range 200 {
				if !s.Contains(h, base+i) {
					t.Errorf("Contains(%d) = false after Add", base+i)
				}
			}
			for i := range 100 {
				s.Remove(h, base+i)
			}
		}(g)
	}
	wg.Wait()
}
