// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree_test

import (
	"testing"

	"code.hybscloud.com/lockfree"
)

func TestDefaultBackoffIsExponential(t *testing.T) {
	b := lockfree.DefaultBackoff()
	if _, ok := b.(*lockfree.ExponentialBackoff); !ok {
		t.Fatalf("DefaultBackoff() = %T, want *ExponentialBackoff", b)
	}
}

func TestExponentialBackoffDoesNotHang(t *testing.T) {
	b := &lockfree.ExponentialBackoff{}
	for range 20 {
		b.Wait()
	}
}

func TestBackoffVariantsWait(t *testing.T) {
	variants := []lockfree.Backoff{
		&lockfree.ExponentialBackoff{},
		lockfree.SleepBackoff{},
		lockfree.RandomBackoff{},
		lockfree.EmptyBackoff{},
	}
	for _, b := range variants {
		b.Wait()
	}
}

func TestExponentialBackoffInstancesAreIndependent(t *testing.T) {
	a := &lockfree.ExponentialBackoff{}
	b := &lockfree.ExponentialBackoff{}
	a.Wait()
	a.Wait()
	a.Wait()
	// b starts fresh regardless of how many times a has waited.
	b.Wait()
}
