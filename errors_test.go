// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/lockfree"
)

func TestIsWouldBlock(t *testing.T) {
	if !lockfree.IsWouldBlock(lockfree.ErrWouldBlock) {
		t.Fatal("IsWouldBlock(ErrWouldBlock) = false")
	}
	if lockfree.IsWouldBlock(errors.New("other")) {
		t.Fatal("IsWouldBlock(other) = true")
	}
}

func TestIsTooManyThreads(t *testing.T) {
	if !lockfree.IsTooManyThreads(lockfree.ErrTooManyThreads) {
		t.Fatal("IsTooManyThreads(ErrTooManyThreads) = false")
	}
	if lockfree.IsTooManyThreads(errors.New("other")) {
		t.Fatal("IsTooManyThreads(other) = true")
	}
	wrapped := errors.Join(errors.New("context"), lockfree.ErrTooManyThreads)
	if !lockfree.IsTooManyThreads(wrapped) {
		t.Fatal("IsTooManyThreads(wrapped) = false")
	}
}
