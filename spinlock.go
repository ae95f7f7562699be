// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

import "code.hybscloud.com/atomix"

// SpinLock is a test-and-CAS spin lock. It exists for the reference
// [StripedSet] to stripe over, as an alternative to sync.Mutex for callers
// who know their critical sections are short.
type SpinLock struct {
	locked atomix.Bool
}

// Lock blocks the calling goroutine until it acquires the lock.
func (s *SpinLock) Lock() {
	backoff := DefaultBackoff()
	for !s.locked.CompareAndSwapAcqRel(false, true) {
		backoff.Wait()
	}
}

// TryLock attempts to acquire the lock without blocking.
func (s *SpinLock) TryLock() bool {
	return s.locked.CompareAndSwapAcqRel(false, true)
}

// Unlock releases the lock. Unlock on an unlocked SpinLock is a caller bug,
// same as sync.Mutex.
func (s *SpinLock) Unlock() {
	s.locked.StoreRelease(false)
}
