// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

import (
	"math/rand/v2"
	"time"

	"code.hybscloud.com/spin"
)

// Backoff is the retry policy every lock-free container's CAS-retry loop
// plugs in on contention. It is also usable directly by external callers
// retrying a Push that reported false.
type Backoff interface {
	Wait()
}

// DefaultBackoff returns the container's default retry policy: an
// [ExponentialBackoff] starting at its minimum unit.
func DefaultBackoff() Backoff {
	return &ExponentialBackoff{}
}

const (
	backoffMinUnits = 50
	backoffMaxUnits = 256 * backoffMinUnits
)

// ExponentialBackoff spins for a doubling number of pause-hint units,
// resetting to the minimum once the ceiling is reached. It is not
// goroutine-safe to share a single instance across goroutines: each
// contending goroutine should own its own instance, mirroring the
// thread-local backoff state of the container this design is drawn from.
type ExponentialBackoff struct {
	units int
}

func (b *ExponentialBackoff) Wait() {
	if b.units <= 0 {
		b.units = backoffMinUnits
	}
	sw := spin.Wait{}
	for range b.units {
		sw.Once()
	}
	if b.units >= backoffMaxUnits {
		b.units = backoffMinUnits
		return
	}
	b.units *= 2
}

// SleepBackoff yields the goroutine to the scheduler for a short fixed
// interval. Useful when contention is expected to be resolved by a
// goroutine that is not currently runnable (e.g. blocked on I/O).
type SleepBackoff struct{}

func (SleepBackoff) Wait() {
	time.Sleep(50 * time.Nanosecond)
}

// RandomBackoff spins for a uniformly random number of pause-hint units in
// [1, 1000], breaking the lock-step retry pattern that causes repeated CAS
// collisions between a fixed small set of contending goroutines.
type RandomBackoff struct{}

func (RandomBackoff) Wait() {
	n := rand.IntN(1000) + 1
	sw := spin.Wait{}
	for range n {
		sw.Once()
	}
}

// EmptyBackoff performs no wait at all. Used in tests that want to observe
// worst-case contention, and as a documented no-op baseline.
type EmptyBackoff struct{}

func (EmptyBackoff) Wait() {}
