// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package lockfree

// RaceEnabled is true when the race detector is active.
// Used by tests to skip stress tests over the hazard-pointer and
// tagged-pointer containers, which trigger false positives because their
// synchronization lives in acquire/release atomics the race detector
// cannot see.
const RaceEnabled = true
