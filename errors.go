// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// No container in this package returns it: a bounded Push whose free-node
// bucket is exhausted reports false, and an empty container reports false
// from Pop/Contains/Remove. It is provided for callers that combine these
// containers with other iox-based code.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrTooManyThreads is returned by ThreadInit once a container's fixed
// maxThreads registration budget is exhausted. Unlike ErrWouldBlock this is
// not retryable: the caller registered more concurrent participants than the
// container was constructed to support.
var ErrTooManyThreads = errors.New("lockfree: too many registered threads")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsTooManyThreads reports whether err is ErrTooManyThreads.
func IsTooManyThreads(err error) bool {
	return errors.Is(err, ErrTooManyThreads)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
