// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// node is the link type shared by every tagged-pointer container: the
// stack/queue free-node pools, [TPStack] and [TPQueue]. next holds a
// taggedWord, not a bare pointer, so pool reuse cannot be mistaken for the
// original node by a goroutine still holding a stale reference to it.
type node[T any] struct {
	next  atomix.Uint64
	value T
}

// markedNext is the boxed logical-delete word used in place of stealing the
// low bit of a pointer: a separate atomic (node, deleted) pair replaces a
// pointer's spare bit where Go offers none to steal. It is always replaced
// as a whole, never mutated in place, so a reader that loads a *markedNext
// always sees a self-consistent pair.
type markedNext[N any] struct {
	node    *N
	deleted bool
}

// hpNode is the link type for hazard-pointer-protected containers: the
// ordered list and the Treiber stack.
type hpNode[T any] struct {
	next  atomic.Pointer[markedNext[hpNode[T]]]
	value T
}

// hashNode extends hpNode with the bucket-sentinel flag the hash set needs
// to stop a per-bucket search at the next bucket's boundary rather than
// running to the end of the shared list, and the precomputed order key
// (reversed-bit hash, split-ordered-list style) the shared list is threaded
// on.
type hashNode[T any] struct {
	hpNode[T]
	isSentinel bool
	key        uint64
}
