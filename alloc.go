// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfree

// allocator is the allocation seam every container depends on instead of
// calling new(T) directly. Go has no manual free, so destroy cannot reclaim
// memory, but a hazard-pointer container still needs a well-defined moment
// at which a retired node's fields are poisoned: a use-after-retirement bug
// then reads a zero value instead of silently-plausible stale data.
type allocator[T any] struct{}

func (allocator[T]) construct() *T {
	return new(T)
}

func (allocator[T]) constructValue(v T) *T {
	p := new(T)
	*p = v
	return p
}

func (allocator[T]) destroy(p *T) {
	var zero T
	*p = zero
}
