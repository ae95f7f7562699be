// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lockfree provides lock-free concurrent containers built on
// hazard-pointer and tagged-pointer memory reclamation, plus reference
// lock-based containers of the same shape for correctness comparison.
//
// # Containers
//
//   - [OrderedList]: Harris-style singly-linked ordered set, hazard-pointer
//     reclamation, logical deletion via a boxed mark word.
//   - [HashSet]: bucketed hash set built on the same list, buckets ordered by
//     bit-reversed hash so a single shared list serves every bucket.
//   - [HPStack]: Treiber stack with hazard-pointer reclamation.
//   - [TPStack]: tagged-pointer stack with a bucketed lock-free free-node
//     pool, avoiding hazard pointers entirely.
//   - [TPQueue]: Michael-Scott FIFO queue, tagged-pointer links, bucketed
//     bounded free-node pools.
//   - [LockedList], [StripedSet], [LockedStack], [LockedQueue]:
//     mutex/spinlock-based containers with equivalent semantics, used as a
//     correctness oracle in tests and as a simpler fallback for callers who
//     do not need lock-freedom. [RingQueue] is the bounded
//     single-producer single-consumer reference queue; it uses atomics
//     only, no lock.
//
// # Registration
//
// Hazard-pointer and tagged-pointer containers require every participating
// goroutine to call ThreadInit once and pass the returned [Handle] to every
// subsequent call:
//
//	list := lockfree.NewOrderedList[int](maxThreads, less)
//	h, err := list.ThreadInit()
//	if err != nil {
//	    // lockfree.IsTooManyThreads(err): registration budget exhausted
//	}
//	list.Add(h, 42)
//
// A Handle is not a goroutine-local: Go has no supported notion of one. It
// is an explicit token, obtained once by the goroutine that will use it, in
// place of the thread-local slot index a language with cheap TLS would use
// instead.
//
// # Back-off
//
// [Backoff] implementations ([ExponentialBackoff], [SleepBackoff],
// [RandomBackoff], [EmptyBackoff]) are the retry policy plugged into every
// lock-free container's internal CAS-retry loop, and are equally usable by
// external callers retrying a Push/Add against backpressure:
//
//	backoff := lockfree.DefaultBackoff()
//	for !stack.Push(h, item) {
//	    backoff.Wait()
//	}
//
// [code.hybscloud.com/iox]'s adaptive Backoff is the recommended default for
// callers retrying across an ErrWouldBlock boundary (see [ErrWouldBlock]),
// since it degrades against real wall-clock stalls rather than spinning.
//
// # Graceful shutdown
//
// [TPQueue] implements [Drainer]: once producers are known to be finished,
// calling Drain makes every later Push report false, so consumers can empty
// the queue without a straggling Push adding to it. Pop itself behaves the
// same before and after Drain.
//
//	prodWg.Wait()
//	queue.Drain()
//	// consumers now observe every enqueued item, then Pop returns false.
//
// # Race detection
//
// Go's race detector tracks explicit synchronization primitives (mutex,
// channels, WaitGroup) but cannot observe happens-before relationships
// established purely through acquire/release atomics on independent
// variables. The hazard-pointer and tagged-pointer containers here rely on
// exactly that kind of ordering, so stress tests that hammer them
// concurrently are gated behind [RaceEnabled] and skipped under
// `go test -race`; run them in a plain `go test -run Concurrent` pass instead.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for explicit-memory-order
// atomics (hazard slots, tagged words, spin-lock flags, load-factor
// counters), [code.hybscloud.com/spin] for the CPU pause-hint primitive
// behind every retry loop and behind [ExponentialBackoff]/[RandomBackoff],
// and [code.hybscloud.com/iox] for [ErrWouldBlock] and the external adaptive
// backoff helper.
package lockfree
