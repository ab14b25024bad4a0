/*
 *
 * Copyright 2025 gRPC authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package keeper

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

// NoGroup marks a Linda's group as unspecified. Legal only when the owning
// Pool has at most one Keeper; a Pool with more than one Keeper requires an
// explicit group (spec §9: ambiguous routing is an argument error, not a
// silent default).
const NoGroup = -1

// Linda is a bounded, multi-key, blocking channel bound to exactly one
// Keeper for its entire life. Every method routes through the owning
// Keeper's mutex, which simultaneously guards the Keeper's storage and the
// two condition variables below.
type Linda struct {
	pool  *Pool
	k     *keeperState
	group int
	name  string

	// readHappened is waited on by blocked senders: a completed read frees
	// space. writeHappened is waited on by blocked receivers: a completed
	// write produces data. Naming follows the event each CV reports, not
	// who is waiting on it.
	readHappened  *sync.Cond
	writeHappened *sync.Cond

	cancelRequest atomic.Int32
	closeOnce     sync.Once
}

// NewLinda creates a Linda bound to pool, routed to the Keeper at
// group % pool.N(). group may be NoGroup only when pool has at most one
// Keeper.
func NewLinda(pool *Pool, name string, group int) (*Linda, error) {
	n := pool.N()
	switch {
	case group == NoGroup:
		if n > 1 {
			return nil, fmt.Errorf("%w: group required when pool has more than one keeper", ErrBadArgument)
		}
		group = 0
	case group < 0 || (n > 0 && group >= n):
		return nil, fmt.Errorf("%w: group %d out of range [0,%d)", ErrBadArgument, group, n)
	}

	l := &Linda{pool: pool, group: group, name: name}
	if k, err := pool.whichKeeper(group); err == nil {
		l.bindKeeper(k)
	}
	return l, nil
}

func (l *Linda) bindKeeper(k *keeperState) {
	l.k = k
	l.readHappened = sync.NewCond(&k.mu)
	l.writeHappened = sync.NewCond(&k.mu)
}

// Name returns the Linda's optional display name.
func (l *Linda) Name() string { return l.name }

// String renders an identity suitable for logging, matching the spec's
// "optional name, externally identical whether short or heap-allocated"
// framing: callers never need to know which storage form backs it.
func (l *Linda) String() string {
	if l.name != "" {
		return fmt.Sprintf("linda:%s", l.name)
	}
	return fmt.Sprintf("linda:%p", l)
}

// Deep returns a stable, opaque identity for this Linda — the Go analogue
// of the spec's "deep userdata" pointer identity.
func (l *Linda) Deep() uintptr {
	return uintptr(unsafe.Pointer(l))
}

// Send queues v1..vn atomically under key, blocking until there is room,
// timeout elapses, or cancellation preempts the wait. A nil timeout waits
// forever; a negative one is an argument error.
func (l *Linda) Send(lane *Lane, timeout *time.Duration, key Value, values ...Value) (bool, error) {
	if err := validKey(key); err != nil {
		return false, err
	}
	if len(values) == 0 {
		return false, fmt.Errorf("%w: no data to send", ErrBadArgument)
	}
	if timeout != nil && *timeout < 0 {
		return false, fmt.Errorf("%w: negative timeout", ErrBadArgument)
	}
	if l.k == nil || l.pool.closing.Load() {
		return false, nil
	}

	deadline := computeDeadline(timeout)
	substituted := substituteNilAll(values)

	l.k.mu.Lock()
	defer l.k.mu.Unlock()
	if l.k.closing {
		return false, nil
	}

	inKeeperValues, err := transferIn(lane, l.k, substituted)
	if err != nil {
		return false, err
	}

	for {
		switch resolveCancel(lane, CancelRequest(l.cancelRequest.Load())) {
		case CancelHard:
			return false, ErrCancelled
		case CancelSoft:
			return false, ErrSoftCancelled
		}

		if l.k.send(l, key, inKeeperValues) {
			l.writeHappened.Broadcast()
			return true, l.pool.governGC(l.k)
		}

		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return false, nil
		}

		lane.setWaitingOn("read_happened", l.readHappened)
		condWaitUntil(l.readHappened, deadline)
		lane.clearWaitingOn()
	}
}

// Receive pops one value from the first non-empty key among key1..keym,
// blocking until data arrives, timeout elapses, or cancellation preempts
// the wait.
func (l *Linda) Receive(lane *Lane, timeout *time.Duration, keys ...Value) (Value, Value, bool, error) {
	if len(keys) == 0 {
		return Value{}, Value{}, false, fmt.Errorf("%w: at least one key required", ErrBadArgument)
	}
	for _, k := range keys {
		if err := validKey(k); err != nil {
			return Value{}, Value{}, false, err
		}
	}
	if timeout != nil && *timeout < 0 {
		return Value{}, Value{}, false, fmt.Errorf("%w: negative timeout", ErrBadArgument)
	}
	if l.k == nil || l.pool.closing.Load() {
		return Value{}, Value{}, false, nil
	}

	deadline := computeDeadline(timeout)

	l.k.mu.Lock()
	defer l.k.mu.Unlock()
	if l.k.closing {
		return Value{}, Value{}, false, nil
	}

	for {
		switch resolveCancel(lane, CancelRequest(l.cancelRequest.Load())) {
		case CancelHard:
			return Value{}, Value{}, false, ErrCancelled
		case CancelSoft:
			return Value{}, Value{}, false, ErrSoftCancelled
		}

		if key, value, ok := l.k.receive(l, keys); ok {
			l.readHappened.Broadcast()
			out := transferOut(lane, l.k, []Value{value})
			return key, restoreNil(out[0]), true, l.pool.governGC(l.k)
		}

		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return Value{}, Value{}, false, nil
		}

		lane.setWaitingOn("write_happened", l.writeHappened)
		condWaitUntil(l.writeHappened, deadline)
		lane.clearWaitingOn()
	}
}

// ReceiveBatched pops between min and max values from a single key's FIFO
// in one atomic step, blocking until at least min values are available,
// timeout elapses, or cancellation preempts the wait.
func (l *Linda) ReceiveBatched(lane *Lane, timeout *time.Duration, key Value, min, max int) (Value, []Value, bool, error) {
	if err := validKey(key); err != nil {
		return Value{}, nil, false, err
	}
	if min < 1 || max < min {
		return Value{}, nil, false, fmt.Errorf("%w: require 1 <= min <= max", ErrBadArgument)
	}
	if timeout != nil && *timeout < 0 {
		return Value{}, nil, false, fmt.Errorf("%w: negative timeout", ErrBadArgument)
	}
	if l.k == nil || l.pool.closing.Load() {
		return Value{}, nil, false, nil
	}

	deadline := computeDeadline(timeout)

	l.k.mu.Lock()
	defer l.k.mu.Unlock()
	if l.k.closing {
		return Value{}, nil, false, nil
	}

	for {
		switch resolveCancel(lane, CancelRequest(l.cancelRequest.Load())) {
		case CancelHard:
			return Value{}, nil, false, ErrCancelled
		case CancelSoft:
			return Value{}, nil, false, ErrSoftCancelled
		}

		if values, ok := l.k.receiveBatched(l, key, min, max); ok {
			l.readHappened.Broadcast()
			out := restoreNilAll(transferOut(lane, l.k, values))
			return key, out, true, l.pool.governGC(l.k)
		}

		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return Value{}, nil, false, nil
		}

		lane.setWaitingOn("write_happened", l.writeHappened)
		condWaitUntil(l.writeHappened, deadline)
		lane.clearWaitingOn()
	}
}

// Set replaces key's entire FIFO contents, waking blocked receivers when
// values are given and additionally waking blocked senders if this
// transitions the FIFO from full to not-full. It reports the latter, per
// spec §6: "true if writers should be woken, else nothing".
func (l *Linda) Set(key Value, values ...Value) (bool, error) {
	if err := validKey(key); err != nil {
		return false, err
	}
	var wokeWriters bool
	err := l.withKeeper(func(k *keeperState) error {
		substituted := substituteNilAll(values)
		hasValue, woke := k.set(l, key, substituted)
		if hasValue {
			l.writeHappened.Broadcast()
		}
		if woke {
			l.readHappened.Broadcast()
		}
		wokeWriters = woke
		return nil
	})
	return wokeWriters, err
}

// Get peeks at up to count values from key's FIFO without consuming them.
func (l *Linda) Get(key Value, count int) ([]Value, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be >= 1", ErrBadArgument)
	}
	var out []Value
	err := l.withKeeper(func(k *keeperState) error {
		out = restoreNilAll(k.get(l, key, count))
		return nil
	})
	return out, err
}

// Limit sets key's FIFO capacity (n = -1 means unlimited, n = 0 blocks
// every send), waking blocked senders if this transitions the FIFO from
// full to not-full.
func (l *Linda) Limit(key Value, n int) (bool, error) {
	if err := validKey(key); err != nil {
		return false, err
	}
	if n < -1 {
		return false, fmt.Errorf("%w: limit must be >= -1", ErrBadArgument)
	}
	var woke bool
	err := l.withKeeper(func(k *keeperState) error {
		woke = k.limit(l, key, n)
		if woke {
			l.readHappened.Broadcast()
		}
		return nil
	})
	return woke, err
}

// Count reports FIFO depth per key. No keys means every key this Linda
// currently has an entry for.
func (l *Linda) Count(keys ...Value) (map[Value]int, error) {
	for _, k := range keys {
		if err := validKey(k); err != nil {
			return nil, err
		}
	}
	var out map[Value]int
	err := l.withKeeper(func(k *keeperState) error {
		out = k.count(l, keys)
		return nil
	})
	return out, err
}

// Dump snapshots every key this Linda holds, for introspection/debugging.
func (l *Linda) Dump() (map[Value]KeyDump, error) {
	var out map[Value]KeyDump
	err := l.withKeeper(func(k *keeperState) error {
		out = k.dump(l)
		return nil
	})
	return out, err
}

// Cancel sets this Linda's cancellation disposition and immediately wakes
// whichever blocked operations kind names, rather than leaving them to
// discover the request at their next timeout. A per-Linda cancel is always
// Soft: there is no caller-owned stack here to unwind, unlike a per-worker
// Hard cancel. kind defaults to "both" when empty.
func (l *Linda) Cancel(kind string) error {
	var wakeReceivers, wakeSenders bool
	switch kind {
	case "", "both":
		l.cancelRequest.Store(int32(CancelSoft))
		wakeReceivers, wakeSenders = true, true
	case "read":
		l.cancelRequest.Store(int32(CancelSoft))
		wakeReceivers = true
	case "write":
		l.cancelRequest.Store(int32(CancelSoft))
		wakeSenders = true
	case "none":
		l.cancelRequest.Store(int32(CancelNone))
	default:
		return fmt.Errorf("%w: unknown cancel hint %q", ErrBadArgument, kind)
	}

	if l.k == nil {
		return nil
	}
	l.k.mu.Lock()
	defer l.k.mu.Unlock()
	if wakeReceivers {
		l.writeHappened.Broadcast()
	}
	if wakeSenders {
		l.readHappened.Broadcast()
	}
	return nil
}

// Close runs the Linda's teardown protocol: acquire its Keeper, clear its
// registry entry, release. Safe to call more than once; skipped (not
// erroring) if the pool has already begun shutting down.
func (l *Linda) Close() error {
	l.closeOnce.Do(func() {
		if l.k == nil {
			return
		}
		l.k.mu.Lock()
		defer l.k.mu.Unlock()
		if l.k.closing {
			return
		}
		l.k.clear(l)
	})
	return nil
}
