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

// keyUD is the per-(Linda, key) FIFO held inside a Keeper. All methods are
// only ever called with the owning Keeper's mutex held.
//
// first and count are kept for parity with the spec's data model even
// though this implementation's contents slice is always trimmed to
// exactly the live window; first is the logical index of the oldest live
// element and is reset to 1 whenever the FIFO empties, which is the
// observable behavior spec.md's index-hygiene invariant requires.
type keyUD struct {
	first    int
	count    int
	limit    int // -1 unlimited, 0 blocks every send, >0 capacity
	contents []Value
}

func newKeyUD() *keyUD {
	return &keyUD{first: 1, limit: -1}
}

// full reports whether a send against this FIFO would currently block.
func (k *keyUD) full() bool {
	return k.limit >= 0 && k.count >= k.limit
}

// push appends values atomically; callers must have already verified
// capacity via full()/limit arithmetic.
func (k *keyUD) push(values ...Value) {
	k.contents = append(k.contents, values...)
	k.count += len(values)
}

// peek returns copies of the n oldest values without consuming them.
func (k *keyUD) peek(n int) []Value {
	out := make([]Value, n)
	copy(out, k.contents[:n])
	return out
}

// pop removes and returns the n oldest values, restoring first to 1 once
// the FIFO drains.
func (k *keyUD) pop(n int) []Value {
	out := make([]Value, n)
	copy(out, k.contents[:n])
	rest := make([]Value, k.count-n)
	copy(rest, k.contents[n:])
	k.contents = rest
	k.count -= n
	k.first += n
	if k.count == 0 {
		k.first = 1
	}
	return out
}

// reset discards all contents, preserving limit.
func (k *keyUD) reset() {
	k.contents = nil
	k.first = 1
	k.count = 0
}

// bytes estimates this FIFO's contribution to its Keeper's simulated
// allocation counter.
func (k *keyUD) bytes() int64 {
	var total int64
	for range k.contents {
		total += 16
	}
	return total
}
