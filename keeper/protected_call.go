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

import "github.com/benoit-pierre/lanes/internal/auxstate"

// withKeeper runs body with the Linda's Keeper mutex held, short-circuiting
// to a no-op if the pool or Keeper is shutting down, and running GC
// governance afterward on success. This is the non-blocking half of the
// spec's ProtectedCall wrapper; Send/Receive/ReceiveBatched implement the
// blocking half themselves since a condition-variable wait loop doesn't fit
// this shape.
func (l *Linda) withKeeper(body func(k *keeperState) error) error {
	if l.k == nil || l.pool.closing.Load() {
		return nil
	}
	l.k.mu.Lock()
	defer l.k.mu.Unlock()
	if l.k.closing {
		return nil
	}
	if err := body(l.k); err != nil {
		return err
	}
	return l.pool.governGC(l.k)
}

// transferIn copies values from the calling lane's private heap into the
// Keeper's, the realization of the spec's "value-transfer of arguments from
// the caller's interpreter to the Keeper". It must be called with the
// Keeper's mutex held.
func transferIn(lane *Lane, k *keeperState, values []Value) ([]Value, error) {
	if len(values) == 0 {
		return nil, nil
	}
	src := lane.auxOrNew()
	mark := src.Mark()
	for _, v := range values {
		src.Push(v)
	}
	if err := auxstate.Transfer(src, k.aux, len(values)); err != nil {
		src.Restore(mark) // undo our provisional push; STACK_CHECK-style cleanup on every exit path
		return nil, ErrUnsupportedType
	}
	return k.aux.PopN(len(values)), nil
}

// transferOut is transferIn's mirror: it copies values out of the Keeper's
// heap and into the calling lane's, before they are handed back to the
// caller as ordinary Go values.
func transferOut(lane *Lane, k *keeperState, values []Value) []Value {
	if len(values) == 0 {
		return nil
	}
	for _, v := range values {
		k.aux.Push(v)
	}
	dst := lane.auxOrNew()
	if err := auxstate.Transfer(k.aux, dst, len(values)); err != nil {
		// Values already resident in a Keeper were portable enough to get
		// there in the first place; this path exists for symmetry, not
		// because it is expected to trigger.
		return k.aux.PopN(len(values))
	}
	return dst.PopN(len(values))
}
