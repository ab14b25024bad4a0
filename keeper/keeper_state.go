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
	"sync"

	"github.com/benoit-pierre/lanes/internal/auxstate"
)

// keeperState is one auxiliary interpreter plus the mutex that guards both
// it and the condition variables of every Linda bound to it. Its
// interpreter (aux) is only ever entered while mu is held.
type keeperState struct {
	mu        sync.Mutex
	aux       *auxstate.State
	registry  map[*Linda]map[Value]*keyUD
	allocated int64
	closing   bool
}

func newKeeperState() *keeperState {
	return &keeperState{
		aux:      auxstate.New(),
		registry: make(map[*Linda]map[Value]*keyUD),
	}
}

// keyFor looks up (and optionally creates) the KeyUD for (linda, key),
// mirroring the source's PrepareAccess/GetPtr split: read-only primitives
// never materialize a KeyUD for a key they haven't seen.
func (k *keeperState) keyFor(l *Linda, key Value, create bool) *keyUD {
	keys := k.registry[l]
	if keys == nil {
		if !create {
			return nil
		}
		keys = make(map[Value]*keyUD)
		k.registry[l] = keys
	}
	ud := keys[key]
	if ud == nil && create {
		ud = newKeyUD()
		keys[key] = ud
	}
	return ud
}

func (k *keeperState) adjustAllocated(delta int64) {
	k.allocated += delta
	if k.allocated < 0 {
		k.allocated = 0
	}
}

// send implements the spec's Keeper.send primitive: atomic all-or-none
// push, false (storage full) when the FIFO has no room for all n values.
func (k *keeperState) send(l *Linda, key Value, values []Value) bool {
	ud := k.keyFor(l, key, true)
	n := len(values)
	if ud.limit >= 0 && ud.count+n > ud.limit {
		return false
	}
	ud.push(values...)
	k.adjustAllocated(int64(n) * 16)
	return true
}

// receive scans keys left-to-right, popping the first non-empty FIFO.
func (k *keeperState) receive(l *Linda, keys []Value) (key Value, value Value, ok bool) {
	for _, key := range keys {
		ud := k.keyFor(l, key, false)
		if ud != nil && ud.count > 0 {
			vs := ud.pop(1)
			k.adjustAllocated(-16)
			return key, vs[0], true
		}
	}
	return Value{}, Value{}, false
}

// receiveBatched pops between min and max values from a single key's FIFO.
func (k *keeperState) receiveBatched(l *Linda, key Value, min, max int) ([]Value, bool) {
	ud := k.keyFor(l, key, false)
	if ud == nil || ud.count < min {
		return nil, false
	}
	n := max
	if n > ud.count {
		n = ud.count
	}
	vs := ud.pop(n)
	k.adjustAllocated(-int64(n) * 16)
	return vs, true
}

// get peeks up to count values without consuming them. An unknown or
// empty key yields no values.
func (k *keeperState) get(l *Linda, key Value, count int) []Value {
	ud := k.keyFor(l, key, false)
	if ud == nil || ud.count == 0 {
		return nil
	}
	n := count
	if n > ud.count {
		n = ud.count
	}
	if n <= 0 {
		return nil
	}
	return ud.peek(n)
}

// set replaces a FIFO's contents wholesale. hasValue reports whether any
// values were provided (drives the write_happened signal, waking blocked
// receivers); wokeWriters reports whether the FIFO transitioned from full
// to not-full (drives the additional read_happened signal, waking blocked
// senders).
func (k *keeperState) set(l *Linda, key Value, values []Value) (hasValue, wokeWriters bool) {
	n := len(values)
	if n == 0 {
		ud := k.keyFor(l, key, false)
		if ud == nil {
			return false, false
		}
		wasFull := ud.full()
		k.adjustAllocated(-ud.bytes())
		if ud.limit < 0 {
			delete(k.registry[l], key)
			return false, wasFull
		}
		ud.reset()
		return false, wasFull && !ud.full()
	}

	ud := k.keyFor(l, key, true)
	wasFull := ud.full()
	k.adjustAllocated(-ud.bytes())
	ud.contents = append([]Value(nil), values...)
	ud.first = 1
	ud.count = n
	k.adjustAllocated(ud.bytes())
	return true, wasFull && !ud.full()
}

// limit sets a FIFO's capacity, creating it if needed. It reports whether
// this transitions the FIFO from full to not-full (waking blocked senders).
func (k *keeperState) limit(l *Linda, key Value, n int) bool {
	ud := k.keyFor(l, key, true)
	wasFull := ud.full()
	ud.limit = n
	return wasFull && !ud.full()
}

// count implements the spec's overloaded count primitive: no keys means
// "all known keys of this Linda"; keys are otherwise restricted to the
// ones supplied and known.
func (k *keeperState) count(l *Linda, keys []Value) map[Value]int {
	known := k.registry[l]
	out := make(map[Value]int)
	if len(keys) == 0 {
		for key, ud := range known {
			out[key] = ud.count
		}
		return out
	}
	for _, key := range keys {
		if ud, ok := known[key]; ok {
			out[key] = ud.count
		}
	}
	return out
}

// clear removes a Linda's entire entry from the registry. It never
// errors and is exempt from GC governance.
func (k *keeperState) clear(l *Linda) {
	keys := k.registry[l]
	for _, ud := range keys {
		k.adjustAllocated(-ud.bytes())
	}
	delete(k.registry, l)
}

// dump snapshots every key of a Linda for introspection.
func (k *keeperState) dump(l *Linda) map[Value]KeyDump {
	keys := k.registry[l]
	out := make(map[Value]KeyDump, len(keys))
	for key, ud := range keys {
		fifo := make([]Value, len(ud.contents))
		copy(fifo, ud.contents)
		out[key] = KeyDump{First: ud.first, Count: ud.count, Limit: ud.limit, FIFO: fifo}
	}
	return out
}

// KeyDump is a snapshot of one KeyUD's state, returned by Linda.Dump.
type KeyDump struct {
	First int
	Count int
	Limit int
	FIFO  []Value
}
