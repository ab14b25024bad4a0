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

package auxstate

import "errors"

// ErrUnsupportedType is returned by Transfer when a value cannot be
// represented on the far side of the boundary.
var ErrUnsupportedType = errors.New("tried to copy unsupported types")

// State is a minimal stand-in for a private interpreter heap: a value
// stack that Transfer pushes to and pops from, plus a simulated
// allocation counter the owning Keeper uses to drive its GC-governance
// policy (spec §4.8). It is not safe for concurrent use; callers hold the
// owning Keeper's mutex for every access, exactly as the real auxiliary
// interpreter would only ever be entered with its Keeper's mutex held.
type State struct {
	stack     []Value
	allocated int64
}

// New returns a freshly initialized auxiliary interpreter heap.
func New() *State {
	return &State{}
}

// Top returns the number of values currently on the stack.
func (s *State) Top() int { return len(s.stack) }

// Push appends a value to the top of the stack, accounting for its
// simulated allocation footprint.
func (s *State) Push(v Value) {
	s.stack = append(s.stack, v)
	s.allocated += v.approxSize()
}

// Pop removes and returns the top value. It panics if the stack is empty,
// which would indicate a bug in the calling primitive, not a reachable
// runtime condition.
func (s *State) Pop() Value {
	n := len(s.stack)
	v := s.stack[n-1]
	s.stack = s.stack[:n-1]
	s.allocated -= v.approxSize()
	if s.allocated < 0 {
		s.allocated = 0
	}
	return v
}

// PopN removes and returns the top n values in stack order (oldest of the
// popped values first).
func (s *State) PopN(n int) []Value {
	if n == 0 {
		return nil
	}
	start := len(s.stack) - n
	out := make([]Value, n)
	copy(out, s.stack[start:])
	for _, v := range out {
		s.allocated -= v.approxSize()
	}
	s.stack = s.stack[:start]
	if s.allocated < 0 {
		s.allocated = 0
	}
	return out
}

// Peek returns a copy of the value at depth idx from the top (0 is the
// top-most value) without mutating the stack.
func (s *State) Peek(idx int) Value {
	return s.stack[len(s.stack)-1-idx]
}

// Mark returns the current stack height, to be passed to Restore on every
// exit path of a protected call — the Go analogue of the C implementation's
// STACK_CHECK bracketing.
func (s *State) Mark() int { return len(s.stack) }

// Restore truncates the stack back to a previously Mark()ed height. It is
// idempotent and safe to call even when the stack never grew past mark.
func (s *State) Restore(mark int) {
	if mark > len(s.stack) {
		return
	}
	for _, v := range s.stack[mark:] {
		s.allocated -= v.approxSize()
	}
	s.stack = s.stack[:mark]
	if s.allocated < 0 {
		s.allocated = 0
	}
}

// Allocated returns the simulated number of bytes this heap currently
// holds live, for GC-governance threshold comparisons.
func (s *State) Allocated() int64 { return s.allocated }

// StepGC performs one incremental collection step. In this stand-in there
// is no generational structure to walk incrementally, so a step reclaims a
// bounded fraction of dead weight already excluded from the stack (a no-op
// in practice, since Pop/Restore already account for freed values) and
// exists so callers can drive the same threshold policy a real incremental
// collector would expose.
func (s *State) StepGC() {}

// FullGC performs a full collection, returning the allocation figure
// afterward. Because Pop/Restore eagerly deduct freed values there is
// nothing left to reclaim; FullGC simply reports the current figure. The
// keeper package calls it but compares its own per-Keeper allocation
// counter, not this return value, against its configured threshold.
func (s *State) FullGC() int64 { return s.allocated }

// Transfer moves the top n values from src to dst, in order, preserving
// table identity within the call. It reports ErrUnsupportedType without
// mutating either stack if any of the n values (or anything reachable from
// a table among them) is not representable — in this stand-in, nothing is
// ever unrepresentable on its own, so the hook exists for values built
// with a future Tag this package doesn't know about yet.
func Transfer(src, dst *State, n int) error {
	if n == 0 {
		return nil
	}
	start := len(src.stack) - n
	values := src.stack[start:]
	for _, v := range values {
		if !isPortable(v) {
			return ErrUnsupportedType
		}
	}
	seen := make(map[*Table]*Table)
	copies := make([]Value, n)
	for i, v := range values {
		copies[i] = deepCopy(v, seen)
	}
	src.stack = src.stack[:start]
	for _, v := range values {
		src.allocated -= v.approxSize()
	}
	if src.allocated < 0 {
		src.allocated = 0
	}
	for _, v := range copies {
		dst.Push(v)
	}
	return nil
}

func isPortable(v Value) bool {
	switch v.tag {
	case TagNil, TagBool, TagInt, TagFloat, TagString, TagPointer:
		return true
	case TagTable:
		for _, e := range v.t.Elems {
			if !isPortable(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func deepCopy(v Value, seen map[*Table]*Table) Value {
	if v.tag != TagTable {
		return v
	}
	if cp, ok := seen[v.t]; ok {
		return TableValue(cp)
	}
	cp := &Table{Elems: make([]Value, len(v.t.Elems))}
	seen[v.t] = cp
	for i, e := range v.t.Elems {
		cp.Elems[i] = deepCopy(e, seen)
	}
	return TableValue(cp)
}
