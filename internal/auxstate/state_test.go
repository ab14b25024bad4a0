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

import "testing"

func TestPushPopOrder(t *testing.T) {
	s := New()
	s.Push(Int(1))
	s.Push(Int(2))
	s.Push(Int(3))

	got := s.PopN(2)
	if len(got) != 2 || got[0].Int() != 2 || got[1].Int() != 3 {
		t.Fatalf("PopN(2) = %v, want [2 3]", got)
	}
	if s.Top() != 1 {
		t.Fatalf("Top() = %d, want 1", s.Top())
	}
}

func TestMarkRestore(t *testing.T) {
	s := New()
	s.Push(String("a"))
	mark := s.Mark()
	s.Push(String("b"))
	s.Push(String("c"))
	s.Restore(mark)
	if s.Top() != 1 {
		t.Fatalf("Top() after Restore = %d, want 1", s.Top())
	}
	if got := s.Peek(0); got.String() != "a" {
		t.Fatalf("Peek(0) = %q, want %q", got.String(), "a")
	}
}

func TestTransferScalarsPreservesOrder(t *testing.T) {
	src, dst := New(), New()
	src.Push(Int(10))
	src.Push(Nil())
	src.Push(String("x"))

	if err := Transfer(src, dst, 3); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if src.Top() != 0 {
		t.Fatalf("src.Top() = %d, want 0", src.Top())
	}
	got := dst.PopN(3)
	if got[0].Int() != 10 || !got[1].IsNil() || got[2].String() != "x" {
		t.Fatalf("transferred values = %+v, want [10 nil x]", got)
	}
}

func TestTransferPreservesTableIdentity(t *testing.T) {
	src, dst := New(), New()
	shared := &Table{Elems: []Value{Int(1)}}
	src.Push(TableValue(shared))
	src.Push(TableValue(shared))

	if err := Transfer(src, dst, 2); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	got := dst.PopN(2)
	if got[0].Table() != got[1].Table() {
		t.Fatalf("table identity not preserved across transfer")
	}
}

func TestAllocatedTracksLiveValues(t *testing.T) {
	s := New()
	s.Push(String("hello"))
	if s.Allocated() <= 0 {
		t.Fatalf("Allocated() = %d, want > 0", s.Allocated())
	}
	s.Pop()
	if s.Allocated() != 0 {
		t.Fatalf("Allocated() after Pop = %d, want 0", s.Allocated())
	}
}
