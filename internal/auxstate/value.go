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

// Package auxstate stands in for the private per-worker interpreter heap
// that a Keeper copies values into and out of. It is the concrete
// realization of the "auxiliary interpreter" the keeper subsystem is built
// around, and of the cross-heap transfer(src, dst, n) contract: push/peek/pop
// of portable values, plus a simulated allocation counter the keeper package
// drives its GC-governance policy from.
package auxstate

import "fmt"

// Tag identifies the dynamic type of a Value.
type Tag int

const (
	TagNil Tag = iota
	TagBool
	TagInt
	TagFloat
	TagString
	TagPointer
	TagTable
)

func (t Tag) String() string {
	switch t {
	case TagNil:
		return "nil"
	case TagBool:
		return "bool"
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagString:
		return "string"
	case TagPointer:
		return "pointer"
	case TagTable:
		return "table"
	default:
		return "unknown"
	}
}

// Value is a portable value: the subset of dynamic types that can cross
// the boundary between two interpreter heaps. Anything outside this union
// (a live closure of the source interpreter, a channel, and so on) cannot
// be represented and Transfer reports it as unsupported.
type Value struct {
	tag Tag
	b   bool
	i   int64
	f   float64
	s   string
	p   any // opaque pointer identity, compared by equality only
	t   *Table
}

// Table is a composite value: an ordered sequence of Values. Two Values
// referencing the same *Table within one Transfer call share identity on
// the far side rather than being duplicated, mirroring how a real
// interpreter preserves table identity within a single copy.
type Table struct {
	Elems []Value
}

func Nil() Value               { return Value{tag: TagNil} }
func Bool(b bool) Value        { return Value{tag: TagBool, b: b} }
func Int(i int64) Value        { return Value{tag: TagInt, i: i} }
func Float(f float64) Value    { return Value{tag: TagFloat, f: f} }
func String(s string) Value    { return Value{tag: TagString, s: s} }
func Pointer(p any) Value      { return Value{tag: TagPointer, p: p} }
func TableValue(t *Table) Value { return Value{tag: TagTable, t: t} }

func (v Value) Tag() Tag   { return v.tag }
func (v Value) IsNil() bool { return v.tag == TagNil }
func (v Value) Bool() bool   { return v.b }
func (v Value) Int() int64   { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) String() string {
	if v.tag == TagString {
		return v.s
	}
	return fmt.Sprintf("%v", v.raw())
}
func (v Value) Pointer() any   { return v.p }
func (v Value) Table() *Table  { return v.t }

func (v Value) raw() any {
	switch v.tag {
	case TagNil:
		return nil
	case TagBool:
		return v.b
	case TagInt:
		return v.i
	case TagFloat:
		return v.f
	case TagString:
		return v.s
	case TagPointer:
		return v.p
	case TagTable:
		return v.t
	default:
		return nil
	}
}

// Equal reports whether two Values are the same scalar, or the same table
// identity. It is used for flat-key comparisons (spec keys are boolean,
// integer, string, or opaque pointer — never a table).
func (v Value) Equal(o Value) bool {
	if v.tag != o.tag {
		return false
	}
	switch v.tag {
	case TagNil:
		return true
	case TagBool:
		return v.b == o.b
	case TagInt:
		return v.i == o.i
	case TagFloat:
		return v.f == o.f
	case TagString:
		return v.s == o.s
	case TagPointer:
		return v.p == o.p
	case TagTable:
		return v.t == o.t
	default:
		return false
	}
}

// approxSize estimates the bytes this value contributes to the Keeper's
// simulated allocation counter. It does not need to be exact, only
// monotonic in the value's real footprint.
func (v Value) approxSize() int64 {
	switch v.tag {
	case TagString:
		return int64(len(v.s)) + 16
	case TagTable:
		size := int64(24)
		for _, e := range v.t.Elems {
			size += e.approxSize()
		}
		return size
	default:
		return 16
	}
}
