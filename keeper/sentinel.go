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

// Value is a portable value that can cross the boundary between a
// caller's heap and a Keeper's heap: nil, bool, int64, float64, string,
// an opaque pointer, or a table built from these. It is a type alias so
// callers never need to import the internal package that implements it.
type Value = auxstate.Value

func NilValue() Value            { return auxstate.Nil() }
func BoolValue(b bool) Value     { return auxstate.Bool(b) }
func IntValue(i int64) Value     { return auxstate.Int(i) }
func FloatValue(f float64) Value { return auxstate.Float(f) }
func StringValue(s string) Value { return auxstate.String(s) }
func PointerValue(p any) Value   { return auxstate.Pointer(p) }

// sentinel is the concrete type behind the three reserved, process-wide
// singletons. Sentinels are compared by pointer identity, which is why
// they are wrapped as opaque pointer Values rather than, say, distinct
// strings that a user's own data might collide with.
type sentinel struct{ name string }

var (
	nilSentinel   = &sentinel{name: "nil"}
	batchSentinel = &sentinel{name: "batch"}
	cancelResult  = &sentinel{name: "cancel"}
)

// BatchSentinel is the reserved batched-receive marker. Batched receives
// go through the separate Linda.ReceiveBatched method rather than vararg
// sniffing (see DESIGN.md for why), so passing BatchSentinel as a key to
// Receive or any other Linda method is rejected with ErrBadArgument.
var BatchSentinel = auxstate.Pointer(batchSentinel)

// CancelErrorValue is the Value-shaped rendering of a soft cancel, for
// code that inspects results as Values rather than as the ErrSoftCancelled
// error.
var CancelErrorValue = auxstate.Pointer(cancelResult)

// substituteNil replaces a Go nil-equivalent auxstate.Value with
// nilSentinel on the way into a Keeper, so that a genuine nil stored in a
// FIFO is held there as an opaque pointer Value and turned back into nil by
// restoreNil on the way out. (auxstate.Transfer itself carries TagNil
// values unchanged.)
func substituteNil(v Value) Value {
	if v.IsNil() {
		return auxstate.Pointer(nilSentinel)
	}
	return v
}

func substituteNilAll(values []Value) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = substituteNil(v)
	}
	return out
}

// restoreNil reverses substituteNil on the way out of a Keeper.
func restoreNil(v Value) Value {
	if v.Tag() == auxstate.TagPointer {
		if s, ok := v.Pointer().(*sentinel); ok && s == nilSentinel {
			return auxstate.Nil()
		}
	}
	return v
}

func restoreNilAll(values []Value) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = restoreNil(v)
	}
	return out
}

// isReservedSentinel reports whether v is one of the three opaque
// singletons, which must never be usable as a Linda key.
func isReservedSentinel(v Value) bool {
	if v.Tag() != auxstate.TagPointer {
		return false
	}
	switch v.Pointer().(type) {
	case *sentinel:
		return true
	default:
		return false
	}
}

// validKey reports whether v is a flat type allowed as a Linda key:
// boolean, integer, float, string, or opaque pointer — excluding the
// three reserved sentinels.
func validKey(v Value) error {
	if isReservedSentinel(v) {
		return ErrBadArgument
	}
	switch v.Tag() {
	case auxstate.TagBool, auxstate.TagInt, auxstate.TagFloat, auxstate.TagString, auxstate.TagPointer:
		return nil
	default:
		return ErrBadArgument
	}
}
