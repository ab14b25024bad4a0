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
	"errors"
	"fmt"
)

// ErrPoolClosing is what Pool.whichKeeper reports when the Pool has no
// Keepers or has begun or finished shutdown. Linda operations do not return
// it: against a closing Pool they no-op, returning zero values and a nil
// error, so late finalizers never deadlock.
var ErrPoolClosing = errors.New("keeper pool is closing")

// ErrUnsupportedType is raised after the Keeper mutex has been released,
// when a value could not cross the interpreter boundary.
var ErrUnsupportedType = errors.New("tried to copy unsupported types")

// ErrBadArgument covers invalid key types, bad counts/durations/limits,
// wrong arity, and unrecognized cancel hints.
var ErrBadArgument = errors.New("bad argument")

// ErrCancelled is returned for a Hard cancel. Callers are expected to let
// it propagate rather than swallow it — the idiomatic-Go rendering of the
// spec's "raises a cancellation error the caller must not catch".
var ErrCancelled = errors.New("operation cancelled")

// ErrSoftCancelled is returned in lieu of a normal result for a Soft
// cancel. It corresponds to the spec's CancelError sentinel; CancelErrorValue
// (sentinel.go) is that same sentinel rendered as a Value, for callers that want to
// observe it through Dump or other value-shaped introspection rather than
// through the error return.
var ErrSoftCancelled = errors.New("soft cancel")

// GCThresholdError carries the minimum allocation figure a Keeper's
// configured threshold would need to be to succeed, raised when a full
// collection does not bring usage back under the threshold.
type GCThresholdError struct {
	Need int64
}

func (e *GCThresholdError) Error() string {
	return fmt.Sprintf("threshold too low: need at least %d", e.Need)
}
