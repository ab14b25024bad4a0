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

// Package keeper implements inter-worker data exchange channels
// ("Lindas") for a host that isolates each worker in its own private
// interpreter heap.
//
// A Pool owns a fixed number of Keepers, auxiliary interpreters that hold
// the actual storage for a bounded set of Lindas. A Linda is a multi-key,
// bounded, blocking channel: Send/Receive move values through per-key
// FIFOs hosted in the Linda's Keeper, with timeouts, cancellation, and
// spurious-wakeup-tolerant waiting built in. Values cross from a caller's
// heap into a Keeper's heap (and back) through the transfer contract in
// internal/auxstate, which reports unsupported types rather than
// corrupting the caller's stack.
package keeper
