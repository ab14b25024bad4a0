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
	"sync/atomic"

	"github.com/benoit-pierre/lanes/internal/auxstate"
)

// CancelRequest is the disposition a blocked Send/Receive reacts to at
// its next wait-loop iteration.
type CancelRequest int32

const (
	// CancelNone means no cancellation has been requested.
	CancelNone CancelRequest = iota
	// CancelSoft returns a cancel result in lieu of a normal one.
	CancelSoft
	// CancelHard surfaces as a returned error callers must propagate.
	CancelHard
)

// Lane stands in for the worker-lifecycle subsystem the spec treats as an
// external collaborator: it carries the calling worker's own cancellation
// flag and observable waiting-state. A nil *Lane is legal and means "no
// per-worker cancellation source" — only the Linda's own cancel_request
// can preempt the wait.
type Lane struct {
	cancelRequest atomic.Int32
	waitingOn     atomic.Pointer[string]
	waitingCond   atomic.Pointer[sync.Cond]

	// aux is this worker's own private heap — the far side of the
	// transfer contract from whichever Keeper its Lindas are bound to.
	// Only the goroutine driving this Lane ever touches it, so it needs
	// no lock of its own.
	aux *auxstate.State
}

// NewLane returns a Lane with no cancellation requested.
func NewLane() *Lane {
	return &Lane{aux: auxstate.New()}
}

// auxOrNew returns this lane's private heap, tolerating a nil *Lane (in
// which case every Send/Receive call gets a disposable one-shot heap —
// correct, just unable to batch allocations across calls).
func (l *Lane) auxOrNew() *auxstate.State {
	if l == nil {
		return auxstate.New()
	}
	if l.aux == nil {
		l.aux = auxstate.New()
	}
	return l.aux
}

// RequestCancel sets this lane's cancellation disposition and, if the lane
// is currently blocked in a Linda wait, wakes it immediately rather than
// leaving it to discover the request at its next timeout — mirroring
// thread_cancel's wakeLane_ behavior in linda.cpp. Safe to call from any
// goroutine, including one other than the lane's owner.
func (l *Lane) RequestCancel(kind CancelRequest) {
	if l == nil {
		return
	}
	l.cancelRequest.Store(int32(kind))
	if cond := l.waitingCond.Load(); cond != nil {
		cond.Broadcast()
	}
}

func (l *Lane) cancel() CancelRequest {
	if l == nil {
		return CancelNone
	}
	return CancelRequest(l.cancelRequest.Load())
}

// WaitingOn reports the name of the condition variable this lane is
// currently blocked on, or "" if it is not waiting. External introspection
// tools can poll this; it is updated under the owning Keeper's mutex.
func (l *Lane) WaitingOn() string {
	if l == nil {
		return ""
	}
	if p := l.waitingOn.Load(); p != nil {
		return *p
	}
	return ""
}

func (l *Lane) setWaitingOn(name string, cond *sync.Cond) {
	if l == nil {
		return
	}
	l.waitingOn.Store(&name)
	l.waitingCond.Store(cond)
}

func (l *Lane) clearWaitingOn() {
	if l == nil {
		return
	}
	empty := ""
	l.waitingOn.Store(&empty)
	l.waitingCond.Store(nil)
}

// resolveCancel combines a lane's and a Linda's cancel_request, Hard
// dominating Soft dominating None — ground truth is linda.cpp's
// cancellation dispatch.
func resolveCancel(lane *Lane, lindaCancel CancelRequest) CancelRequest {
	c := lane.cancel()
	if c == CancelHard || lindaCancel == CancelHard {
		return CancelHard
	}
	if c == CancelSoft || lindaCancel == CancelSoft {
		return CancelSoft
	}
	return CancelNone
}
