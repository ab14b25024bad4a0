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
)

// Pool owns a fixed number of Keepers and routes each Linda to exactly
// one of them by group hash, for its entire lifetime.
type Pool struct {
	keepers     []*keeperState
	gcThreshold int64
	closing     atomic.Bool
	shutdownMu  sync.Mutex
}

// NewPool constructs n Keepers, each pre-loaded with a fresh auxiliary
// interpreter. gcThreshold governs the GC policy described in spec §4.8:
// negative disables GC entirely, zero runs one incremental step per
// primitive, positive runs a full collection once allocation crosses the
// threshold.
func NewPool(n int, gcThreshold int64) *Pool {
	p := &Pool{
		keepers:     make([]*keeperState, n),
		gcThreshold: gcThreshold,
	}
	for i := range p.keepers {
		p.keepers[i] = newKeeperState()
	}
	return p
}

// N reports the number of Keepers in this Pool.
func (p *Pool) N() int { return len(p.keepers) }

// whichKeeper returns the Keeper for a Linda's group, or ErrPoolClosing
// when the pool has no keepers or is shutting down.
func (p *Pool) whichKeeper(group int) (*keeperState, error) {
	if p.closing.Load() || len(p.keepers) == 0 {
		return nil, ErrPoolClosing
	}
	return p.keepers[group%len(p.keepers)], nil
}

// Shutdown raises the closing flag (idempotent) and tears down every
// Keeper. Linda operations racing a Shutdown return zero values and a nil
// error rather than deadlocking, so Linda finalizers running late can skip
// cleanup safely.
func (p *Pool) Shutdown() {
	p.shutdownMu.Lock()
	defer p.shutdownMu.Unlock()
	if p.closing.Swap(true) {
		return // already closed
	}
	for _, k := range p.keepers {
		k.mu.Lock()
		k.closing = true
		k.mu.Unlock()
	}
}

// governGC is invoked by withKeeper and by Send/Receive/ReceiveBatched after
// every successful non-clear primitive,
// implementing spec §4.8's threshold policy. It must be called with the
// Keeper's mutex held.
func (p *Pool) governGC(k *keeperState) error {
	switch {
	case p.gcThreshold < 0:
		return nil
	case p.gcThreshold == 0:
		k.aux.StepGC()
		return nil
	default:
		if k.allocated < p.gcThreshold {
			return nil
		}
		k.aux.FullGC()
		if k.allocated > p.gcThreshold {
			return &GCThresholdError{Need: k.allocated}
		}
		return nil
	}
}
