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
	"time"
)

// computeDeadline implements spec §4.5 step 1: a nil timeout means wait
// forever, reported as the zero time.Time. Callers reject a negative
// duration as an argument error before this is ever reached.
func computeDeadline(timeout *time.Duration) time.Time {
	if timeout == nil {
		return time.Time{}
	}
	return time.Now().Add(*timeout)
}

// condWaitUntil is sync.Cond.Wait with a deadline: it releases cond.L,
// blocks until either a notification arrives or deadline passes, and
// re-acquires cond.L before returning. The zero Time means wait forever,
// and no timer is armed.
//
// sync.Cond has no native timed wait, so a background timer plays the role
// of a spurious-but-harmless notify_all once the deadline passes. Callers
// re-check their own condition and the deadline afterward regardless of
// why they woke — spec §4.5 step d requires treating a genuine signal, a
// spurious wakeup, and deadline expiry identically at this layer.
func condWaitUntil(cond *sync.Cond, deadline time.Time) {
	if deadline.IsZero() {
		cond.Wait()
		return
	}
	if !time.Now().Before(deadline) {
		return
	}
	timer := time.AfterFunc(time.Until(deadline), func() {
		cond.L.Lock()
		cond.Broadcast()
		cond.L.Unlock()
	})
	defer timer.Stop()
	cond.Wait()
}
