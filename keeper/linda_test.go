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

package keeper_test

import (
	"testing"
	"time"

	"github.com/benoit-pierre/lanes/keeper"
)

func TestLinda_SendReceiveRoundTrip(t *testing.T) {
	pool := keeper.NewPool(1, -1)
	defer pool.Shutdown()
	linda, err := keeper.NewLinda(pool, "", keeper.NoGroup)
	if err != nil {
		t.Fatalf("NewLinda: %v", err)
	}

	lane := keeper.NewLane()
	ok, err := linda.Send(lane, nil, keeper.StringValue("k"), keeper.IntValue(7))
	if err != nil || !ok {
		t.Fatalf("Send = (%v, %v), want (true, nil)", ok, err)
	}

	key, value, ok, err := linda.Receive(lane, nil, keeper.StringValue("k"))
	if err != nil || !ok {
		t.Fatalf("Receive = (_, _, %v, %v), want (_, _, true, nil)", ok, err)
	}
	if key.String() != "k" || value.Int() != 7 {
		t.Fatalf("Receive = (%v, %v), want (k, 7)", key, value)
	}
}

func TestLinda_SendZeroTimeoutOnFullIsNonBlocking(t *testing.T) {
	pool := keeper.NewPool(1, -1)
	defer pool.Shutdown()
	linda, _ := keeper.NewLinda(pool, "", keeper.NoGroup)

	if _, err := linda.Limit(keeper.StringValue("k"), 1); err != nil {
		t.Fatalf("Limit: %v", err)
	}
	lane := keeper.NewLane()
	zero := time.Duration(0)
	if ok, err := linda.Send(lane, &zero, keeper.StringValue("k"), keeper.IntValue(1)); err != nil || !ok {
		t.Fatalf("first send under limit 1 should succeed, got (%v, %v)", ok, err)
	}

	ok, err := linda.Send(lane, &zero, keeper.StringValue("k"), keeper.IntValue(2))
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if ok {
		t.Fatalf("Send with 0 timeout against a full FIFO should return false immediately")
	}
}

func TestLinda_ReceiveWakesOnConcurrentSend(t *testing.T) {
	pool := keeper.NewPool(1, -1)
	defer pool.Shutdown()
	linda, _ := keeper.NewLinda(pool, "", keeper.NoGroup)

	done := make(chan struct{})
	go func() {
		defer close(done)
		lane := keeper.NewLane()
		timeout := 2 * time.Second
		_, value, ok, err := linda.Receive(lane, &timeout, keeper.StringValue("k"))
		if err != nil || !ok || value.Int() != 99 {
			t.Errorf("Receive = (_, %v, %v, %v), want (_, 99, true, nil)", value, ok, err)
		}
	}()

	time.Sleep(20 * time.Millisecond) // give the receiver time to block
	lane := keeper.NewLane()
	if ok, err := linda.Send(lane, nil, keeper.StringValue("k"), keeper.IntValue(99)); err != nil || !ok {
		t.Fatalf("Send: (%v, %v)", ok, err)
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("receiver never woke up after send")
	}
}

func TestLinda_ReceiveTimesOutWithoutData(t *testing.T) {
	pool := keeper.NewPool(1, -1)
	defer pool.Shutdown()
	linda, _ := keeper.NewLinda(pool, "", keeper.NoGroup)

	lane := keeper.NewLane()
	timeout := 30 * time.Millisecond
	_, _, ok, err := linda.Receive(lane, &timeout, keeper.StringValue("k"))
	if err != nil {
		t.Fatalf("Receive error: %v", err)
	}
	if ok {
		t.Fatalf("Receive against an empty key should time out, not succeed")
	}
}

func TestLinda_SendNegativeTimeoutIsArgumentError(t *testing.T) {
	pool := keeper.NewPool(1, -1)
	defer pool.Shutdown()
	linda, _ := keeper.NewLinda(pool, "", keeper.NoGroup)

	lane := keeper.NewLane()
	neg := -time.Second
	if _, err := linda.Send(lane, &neg, keeper.StringValue("k"), keeper.IntValue(1)); err == nil {
		t.Fatalf("Send with negative timeout should error")
	}
}

func TestLinda_SendNoValuesIsArgumentError(t *testing.T) {
	pool := keeper.NewPool(1, -1)
	defer pool.Shutdown()
	linda, _ := keeper.NewLinda(pool, "", keeper.NoGroup)

	lane := keeper.NewLane()
	if _, err := linda.Send(lane, nil, keeper.StringValue("k")); err == nil {
		t.Fatalf("Send with zero values should error")
	}
}

func TestLinda_NilValueRoundTripsThroughNilSentinel(t *testing.T) {
	pool := keeper.NewPool(1, -1)
	defer pool.Shutdown()
	linda, _ := keeper.NewLinda(pool, "", keeper.NoGroup)

	lane := keeper.NewLane()
	if _, err := linda.Send(lane, nil, keeper.StringValue("k"), keeper.NilValue()); err != nil {
		t.Fatalf("Send(nil): %v", err)
	}
	_, value, ok, err := linda.Receive(lane, nil, keeper.StringValue("k"))
	if err != nil || !ok {
		t.Fatalf("Receive: (_, _, %v, %v)", ok, err)
	}
	if !value.IsNil() {
		t.Fatalf("Receive should have back-substituted NilSentinel to a genuine nil, got %v", value)
	}
}

func TestLinda_ReservedSentinelsRejectedAsKeys(t *testing.T) {
	pool := keeper.NewPool(1, -1)
	defer pool.Shutdown()
	linda, _ := keeper.NewLinda(pool, "", keeper.NoGroup)

	lane := keeper.NewLane()
	if _, err := linda.Send(lane, nil, keeper.BatchSentinel, keeper.IntValue(1)); err == nil {
		t.Fatalf("Send keyed on BatchSentinel should be rejected")
	}
	if _, err := linda.Send(lane, nil, keeper.CancelErrorValue, keeper.IntValue(1)); err == nil {
		t.Fatalf("Send keyed on CancelErrorValue should be rejected")
	}
}

func TestLinda_CancelSoftUnblocksReceive(t *testing.T) {
	pool := keeper.NewPool(1, -1)
	defer pool.Shutdown()
	linda, _ := keeper.NewLinda(pool, "", keeper.NoGroup)

	errs := make(chan error, 1)
	go func() {
		lane := keeper.NewLane()
		timeout := 2 * time.Second
		_, _, _, err := linda.Receive(lane, &timeout, keeper.StringValue("z"))
		errs <- err
	}()

	time.Sleep(20 * time.Millisecond)
	if err := linda.Cancel("read"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	select {
	case err := <-errs:
		if err != keeper.ErrSoftCancelled {
			t.Fatalf("Receive error after soft cancel = %v, want ErrSoftCancelled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("receiver never observed the cancel")
	}
}

func TestLinda_LaneHardCancelUnblocksSend(t *testing.T) {
	pool := keeper.NewPool(1, -1)
	defer pool.Shutdown()
	linda, _ := keeper.NewLinda(pool, "", keeper.NoGroup)
	if _, err := linda.Limit(keeper.StringValue("k"), 0); err != nil {
		t.Fatalf("Limit: %v", err)
	}

	lane := keeper.NewLane()
	errs := make(chan error, 1)
	go func() {
		timeout := 2 * time.Second
		_, err := linda.Send(lane, &timeout, keeper.StringValue("k"), keeper.IntValue(1))
		errs <- err
	}()

	time.Sleep(20 * time.Millisecond)
	lane.RequestCancel(keeper.CancelHard)

	select {
	case err := <-errs:
		if err != keeper.ErrCancelled {
			t.Fatalf("Send error after hard cancel = %v, want ErrCancelled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("sender never observed the lane's hard cancel")
	}
}

func TestLinda_SetWakesBlockedSenderOnFullToNotFullTransition(t *testing.T) {
	pool := keeper.NewPool(1, -1)
	defer pool.Shutdown()
	linda, _ := keeper.NewLinda(pool, "", keeper.NoGroup)
	if _, err := linda.Limit(keeper.StringValue("k"), 1); err != nil {
		t.Fatalf("Limit: %v", err)
	}
	lane := keeper.NewLane()
	zero := time.Duration(0)
	if ok, _ := linda.Send(lane, &zero, keeper.StringValue("k"), keeper.IntValue(1)); !ok {
		t.Fatalf("priming send should succeed")
	}

	sent := make(chan bool, 1)
	go func() {
		timeout := 2 * time.Second
		ok, _ := linda.Send(keeper.NewLane(), &timeout, keeper.StringValue("k"), keeper.IntValue(2))
		sent <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	if _, err := linda.Set(keeper.StringValue("k")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	select {
	case ok := <-sent:
		if !ok {
			t.Fatalf("blocked sender should have woken and succeeded after Set cleared the FIFO")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("blocked sender never woke up after Set")
	}
}

func TestNewLinda_RequiresExplicitGroupWhenMultipleKeepers(t *testing.T) {
	pool := keeper.NewPool(4, -1)
	defer pool.Shutdown()
	if _, err := keeper.NewLinda(pool, "", keeper.NoGroup); err == nil {
		t.Fatalf("NewLinda with implicit group against a 4-keeper pool should error")
	}
	if _, err := keeper.NewLinda(pool, "", 2); err != nil {
		t.Fatalf("NewLinda with explicit in-range group should succeed, got %v", err)
	}
}

func TestLinda_ReceiveBatchedRespectsMinMax(t *testing.T) {
	pool := keeper.NewPool(1, -1)
	defer pool.Shutdown()
	linda, _ := keeper.NewLinda(pool, "", keeper.NoGroup)
	lane := keeper.NewLane()

	if _, err := linda.Send(lane, nil, keeper.StringValue("k"), keeper.IntValue(1), keeper.IntValue(2), keeper.IntValue(3)); err != nil {
		t.Fatalf("Send: %v", err)
	}

	key, values, ok, err := linda.ReceiveBatched(lane, nil, keeper.StringValue("k"), 2, 2)
	if err != nil || !ok {
		t.Fatalf("ReceiveBatched = (_, _, %v, %v)", ok, err)
	}
	if key.String() != "k" || len(values) != 2 {
		t.Fatalf("ReceiveBatched = (%v, %v), want (k, len 2)", key, values)
	}
}
