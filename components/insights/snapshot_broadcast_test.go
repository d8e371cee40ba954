package insights

import (
	"context"
	"testing"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	event := SnapshotEvent{ImportID: "imp-1", Reason: "filter.search"}
	if err := hook.SnapshotInvalidated(context.Background(), event); err != nil {
		t.Fatalf("SnapshotInvalidated returned error: %v", err)
	}
	select {
	case e := <-ch:
		if e.ImportID != event.ImportID || e.Reason != event.Reason {
			t.Fatalf("expected event %+v, got %+v", event, e)
		}
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookCancelStopsDelivery(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	cancel()
	if err := hook.SnapshotInvalidated(context.Background(), SnapshotEvent{ImportID: "imp-2"}); err != nil {
		t.Fatalf("SnapshotInvalidated returned error: %v", err)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}
}

func TestBroadcastHookDropsWhenSubscriberIsFull(t *testing.T) {
	hook := NewBroadcastHook()
	_, cancel := hook.Subscribe()
	defer cancel()
	for i := 0; i < 20; i++ {
		if err := hook.SnapshotInvalidated(context.Background(), SnapshotEvent{ImportID: "imp-3"}); err != nil {
			t.Fatalf("SnapshotInvalidated returned error: %v", err)
		}
	}
}
