package engine

import "testing"

func TestEventBusSubscribe(t *testing.T) {
	bus := NewEventBus()

	var got []Event
	bus.Subscribe(EventFactoidSet, func(ev Event) {
		got = append(got, ev)
	})

	bus.Publish(Event{Type: EventFactoidSet, Group: "T1", Key: "foo"})
	bus.Publish(Event{Type: EventKarmaChanged, Group: "T1", Key: "kittens"})

	if len(got) != 1 {
		t.Fatalf("handler saw %d events, want 1", len(got))
	}
	if got[0].Key != "foo" {
		t.Errorf("key = %q, want %q", got[0].Key, "foo")
	}
	if got[0].Timestamp.IsZero() {
		t.Error("publish should stamp events")
	}
}

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus()

	count := 0
	bus.SubscribeAll(func(Event) { count++ })

	bus.Publish(Event{Type: EventFactoidSet})
	bus.Publish(Event{Type: EventSettingChanged})
	bus.Publish(Event{Type: EventRefused})

	if count != 3 {
		t.Errorf("all-handler saw %d events, want 3", count)
	}
}
