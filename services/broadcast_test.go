package services

import "testing"

func TestBroadcaster_LatestWins(t *testing.T) {
	b := NewBroadcaster[int](1)
	sub := b.Subscribe(nil)
	defer sub.Cancel()

	for i := 1; i <= 3; i++ {
		b.Publish(i)
	}

	if got := <-sub.C; got != 3 {
		t.Errorf("received %d, want the latest value 3", got)
	}
	select {
	case v := <-sub.C:
		t.Errorf("unexpected extra value %d", v)
	default:
	}
}

func TestBroadcaster_InitialValueFirst(t *testing.T) {
	b := NewBroadcaster[string](2)
	initial := "current"
	sub := b.Subscribe(&initial)
	defer sub.Cancel()

	b.Publish("next")
	if got := <-sub.C; got != "current" {
		t.Errorf("first value = %q, want current", got)
	}
	if got := <-sub.C; got != "next" {
		t.Errorf("second value = %q, want next", got)
	}
}

func TestBroadcaster_Cancel(t *testing.T) {
	b := NewBroadcaster[int](1)
	sub := b.Subscribe(nil)
	other := b.Subscribe(nil)
	defer other.Cancel()

	b.Publish(1)
	sub.Cancel()
	if _, ok := <-sub.C; ok {
		t.Error("cancelled subscription still delivered a value")
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}

	// publishing after a cancel must not panic or block
	b.Publish(2)
	if got := <-other.C; got != 2 {
		t.Errorf("other subscriber got %d, want 2", got)
	}
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster[int](1)
	sub := b.Subscribe(nil)
	b.Close()
	if _, ok := <-sub.C; ok {
		t.Error("channel open after Close")
	}
	// Cancel after Close is a no-op
	sub.Cancel()
}
