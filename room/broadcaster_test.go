package room

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func newTestBroadcaster() *Broadcaster {
	return NewBroadcaster(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func nextEvent(t *testing.T, s *Session) Event {
	t.Helper()
	select {
	case ev, ok := <-s.Events():
		if !ok {
			t.Fatal("event stream closed unexpectedly")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestSubscribe_JoinerReceivesOwnJoinNotice(t *testing.T) {
	b := newTestBroadcaster()

	s := b.Subscribe("ride_1", "asha")

	ev := nextEvent(t, s)
	if ev.Type != EventSystem {
		t.Errorf("expected system event, got %s", ev.Type)
	}
	if ev.Message != "asha joined" {
		t.Errorf("unexpected message %q", ev.Message)
	}
}

func TestSubscribe_NotifiesExistingSubscribers(t *testing.T) {
	b := newTestBroadcaster()

	first := b.Subscribe("ride_1", "asha")
	nextEvent(t, first) // own join

	b.Subscribe("ride_1", "bo")

	ev := nextEvent(t, first)
	if ev.Message != "bo joined" {
		t.Errorf("expected join notice for bo, got %q", ev.Message)
	}
}

func TestPublish_BroadcastsTrimmedChat(t *testing.T) {
	b := newTestBroadcaster()

	s1 := b.Subscribe("ride_1", "asha")
	s2 := b.Subscribe("ride_1", "bo")
	nextEvent(t, s1) // asha joined
	nextEvent(t, s1) // bo joined
	nextEvent(t, s2) // bo joined

	b.Publish("ride_1", "asha", "  hi  ")

	for _, s := range []*Session{s1, s2} {
		ev := nextEvent(t, s)
		if ev.Type != EventChat {
			t.Errorf("expected chat event, got %s", ev.Type)
		}
		if ev.Username != "asha" || ev.Message != "hi" {
			t.Errorf("got %q from %q, want trimmed \"hi\" from asha", ev.Message, ev.Username)
		}
		if ev.Time == "" {
			t.Error("chat event should carry a server timestamp")
		}
	}
}

func TestPublish_DropsEmptyMessages(t *testing.T) {
	b := newTestBroadcaster()

	s := b.Subscribe("ride_1", "asha")
	nextEvent(t, s)

	b.Publish("ride_1", "asha", "")
	b.Publish("ride_1", "asha", "   \t\n")

	select {
	case ev := <-s.Events():
		t.Errorf("expected no broadcast, got %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublish_DoesNotLeakAcrossRooms(t *testing.T) {
	b := newTestBroadcaster()

	other := b.Subscribe("ride_2", "chen")
	nextEvent(t, other)
	b.Subscribe("ride_1", "asha")

	b.Publish("ride_1", "asha", "hello ride 1")

	select {
	case ev := <-other.Events():
		t.Errorf("event leaked into other room: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe_ClosesStreamAndNotifiesRemaining(t *testing.T) {
	b := newTestBroadcaster()

	s1 := b.Subscribe("ride_1", "asha")
	s2 := b.Subscribe("ride_1", "bo")
	nextEvent(t, s1)
	nextEvent(t, s1)
	nextEvent(t, s2)

	b.Unsubscribe(s2)

	ev := nextEvent(t, s1)
	if ev.Type != EventSystem || ev.Message != "bo left" {
		t.Errorf("expected departure notice, got %+v", ev)
	}

	// The removed session's stream is closed and sees nothing further.
	select {
	case _, ok := <-s2.Events():
		if ok {
			t.Error("expected closed stream for unsubscribed session")
		}
	case <-time.After(time.Second):
		t.Error("stream not closed after unsubscribe")
	}
	if n := b.Subscribers("ride_1"); n != 1 {
		t.Errorf("expected 1 remaining subscriber, got %d", n)
	}
}

func TestUnsubscribe_LastLeaverEmptiesRoom(t *testing.T) {
	b := newTestBroadcaster()

	s := b.Subscribe("ride_1", "asha")
	nextEvent(t, s)
	b.Unsubscribe(s)

	if n := b.Subscribers("ride_1"); n != 0 {
		t.Fatalf("expected empty room, got %d subscribers", n)
	}

	// A later subscribe is a fresh first join: the notice fires again.
	again := b.Subscribe("ride_1", "asha")
	ev := nextEvent(t, again)
	if ev.Message != "asha joined" {
		t.Errorf("expected fresh join notice, got %q", ev.Message)
	}
}

func TestUnsubscribe_IsIdempotent(t *testing.T) {
	b := newTestBroadcaster()

	s := b.Subscribe("ride_1", "asha")
	nextEvent(t, s)

	b.Unsubscribe(s)
	b.Unsubscribe(s) // second call must not panic or double-close
}

func TestPublish_SlowSubscriberDoesNotBlockOthers(t *testing.T) {
	b := newTestBroadcaster()

	slow := b.Subscribe("ride_1", "slow")
	fast := b.Subscribe("ride_1", "fast")
	nextEvent(t, fast)

	// Never drain `slow`: its buffer overflows partway through, after which
	// its events are dropped. The fast subscriber, drained as we go, must
	// still see every message; a blocking send would deadlock here.
	for i := 0; i < sessionBuffer+8; i++ {
		b.Publish("ride_1", "fast", fmt.Sprintf("msg %d", i))
		ev := nextEvent(t, fast)
		if ev.Type != EventChat || ev.Message != fmt.Sprintf("msg %d", i) {
			t.Fatalf("fast subscriber got %+v at message %d", ev, i)
		}
	}

	if b.DroppedEvents() == 0 {
		t.Error("expected the slow subscriber's overflow to be counted")
	}
	_ = slow
}

func TestBroadcaster_ConcurrentPublishAndChurn(t *testing.T) {
	b := newTestBroadcaster()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("ride_%d", i%2)
			s := b.Subscribe(key, fmt.Sprintf("user-%d", i))
			for j := 0; j < 20; j++ {
				b.Publish(key, s.Username, "ping")
			}
			b.Unsubscribe(s)
		}(i)
	}
	wg.Wait()

	if n := b.Subscribers("ride_0") + b.Subscribers("ride_1"); n != 0 {
		t.Errorf("expected all sessions gone, %d remain", n)
	}
}
