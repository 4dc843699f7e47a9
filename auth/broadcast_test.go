package auth

import (
	"testing"
	"time"

	"github.com/mentorhub/go-mentorhub/session"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan *session.UserIdentity, n int) []*session.UserIdentity {
	t.Helper()
	out := make([]*session.UserIdentity, 0, n)
	for len(out) < n {
		select {
		case user := <-ch:
			out = append(out, user)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d updates", len(out), n)
		}
	}
	return out
}

func TestBroadcaster_InitialValueDelivered(t *testing.T) {
	initial := &session.UserIdentity{ID: "u1", Role: session.RoleMentor}
	b := newBroadcaster(initial)

	ch, cancel := b.Subscribe()
	defer cancel()

	got := collect(t, ch, 1)
	require.Equal(t, initial, got[0])
}

func TestBroadcaster_UpdatesInOrder(t *testing.T) {
	b := newBroadcaster(nil)

	ch, cancel := b.Subscribe()
	defer cancel()

	users := []*session.UserIdentity{
		{ID: "u1"}, {ID: "u2"}, nil, {ID: "u3"},
	}
	for _, u := range users {
		b.Publish(u)
	}

	got := collect(t, ch, 5)
	require.Nil(t, got[0]) // seeded initial state
	require.Equal(t, users, got[1:])
}

func TestBroadcaster_SlowSubscriberDropsNothing(t *testing.T) {
	b := newBroadcaster(nil)

	ch, cancel := b.Subscribe()
	defer cancel()

	// Publish a burst without draining; every update must still arrive.
	for i := 0; i < 100; i++ {
		b.Publish(&session.UserIdentity{ID: string(rune('a' + i%26))})
	}

	got := collect(t, ch, 101)
	require.Len(t, got, 101)
}

func TestBroadcaster_MultipleSubscribers(t *testing.T) {
	b := newBroadcaster(nil)

	ch1, cancel1 := b.Subscribe()
	defer cancel1()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	user := &session.UserIdentity{ID: "u1"}
	b.Publish(user)

	require.Equal(t, user, collect(t, ch1, 2)[1])
	require.Equal(t, user, collect(t, ch2, 2)[1])
}

func TestBroadcaster_CancelStopsDelivery(t *testing.T) {
	b := newBroadcaster(nil)

	ch, cancel := b.Subscribe()
	collect(t, ch, 1)
	cancel()

	// Publishing after cancel must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			b.Publish(&session.UserIdentity{ID: "u"})
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked after cancel")
	}
}
