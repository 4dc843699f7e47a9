package auth

import (
	"sync"

	"github.com/mentorhub/go-mentorhub/session"
)

// broadcaster is the process-wide current-user channel. It retains the
// last published identity so a new subscriber sees the current state
// immediately, and it guarantees per-subscriber in-order delivery with no
// dropped updates regardless of how slowly the subscriber drains.
type broadcaster struct {
	lock        sync.Mutex
	last        *session.UserIdentity
	subscribers map[int]*subscriber
	nextID      int
}

type subscriber struct {
	lock    sync.Mutex
	queue   []*session.UserIdentity
	wakeup  chan struct{}
	done    chan struct{}
	out     chan *session.UserIdentity
	closing sync.Once
}

func newBroadcaster(initial *session.UserIdentity) *broadcaster {
	return &broadcaster{
		last:        initial,
		subscribers: make(map[int]*subscriber),
	}
}

// Current returns the last published identity.
func (b *broadcaster) Current() *session.UserIdentity {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.last
}

// Publish records user as the latest value and queues it to every
// subscriber. Queueing never blocks on a slow subscriber.
func (b *broadcaster) Publish(user *session.UserIdentity) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.last = user
	for _, sub := range b.subscribers {
		sub.enqueue(user)
	}
}

// Subscribe registers a new observer. The returned channel delivers the
// current identity first, then every subsequent update in publish order.
// The cancel function releases the subscription.
func (b *broadcaster) Subscribe() (<-chan *session.UserIdentity, func()) {
	sub := &subscriber{
		wakeup: make(chan struct{}, 1),
		done:   make(chan struct{}),
		out:    make(chan *session.UserIdentity),
	}

	b.lock.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = sub
	sub.queue = append(sub.queue, b.last)
	b.lock.Unlock()

	go sub.pump()

	cancel := func() {
		b.lock.Lock()
		delete(b.subscribers, id)
		b.lock.Unlock()
		sub.closing.Do(func() { close(sub.done) })
	}
	return sub.out, cancel
}

func (s *subscriber) enqueue(user *session.UserIdentity) {
	s.lock.Lock()
	s.queue = append(s.queue, user)
	s.lock.Unlock()
	select {
	case s.wakeup <- struct{}{}:
	default:
	}
}

// pump drains the queue into the out channel, preserving order. It exits
// when the subscription is cancelled.
func (s *subscriber) pump() {
	defer close(s.out)
	for {
		s.lock.Lock()
		var next *session.UserIdentity
		hasNext := len(s.queue) > 0
		if hasNext {
			next = s.queue[0]
			s.queue = s.queue[1:]
		}
		s.lock.Unlock()

		if !hasNext {
			select {
			case <-s.wakeup:
				continue
			case <-s.done:
				return
			}
		}

		select {
		case s.out <- next:
		case <-s.done:
			return
		}
	}
}
