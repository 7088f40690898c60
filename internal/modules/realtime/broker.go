package realtime

import (
	"sync"

	"studiopromise/internal/domain"
)

const subscriberBuffer = 16

// Broker is an in-process change-notification bus with one topic per deal.
// Delivery is at-least-once per subscriber and ordered within a deal topic.
// Publishing never blocks: a subscriber that cannot keep up loses events,
// which is safe because events are wake-up signals — consumers always
// re-resolve from current truth.
type Broker struct {
	mu   sync.RWMutex
	subs map[int64]map[*subscriber]struct{}
}

type subscriber struct {
	ch chan domain.ChangeEvent
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[int64]map[*subscriber]struct{}),
	}
}

// Subscribe returns the event stream for one deal and a cancel function that
// tears the subscription down and closes the stream.
func (b *Broker) Subscribe(dealID int64) (<-chan domain.ChangeEvent, func()) {
	s := &subscriber{ch: make(chan domain.ChangeEvent, subscriberBuffer)}

	b.mu.Lock()
	if b.subs[dealID] == nil {
		b.subs[dealID] = make(map[*subscriber]struct{})
	}
	b.subs[dealID][s] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if set, ok := b.subs[dealID]; ok {
				delete(set, s)
				if len(set) == 0 {
					delete(b.subs, dealID)
				}
			}
			b.mu.Unlock()
			close(s.ch)
		})
	}
	return s.ch, cancel
}

// Publish fans the event out to every subscriber of the deal topic.
func (b *Broker) Publish(event domain.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs[event.DealID] {
		select {
		case s.ch <- event:
		default:
			// Subscriber too slow — skip
		}
	}
}
