package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"studiopromise/internal/domain"
)

func TestBroker_PublishReachesSubscriber(t *testing.T) {
	b := NewBroker()
	events, cancel := b.Subscribe(7)
	defer cancel()

	b.Publish(domain.ChangeEvent{DealID: 7, ChangeType: domain.ChangeStage})

	select {
	case ev := <-events:
		assert.Equal(t, int64(7), ev.DealID)
		assert.Equal(t, domain.ChangeStage, ev.ChangeType)
	case <-time.After(time.Second):
		t.Fatal("expected event, got none")
	}
}

func TestBroker_TopicsAreIsolated(t *testing.T) {
	b := NewBroker()
	events, cancel := b.Subscribe(1)
	defer cancel()

	b.Publish(domain.ChangeEvent{DealID: 2, ChangeType: domain.ChangeStage})

	select {
	case ev := <-events:
		t.Fatalf("unexpected event for other deal: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroker_FanOut(t *testing.T) {
	b := NewBroker()
	first, cancelFirst := b.Subscribe(3)
	defer cancelFirst()
	second, cancelSecond := b.Subscribe(3)
	defer cancelSecond()

	b.Publish(domain.ChangeEvent{DealID: 3, ChangeType: domain.ChangeUpdate})

	for _, ch := range []<-chan domain.ChangeEvent{first, second} {
		select {
		case ev := <-ch:
			assert.Equal(t, int64(3), ev.DealID)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed fan-out")
		}
	}
}

func TestBroker_CancelClosesStream(t *testing.T) {
	b := NewBroker()
	events, cancel := b.Subscribe(5)

	cancel()

	_, ok := <-events
	assert.False(t, ok)

	// Publishing after cancel must not panic or deliver.
	b.Publish(domain.ChangeEvent{DealID: 5, ChangeType: domain.ChangeStage})

	// Cancel is idempotent.
	cancel()
}

func TestBroker_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewBroker()
	_, cancel := b.Subscribe(9)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			b.Publish(domain.ChangeEvent{DealID: 9, ChangeType: domain.ChangeRefresh})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
