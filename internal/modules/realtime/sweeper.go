package realtime

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"studiopromise/internal/domain"
)

// OpenDealLister lists deals that still have live viewers worth refreshing.
type OpenDealLister interface {
	ListOpenIDs(ctx context.Context) ([]int64, error)
}

// Sweeper is the pull producer backing the push channel: on a fixed schedule
// it publishes a refresh event for every open deal, so viewers converge even
// when a notification was lost. The events flow through the same broker and
// the same coordinator resolve step as real changes.
type Sweeper struct {
	cron   *cron.Cron
	deals  OpenDealLister
	broker *Broker
}

func NewSweeper(deals OpenDealLister, broker *Broker, every time.Duration) (*Sweeper, error) {
	s := &Sweeper{
		cron:   cron.New(),
		deals:  deals,
		broker: broker,
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", every), s.sweep); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

func (s *Sweeper) Stop() {
	s.cron.Stop()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ids, err := s.deals.ListOpenIDs(ctx)
	if err != nil {
		log.Printf("realtime: refresh sweep failed error=%v", err)
		return
	}

	for _, id := range ids {
		s.broker.Publish(domain.ChangeEvent{
			DealID:     id,
			ChangeType: domain.ChangeRefresh,
		})
	}
}
