package workers

import (
	"chat-notify/contract"
	"chat-notify/domain"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DeliveryFanout broadcasts delivery outcomes to multiple in-process consumers.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. DeliveryFanout is not a message broker.
//
// It is intended for observability (journal, counters), never for the push itself.
type DeliveryFanout struct {
	log         *slog.Logger
	sinks       []contract.DeliverySink
	sinkTimeout time.Duration
	wg          sync.WaitGroup
}

func NewDeliveryFanout(log *slog.Logger, sinkTimeout time.Duration, sinks ...contract.DeliverySink) *DeliveryFanout {
	return &DeliveryFanout{log: log, sinks: sinks, sinkTimeout: sinkTimeout}
}

// Fanout One goroutine for each sink, each bounded by the sink timeout
func (f *DeliveryFanout) Fanout(d domain.Delivery) {
	for _, sink := range f.sinks {
		f.wg.Add(1)
		go func(s contract.DeliverySink) {
			defer f.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), f.sinkTimeout)
			defer cancel()
			if err := s.Consume(ctx, d); err != nil {
				f.log.Debug("Delivery sink failed", "sink", fmt.Sprintf("%T", s), "delivery", d.ID, "error", err)
			}
		}(sink)
	}
}

// Wait blocks until every pending sink call returned.
func (f *DeliveryFanout) Wait() {
	f.wg.Wait()
}
