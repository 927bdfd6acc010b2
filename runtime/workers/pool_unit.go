package workers

import (
	"chat-notify/contract"
	"chat-notify/domain/event"
	"chat-notify/observability"
	"chat-notify/services"
	"context"
	"log/slog"
	"time"
)

// Ensure *PoolUnitWorker implements the contract.Worker interface at compile time.
// This prevents "type mismatch" errors from appearing late in other packages
// and acts as a static assertion of our architectural rules.
var _ contract.Worker = (*PoolUnitWorker)(nil)

// PoolUnitWorker resolves the recipients of queued jobs one at a time
// and hands the notification over to the dispatcher.
type PoolUnitWorker struct {
	jobs           <-chan event.Job
	router         services.INotificationService
	dispatcher     Dispatcher
	monitoring     *observability.MonitoringManager
	resolveTimeout time.Duration
	log            *slog.Logger
}

func NewPoolUnitWorker(
	jobs <-chan event.Job,
	router services.INotificationService,
	dispatcher Dispatcher,
	monitoring *observability.MonitoringManager,
	resolveTimeout time.Duration,
	log *slog.Logger) *PoolUnitWorker {
	return &PoolUnitWorker{
		jobs:           jobs,
		router:         router,
		dispatcher:     dispatcher,
		monitoring:     monitoring,
		resolveTimeout: resolveTimeout,
		log:            log,
	}
}

func (w *PoolUnitWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case job, ok := <-w.jobs:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.handle(ctx, job)
		}
	}
}

// handle waits for the lookups of one job. A failure only aborts this job.
func (w *PoolUnitWorker) handle(ctx context.Context, job event.Job) {
	resolveCtx, cancel := context.WithTimeout(ctx, w.resolveTimeout)
	defer cancel()

	notification, err := w.router.Route(resolveCtx, job.Webhook)
	if err != nil {
		w.monitoring.IncrResolutionFailure()
		w.log.Error("Recipient resolution failed", "job", job.ID, "type", job.Webhook.Type(), "error", err)
		return
	}
	if notification.IsEmpty() {
		w.log.Debug("Nobody to notify", "job", job.ID, "type", job.Webhook.Type())
		return
	}

	w.log.Debug("Notification resolved", "job", job.ID, "type", job.Webhook.Type(),
		"recipients", len(notification.Recipients), "latency", time.Since(job.ReceivedAt))
	w.dispatcher.Dispatch(ctx, job.ID, notification)
}
