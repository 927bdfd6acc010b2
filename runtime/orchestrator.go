// Package runtime owns the job queue between the webhook endpoint and the
// resolution workers. It orchestrates the system without containing business logic or domain rules.
package runtime

import (
	"chat-notify/contract"
	"chat-notify/domain/event"
	"chat-notify/observability"
	"chat-notify/runtime/workers"
	"chat-notify/services"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var _ contract.IOrchestrator = (*Orchestrator)(nil)

type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	numWorkers     int
	supervisor     contract.ISupervisor
	router         services.INotificationService
	dispatcher     *workers.PushDispatcher
	monitoring     *observability.MonitoringManager
	jobs           chan event.Job
	resolveTimeout time.Duration
	started        bool
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	router services.INotificationService, dispatcher *workers.PushDispatcher,
	monitoring *observability.MonitoringManager,
	numWorkers, bufferSize int, resolveTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		log:            log,
		numWorkers:     numWorkers,
		supervisor:     supervisor,
		router:         router,
		dispatcher:     dispatcher,
		monitoring:     monitoring,
		jobs:           make(chan event.Job, bufferSize),
		resolveTimeout: resolveTimeout,
	}
}

// Submit queues a job without blocking the caller.
// It reports false when the queue is full and the job was dropped.
func (o *Orchestrator) Submit(job event.Job) bool {
	select {
	case o.jobs <- job:
		return true
	default:
		o.log.Warn(fmt.Sprintf("Job channel full, dropping job %s", job.ID), "type", job.Webhook.Type())
		return false
	}
}

// QueueDepth returns the number of waiting jobs and the capacity of the queue.
func (o *Orchestrator) QueueDepth() (int, int) {
	return len(o.jobs), cap(o.jobs)
}

// Start registers the pool workers and blocks while the supervisor runs them.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator already started")
	}
	o.started = true
	for _, w := range o.preparePoolWorkers() {
		o.supervisor.Add(w)
	}
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers", "workers", o.numWorkers)
	o.supervisor.Run(ctx)
	return nil
}

func (o *Orchestrator) preparePoolWorkers() []contract.Worker {
	var res []contract.Worker
	for i := 0; i < o.numWorkers; i++ {
		res = append(res, workers.NewPoolUnitWorker(o.jobs, o.router, o.dispatcher, o.monitoring, o.resolveTimeout, o.log))
	}
	return res
}

// Stop cancels the supervised workers, then waits for the pushes already fired.
// Jobs still queued are abandoned.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
	o.dispatcher.Wait()
	if pending := len(o.jobs); pending > 0 {
		o.log.Warn("Jobs abandoned at shutdown", "count", pending)
	}
}
