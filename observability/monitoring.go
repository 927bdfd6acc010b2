package observability

import (
	"chat-notify/contract"
	"chat-notify/domain"
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

const maxRecentDeliveries = 20

var _ contract.DeliverySink = (*MonitoringManager)(nil)

type RecentDelivery struct {
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Stats aggregates the counters exposed by the health endpoint.
type Stats struct {
	WebhooksAccepted   uint64           `json:"webhooks_accepted"`
	WebhooksUnknown    uint64           `json:"webhooks_unknown"`
	WebhooksRejected   uint64           `json:"webhooks_rejected"`
	JobsDropped        uint64           `json:"jobs_dropped"`
	ResolutionFailures uint64           `json:"resolution_failures"`
	DeliveriesSent     uint64           `json:"deliveries_sent"`
	DeliveriesFailed   uint64           `json:"deliveries_failed"`
	DeliveriesSkipped  uint64           `json:"deliveries_skipped"`
	AllocMemMb         uint64           `json:"alloc_mem_mb"`
	NumGC              uint32           `json:"num_gc"`
	Goroutines         int              `json:"goroutines"`
	RecentDeliveries   []RecentDelivery `json:"recent_deliveries"`
}

// MonitoringManager keeps in-process counters next to the prometheus ones.
type MonitoringManager struct {
	log    *slog.Logger
	mu     sync.RWMutex
	recent []RecentDelivery

	webhooksAccepted   uint64
	webhooksUnknown    uint64
	webhooksRejected   uint64
	jobsDropped        uint64
	resolutionFailures uint64
	deliveriesSent     uint64
	deliveriesFailed   uint64
	deliveriesSkipped  uint64
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log, recent: make([]RecentDelivery, 0)}
}

func (mm *MonitoringManager) IncrWebhookAccepted(eventType string) {
	atomic.AddUint64(&mm.webhooksAccepted, 1)
	WebhooksTotal.WithLabelValues(eventType, "accepted").Inc()
}

func (mm *MonitoringManager) IncrWebhookUnknown(eventType string) {
	atomic.AddUint64(&mm.webhooksUnknown, 1)
	WebhooksTotal.WithLabelValues(eventType, "unknown").Inc()
}

func (mm *MonitoringManager) IncrWebhookRejected(eventType string) {
	atomic.AddUint64(&mm.webhooksRejected, 1)
	WebhooksTotal.WithLabelValues(eventType, "rejected").Inc()
}

func (mm *MonitoringManager) IncrJobDropped() {
	atomic.AddUint64(&mm.jobsDropped, 1)
	JobsDroppedTotal.Inc()
}

func (mm *MonitoringManager) IncrResolutionFailure() {
	atomic.AddUint64(&mm.resolutionFailures, 1)
	ResolutionFailuresTotal.Inc()
}

// AddDelivery counts the outcome and keeps it at the head of the recent list.
func (mm *MonitoringManager) AddDelivery(d domain.Delivery) {
	switch d.Status {
	case domain.DeliverySent:
		atomic.AddUint64(&mm.deliveriesSent, 1)
	case domain.DeliveryFailed:
		atomic.AddUint64(&mm.deliveriesFailed, 1)
	case domain.DeliverySkipped:
		atomic.AddUint64(&mm.deliveriesSkipped, 1)
	}
	DeliveriesTotal.WithLabelValues(string(d.Status)).Inc()

	mm.mu.Lock()
	defer mm.mu.Unlock()
	recent := RecentDelivery{
		UserID:    string(d.UserID),
		Title:     d.Title,
		Status:    string(d.Status),
		Timestamp: d.At.Format(time.TimeOnly),
	}
	mm.recent = append([]RecentDelivery{recent}, mm.recent...)
	if len(mm.recent) > maxRecentDeliveries {
		mm.recent = mm.recent[:maxRecentDeliveries]
	}
}

// Consume lets the manager sit behind the delivery fan-out like any other sink.
func (mm *MonitoringManager) Consume(_ context.Context, d domain.Delivery) error {
	mm.AddDelivery(d)
	return nil
}

func (mm *MonitoringManager) GetLatest() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mm.mu.RLock()
	recent := make([]RecentDelivery, len(mm.recent))
	copy(recent, mm.recent)
	mm.mu.RUnlock()

	return Stats{
		WebhooksAccepted:   atomic.LoadUint64(&mm.webhooksAccepted),
		WebhooksUnknown:    atomic.LoadUint64(&mm.webhooksUnknown),
		WebhooksRejected:   atomic.LoadUint64(&mm.webhooksRejected),
		JobsDropped:        atomic.LoadUint64(&mm.jobsDropped),
		ResolutionFailures: atomic.LoadUint64(&mm.resolutionFailures),
		DeliveriesSent:     atomic.LoadUint64(&mm.deliveriesSent),
		DeliveriesFailed:   atomic.LoadUint64(&mm.deliveriesFailed),
		DeliveriesSkipped:  atomic.LoadUint64(&mm.deliveriesSkipped),
		AllocMemMb:         m.Alloc / 1024 / 1024,
		NumGC:              m.NumGC,
		Goroutines:         runtime.NumGoroutine(),
		RecentDeliveries:   recent,
	}
}
