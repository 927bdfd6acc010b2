package services

import (
	"chat-notify/contract"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"chat-notify/observability"
	"fmt"
	"log/slog"
	"time"
)

type IWebhookService interface {
	Accept(raw []byte) error
}

// WebhookService classifies a verified webhook body and queues it for resolution.
type WebhookService struct {
	log          *slog.Logger
	orchestrator contract.IOrchestrator
	monitoring   *observability.MonitoringManager
	now          func() time.Time
}

func NewWebhookService(log *slog.Logger, orchestrator contract.IOrchestrator, monitoring *observability.MonitoringManager) *WebhookService {
	return &WebhookService{log: log, orchestrator: orchestrator, monitoring: monitoring, now: time.Now}
}

// Accept returns ErrUnknownEventType for tags outside the known set and ErrInvalidPayload
// for bodies that cannot be resolved. A full queue is not an error for the sender,
// the job is dropped and counted.
func (s *WebhookService) Accept(raw []byte) error {
	w, err := event.ParseWebhook(raw)
	if err != nil {
		tag, _ := event.PeekType(raw)
		switch {
		case errors.Is(err, errors.ErrUnknownEventType):
			s.log.Info("Unknown webhook dropped", "type", tag)
			s.monitoring.IncrWebhookUnknown(string(tag))
		default:
			s.log.Warn("Webhook rejected", "type", tag, "error", err)
			s.monitoring.IncrWebhookRejected(string(tag))
		}
		return err
	}

	job := event.NewJob(w, s.now())
	if !s.orchestrator.Submit(job) {
		s.monitoring.IncrJobDropped()
		return nil
	}
	s.monitoring.IncrWebhookAccepted(string(w.Type()))
	s.log.Debug(fmt.Sprintf("Job %s queued", job.ID), "type", w.Type())
	return nil
}
