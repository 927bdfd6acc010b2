// Package server exposes the notifier over HTTP: the webhook endpoint,
// the helper endpoints used by the mobile app and the operational routes.
package server

import (
	"chat-notify/observability"
	"chat-notify/repositories"
	"chat-notify/services"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// QueueReporter exposes the depth of the job queue.
type QueueReporter interface {
	QueueDepth() (int, int)
}

type Dependencies struct {
	Webhooks   services.IWebhookService
	Auth       services.IAuthService
	Chat       services.IChatService
	Queue      QueueReporter
	Monitoring *observability.MonitoringManager
	// Deliveries is nil when the journal is disabled.
	Deliveries repositories.IDeliveryRepository
}

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	log       *slog.Logger
	deps      Dependencies
	startedAt time.Time
}

func NewHandler(log *slog.Logger, deps Dependencies) *Handler {
	return &Handler{log: log, deps: deps, startedAt: time.Now()}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Warn("Unable to encode response", "error", err)
	}
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// Text sends a plain text response.
func (h *Handler) Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		h.log.Warn("Unable to write response", "error", err)
	}
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}
