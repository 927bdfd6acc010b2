package server

import (
	"chat-notify/domain"
	"chat-notify/observability"
	"net/http"
	"time"
)

type queueHealth struct {
	Depth    int `json:"depth"`
	Capacity int `json:"capacity"`
}

type processHealth struct {
	PID        int32   `json:"pid"`
	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
	Status     string  `json:"status"`
}

type HealthResponse struct {
	Status  string              `json:"status"`
	Uptime  string              `json:"uptime"`
	Queue   queueHealth         `json:"queue"`
	Process *processHealth      `json:"process,omitempty"`
	Journal string              `json:"journal"`
	Stats   observability.Stats `json:"stats"`
}

// Health reports degraded with a 503 when the delivery journal cannot be read.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Journal: "disabled",
	}

	if h.deps.Queue != nil {
		depth, capacity := h.deps.Queue.QueueDepth()
		response.Queue = queueHealth{Depth: depth, Capacity: capacity}
	}
	if h.deps.Monitoring != nil {
		response.Stats = h.deps.Monitoring.GetLatest()
	}

	if p, err := observability.SelfProcess(); err != nil {
		h.log.Debug("Process stats unavailable", "error", err)
	} else {
		response.Process = toProcessHealth(p)
	}

	status := http.StatusOK
	if h.deps.Deliveries != nil {
		response.Journal = "ok"
		if _, _, err := h.deps.Deliveries.GetDeliveries(nil); err != nil {
			h.log.Error("Delivery journal unreadable", "error", err)
			response.Journal = "error"
			response.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	h.JSON(w, status, response)
}

func toProcessHealth(p domain.Process) *processHealth {
	return &processHealth{
		PID:        int32(p.PID),
		RSSBytes:   p.RSS,
		CPUPercent: p.CPUPercent,
		Status:     string(p.Status),
	}
}
