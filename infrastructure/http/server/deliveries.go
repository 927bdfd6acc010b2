package server

import (
	"chat-notify/domain"
	"net/http"
	"time"

	"github.com/samber/lo"
)

type deliveryResponse struct {
	ID     string `json:"id"`
	JobID  string `json:"job_id"`
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	At     string `json:"at"`
}

type DeliveriesResponse struct {
	Deliveries []deliveryResponse `json:"deliveries"`
	NextCursor *string            `json:"next_cursor"`
}

// Deliveries pages through the delivery journal, newest first.
func (h *Handler) Deliveries(w http.ResponseWriter, r *http.Request) {
	if h.deps.Deliveries == nil {
		h.Error(w, http.StatusNotFound, "delivery journal is disabled")
		return
	}

	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	deliveries, next, err := h.deps.Deliveries.GetDeliveries(cursor)
	if err != nil {
		h.log.Error("Unable to read delivery journal", "error", err)
		h.Error(w, http.StatusInternalServerError, "unable to read delivery journal")
		return
	}

	h.JSON(w, http.StatusOK, DeliveriesResponse{
		Deliveries: lo.Map(deliveries, func(d domain.Delivery, _ int) deliveryResponse {
			return deliveryResponse{
				ID:     d.ID.String(),
				JobID:  d.JobID.String(),
				UserID: string(d.UserID),
				Title:  d.Title,
				Status: string(d.Status),
				Error:  d.Error,
				At:     d.At.UTC().Format(time.RFC3339Nano),
			}
		}),
		NextCursor: next,
	})
}
