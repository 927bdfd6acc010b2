package server

import (
	"chat-notify/errors"
	"io"
	"net/http"
)

// Notify receives the chat service webhooks. The signature has already been checked.
// Unknown event types are acknowledged so the sender stops retrying them.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.Error(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	err = h.deps.Webhooks.Accept(body)
	switch status := errors.MapToHTTPStatus(err); {
	case err == nil:
		h.JSON(w, http.StatusOK, map[string]string{"status": "accepted"})
	case status == http.StatusOK:
		h.JSON(w, http.StatusOK, map[string]string{"status": "ignored"})
	default:
		h.Error(w, status, err.Error())
	}
}
