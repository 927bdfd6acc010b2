package middleware

import (
	"bytes"
	"chat-notify/auth"
	"chat-notify/errors"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// VerifyWebhook checks the HMAC signature of the raw body before anything parses it.
// The body is handed to the next handler untouched.
func VerifyWebhook(secret []byte, header string, log *slog.Logger) func(next http.Handler) http.Handler {
	if header == "" {
		header = auth.SignatureHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				jsonError(w, http.StatusBadRequest, "failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			if !auth.VerifySignature(body, r.Header.Get(header), secret) {
				log.Warn("Webhook rejected", "error", errors.ErrAuthFailure, "remote_addr", r.RemoteAddr, "size", len(body))
				jsonError(w, errors.MapToHTTPStatus(errors.ErrAuthFailure), "invalid signature")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
