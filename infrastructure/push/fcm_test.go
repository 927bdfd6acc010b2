package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestFCMClient_Send(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal(http.MethodPost, r.Method)
		req.Equal("key=server-key", r.Header.Get("Authorization"))
		var body fcmRequest
		req.NoError(json.NewDecoder(r.Body).Decode(&body))
		req.Equal(fcmRequest{To: "device-1", Notification: fcmNotification{Title: "Alice", Body: "hello"}}, body)
		_ = json.NewEncoder(w).Encode(fcmResponse{Success: 1, Results: []fcmResult{{MessageID: "m1"}}})
	}))
	defer server.Close()

	client := NewFCMClient(server.URL, "server-key", server.Client(), logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(client.Send(context.Background(), "device-1", "Alice", "hello"))
}

func TestFCMClient_RejectedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(fcmResponse{Failure: 1, Results: []fcmResult{{Error: "NotRegistered"}}})
	}))
	defer server.Close()

	client := NewFCMClient(server.URL, "server-key", server.Client(), logs.GetLoggerFromLevel(slog.LevelDebug))
	err := client.Send(context.Background(), "stale", "Alice", "hello")
	require.ErrorContains(t, err, "NotRegistered")
}

func TestFCMClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewFCMClient(server.URL, "bad-key", server.Client(), logs.GetLoggerFromLevel(slog.LevelDebug))
	err := client.Send(context.Background(), "device-1", "Alice", "hello")
	require.ErrorContains(t, err, "401")
}

func TestFCMClient_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := NewFCMClient(server.URL, "server-key", server.Client(), logs.GetLoggerFromLevel(slog.LevelDebug))
	require.ErrorIs(t, client.Send(ctx, "device-1", "Alice", "hello"), context.Canceled)
}
