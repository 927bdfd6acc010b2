// Package push delivers notifications through Firebase Cloud Messaging.
package push

import (
	"bytes"
	"chat-notify/contract"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const DefaultFCMURL = "https://fcm.googleapis.com/fcm/send"

var _ contract.PushProvider = (*FCMClient)(nil)

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmRequest struct {
	To           string          `json:"to"`
	Notification fcmNotification `json:"notification"`
}

type fcmResult struct {
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type fcmResponse struct {
	Success int         `json:"success"`
	Failure int         `json:"failure"`
	Results []fcmResult `json:"results"`
}

// FCMClient sends one notification per device token, with the legacy server key.
type FCMClient struct {
	url        string
	serverKey  string
	httpClient *http.Client
	log        *slog.Logger
}

func NewFCMClient(url, serverKey string, httpClient *http.Client, log *slog.Logger) *FCMClient {
	if url == "" {
		url = DefaultFCMURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &FCMClient{url: url, serverKey: serverKey, httpClient: httpClient, log: log}
}

func (c *FCMClient) Send(ctx context.Context, deviceToken, title, body string) error {
	payload, err := json.Marshal(fcmRequest{To: deviceToken, Notification: fcmNotification{Title: title, Body: body}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fcm answered %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	var result fcmResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("unreadable fcm answer: %w", err)
	}
	if result.Failure > 0 {
		reason := "unknown"
		if len(result.Results) > 0 && result.Results[0].Error != "" {
			reason = result.Results[0].Error
		}
		return fmt.Errorf("fcm rejected the notification: %s", reason)
	}
	c.log.Debug("Push accepted by fcm", "title", title)
	return nil
}
