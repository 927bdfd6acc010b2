// Package chatkit talks to the chat service over its REST API and room websocket.
package chatkit

import (
	"bytes"
	"chat-notify/auth"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultHTTPTimeout = 15 * time.Second

// TokenSource provides the bearer token of each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a token obtained once, typically from the notifier /auth endpoint.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// ServiceTokens signs a superuser token for every server side call.
type ServiceTokens struct {
	Issuer *auth.TokenIssuer
}

func (s ServiceTokens) Token(context.Context) (string, error) {
	token, err := s.Issuer.IssueServiceToken()
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// StatusError is returned when the chat service answers with a non 2xx status.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat service %s %s answered %d: %s", e.Method, e.Path, e.Status, e.Body)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *slog.Logger
}

func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
		log:        log,
	}
}

// do sends body as JSON when not nil and decodes the answer into out when not nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	c.log.Debug("Chat service call", "method", method, "path", path, "status", resp.StatusCode, "latency", time.Since(start))

	if resp.StatusCode >= 400 {
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}
