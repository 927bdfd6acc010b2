package main

import (
	"chat-notify/auth"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// fetchToken asks the notifier for a chat session token of the user.
func fetchToken(ctx context.Context, httpClient *http.Client, notifierURL, userID string) (auth.Token, error) {
	endpoint := fmt.Sprintf("%s/auth?user_id=%s", strings.TrimRight(notifierURL, "/"), url.QueryEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return auth.Token{}, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return auth.Token{}, fmt.Errorf("unable to reach notifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return auth.Token{}, fmt.Errorf("notifier answered %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token auth.Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return auth.Token{}, fmt.Errorf("invalid token response: %w", err)
	}
	return token, nil
}
