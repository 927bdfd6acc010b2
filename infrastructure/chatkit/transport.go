package chatkit

import (
	"chat-notify/contract"
	"chat-notify/domain"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fasthttp/websocket"
	"github.com/samber/lo"
)

var _ contract.ChatTransport = (*Transport)(nil)

// Transport is the connection of one user to the chat service.
type Transport struct {
	client *Client
	dialer *websocket.Dialer
	wsURL  string
	userID domain.UserID
	log    *slog.Logger
}

func NewTransport(client *Client, userID domain.UserID, log *slog.Logger) *Transport {
	return &Transport{
		client: client,
		dialer: websocket.DefaultDialer,
		wsURL:  toWebsocketURL(client.baseURL),
		userID: userID,
		log:    log,
	}
}

func toWebsocketURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}

func roomPath(roomID domain.RoomID) string {
	return "/rooms/" + url.PathEscape(string(roomID))
}

// Subscribe opens the room websocket. The first frame carries the room members.
func (t *Transport) Subscribe(ctx context.Context, roomID domain.RoomID) (contract.Subscription, error) {
	token, err := t.client.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := t.dialer.DialContext(ctx, t.wsURL+roomPath(roomID)+"/subscribe", header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("subscription refused with status %d: %w", resp.StatusCode, err)
		}
		return nil, err
	}

	roster, err := readInitialState(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return newSubscription(conn, roster, t.log.With("room_id", roomID)), nil
}

func (t *Transport) SendMultipartMessage(ctx context.Context, roomID domain.RoomID, parts []domain.OutgoingPart) (domain.MessageID, error) {
	var resp sendMessageResponse
	body := sendMessageRequest{Parts: fromOutgoingParts(parts)}
	if err := t.client.do(ctx, http.MethodPost, roomPath(roomID)+"/messages", body, &resp); err != nil {
		return 0, err
	}
	return domain.MessageID(resp.MessageID), nil
}

func (t *Transport) FetchMessages(ctx context.Context, roomID domain.RoomID, before domain.MessageID,
	direction contract.Direction, limit int) ([]domain.Message, error) {
	query := url.Values{}
	query.Set("initial_id", strconv.FormatInt(int64(before), 10))
	query.Set("direction", string(direction))
	query.Set("limit", strconv.Itoa(limit))

	var messages []wireMessage
	if err := t.client.do(ctx, http.MethodGet, roomPath(roomID)+"/messages?"+query.Encode(), nil, &messages); err != nil {
		return nil, err
	}
	return lo.Map(messages, func(m wireMessage, _ int) domain.Message { return toMessage(m) }), nil
}

func (t *Transport) SetTyping(ctx context.Context, roomID domain.RoomID) error {
	return t.client.do(ctx, http.MethodPost, roomPath(roomID)+"/typing_indicators", nil, nil)
}

func (t *Transport) LeaveRoom(ctx context.Context, roomID domain.RoomID) error {
	path := fmt.Sprintf("/users/%s/rooms/%s/leave", url.PathEscape(string(t.userID)), url.PathEscape(string(roomID)))
	return t.client.do(ctx, http.MethodPut, path, nil, nil)
}
