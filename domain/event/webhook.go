// Package event defines the closed sets of events flowing through the system:
// webhook events sent by the chat service to the notifier, and room events
// delivered by a room subscription to a client session.
package event

import (
	"chat-notify/domain"
	"chat-notify/errors"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Type string

const (
	MessageSentUserOfflineType Type = "v1.message_sent_user_offline"
	UsersAddedToRoomType       Type = "v1.users_added_to_room"
	UserLeftRoomType           Type = "v1.user_left_room"
	MessagesCreatedType        Type = "v1.messages_created"
)

var validate = validator.New()

// Webhook is implemented only by the variants of this package,
// so a type switch over them is total.
type Webhook interface {
	Type() Type
	isWebhook()
}

type UserRef struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

type RoomRef struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name"`
	Private bool   `json:"private"`
}

type PartPayload struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type MessagePayload struct {
	ID     int64         `json:"id"`
	UserID string        `json:"user_id"`
	RoomID string        `json:"room_id"`
	Parts  []PartPayload `json:"parts" validate:"min=1"`
}

// FirstText returns the content of the first text part,
// falling back to the first part when no part declares a text type.
func (m MessagePayload) FirstText() string {
	part, ok := lo.Find(m.Parts, func(p PartPayload) bool {
		return strings.HasPrefix(p.Type, "text/")
	})
	if ok {
		return part.Content
	}
	if len(m.Parts) > 0 {
		return m.Parts[0].Content
	}
	return ""
}

// MessageSentUserOffline is sent when a message reached users who were not connected.
type MessageSentUserOffline struct {
	Room           RoomRef        `json:"room"`
	Sender         UserRef        `json:"sender"`
	Message        MessagePayload `json:"message"`
	OfflineUserIDs []string       `json:"offline_user_ids"`
}

func (MessageSentUserOffline) Type() Type { return MessageSentUserOfflineType }
func (MessageSentUserOffline) isWebhook() {}

// UsersAddedToRoom is sent when users joined a room. The first user is the actor.
type UsersAddedToRoom struct {
	Room  RoomRef   `json:"room"`
	Users []UserRef `json:"users" validate:"min=1,dive"`
}

func (UsersAddedToRoom) Type() Type { return UsersAddedToRoomType }
func (UsersAddedToRoom) isWebhook() {}

func (e UsersAddedToRoom) Actor() UserRef {
	return e.Users[0]
}

type UserLeftRoom struct {
	Room RoomRef `json:"room"`
	User UserRef `json:"user"`
}

func (UserLeftRoom) Type() Type { return UserLeftRoomType }
func (UserLeftRoom) isWebhook() {}

// MessagesCreated is scanned for mentions. Only the first message is considered.
type MessagesCreated struct {
	Messages []CreatedMessage `json:"messages" validate:"min=1,dive"`
}

type CreatedMessage struct {
	ID     int64         `json:"id"`
	UserID string        `json:"user_id" validate:"required"`
	RoomID string        `json:"room_id" validate:"required"`
	Parts  []PartPayload `json:"parts" validate:"min=1"`
}

func (MessagesCreated) Type() Type { return MessagesCreatedType }
func (MessagesCreated) isWebhook() {}

func (e MessagesCreated) First() CreatedMessage {
	return e.Messages[0]
}

func (m CreatedMessage) FirstText() string {
	return MessagePayload{Parts: m.Parts}.FirstText()
}

type envelope struct {
	Metadata struct {
		EventType Type `json:"event_type"`
	} `json:"metadata"`
	Payload json.RawMessage `json:"payload"`
}

// PeekType reads only the event type tag of a raw webhook body.
func PeekType(raw []byte) (Type, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return env.Metadata.EventType, nil
}

// ParseWebhook decodes a verified webhook body into its variant.
// Unknown tags yield ErrUnknownEventType; malformed payloads yield ErrInvalidPayload.
func ParseWebhook(raw []byte) (Webhook, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}

	switch env.Metadata.EventType {
	case MessageSentUserOfflineType:
		return decode[MessageSentUserOffline](env)
	case UsersAddedToRoomType:
		return decode[UsersAddedToRoom](env)
	case UserLeftRoomType:
		return decode[UserLeftRoom](env)
	case MessagesCreatedType:
		return decode[MessagesCreated](env)
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEventType, env.Metadata.EventType)
	}
}

func decode[T Webhook](env envelope) (Webhook, error) {
	var payload T
	if len(env.Payload) == 0 {
		return nil, fmt.Errorf("%w: %s has no payload", errors.ErrInvalidPayload, env.Metadata.EventType)
	}
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrInvalidPayload, env.Metadata.EventType, err)
	}
	if err := validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrInvalidPayload, env.Metadata.EventType, err)
	}
	return payload, nil
}

// ToUserIDs converts raw ids into domain ids.
func ToUserIDs(ids []string) []domain.UserID {
	return lo.Map(ids, func(id string, _ int) domain.UserID { return domain.UserID(id) })
}

// Job is a verified webhook waiting for recipient resolution.
type Job struct {
	ID         uuid.UUID
	Webhook    Webhook
	ReceivedAt time.Time
}

func NewJob(w Webhook, at time.Time) Job {
	return Job{ID: uuid.New(), Webhook: w, ReceivedAt: at}
}
