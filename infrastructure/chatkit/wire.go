package chatkit

import (
	"chat-notify/domain"
	"encoding/base64"
	"strings"
	"time"

	"github.com/samber/lo"
)

type wireUser struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	AvatarURL  string         `json:"avatar_url,omitempty"`
	Presence   string         `json:"presence,omitempty"`
	CustomData map[string]any `json:"custom_data,omitempty"`
}

type wireRoom struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Private       bool     `json:"private"`
	MemberUserIDs []string `json:"member_user_ids"`
}

type wireAttachment struct {
	DownloadURL string `json:"download_url,omitempty"`
	Name        string `json:"name,omitempty"`
	// Data carries the base64 content on upload.
	Data string `json:"data,omitempty"`
}

// wirePart is a text part when Content is set, an attachment part otherwise.
type wirePart struct {
	Type       string          `json:"type"`
	Content    string          `json:"content,omitempty"`
	Attachment *wireAttachment `json:"attachment,omitempty"`
}

type wireMessage struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	UserName  string     `json:"user_name"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	RoomID    string     `json:"room_id"`
	CreatedAt time.Time  `json:"created_at"`
	Parts     []wirePart `json:"parts"`
}

type sendMessageRequest struct {
	Parts []wirePart `json:"parts"`
}

type sendMessageResponse struct {
	MessageID int64 `json:"message_id"`
}

type addUsersRequest struct {
	UserIDs []string `json:"user_ids"`
}

type assignRoleRequest struct {
	Scope  string `json:"scope"`
	Role   string `json:"role"`
	RoomID string `json:"room_id"`
}

type createRoomRequest struct {
	CreatorID string `json:"creator_id"`
	Name      string `json:"name"`
	Private   bool   `json:"private"`
}

// deviceTokenKey is where the device token of a user lives in its custom data.
const deviceTokenKey = "device_token"

func fromUser(u domain.User) wireUser {
	w := wireUser{ID: string(u.ID), Name: u.Name, AvatarURL: u.AvatarURL}
	if u.DeviceToken != "" {
		w.CustomData = map[string]any{deviceTokenKey: u.DeviceToken}
	}
	return w
}

func toUser(w wireUser) domain.User {
	token, _ := w.CustomData[deviceTokenKey].(string)
	return domain.User{
		ID:          domain.UserID(w.ID),
		Name:        w.Name,
		AvatarURL:   w.AvatarURL,
		DeviceToken: token,
	}
}

func toRoom(w wireRoom) domain.Room {
	return domain.Room{
		ID:      domain.RoomID(w.ID),
		Name:    w.Name,
		Private: w.Private,
		MemberUserIDs: lo.Map(w.MemberUserIDs, func(id string, _ int) domain.UserID {
			return domain.UserID(id)
		}),
	}
}

// toPresence reads any state other than online as offline.
func toPresence(state string) domain.Presence {
	if state == string(domain.Online) {
		return domain.Online
	}
	return domain.Offline
}

func toRosterEntry(w wireUser) domain.RosterEntry {
	return domain.RosterEntry{
		UserID:    domain.UserID(w.ID),
		Name:      w.Name,
		Presence:  toPresence(w.Presence),
		AvatarURL: w.AvatarURL,
	}
}

func toMessage(w wireMessage) domain.Message {
	return domain.Message{
		ID:        domain.MessageID(w.ID),
		RoomID:    domain.RoomID(w.RoomID),
		Sender:    domain.Sender{ID: domain.UserID(w.UserID), Name: w.UserName, AvatarURL: w.AvatarURL},
		CreatedAt: w.CreatedAt,
		Parts: lo.Map(w.Parts, func(p wirePart, _ int) domain.Part {
			if p.Attachment != nil {
				return domain.Part{Kind: domain.PartAttachment, ContentType: p.Type, Locator: p.Attachment.DownloadURL}
			}
			return domain.TextPart(p.Content)
		}),
	}
}

func fromOutgoingParts(parts []domain.OutgoingPart) []wirePart {
	return lo.Map(parts, func(p domain.OutgoingPart, _ int) wirePart {
		if p.Kind == domain.PartAttachment {
			return wirePart{
				Type: p.ContentType,
				Attachment: &wireAttachment{
					Name: p.FileName,
					Data: base64.StdEncoding.EncodeToString(p.Data),
				},
			}
		}
		contentType := p.ContentType
		if strings.TrimSpace(contentType) == "" {
			contentType = "text/plain"
		}
		return wirePart{Type: contentType, Content: p.Content}
	})
}
