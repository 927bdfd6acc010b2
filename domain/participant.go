// Package domain contains core concepts of the chat system.
// This file defines users, their presence and roster entries.
// No runtime, network, or UI logic should be added here.
package domain

type UserID string

type Presence string

const (
	Online  Presence = "online"
	Offline Presence = "offline"
)

// User is a chat service account as seen by the notifier.
// DeviceToken comes from the account custom data and may be empty.
type User struct {
	ID          UserID
	Name        string
	AvatarURL   string
	DeviceToken string
}

// RosterEntry is one member of the room as seen by a client session.
type RosterEntry struct {
	UserID    UserID
	Name      string
	Presence  Presence
	AvatarURL string
}
