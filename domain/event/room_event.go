package event

import "chat-notify/domain"

// RoomEvent is what a room subscription delivers to a session.
// The set is closed, Session.Apply switches over every variant.
type RoomEvent interface {
	isRoomEvent()
}

type MessageReceived struct {
	Message domain.Message
}

type UserStartedTyping struct {
	User domain.Sender
}

type UserStoppedTyping struct {
	User domain.Sender
}

type UserJoined struct {
	Entry domain.RosterEntry
}

type UserLeft struct {
	UserID domain.UserID
}

type PresenceChanged struct {
	UserID   domain.UserID
	Presence domain.Presence
}

func (MessageReceived) isRoomEvent()   {}
func (UserStartedTyping) isRoomEvent() {}
func (UserStoppedTyping) isRoomEvent() {}
func (UserJoined) isRoomEvent()        {}
func (UserLeft) isRoomEvent()          {}
func (PresenceChanged) isRoomEvent()   {}
