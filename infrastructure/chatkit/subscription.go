package chatkit

import (
	"chat-notify/domain"
	"chat-notify/domain/event"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/samber/lo"
)

const (
	initialStateEvent  = "initial_state"
	newMessageEvent    = "new_message"
	isTypingEvent      = "is_typing"
	typingStoppedEvent = "typing_stopped"
	userJoinedEvent    = "user_joined"
	userLeftEvent      = "user_left"
	presenceStateEvent = "presence_state"

	subscriptionBuffer = 64
	closeGracePeriod   = time.Second
)

type frame struct {
	EventName string          `json:"event_name"`
	Data      json.RawMessage `json:"data"`
}

type initialState struct {
	Users []wireUser `json:"users"`
}

type typingData struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

type userLeftData struct {
	UserID string `json:"user_id"`
}

type presenceData struct {
	UserID string `json:"user_id"`
	State  string `json:"state"`
}

func readInitialState(conn *websocket.Conn) ([]domain.RosterEntry, error) {
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		return nil, err
	}
	if f.EventName != initialStateEvent {
		return nil, fmt.Errorf("expected %s frame, got %q", initialStateEvent, f.EventName)
	}
	var state initialState
	if err := json.Unmarshal(f.Data, &state); err != nil {
		return nil, err
	}
	return lo.Map(state.Users, func(u wireUser, _ int) domain.RosterEntry { return toRosterEntry(u) }), nil
}

// subscription turns websocket frames into room events until the connection ends.
type subscription struct {
	conn      *websocket.Conn
	roster    []domain.RosterEntry
	events    chan event.RoomEvent
	done      chan struct{}
	closeOnce sync.Once
	log       *slog.Logger
}

func newSubscription(conn *websocket.Conn, roster []domain.RosterEntry, log *slog.Logger) *subscription {
	s := &subscription{
		conn:   conn,
		roster: roster,
		events: make(chan event.RoomEvent, subscriptionBuffer),
		done:   make(chan struct{}),
		log:    log,
	}
	go s.readLoop()
	return s
}

func (s *subscription) Events() <-chan event.RoomEvent {
	return s.events
}

func (s *subscription) Roster() []domain.RosterEntry {
	return s.roster
}

func (s *subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(closeGracePeriod))
		err = s.conn.Close()
	})
	return err
}

func (s *subscription) readLoop() {
	defer close(s.events)
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				s.log.Warn("Room websocket ended", "error", err)
			}
			return
		}

		e, err := decodeFrame(payload)
		if err != nil {
			s.log.Warn("Unreadable room frame", "error", err)
			continue
		}
		if e == nil {
			continue
		}

		select {
		case s.events <- e:
		case <-s.done:
			return
		}
	}
}

// decodeFrame returns a nil event for frames the session has no use for.
func decodeFrame(payload []byte) (event.RoomEvent, error) {
	var f frame
	if err := json.Unmarshal(payload, &f); err != nil {
		return nil, err
	}

	switch f.EventName {
	case newMessageEvent:
		var m wireMessage
		if err := json.Unmarshal(f.Data, &m); err != nil {
			return nil, err
		}
		return event.MessageReceived{Message: toMessage(m)}, nil
	case isTypingEvent, typingStoppedEvent:
		var t typingData
		if err := json.Unmarshal(f.Data, &t); err != nil {
			return nil, err
		}
		sender := domain.Sender{ID: domain.UserID(t.UserID), Name: t.UserName}
		if f.EventName == isTypingEvent {
			return event.UserStartedTyping{User: sender}, nil
		}
		return event.UserStoppedTyping{User: sender}, nil
	case userJoinedEvent:
		var u wireUser
		if err := json.Unmarshal(f.Data, &u); err != nil {
			return nil, err
		}
		return event.UserJoined{Entry: toRosterEntry(u)}, nil
	case userLeftEvent:
		var l userLeftData
		if err := json.Unmarshal(f.Data, &l); err != nil {
			return nil, err
		}
		return event.UserLeft{UserID: domain.UserID(l.UserID)}, nil
	case presenceStateEvent:
		var p presenceData
		if err := json.Unmarshal(f.Data, &p); err != nil {
			return nil, err
		}
		return event.PresenceChanged{UserID: domain.UserID(p.UserID), Presence: toPresence(p.State)}, nil
	default:
		return nil, nil
	}
}
