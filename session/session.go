// Package session reconciles the live stream of one room into an ordered view.
// All transitions run on the caller's goroutine, Run being the single loop
// that serializes subscription events, user commands and staged attachments.
package session

import (
	"chat-notify/contract"
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"chat-notify/projection"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type State string

const (
	Disconnected State = "disconnected"
	Connecting   State = "connecting"
	Active       State = "active"
	Left         State = "left"
)

const (
	// PageSize is the number of messages asked for on each load earlier.
	PageSize = 10
	// loadEarlierThreshold is the number of held messages above which the affordance shows up.
	loadEarlierThreshold = 9
)

var LeavePrompt = contract.Prompt{
	Title:   "Leave Room",
	Message: "Do you want to leave this room?",
	Choices: []string{"No", "Yes"},
}

type Observer func(View)

type stagedResult struct {
	generation uint64
	path       string
	attachment domain.Attachment
	err        error
}

type Session struct {
	log       *slog.Logger
	roomID    domain.RoomID
	transport contract.ChatTransport
	confirmer contract.Confirmer
	stager    *Stager
	observer  Observer

	state            State
	timeline         *projection.Timeline
	roster           *domain.Roster
	typing           string
	attachment       *domain.Attachment
	historyExhausted bool
	subscription     contract.Subscription

	// Staging runs outside the loop, its results come back through staged.
	staged       chan stagedResult
	stageCtx     context.Context
	stageCancel  context.CancelFunc
	generation   uint64
	inTransition bool
}

func NewSession(log *slog.Logger, roomID domain.RoomID, transport contract.ChatTransport,
	confirmer contract.Confirmer, stager *Stager) *Session {
	return &Session{
		log:       log.With("room_id", roomID),
		roomID:    roomID,
		transport: transport,
		confirmer: confirmer,
		stager:    stager,
		state:     Disconnected,
		timeline:  projection.NewTimeline(),
		roster:    domain.NewRoster(),
		staged:    make(chan stagedResult, 1),
	}
}

// OnChange registers the function receiving a fresh view after every transition.
// The observer must not call back into the session.
func (s *Session) OnChange(observer Observer) {
	s.observer = observer
}

func (s *Session) State() State {
	return s.state
}

// enter marks the start of a transition.
// A transition started from the side effects of another one is refused.
func (s *Session) enter() (func(), error) {
	if s.inTransition {
		return nil, errors.ErrReentrantTransition
	}
	s.inTransition = true
	return func() { s.inTransition = false }, nil
}

func (s *Session) requireActive() error {
	switch s.state {
	case Active:
		return nil
	case Left:
		return errors.ErrSessionTerminated
	default:
		return errors.ErrSessionNotActive
	}
}

func (s *Session) notify() {
	if s.observer != nil {
		s.observer(s.Snapshot())
	}
}

// Connect subscribes to the room and captures the roster snapshot.
// On failure the session stays disconnected and nothing is retried.
func (s *Session) Connect(ctx context.Context) error {
	exit, err := s.enter()
	if err != nil {
		return err
	}
	defer exit()

	switch s.state {
	case Left:
		return errors.ErrSessionTerminated
	case Active:
		return nil
	}

	s.state = Connecting
	subscription, err := s.transport.Subscribe(ctx, s.roomID)
	if err != nil {
		s.state = Disconnected
		s.log.Error("Unable to subscribe to room", "error", err)
		return fmt.Errorf("%w: %v", errors.ErrConnectFailure, err)
	}

	s.subscription = subscription
	s.roster = domain.NewRoster(subscription.Roster()...)
	s.timeline.Reset()
	s.typing = ""
	s.historyExhausted = false
	s.stageCtx, s.stageCancel = context.WithCancel(context.WithoutCancel(ctx))
	s.state = Active
	s.log.Info("Room session active", "members", s.roster.Len())
	s.notify()
	return nil
}

// Receive appends a live message. Redelivered ids are ignored.
func (s *Session) Receive(msg domain.Message) error {
	exit, err := s.enter()
	if err != nil {
		return err
	}
	defer exit()
	if err := s.requireActive(); err != nil {
		return err
	}

	if !s.timeline.Append(msg) {
		s.log.Debug("Duplicate message ignored", "message_id", msg.ID)
		return nil
	}
	s.notify()
	return nil
}

// CanLoadEarlier drives the load earlier affordance.
func (s *Session) CanLoadEarlier() bool {
	return s.state == Active && !s.historyExhausted && s.timeline.Len() > loadEarlierThreshold
}

// Send posts the text with the staged attachment if any.
// The attachment is dropped whatever the outcome, and nothing is inserted locally:
// the message shows up when the subscription delivers it.
func (s *Session) Send(ctx context.Context, text string) error {
	exit, err := s.enter()
	if err != nil {
		return err
	}
	defer exit()
	if err := s.requireActive(); err != nil {
		return err
	}

	attachment := s.attachment
	if strings.TrimSpace(text) == "" && attachment == nil {
		return errors.ErrEmptyMessage
	}
	s.attachment = nil
	defer s.notify()

	parts := domain.NewOutgoingParts(text, attachment)
	id, err := s.transport.SendMultipartMessage(ctx, s.roomID, parts)
	if err != nil {
		s.log.Error("Unable to send message", "parts", len(parts), "error", err)
		return fmt.Errorf("%w: %v", errors.ErrSendFailure, err)
	}
	s.log.Debug("Message sent", "message_id", id, "parts", len(parts))
	return nil
}

// LoadEarlier prepends the page of messages preceding the oldest one held.
// An empty page closes pagination for the rest of the session.
func (s *Session) LoadEarlier(ctx context.Context) error {
	exit, err := s.enter()
	if err != nil {
		return err
	}
	defer exit()
	if err := s.requireActive(); err != nil {
		return err
	}
	if !s.CanLoadEarlier() {
		return nil
	}

	cursor, _ := s.timeline.Oldest()
	messages, err := s.transport.FetchMessages(ctx, s.roomID, cursor, contract.Older, PageSize)
	if err != nil {
		s.log.Error("Unable to load earlier messages", "before", cursor, "error", err)
		return fmt.Errorf("%w: %v", errors.ErrLookupFailure, err)
	}
	if len(messages) == 0 {
		s.log.Info("Beginning of the room history reached")
		s.historyExhausted = true
		s.notify()
		return nil
	}

	added := s.timeline.Prepend(messages)
	s.log.Debug("Earlier messages loaded", "fetched", len(messages), "added", added)
	s.notify()
	return nil
}

func (s *Session) UserJoined(entry domain.RosterEntry) error {
	return s.mutate(func() {
		s.roster.Upsert(entry)
	})
}

func (s *Session) UserLeft(userID domain.UserID) error {
	return s.mutate(func() {
		if !s.roster.Remove(userID) {
			s.log.Debug("Unknown user left", "user_id", userID)
		}
	})
}

// PresenceChanged is a no-op for a user absent from the roster.
func (s *Session) PresenceChanged(userID domain.UserID, presence domain.Presence) error {
	return s.mutate(func() {
		s.roster.SetPresence(userID, presence)
	})
}

// StartedTyping overwrites the typing slot, only the last typist is shown.
func (s *Session) StartedTyping(name string) error {
	return s.mutate(func() {
		s.typing = name
	})
}

func (s *Session) StoppedTyping() error {
	return s.mutate(func() {
		s.typing = ""
	})
}

func (s *Session) mutate(apply func()) error {
	exit, err := s.enter()
	if err != nil {
		return err
	}
	defer exit()
	if err := s.requireActive(); err != nil {
		return err
	}
	apply()
	s.notify()
	return nil
}

// Apply routes a subscription event to its transition.
func (s *Session) Apply(e event.RoomEvent) error {
	switch evt := e.(type) {
	case event.MessageReceived:
		return s.Receive(evt.Message)
	case event.UserStartedTyping:
		return s.StartedTyping(evt.User.Name)
	case event.UserStoppedTyping:
		return s.StoppedTyping()
	case event.UserJoined:
		return s.UserJoined(evt.Entry)
	case event.UserLeft:
		return s.UserLeft(evt.UserID)
	case event.PresenceChanged:
		return s.PresenceChanged(evt.UserID, evt.Presence)
	default:
		return fmt.Errorf("unhandled room event %T", e)
	}
}

// Typing tells the room the local user is typing.
func (s *Session) Typing(ctx context.Context) error {
	exit, err := s.enter()
	if err != nil {
		return err
	}
	defer exit()
	if err := s.requireActive(); err != nil {
		return err
	}
	return s.transport.SetTyping(ctx, s.roomID)
}

// AttachFile starts reading the file in the background.
// The result is picked up by Run. Attaching again discards the pending read.
func (s *Session) AttachFile(path string) error {
	exit, err := s.enter()
	if err != nil {
		return err
	}
	defer exit()
	if err := s.requireActive(); err != nil {
		return err
	}
	s.generation++
	generation, ctx := s.generation, s.stageCtx
	go func() {
		attachment, err := s.stager.Stage(ctx, path)
		select {
		case s.staged <- stagedResult{generation: generation, path: path, attachment: attachment, err: err}:
		case <-ctx.Done():
		}
	}()
	return nil
}

// SetAttachment stages the attachment of the next send, replacing the pending one.
func (s *Session) SetAttachment(attachment domain.Attachment) error {
	return s.mutate(func() {
		s.attachment = &attachment
	})
}

func (s *Session) completeStaging(result stagedResult) {
	if result.generation != s.generation || s.state != Active {
		s.log.Debug("Stale staging result discarded", "path", result.path)
		return
	}
	if result.err != nil {
		s.log.Error("Unable to stage attachment", "path", result.path, "error", result.err)
		return
	}
	if err := s.SetAttachment(result.attachment); err != nil {
		s.log.Warn("Attachment not staged", "path", result.path, "error", err)
	}
}

// Leave asks for confirmation, then leaves the room for good.
// It reports whether the room was left.
func (s *Session) Leave(ctx context.Context) (bool, error) {
	exit, err := s.enter()
	if err != nil {
		return false, err
	}
	defer exit()
	if err := s.requireActive(); err != nil {
		return false, err
	}

	confirmed, err := s.confirmer.Confirm(ctx, LeavePrompt)
	if err != nil {
		return false, err
	}
	if !confirmed {
		return false, nil
	}

	if err := s.transport.LeaveRoom(ctx, s.roomID); err != nil {
		s.log.Error("Unable to leave room", "error", err)
		return false, fmt.Errorf("%w: %v", errors.ErrLeaveFailure, err)
	}
	s.teardown()
	s.state = Left
	s.log.Info("Room left")
	s.notify()
	return true, nil
}

// Close drops the subscription. The session can connect again later.
func (s *Session) Close() {
	if s.state != Active {
		return
	}
	s.teardown()
	s.state = Disconnected
	s.notify()
}

func (s *Session) teardown() {
	if s.stageCancel != nil {
		s.stageCancel()
	}
	s.attachment = nil
	s.typing = ""
	if s.subscription != nil {
		if err := s.subscription.Close(); err != nil {
			s.log.Warn("Unable to close subscription", "error", err)
		}
		s.subscription = nil
	}
}
