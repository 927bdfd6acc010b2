package session

import (
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"context"
)

// Run connects if needed, then consumes subscription events, commands and staging
// results one at a time until the room is left, the commands channel is closed or
// the context is done. A closed subscription ends the loop with ErrSubscriptionClosed.
func (s *Session) Run(ctx context.Context, commands <-chan domain.Command) error {
	if s.state != Active {
		if err := s.Connect(ctx); err != nil {
			return err
		}
	}
	defer s.Close()

	for {
		var events <-chan event.RoomEvent
		if s.subscription != nil {
			events = s.subscription.Events()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case e, ok := <-events:
			if !ok {
				s.log.Warn("Room subscription closed by the transport")
				return errors.ErrSubscriptionClosed
			}
			if err := s.Apply(e); err != nil {
				s.log.Warn("Room event not applied", "event", e, "error", err)
			}

		case cmd, ok := <-commands:
			if !ok {
				return nil
			}
			s.handle(ctx, cmd)
			if s.state == Left {
				return nil
			}

		case result := <-s.staged:
			s.completeStaging(result)
		}
	}
}

func (s *Session) handle(ctx context.Context, cmd domain.Command) {
	if cmd.RoomID() != s.roomID {
		s.log.Warn("Command for another room ignored", "command_room_id", cmd.RoomID())
		return
	}

	var err error
	switch c := cmd.(type) {
	case domain.SendMessageCommand:
		err = s.Send(ctx, c.Text)
	case domain.LoadEarlierCommand:
		err = s.LoadEarlier(ctx)
	case domain.AttachFileCommand:
		err = s.AttachFile(c.Path)
	case domain.TypingCommand:
		err = s.Typing(ctx)
	case domain.LeaveRoomCommand:
		_, err = s.Leave(ctx)
	default:
		s.log.Warn("Unknown command", "command", c)
		return
	}
	if err != nil {
		s.log.Warn("Command failed", "command", cmd, "error", err)
	}
}
