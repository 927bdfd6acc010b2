package session

import (
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func waitView(t *testing.T, views <-chan View, accept func(View) bool) View {
	t.Helper()
	timeout := time.After(time.Second)
	for {
		select {
		case v := <-views:
			if accept(v) {
				return v
			}
		case <-timeout:
			require.FailNow(t, "expected view never observed")
		}
	}
}

func TestRun_AppliesEventsAndCommands(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, domain.RosterEntry{UserID: "bob", Name: "bob", Presence: domain.Online})
	f.transport.EXPECT().Subscribe(gomock.Any(), room).Return(f.subscription, nil).Times(1)
	f.transport.EXPECT().SetTyping(gomock.Any(), room).Return(nil).Times(1)
	f.confirmer.EXPECT().Confirm(gomock.Any(), LeavePrompt).Return(true, nil).Times(1)
	f.transport.EXPECT().LeaveRoom(gomock.Any(), room).Return(nil).Times(1)

	views := make(chan View, 64)
	f.session.OnChange(func(v View) { views <- v })
	commands := make(chan domain.Command)
	done := make(chan error, 1)
	go func() { done <- f.session.Run(context.Background(), commands) }()

	f.subscription.events <- event.MessageReceived{Message: message(1)}
	f.subscription.events <- event.UserLeft{UserID: "bob"}
	waitView(t, views, func(v View) bool { return len(v.Messages) == 1 && len(v.Roster) == 0 })

	commands <- domain.TypingCommand{Room: room}
	commands <- domain.LeaveRoomCommand{Room: room}

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("Run should return once the room is left")
	}
	req.Equal(Left, f.session.State())
}

func TestRun_StagesAttachmentInBackground(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.transport.EXPECT().Subscribe(gomock.Any(), room).Return(f.subscription, nil).Times(1)

	views := make(chan View, 64)
	f.session.OnChange(func(v View) { views <- v })
	commands := make(chan domain.Command)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- f.session.Run(ctx, commands) }()

	commands <- domain.AttachFileCommand{Room: room, Path: writeFile(t, "cat.png", pngHeader)}

	view := waitView(t, views, func(v View) bool { return v.Attachment != nil })
	req.Equal("cat.png", view.Attachment.FileName)
	req.True(view.Attachment.IsImage)

	cancel()
	req.ErrorIs(<-done, context.Canceled)
	req.Equal(int32(1), f.subscription.closed.Load())
}

func TestRun_ClosedSubscriptionEndsLoop(t *testing.T) {
	f := newFixture(t)
	f.transport.EXPECT().Subscribe(gomock.Any(), room).Return(f.subscription, nil).Times(1)
	close(f.subscription.events)

	err := f.session.Run(context.Background(), make(chan domain.Command))

	require.ErrorIs(t, err, errors.ErrSubscriptionClosed)
	require.Equal(t, Disconnected, f.session.State())
}

func TestRun_ConnectFailureIsSurfaced(t *testing.T) {
	f := newFixture(t)
	f.transport.EXPECT().Subscribe(gomock.Any(), room).Return(nil, context.DeadlineExceeded).Times(1)

	err := f.session.Run(context.Background(), make(chan domain.Command))
	require.ErrorIs(t, err, errors.ErrConnectFailure)
}

func TestRun_CommandForAnotherRoomIgnored(t *testing.T) {
	f := newFixture(t)
	f.transport.EXPECT().Subscribe(gomock.Any(), room).Return(f.subscription, nil).Times(1)
	// No SendMultipartMessage expected

	commands := make(chan domain.Command, 1)
	commands <- domain.SendMessageCommand{Room: "elsewhere", Text: "hello"}
	close(commands)

	require.NoError(t, f.session.Run(context.Background(), commands))
}
