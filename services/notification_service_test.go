package services

import (
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"chat-notify/mocks"
	"context"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNotificationService_RoutesEachVariantToOneStrategy(t *testing.T) {
	ctx := context.Background()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	expected := domain.Notification{Title: "t", Body: "b", Recipients: []domain.User{{ID: "bob"}}}

	tests := []struct {
		name    string
		webhook event.Webhook
		expect  func(r *mocks.MockResolver)
	}{
		{
			name:    "offline",
			webhook: event.MessageSentUserOffline{},
			expect: func(r *mocks.MockResolver) {
				r.EXPECT().Offline(gomock.Any(), gomock.Any()).Return(expected, nil).Times(1)
			},
		},
		{
			name:    "users added",
			webhook: event.UsersAddedToRoom{Users: []event.UserRef{{ID: "alice"}}},
			expect: func(r *mocks.MockResolver) {
				r.EXPECT().UserJoined(gomock.Any(), gomock.Any()).Return(expected, nil).Times(1)
			},
		},
		{
			name:    "user left",
			webhook: event.UserLeftRoom{},
			expect: func(r *mocks.MockResolver) {
				r.EXPECT().UserLeft(gomock.Any(), gomock.Any()).Return(expected, nil).Times(1)
			},
		},
		{
			name:    "messages created",
			webhook: event.MessagesCreated{Messages: []event.CreatedMessage{{UserID: "a", RoomID: "r"}}},
			expect: func(r *mocks.MockResolver) {
				r.EXPECT().Mentions(gomock.Any(), gomock.Any()).Return(expected, nil).Times(1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			resolver := mocks.NewMockResolver(ctrl)
			tt.expect(resolver)

			n, err := NewNotificationService(log, resolver).Route(ctx, tt.webhook)
			require.NoError(t, err)
			require.Equal(t, expected, n)
		})
	}
}

type foreignWebhook struct{ event.Webhook }

func TestNotificationService_UnknownVariant(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockResolver(ctrl)

	_, err := NewNotificationService(logs.GetLoggerFromLevel(slog.LevelDebug), resolver).
		Route(context.Background(), foreignWebhook{})
	require.ErrorIs(t, err, errors.ErrUnknownEventType)
}
