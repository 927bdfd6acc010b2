package services

import (
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"chat-notify/mocks"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestShorten(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty", "", ""},
		{"Short text unchanged", "hello", "hello"},
		{"Exactly 37 characters unchanged", strings.Repeat("a", 37), strings.Repeat("a", 37)},
		{"38 characters cut", strings.Repeat("a", 38), strings.Repeat("a", 37) + "..."},
		{"49 characters cut", strings.Repeat("b", 49), strings.Repeat("b", 37) + "..."},
		{"Multibyte runes are not split", strings.Repeat("é", 40), strings.Repeat("é", 37) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Shorten(tt.input, DefaultPreviewMaxLength))
		})
	}
}

func TestExtractMentions(t *testing.T) {
	req := require.New(t)
	req.Equal([]string{"@alice", "@Bob"}, ExtractMentions("hey @alice and @Bob"))
	req.Equal([]string{"@jean"}, ExtractMentions("@jean-pierre"))
	req.Nil(ExtractMentions("no mention at all, mail me at x @ y"))
}

func TestRecipientResolver_Offline(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockChatService(ctrl)
	resolver := NewRecipientResolver(logs.GetLoggerFromLevel(slog.LevelDebug), chat, nil, 0)

	long := "this message is definitely longer than thirty seven characters"
	e := event.MessageSentUserOffline{
		Room:           event.RoomRef{ID: "r1"},
		Sender:         event.UserRef{ID: "alice", Name: "Alice"},
		Message:        event.MessagePayload{Parts: []event.PartPayload{{Type: "text/plain", Content: long}}},
		OfflineUserIDs: []string{"bob", "carol", "alice", "bob"},
	}

	// Given the offline ids are resolved without the sender and without duplicates
	chat.EXPECT().GetUsersByID(gomock.Any(), []domain.UserID{"bob", "carol"}).
		Return([]domain.User{
			{ID: "bob", Name: "bob", DeviceToken: "t-bob"},
			{ID: "carol", Name: "carol", DeviceToken: "t-carol"},
		}, nil).Times(1)

	// When
	n, err := resolver.Offline(context.Background(), e)

	// Then
	req.NoError(err)
	req.Equal("Alice", n.Title)
	req.Equal(long[:37]+"...", n.Body)
	req.Len(n.Recipients, 2)
}

func TestRecipientResolver_OfflineLookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockChatService(ctrl)
	resolver := NewRecipientResolver(logs.GetLoggerFromLevel(slog.LevelDebug), chat, nil, 0)

	chat.EXPECT().GetUsersByID(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("503")).Times(1)

	_, err := resolver.Offline(context.Background(), event.MessageSentUserOffline{
		Sender:         event.UserRef{ID: "alice"},
		OfflineUserIDs: []string{"bob"},
	})
	require.ErrorIs(t, err, errors.ErrLookupFailure)
}

func TestRecipientResolver_MembershipOnlyForPrivateRooms(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockChatService(ctrl)
	resolver := NewRecipientResolver(logs.GetLoggerFromLevel(slog.LevelDebug), chat, nil, 0)
	ctx := context.Background()

	alice := event.UserRef{ID: "alice", Name: "alice"}
	private := event.RoomRef{ID: "r1", Name: "secret", Private: true}
	public := event.RoomRef{ID: "r1", Name: "secret", Private: false}

	// Given the private room holds alice, bob and carol
	chat.EXPECT().GetRoom(gomock.Any(), domain.RoomID("r1")).
		Return(domain.Room{ID: "r1", Name: "secret", Private: true, MemberUserIDs: []domain.UserID{"alice", "bob", "carol"}}, nil).
		Times(2)
	chat.EXPECT().GetUsersByID(gomock.Any(), []domain.UserID{"bob", "carol"}).
		Return([]domain.User{{ID: "bob", Name: "bob"}, {ID: "carol", Name: "carol"}}, nil).
		Times(2)

	// When alice joins then leaves the private room
	joined, err := resolver.UserJoined(ctx, event.UsersAddedToRoom{Room: private, Users: []event.UserRef{alice}})
	req.NoError(err)
	left, err := resolver.UserLeft(ctx, event.UserLeftRoom{Room: private, User: alice})
	req.NoError(err)

	// Then the other members are told by the system
	req.Equal(domain.SystemTitle, joined.Title)
	req.Equal("alice joined secret", joined.Body)
	req.Len(joined.Recipients, 2)
	req.Equal("alice left secret", left.Body)
	req.Len(left.Recipients, 2)

	// When the same happens in a public room, nothing is looked up
	joined, err = resolver.UserJoined(ctx, event.UsersAddedToRoom{Room: public, Users: []event.UserRef{alice}})
	req.NoError(err)
	req.True(joined.IsEmpty())
	left, err = resolver.UserLeft(ctx, event.UserLeftRoom{Room: public, User: alice})
	req.NoError(err)
	req.True(left.IsEmpty())
}

func TestRecipientResolver_MentionsAreCaseSensitive(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockChatService(ctrl)
	resolver := NewRecipientResolver(logs.GetLoggerFromLevel(slog.LevelDebug), chat, nil, 0)

	e := event.MessagesCreated{Messages: []event.CreatedMessage{{
		ID: 1, UserID: "dave", RoomID: "r1",
		Parts: []event.PartPayload{{Type: "text/plain", Content: "hey @alice and @Bob"}},
	}}}

	chat.EXPECT().GetUser(gomock.Any(), domain.UserID("dave")).
		Return(domain.User{ID: "dave", Name: "Dave"}, nil).Times(1)
	chat.EXPECT().GetRoom(gomock.Any(), domain.RoomID("r1")).
		Return(domain.Room{ID: "r1", MemberUserIDs: []domain.UserID{"alice", "bob", "carol", "dave"}}, nil).Times(1)
	chat.EXPECT().GetUsersByID(gomock.Any(), []domain.UserID{"alice", "bob", "carol", "dave"}).
		Return([]domain.User{
			{ID: "alice", Name: "alice"},
			{ID: "bob", Name: "bob"},
			{ID: "carol", Name: "carol"},
			{ID: "dave", Name: "Dave"},
		}, nil).Times(1)

	n, err := resolver.Mentions(context.Background(), e)

	req.NoError(err)
	req.Equal("Dave", n.Title)
	req.Equal("hey @alice and @Bob", n.Body)
	req.Equal([]domain.User{{ID: "alice", Name: "alice"}}, n.Recipients)
}

func TestRecipientResolver_MentionOfSelfIsIgnored(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockChatService(ctrl)
	resolver := NewRecipientResolver(logs.GetLoggerFromLevel(slog.LevelDebug), chat, nil, 0)

	e := event.MessagesCreated{Messages: []event.CreatedMessage{{
		UserID: "dave", RoomID: "r1",
		Parts: []event.PartPayload{{Type: "text/plain", Content: "note to @Dave"}},
	}}}
	chat.EXPECT().GetUser(gomock.Any(), gomock.Any()).Return(domain.User{ID: "dave", Name: "Dave"}, nil)
	chat.EXPECT().GetRoom(gomock.Any(), gomock.Any()).Return(domain.Room{MemberUserIDs: []domain.UserID{"dave"}}, nil)
	chat.EXPECT().GetUsersByID(gomock.Any(), gomock.Any()).Return([]domain.User{{ID: "dave", Name: "Dave"}}, nil)

	n, err := resolver.Mentions(context.Background(), e)
	req.NoError(err)
	req.True(n.IsEmpty())
}

func TestRecipientResolver_NoMentionNoLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockChatService(ctrl)
	resolver := NewRecipientResolver(logs.GetLoggerFromLevel(slog.LevelDebug), chat, nil, 0)

	n, err := resolver.Mentions(context.Background(), event.MessagesCreated{Messages: []event.CreatedMessage{{
		UserID: "dave", RoomID: "r1", Parts: []event.PartPayload{{Type: "text/plain", Content: "hello everyone"}},
	}}})
	require.NoError(t, err)
	require.True(t, n.IsEmpty())
}

func TestRecipientResolver_SanitizesBeforeShortening(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	chat := mocks.NewMockChatService(ctrl)
	sanitizer := mocks.NewMockSanitizer(ctrl)
	resolver := NewRecipientResolver(logs.GetLoggerFromLevel(slog.LevelDebug), chat, sanitizer, 5)

	sanitizer.EXPECT().Sanitize("snake charmer").Return("***** charmer").Times(1)
	chat.EXPECT().GetUsersByID(gomock.Any(), gomock.Any()).Return([]domain.User{{ID: "bob"}}, nil)

	n, err := resolver.Offline(context.Background(), event.MessageSentUserOffline{
		Sender:         event.UserRef{ID: "alice", Name: "alice"},
		Message:        event.MessagePayload{Parts: []event.PartPayload{{Type: "text/plain", Content: "snake charmer"}}},
		OfflineUserIDs: []string{"bob"},
	})
	req.NoError(err)
	req.Equal("*****...", n.Body)
}
