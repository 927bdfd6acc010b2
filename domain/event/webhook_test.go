package event

import (
	"chat-notify/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWebhook_KnownTypes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Type
	}{
		{
			name: "message sent while recipient offline",
			body: `{"metadata":{"event_type":"v1.message_sent_user_offline"},"payload":{
				"room":{"id":"r1","name":"general"},
				"sender":{"id":"alice","name":"Alice"},
				"message":{"id":3,"user_id":"alice","room_id":"r1","parts":[{"type":"text/plain","content":"hello"}]},
				"offline_user_ids":["bob"]}}`,
			expected: MessageSentUserOfflineType,
		},
		{
			name: "users added to room",
			body: `{"metadata":{"event_type":"v1.users_added_to_room"},"payload":{
				"room":{"id":"r1","name":"secret","private":true},
				"users":[{"id":"alice","name":"Alice"}]}}`,
			expected: UsersAddedToRoomType,
		},
		{
			name: "user left room",
			body: `{"metadata":{"event_type":"v1.user_left_room"},"payload":{
				"room":{"id":"r1","name":"secret","private":true},
				"user":{"id":"alice","name":"Alice"}}}`,
			expected: UserLeftRoomType,
		},
		{
			name: "messages created",
			body: `{"metadata":{"event_type":"v1.messages_created"},"payload":{
				"messages":[{"id":1,"user_id":"alice","room_id":"r1","parts":[{"type":"text/plain","content":"hi @bob"}]}]}}`,
			expected: MessagesCreatedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			w, err := ParseWebhook([]byte(tt.body))
			req.NoError(err)
			req.Equal(tt.expected, w.Type())
		})
	}
}

func TestParseWebhook_DecodesOfflinePayload(t *testing.T) {
	req := require.New(t)
	body := `{"metadata":{"event_type":"v1.message_sent_user_offline"},"payload":{
		"room":{"id":"r1","name":"general"},
		"sender":{"id":"alice","name":"Alice"},
		"message":{"id":3,"parts":[{"type":"image/png","content":"https://cdn/a.png"},{"type":"text/plain","content":"look"}]},
		"offline_user_ids":["bob","carol"]}}`

	w, err := ParseWebhook([]byte(body))
	req.NoError(err)

	offline, ok := w.(MessageSentUserOffline)
	req.True(ok)
	req.Equal("Alice", offline.Sender.Name)
	req.Equal("look", offline.Message.FirstText())
	req.Equal([]string{"bob", "carol"}, offline.OfflineUserIDs)
}

func TestParseWebhook_UnknownType(t *testing.T) {
	req := require.New(t)
	_, err := ParseWebhook([]byte(`{"metadata":{"event_type":"v1.room_deleted"},"payload":{}}`))
	req.ErrorIs(err, errors.ErrUnknownEventType)
}

func TestParseWebhook_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"metadata":`},
		{"missing payload", `{"metadata":{"event_type":"v1.user_left_room"}}`},
		{"no users added", `{"metadata":{"event_type":"v1.users_added_to_room"},"payload":{"room":{"id":"r1"},"users":[]}}`},
		{"message without parts", `{"metadata":{"event_type":"v1.messages_created"},"payload":{"messages":[{"id":1,"parts":[]}]}}`},
		{"payload of wrong shape", `{"metadata":{"event_type":"v1.user_left_room"},"payload":{"room":"r1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWebhook([]byte(tt.body))
			require.ErrorIs(t, err, errors.ErrInvalidPayload)
		})
	}
}

func TestMessagePayload_FirstTextFallsBackToFirstPart(t *testing.T) {
	req := require.New(t)
	req.Equal("raw", MessagePayload{Parts: []PartPayload{{Type: "", Content: "raw"}}}.FirstText())
	req.Equal("", MessagePayload{}.FirstText())
}

func TestPeekType(t *testing.T) {
	req := require.New(t)
	tag, err := PeekType([]byte(`{"metadata":{"event_type":"v1.user_left_room"}}`))
	req.NoError(err)
	req.Equal(UserLeftRoomType, tag)
}
