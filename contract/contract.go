//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-notify/domain"
	"chat-notify/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// ChatService is the server side view of the chat service records.
type ChatService interface {
	GetRoom(ctx context.Context, roomID domain.RoomID) (domain.Room, error)
	GetUser(ctx context.Context, userID domain.UserID) (domain.User, error)
	GetUsersByID(ctx context.Context, userIDs []domain.UserID) ([]domain.User, error)
	GetUsers(ctx context.Context) ([]domain.User, error)
	GetUserRooms(ctx context.Context, userID domain.UserID) ([]domain.Room, error)
	GetUserJoinableRooms(ctx context.Context, userID domain.UserID) ([]domain.Room, error)
	AddUsersToRoom(ctx context.Context, roomID domain.RoomID, userIDs []domain.UserID) error
	AssignRoomRole(ctx context.Context, userID domain.UserID, roomID domain.RoomID, role string) error
	CreateRoom(ctx context.Context, creatorID domain.UserID, name string, private bool) (domain.Room, error)
	// CreateUser stores the device token of the user in its custom data.
	CreateUser(ctx context.Context, user domain.User) error
}

type Direction string

const (
	Older Direction = "older"
	Newer Direction = "newer"
)

// ChatTransport is the client side connection to the chat service.
type ChatTransport interface {
	Subscribe(ctx context.Context, roomID domain.RoomID) (Subscription, error)
	SendMultipartMessage(ctx context.Context, roomID domain.RoomID, parts []domain.OutgoingPart) (domain.MessageID, error)
	// FetchMessages returns up to limit messages strictly before the given id, in any order.
	FetchMessages(ctx context.Context, roomID domain.RoomID, before domain.MessageID, direction Direction, limit int) ([]domain.Message, error)
	SetTyping(ctx context.Context, roomID domain.RoomID) error
	LeaveRoom(ctx context.Context, roomID domain.RoomID) error
}

// Subscription is a live room stream. Events is closed once the subscription ends.
type Subscription interface {
	Events() <-chan event.RoomEvent
	Roster() []domain.RosterEntry
	Close() error
}

type PushProvider interface {
	Send(ctx context.Context, deviceToken, title, body string) error
}

// DeliverySink receives the outcome of every push attempt.
type DeliverySink interface {
	Consume(ctx context.Context, d domain.Delivery) error
}

type Prompt struct {
	Title   string
	Message string
	Choices []string
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt Prompt) (bool, error)
}

type IOrchestrator interface {
	Submit(job event.Job) bool
	Start(ctx context.Context) error
	Stop()
}
