package services

import (
	"chat-notify/contract"
	"chat-notify/domain"
	"chat-notify/errors"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// NewRoomMemberRole is the role granted to a user joining a room through the notifier.
const NewRoomMemberRole = "new_room_member"

// RoomCreator owns the rooms created through the notifier.
const RoomCreator domain.UserID = "root"

type RoomListing struct {
	Room   domain.Room
	Joined bool
}

type IChatService interface {
	FindUserByName(ctx context.Context, name string) (domain.User, error)
	ListRooms(ctx context.Context, userID domain.UserID) ([]RoomListing, error)
	JoinRoom(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error
	CreateRoom(ctx context.Context, name string, private bool) (domain.Room, error)
	CreateAndAssignUser(ctx context.Context, name string, roomID domain.RoomID, deviceToken string) (domain.User, error)
}

// ChatService backs the helper endpoints used by the mobile app before it opens a room.
type ChatService struct {
	log                *slog.Logger
	chat               contract.ChatService
	defaultDeviceToken string
}

// NewChatService registers created users with defaultDeviceToken when none is given.
func NewChatService(log *slog.Logger, chat contract.ChatService, defaultDeviceToken string) *ChatService {
	return &ChatService{log: log, chat: chat, defaultDeviceToken: defaultDeviceToken}
}

func (s *ChatService) FindUserByName(ctx context.Context, name string) (domain.User, error) {
	users, err := s.chat.GetUsers(ctx)
	if err != nil {
		return domain.User{}, lookupFailure("users", err)
	}
	user, ok := lo.Find(users, func(u domain.User) bool { return u.Name == name })
	if !ok {
		return domain.User{}, fmt.Errorf("%w: %q", errors.ErrUserNotFound, name)
	}
	return user, nil
}

// ListRooms returns the rooms the user joined, then the ones the user may join.
func (s *ChatService) ListRooms(ctx context.Context, userID domain.UserID) ([]RoomListing, error) {
	joined, err := s.chat.GetUserRooms(ctx, userID)
	if err != nil {
		return nil, lookupFailure("user rooms", err)
	}
	joinable, err := s.chat.GetUserJoinableRooms(ctx, userID)
	if err != nil {
		return nil, lookupFailure("joinable rooms", err)
	}

	listing := lo.Map(joined, func(r domain.Room, _ int) RoomListing { return RoomListing{Room: r, Joined: true} })
	listing = append(listing, lo.Map(joinable, func(r domain.Room, _ int) RoomListing {
		return RoomListing{Room: r, Joined: false}
	})...)
	return listing, nil
}

func (s *ChatService) JoinRoom(ctx context.Context, roomID domain.RoomID, userID domain.UserID) error {
	if err := s.chat.AddUsersToRoom(ctx, roomID, []domain.UserID{userID}); err != nil {
		return lookupFailure("add user to room", err)
	}
	if err := s.chat.AssignRoomRole(ctx, userID, roomID, NewRoomMemberRole); err != nil {
		return lookupFailure("assign room role", err)
	}
	s.log.Info("User joined room", "user_id", userID, "room_id", roomID)
	return nil
}

func (s *ChatService) CreateRoom(ctx context.Context, name string, private bool) (domain.Room, error) {
	room, err := s.chat.CreateRoom(ctx, RoomCreator, name, private)
	if err != nil {
		return domain.Room{}, lookupFailure("create room", err)
	}
	s.log.Info("Room created", "room_id", room.ID, "name", name, "private", private)
	return room, nil
}

// CreateAndAssignUser creates a user under a random id and adds it to the room.
// The device token is what the push strategies later read back from the user record.
func (s *ChatService) CreateAndAssignUser(ctx context.Context, name string, roomID domain.RoomID, deviceToken string) (domain.User, error) {
	if deviceToken == "" {
		deviceToken = s.defaultDeviceToken
	}
	user := domain.User{ID: domain.UserID(uuid.NewString()), Name: name, DeviceToken: deviceToken}
	if err := s.chat.CreateUser(ctx, user); err != nil {
		return domain.User{}, lookupFailure("create user", err)
	}
	if err := s.chat.AddUsersToRoom(ctx, roomID, []domain.UserID{user.ID}); err != nil {
		return domain.User{}, lookupFailure("add user to room", err)
	}
	if deviceToken == "" {
		s.log.Warn("User created without device token", "user_id", user.ID)
	}
	s.log.Info("User created and assigned", "user_id", user.ID, "name", name, "room_id", roomID)
	return user, nil
}
