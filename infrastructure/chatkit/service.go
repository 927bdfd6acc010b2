package chatkit

import (
	"chat-notify/contract"
	"chat-notify/domain"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/samber/lo"
)

var _ contract.ChatService = (*Service)(nil)

// Service reads and writes the chat service records with a superuser token.
type Service struct {
	client *Client
}

func NewService(client *Client) *Service {
	return &Service{client: client}
}

func (s *Service) GetRoom(ctx context.Context, roomID domain.RoomID) (domain.Room, error) {
	var room wireRoom
	if err := s.client.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(string(roomID)), nil, &room); err != nil {
		return domain.Room{}, err
	}
	return toRoom(room), nil
}

func (s *Service) GetUser(ctx context.Context, userID domain.UserID) (domain.User, error) {
	var user wireUser
	if err := s.client.do(ctx, http.MethodGet, "/users/"+url.PathEscape(string(userID)), nil, &user); err != nil {
		return domain.User{}, err
	}
	return toUser(user), nil
}

func (s *Service) GetUsersByID(ctx context.Context, userIDs []domain.UserID) ([]domain.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := url.Values{}
	for _, id := range userIDs {
		query.Add("id", string(id))
	}
	var users []wireUser
	if err := s.client.do(ctx, http.MethodGet, "/users_by_ids?"+query.Encode(), nil, &users); err != nil {
		return nil, err
	}
	return lo.Map(users, func(u wireUser, _ int) domain.User { return toUser(u) }), nil
}

func (s *Service) GetUsers(ctx context.Context) ([]domain.User, error) {
	var users []wireUser
	if err := s.client.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return lo.Map(users, func(u wireUser, _ int) domain.User { return toUser(u) }), nil
}

func (s *Service) GetUserRooms(ctx context.Context, userID domain.UserID) ([]domain.Room, error) {
	return s.userRooms(ctx, userID, false)
}

func (s *Service) GetUserJoinableRooms(ctx context.Context, userID domain.UserID) ([]domain.Room, error) {
	return s.userRooms(ctx, userID, true)
}

func (s *Service) userRooms(ctx context.Context, userID domain.UserID, joinable bool) ([]domain.Room, error) {
	var rooms []wireRoom
	path := fmt.Sprintf("/users/%s/rooms?joinable=%t", url.PathEscape(string(userID)), joinable)
	if err := s.client.do(ctx, http.MethodGet, path, nil, &rooms); err != nil {
		return nil, err
	}
	return lo.Map(rooms, func(r wireRoom, _ int) domain.Room { return toRoom(r) }), nil
}

func (s *Service) AddUsersToRoom(ctx context.Context, roomID domain.RoomID, userIDs []domain.UserID) error {
	body := addUsersRequest{UserIDs: lo.Map(userIDs, func(id domain.UserID, _ int) string { return string(id) })}
	return s.client.do(ctx, http.MethodPut, "/rooms/"+url.PathEscape(string(roomID))+"/users/add", body, nil)
}

func (s *Service) AssignRoomRole(ctx context.Context, userID domain.UserID, roomID domain.RoomID, role string) error {
	body := assignRoleRequest{Scope: "room", Role: role, RoomID: string(roomID)}
	return s.client.do(ctx, http.MethodPut, "/users/"+url.PathEscape(string(userID))+"/roles", body, nil)
}

func (s *Service) CreateRoom(ctx context.Context, creatorID domain.UserID, name string, private bool) (domain.Room, error) {
	var room wireRoom
	body := createRoomRequest{CreatorID: string(creatorID), Name: name, Private: private}
	if err := s.client.do(ctx, http.MethodPost, "/rooms", body, &room); err != nil {
		return domain.Room{}, err
	}
	return toRoom(room), nil
}

func (s *Service) CreateUser(ctx context.Context, user domain.User) error {
	return s.client.do(ctx, http.MethodPost, "/users", fromUser(user), nil)
}
