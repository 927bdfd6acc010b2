package server

import (
	"chat-notify/domain"
	"chat-notify/errors"
	"chat-notify/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

type userRequest struct {
	Username string `json:"username" validate:"required"`
}

type roomsRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type joinRequest struct {
	RoomID string `json:"room_id" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type roomResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Private bool   `json:"private"`
	Joined  bool   `json:"joined"`
}

// Auth issues a chat session token for the user_id query parameter.
func (h *Handler) Auth(w http.ResponseWriter, r *http.Request) {
	token, err := h.deps.Auth.IssueToken(r.URL.Query().Get("user_id"))
	if err != nil {
		h.Error(w, errors.MapToHTTPStatus(err), err.Error())
		return
	}
	h.JSON(w, http.StatusOK, token)
}

// FindUser looks a user up by display name.
func (h *Handler) FindUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decode(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "username is required")
		return
	}

	user, err := h.deps.Chat.FindUserByName(r.Context(), req.Username)
	if err != nil {
		h.Error(w, errors.MapToHTTPStatus(err), err.Error())
		return
	}
	h.JSON(w, http.StatusOK, map[string]userResponse{"user": {
		ID:        string(user.ID),
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}})
}

// ListRooms answers the joined rooms of the user followed by the joinable ones.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	var req roomsRequest
	if err := decode(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	listing, err := h.deps.Chat.ListRooms(r.Context(), domain.UserID(req.UserID))
	if err != nil {
		h.Error(w, errors.MapToHTTPStatus(err), err.Error())
		return
	}
	rooms := lo.Map(listing, func(l services.RoomListing, _ int) roomResponse {
		return roomResponse{ID: string(l.Room.ID), Name: l.Room.Name, Private: l.Room.Private, Joined: l.Joined}
	})
	h.JSON(w, http.StatusOK, map[string][]roomResponse{"rooms": rooms})
}

// JoinRoom adds the user to the room with the new member role.
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decode(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "room_id and user_id are required")
		return
	}

	if err := h.deps.Chat.JoinRoom(r.Context(), domain.RoomID(req.RoomID), domain.UserID(req.UserID)); err != nil {
		h.Error(w, errors.MapToHTTPStatus(err), err.Error())
		return
	}
	h.Text(w, http.StatusOK, "ok")
}

// CreateRoom creates a room owned by the root user. Any private value other than "true" is public.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	private := chi.URLParam(r, "private") == "true"

	if _, err := h.deps.Chat.CreateRoom(r.Context(), name, private); err != nil {
		h.log.Error("Unable to create room", "name", name, "error", err)
		h.Text(w, errors.MapToHTTPStatus(err), "err")
		return
	}
	h.Text(w, http.StatusOK, "ok")
}

// CreateAndAssignUser registers a user with a device token and adds it to the room.
// The device_token query parameter overrides the configured default.
func (h *Handler) CreateAndAssignUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	roomID := domain.RoomID(chi.URLParam(r, "room_id"))

	_, err := h.deps.Chat.CreateAndAssignUser(r.Context(), username, roomID, r.URL.Query().Get("device_token"))
	if err != nil {
		h.log.Error("Unable to create and assign user", "username", username, "room_id", roomID, "error", err)
		h.Text(w, errors.MapToHTTPStatus(err), "err")
		return
	}
	h.Text(w, http.StatusOK, "ok")
}
