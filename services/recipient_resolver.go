//go:generate go run go.uber.org/mock/mockgen -source=recipient_resolver.go -destination=../mocks/mock_recipient_resolver.go -package=mocks
package services

import (
	"chat-notify/contract"
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/samber/lo"
)

// DefaultPreviewMaxLength bounds the body of a notification.
const DefaultPreviewMaxLength = 37

const ellipsis = "..."

// mentionPattern only knows alphanumeric names, members whose name holds
// spaces or punctuation cannot be mentioned.
var mentionPattern = regexp.MustCompile(`@[a-zA-Z0-9]+`)

// Sanitizer rewrites a preview before it is truncated.
type Sanitizer interface {
	Sanitize(text string) string
}

// Resolver computes who must be notified for each kind of webhook.
type Resolver interface {
	Offline(ctx context.Context, e event.MessageSentUserOffline) (domain.Notification, error)
	UserJoined(ctx context.Context, e event.UsersAddedToRoom) (domain.Notification, error)
	UserLeft(ctx context.Context, e event.UserLeftRoom) (domain.Notification, error)
	Mentions(ctx context.Context, e event.MessagesCreated) (domain.Notification, error)
}

var _ Resolver = (*RecipientResolver)(nil)

type RecipientResolver struct {
	log              *slog.Logger
	chat             contract.ChatService
	sanitizer        Sanitizer
	previewMaxLength int
}

// NewRecipientResolver builds a resolver. A nil sanitizer leaves previews untouched
// and a non positive length falls back to DefaultPreviewMaxLength.
func NewRecipientResolver(log *slog.Logger, chat contract.ChatService, sanitizer Sanitizer, previewMaxLength int) *RecipientResolver {
	if previewMaxLength <= 0 {
		previewMaxLength = DefaultPreviewMaxLength
	}
	return &RecipientResolver{
		log:              log,
		chat:             chat,
		sanitizer:        sanitizer,
		previewMaxLength: previewMaxLength,
	}
}

// Offline notifies the users who were not connected when the message was sent.
func (r *RecipientResolver) Offline(ctx context.Context, e event.MessageSentUserOffline) (domain.Notification, error) {
	ids := lo.Without(lo.Uniq(event.ToUserIDs(e.OfflineUserIDs)), domain.UserID(e.Sender.ID))
	if len(ids) == 0 {
		return domain.Notification{}, nil
	}

	users, err := r.chat.GetUsersByID(ctx, ids)
	if err != nil {
		return domain.Notification{}, lookupFailure("offline users", err)
	}

	return domain.Notification{
		Title:      e.Sender.Name,
		Body:       r.preview(e.Message.FirstText()),
		Recipients: withoutUser(users, domain.UserID(e.Sender.ID)),
	}, nil
}

func (r *RecipientResolver) UserJoined(ctx context.Context, e event.UsersAddedToRoom) (domain.Notification, error) {
	actor := e.Actor()
	return r.membershipChanged(ctx, e.Room, actor, fmt.Sprintf("%s joined %s", actor.Name, e.Room.Name))
}

func (r *RecipientResolver) UserLeft(ctx context.Context, e event.UserLeftRoom) (domain.Notification, error) {
	return r.membershipChanged(ctx, e.Room, e.User, fmt.Sprintf("%s left %s", e.User.Name, e.Room.Name))
}

// membershipChanged notifies the remaining members of a private room.
// Public rooms produce nothing and cost no lookup.
func (r *RecipientResolver) membershipChanged(ctx context.Context, ref event.RoomRef, actor event.UserRef, body string) (domain.Notification, error) {
	if !ref.Private {
		r.log.Debug("Membership change in public room ignored", "room", ref.ID)
		return domain.Notification{}, nil
	}

	room, err := r.chat.GetRoom(ctx, domain.RoomID(ref.ID))
	if err != nil {
		return domain.Notification{}, lookupFailure("room", err)
	}

	ids := room.OtherMembers(domain.UserID(actor.ID))
	if len(ids) == 0 {
		return domain.Notification{}, nil
	}

	users, err := r.chat.GetUsersByID(ctx, ids)
	if err != nil {
		return domain.Notification{}, lookupFailure("room members", err)
	}

	return domain.Notification{
		Title:      domain.SystemTitle,
		Body:       body,
		Recipients: withoutUser(users, domain.UserID(actor.ID)),
	}, nil
}

// Mentions notifies the members of the room named in the first created message.
func (r *RecipientResolver) Mentions(ctx context.Context, e event.MessagesCreated) (domain.Notification, error) {
	message := e.First()
	text := message.FirstText()

	mentions := ExtractMentions(text)
	if len(mentions) == 0 {
		return domain.Notification{}, nil
	}

	sender, err := r.chat.GetUser(ctx, domain.UserID(message.UserID))
	if err != nil {
		return domain.Notification{}, lookupFailure("sender", err)
	}

	room, err := r.chat.GetRoom(ctx, domain.RoomID(message.RoomID))
	if err != nil {
		return domain.Notification{}, lookupFailure("room", err)
	}
	if len(room.MemberUserIDs) == 0 {
		return domain.Notification{}, nil
	}

	members, err := r.chat.GetUsersByID(ctx, room.MemberUserIDs)
	if err != nil {
		return domain.Notification{}, lookupFailure("room members", err)
	}

	mentioned := lo.Filter(members, func(u domain.User, _ int) bool {
		return lo.Contains(mentions, "@"+u.Name)
	})

	return domain.Notification{
		Title:      sender.Name,
		Body:       r.preview(text),
		Recipients: withoutUser(mentioned, sender.ID),
	}, nil
}

func (r *RecipientResolver) preview(text string) string {
	if r.sanitizer != nil {
		text = r.sanitizer.Sanitize(text)
	}
	return Shorten(text, r.previewMaxLength)
}

// ExtractMentions returns the "@name" tokens of a text in order of appearance.
func ExtractMentions(text string) []string {
	return mentionPattern.FindAllString(text, -1)
}

// Shorten keeps text of at most max characters as is,
// longer text is cut to its first max characters followed by an ellipsis.
func Shorten(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + ellipsis
}

func withoutUser(users []domain.User, id domain.UserID) []domain.User {
	return lo.Reject(users, func(u domain.User, _ int) bool { return u.ID == id })
}

func lookupFailure(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", errors.ErrLookupFailure, what, err)
}
