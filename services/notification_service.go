//go:generate go run go.uber.org/mock/mockgen -source=notification_service.go -destination=../mocks/mock_notification_service.go -package=mocks
package services

import (
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"context"
	"fmt"
	"log/slog"
)

type INotificationService interface {
	Route(ctx context.Context, w event.Webhook) (domain.Notification, error)
}

// NotificationService maps each webhook variant to exactly one resolution strategy.
type NotificationService struct {
	log      *slog.Logger
	resolver Resolver
}

func NewNotificationService(log *slog.Logger, resolver Resolver) *NotificationService {
	return &NotificationService{log: log, resolver: resolver}
}

func (s *NotificationService) Route(ctx context.Context, w event.Webhook) (domain.Notification, error) {
	switch e := w.(type) {
	case event.MessageSentUserOffline:
		return s.resolver.Offline(ctx, e)
	case event.UsersAddedToRoom:
		return s.resolver.UserJoined(ctx, e)
	case event.UserLeftRoom:
		return s.resolver.UserLeft(ctx, e)
	case event.MessagesCreated:
		return s.resolver.Mentions(ctx, e)
	default:
		return domain.Notification{}, fmt.Errorf("%w: %T", errors.ErrUnknownEventType, w)
	}
}
