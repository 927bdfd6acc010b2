package services

import (
	"chat-notify/domain/event"
	"chat-notify/errors"
	"chat-notify/mocks"
	"chat-notify/observability"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const userLeftBody = `{"metadata":{"event_type":"v1.user_left_room"},"payload":{
	"room":{"id":"r1","name":"secret","private":true},"user":{"id":"alice","name":"alice"}}}`

func TestWebhookService_Accept(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockIOrchestrator(ctrl)
	monitoring := observability.NewMonitoringManager(log)
	service := NewWebhookService(log, orchestrator, monitoring)

	// Given the queue accepts the job
	orchestrator.EXPECT().Submit(gomock.Any()).DoAndReturn(func(job event.Job) bool {
		req.Equal(event.UserLeftRoomType, job.Webhook.Type())
		return true
	}).Times(1)

	// When
	err := service.Accept([]byte(userLeftBody))

	// Then
	req.NoError(err)
	req.Equal(uint64(1), monitoring.GetLatest().WebhooksAccepted)
}

func TestWebhookService_FullQueueIsNotAnError(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockIOrchestrator(ctrl)
	monitoring := observability.NewMonitoringManager(log)

	orchestrator.EXPECT().Submit(gomock.Any()).Return(false).Times(1)

	req.NoError(NewWebhookService(log, orchestrator, monitoring).Accept([]byte(userLeftBody)))
	req.Equal(uint64(1), monitoring.GetLatest().JobsDropped)
}

func TestWebhookService_UnknownAndInvalidAreNotQueued(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	orchestrator := mocks.NewMockIOrchestrator(ctrl)
	monitoring := observability.NewMonitoringManager(log)
	service := NewWebhookService(log, orchestrator, monitoring)

	orchestrator.EXPECT().Submit(gomock.Any()).Times(0)

	err := service.Accept([]byte(`{"metadata":{"event_type":"v2.something_new"},"payload":{}}`))
	req.ErrorIs(err, errors.ErrUnknownEventType)

	err = service.Accept([]byte(`{"metadata":{"event_type":"v1.user_left_room"},"payload":{"room":{}}}`))
	req.ErrorIs(err, errors.ErrInvalidPayload)

	stats := monitoring.GetLatest()
	req.Equal(uint64(1), stats.WebhooksUnknown)
	req.Equal(uint64(1), stats.WebhooksRejected)
}
