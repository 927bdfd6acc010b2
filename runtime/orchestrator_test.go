package runtime_test

import (
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/mocks"
	"chat-notify/observability"
	"chat-notify/runtime"
	"chat-notify/runtime/workers"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestOrchestrator_SubmitDropsWhenFull(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	router := mocks.NewMockINotificationService(ctrl)
	provider := mocks.NewMockPushProvider(ctrl)
	dispatcher := workers.NewPushDispatcher(log, provider, nil, time.Second)

	orchestrator := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 0), router, dispatcher,
		observability.NewMonitoringManager(log), 1, 2, time.Second)

	// Given nobody consumes the queue of two jobs
	req.True(orchestrator.Submit(event.NewJob(event.UserLeftRoom{}, time.Now())))
	req.True(orchestrator.Submit(event.NewJob(event.UserLeftRoom{}, time.Now())))

	// Then the third one is dropped without blocking
	req.False(orchestrator.Submit(event.NewJob(event.UserLeftRoom{}, time.Now())))

	depth, capacity := orchestrator.QueueDepth()
	req.Equal(2, depth)
	req.Equal(2, capacity)
}

func TestOrchestrator_JobReachesThePushProvider(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	router := mocks.NewMockINotificationService(ctrl)
	provider := mocks.NewMockPushProvider(ctrl)
	dispatcher := workers.NewPushDispatcher(log, provider, nil, time.Second)
	orchestrator := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 0), router, dispatcher,
		observability.NewMonitoringManager(log), 2, 10, time.Second)

	sent := make(chan string, 1)
	router.EXPECT().Route(gomock.Any(), gomock.Any()).Return(domain.Notification{
		Title: "system", Body: "alice left secret",
		Recipients: []domain.User{{ID: "bob", DeviceToken: "t-bob"}},
	}, nil).Times(1)
	provider.EXPECT().Send(gomock.Any(), "t-bob", "system", "alice left secret").
		DoAndReturn(func(_ context.Context, token, _, _ string) error {
			sent <- token
			return nil
		}).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := make(chan struct{})
	go func() {
		req.NoError(orchestrator.Start(ctx))
		close(stopped)
	}()

	req.True(orchestrator.Submit(event.NewJob(event.UserLeftRoom{}, time.Now())))

	select {
	case token := <-sent:
		req.Equal("t-bob", token)
	case <-time.After(time.Second):
		req.Fail("push was never sent")
	}

	orchestrator.Stop()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		req.Fail("orchestrator did not stop")
	}
}
