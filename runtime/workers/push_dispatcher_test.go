package workers

import (
	"chat-notify/domain"
	"chat-notify/mocks"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// recordingSink keeps every delivery it consumed.
type recordingSink struct {
	mu         sync.Mutex
	deliveries []domain.Delivery
}

func (s *recordingSink) Consume(_ context.Context, d domain.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, d)
	return nil
}

func (s *recordingSink) byUser() map[domain.UserID]domain.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make(map[domain.UserID]domain.Delivery, len(s.deliveries))
	for _, d := range s.deliveries {
		res[d.UserID] = d
	}
	return res
}

func TestPushDispatcher_OneFailureDoesNotStopOthers(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockPushProvider(ctrl)
	sink := &recordingSink{}
	dispatcher := NewPushDispatcher(log, provider, NewDeliveryFanout(log, time.Second, sink), time.Second)

	n := domain.Notification{
		Title: "Alice",
		Body:  "hello",
		Recipients: []domain.User{
			{ID: "bob", DeviceToken: "t-bob"},
			{ID: "carol", DeviceToken: "t-carol"},
			{ID: "dave"},
		},
	}

	// Given carol's push fails
	provider.EXPECT().Send(gomock.Any(), "t-bob", "Alice", "hello").Return(nil).Times(1)
	provider.EXPECT().Send(gomock.Any(), "t-carol", "Alice", "hello").Return(fmt.Errorf("unregistered")).Times(1)

	// When
	jobID := uuid.New()
	dispatcher.Dispatch(context.Background(), jobID, n)
	dispatcher.Wait()

	// Then every outcome is recorded, dave has no token
	outcomes := sink.byUser()
	req.Len(outcomes, 3)
	req.Equal(domain.DeliverySent, outcomes["bob"].Status)
	req.Equal(domain.DeliveryFailed, outcomes["carol"].Status)
	req.Contains(outcomes["carol"].Error, "unregistered")
	req.Equal(domain.DeliverySkipped, outcomes["dave"].Status)
	req.Equal(jobID, outcomes["bob"].JobID)
}

func TestPushDispatcher_DoesNotBlockTheCaller(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockPushProvider(ctrl)
	dispatcher := NewPushDispatcher(log, provider, nil, 50*time.Millisecond)

	// Given a provider hanging until the delivery timeout
	provider.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _, _ string) error {
			<-ctx.Done()
			return ctx.Err()
		}).Times(2)

	// When
	start := time.Now()
	dispatcher.Dispatch(context.Background(), uuid.New(), domain.Notification{Recipients: []domain.User{
		{ID: "bob", DeviceToken: "a"}, {ID: "carol", DeviceToken: "b"},
	}})

	// Then Dispatch returned before any send finished
	req.Less(time.Since(start), 50*time.Millisecond)
	dispatcher.Wait()
}

func TestPushDispatcher_SendsSurviveCallerCancellation(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockPushProvider(ctrl)
	dispatcher := NewPushDispatcher(log, provider, nil, time.Second)

	provider.EXPECT().Send(gomock.Any(), "a", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _, _ string) error {
			time.Sleep(20 * time.Millisecond)
			return ctx.Err()
		}).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	dispatcher.Dispatch(ctx, uuid.New(), domain.Notification{Recipients: []domain.User{{ID: "bob", DeviceToken: "a"}}})
	cancel()
	dispatcher.Wait()
}
