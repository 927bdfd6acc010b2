package workers

import (
	"chat-notify/contract"
	"chat-notify/domain"
	"chat-notify/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, jobID uuid.UUID, n domain.Notification)
}

var _ Dispatcher = (*PushDispatcher)(nil)

// PushDispatcher fires one push per recipient without waiting for any of them.
// A slow or failing recipient never delays the others. There is no retry.
type PushDispatcher struct {
	log      *slog.Logger
	provider contract.PushProvider
	fanout   *DeliveryFanout
	timeout  time.Duration
	wg       sync.WaitGroup
	now      func() time.Time
}

func NewPushDispatcher(log *slog.Logger, provider contract.PushProvider, fanout *DeliveryFanout, timeout time.Duration) *PushDispatcher {
	return &PushDispatcher{log: log, provider: provider, fanout: fanout, timeout: timeout, now: time.Now}
}

// Dispatch returns immediately. Sends outlive the cancellation of ctx,
// each one is only bounded by the delivery timeout.
func (d *PushDispatcher) Dispatch(ctx context.Context, jobID uuid.UUID, n domain.Notification) {
	base := context.WithoutCancel(ctx)
	for _, recipient := range n.Recipients {
		d.wg.Add(1)
		go func(user domain.User) {
			defer d.wg.Done()
			d.deliver(base, jobID, n, user)
		}(recipient)
	}
}

func (d *PushDispatcher) deliver(ctx context.Context, jobID uuid.UUID, n domain.Notification, user domain.User) {
	delivery := domain.Delivery{
		ID:     uuid.New(),
		JobID:  jobID,
		UserID: user.ID,
		Title:  n.Title,
		Status: domain.DeliverySent,
	}

	if user.DeviceToken == "" {
		d.log.Debug("No device token, push skipped", "user", user.ID)
		delivery.Status = domain.DeliverySkipped
		d.record(delivery)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := d.provider.Send(sendCtx, user.DeviceToken, n.Title, n.Body); err != nil {
		err = fmt.Errorf("%w: %v", errors.ErrDeliveryFailure, err)
		d.log.Warn("Push delivery failed", "user", user.ID, "job", jobID, "error", err)
		delivery.Status = domain.DeliveryFailed
		delivery.Error = err.Error()
	} else {
		d.log.Debug("Push delivered", "user", user.ID, "job", jobID)
	}
	d.record(delivery)
}

func (d *PushDispatcher) record(delivery domain.Delivery) {
	if d.fanout == nil {
		return
	}
	delivery.At = d.now()
	d.fanout.Fanout(delivery)
}

// Wait blocks until every started delivery and its sinks are done.
func (d *PushDispatcher) Wait() {
	d.wg.Wait()
	if d.fanout != nil {
		d.fanout.Wait()
	}
}
