package sink

import (
	"chat-notify/contract"
	"chat-notify/domain"
	"chat-notify/repositories"
	"context"
	"fmt"
	"log/slog"
)

var _ contract.DeliverySink = JournalSink{}

// JournalSink writes every push outcome to the delivery journal.
type JournalSink struct {
	repository repositories.IDeliveryRepository
	log        *slog.Logger
}

func NewJournalSink(repository repositories.IDeliveryRepository, log *slog.Logger) JournalSink {
	return JournalSink{repository: repository, log: log}
}

func (j JournalSink) Consume(ctx context.Context, d domain.Delivery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := j.repository.StoreDelivery(d); err != nil {
		return fmt.Errorf("unable to journal delivery %s: %w", d.ID, err)
	}
	j.log.Debug("Delivery journaled", "user_id", d.UserID, "status", d.Status)
	return nil
}
