//go:generate go run go.uber.org/mock/mockgen -source=delivery.go -destination=../mocks/mock_delivery_repository.go -package=mocks
package repositories

import (
	"chat-notify/domain"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/database"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const deliveryPrefix = "delivery:"

type IDeliveryRepository interface {
	StoreDelivery(delivery domain.Delivery) error
	GetDeliveries(cursor *string) ([]domain.Delivery, *string, error)
}

// DeliveryRepository is the journal of push outcomes. It is never read back to retry.
type DeliveryRepository struct {
	db    *badger.DB
	log   *slog.Logger
	limit int
	ttl   time.Duration
}

// NewDeliveryRepository pages at most limit deliveries per read.
// A positive ttl lets Badger expire old entries.
func NewDeliveryRepository(db *badger.DB, log *slog.Logger, limit int, ttl time.Duration) DeliveryRepository {
	return DeliveryRepository{db: db, log: log, limit: limit, ttl: ttl}
}

// StoreDelivery persists a delivery under "delivery:{timestamp_padded}:{uuid}" so that
// keys sort chronologically and two outcomes of the same nanosecond never collide.
func (r DeliveryRepository) StoreDelivery(delivery domain.Delivery) error {
	key := fmt.Sprintf("%s%019d:%s", deliveryPrefix, delivery.At.UnixNano(), delivery.ID)
	value, err := marshalDelivery(delivery)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if r.ttl > 0 {
			entry = entry.WithTTL(r.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// GetDeliveries returns the newest deliveries first. The returned cursor is the
// position of the last delivery read; passing it back continues with older ones.
func (r DeliveryRepository) GetDeliveries(cursor *string) ([]domain.Delivery, *string, error) {
	var values [][]byte
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(deliveryPrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Highest possible timestamp, then walk back in time
			seekKey = append(prefix, []byte("9999999999999999999~")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[len(prefix):]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limit > 0 && len(values) == r.limit {
				r.log.Debug(fmt.Sprintf("Maximum of %d deliveries reached", r.limit))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			values = append(values, value)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	deliveries := make([]domain.Delivery, 0, len(values))
	for _, value := range values {
		delivery, err := unmarshalDelivery(value)
		if err != nil {
			return nil, nil, err
		}
		deliveries = append(deliveries, delivery)
	}
	if len(deliveries) == 0 {
		return deliveries, nil, nil
	}
	return deliveries, &lastKey, nil
}

func marshalDelivery(d domain.Delivery) ([]byte, error) {
	s, err := structpb.NewStruct(map[string]any{
		"id":      d.ID.String(),
		"job_id":  d.JobID.String(),
		"user_id": string(d.UserID),
		"title":   d.Title,
		"status":  string(d.Status),
		"error":   d.Error,
		"at":      d.At.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func unmarshalDelivery(value []byte) (domain.Delivery, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(value, &s); err != nil {
		return domain.Delivery{}, err
	}
	fields := s.GetFields()
	id, err := uuid.Parse(fields["id"].GetStringValue())
	if err != nil {
		return domain.Delivery{}, err
	}
	jobID, err := uuid.Parse(fields["job_id"].GetStringValue())
	if err != nil {
		return domain.Delivery{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, fields["at"].GetStringValue())
	if err != nil {
		return domain.Delivery{}, err
	}
	return domain.Delivery{
		ID:     id,
		JobID:  jobID,
		UserID: domain.UserID(fields["user_id"].GetStringValue()),
		Title:  fields["title"].GetStringValue(),
		Status: domain.DeliveryStatus(fields["status"].GetStringValue()),
		Error:  fields["error"].GetStringValue(),
		At:     at,
	}, nil
}

// DeliveryMapper renders a journal entry in the Badger inspector.
func DeliveryMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	delivery, err := unmarshalDelivery(val)
	if err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}

	row.Type = string(delivery.Status)
	row.Detail = fmt.Sprintf("%q to %s", delivery.Title, delivery.UserID)
	if delivery.Error != "" {
		row.Detail += ": " + delivery.Error
	}
	return row
}
