package repositories

import (
	"chat-notify/domain"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func delivery(user string, status domain.DeliveryStatus, at time.Time) domain.Delivery {
	return domain.Delivery{
		ID:     uuid.New(),
		JobID:  uuid.New(),
		UserID: domain.UserID(user),
		Title:  "Alice",
		Status: status,
		At:     at,
	}
}

func Test_Record_Multiple_Deliveries_Newest_First(t *testing.T) {
	req := require.New(t)
	repository := NewDeliveryRepository(openDB(t), slog.Default(), 0, 0)
	at := time.Now().UTC()
	deliveries := []domain.Delivery{
		delivery("bob", domain.DeliverySent, at),
		delivery("carol", domain.DeliveryFailed, at.Add(time.Minute)),
		delivery("dave", domain.DeliverySkipped, at.Add(2*time.Minute)),
	}
	deliveries[1].Error = "push delivery failed: unregistered"
	for _, d := range deliveries {
		req.NoError(repository.StoreDelivery(d))
	}

	fetched, cursor, err := repository.GetDeliveries(nil)
	req.NoError(err)
	req.NotNil(cursor)
	req.Len(fetched, 3)

	req.Equal(domain.UserID("dave"), fetched[0].UserID)
	req.Equal(domain.UserID("carol"), fetched[1].UserID)
	req.Equal(domain.UserID("bob"), fetched[2].UserID)

	req.Equal(deliveries[1].ID, fetched[1].ID)
	req.Equal(deliveries[1].JobID, fetched[1].JobID)
	req.Equal(domain.DeliveryFailed, fetched[1].Status)
	req.Equal("push delivery failed: unregistered", fetched[1].Error)
	req.True(deliveries[1].At.Equal(fetched[1].At))
}

func Test_Deliveries_Pagination_With_Cursor(t *testing.T) {
	req := require.New(t)
	repository := NewDeliveryRepository(openDB(t), slog.Default(), 2, 0)
	at := time.Now().UTC()
	for i, user := range []string{"u0", "u1", "u2", "u3", "u4"} {
		req.NoError(repository.StoreDelivery(delivery(user, domain.DeliverySent, at.Add(time.Duration(i)*time.Second))))
	}

	page1, cursor, err := repository.GetDeliveries(nil)
	req.NoError(err)
	req.Equal([]domain.UserID{"u4", "u3"}, userIDs(page1))

	page2, cursor, err := repository.GetDeliveries(cursor)
	req.NoError(err)
	req.Equal([]domain.UserID{"u2", "u1"}, userIDs(page2))

	page3, cursor, err := repository.GetDeliveries(cursor)
	req.NoError(err)
	req.Equal([]domain.UserID{"u0"}, userIDs(page3))

	page4, cursor, err := repository.GetDeliveries(cursor)
	req.NoError(err)
	req.Empty(page4)
	req.Nil(cursor)
}

func Test_Deliveries_Empty_Journal(t *testing.T) {
	req := require.New(t)
	repository := NewDeliveryRepository(openDB(t), slog.Default(), 10, time.Hour)

	fetched, cursor, err := repository.GetDeliveries(nil)
	req.NoError(err)
	req.Empty(fetched)
	req.Nil(cursor)
}

func userIDs(deliveries []domain.Delivery) []domain.UserID {
	res := make([]domain.UserID, 0, len(deliveries))
	for _, d := range deliveries {
		res = append(res, d.UserID)
	}
	return res
}

func Test_DeliveryMapper(t *testing.T) {
	req := require.New(t)
	d := delivery("bob", domain.DeliveryFailed, time.Now())
	d.Error = "NotRegistered"
	value, err := marshalDelivery(d)
	req.NoError(err)

	row := DeliveryMapper("delivery:1:x", value)

	req.Equal("FAILED", row.Type)
	req.Contains(row.Detail, "bob")
	req.Contains(row.Detail, "NotRegistered")

	row = DeliveryMapper("delivery:1:x", []byte("garbage"))
	req.Equal("Error: unmarshal failed", row.Detail)
}
