package domain

import (
	"time"

	"github.com/google/uuid"
)

// SystemTitle is the title of synthesized membership notifications.
const SystemTitle = "system"

// Notification is what the resolver hands over to the dispatcher.
type Notification struct {
	Title      string
	Body       string
	Recipients []User
}

func (n Notification) IsEmpty() bool {
	return len(n.Recipients) == 0
}

type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "SENT"
	DeliveryFailed  DeliveryStatus = "FAILED"
	DeliverySkipped DeliveryStatus = "SKIPPED"
)

// Delivery records the outcome of one push attempt.
type Delivery struct {
	ID     uuid.UUID
	JobID  uuid.UUID
	UserID UserID
	Title  string
	Status DeliveryStatus
	Error  string
	At     time.Time
}
