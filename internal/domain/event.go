package domain

import "time"

// CourierEventType names a courier change.
type CourierEventType string

// Courier change events.
const (
	CourierCreated CourierEventType = "courier.created"
	CourierUpdated CourierEventType = "courier.updated"
	CourierDeleted CourierEventType = "courier.deleted"
)

// CourierEvent is emitted after a courier write has been committed.
// Courier is nil for deletions.
type CourierEvent struct {
	Type       CourierEventType
	CourierID  int64
	Courier    *Courier
	OccurredAt time.Time
}
