package kafka

import (
	"time"

	"service-courier/internal/domain"
)

// EventDTO is the JSON payload of a courier change event.
type EventDTO struct {
	Type       string      `json:"type"`
	CourierID  int64       `json:"courier_id"`
	Courier    *CourierDTO `json:"courier,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// CourierDTO is the courier snapshot carried by created/updated events.
type CourierDTO struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Phone        *string   `json:"phone"`
	Email        *string   `json:"email"`
	Level        int       `json:"level"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FromDomain converts a domain event into its wire form.
func FromDomain(e domain.CourierEvent) EventDTO {
	dto := EventDTO{
		Type:       string(e.Type),
		CourierID:  e.CourierID,
		OccurredAt: e.OccurredAt.UTC(),
	}
	if c := e.Courier; c != nil {
		dto.Courier = &CourierDTO{
			ID:           c.ID,
			Name:         c.Name,
			Phone:        c.Phone,
			Email:        c.Email,
			Level:        c.Level,
			Status:       string(c.Status),
			RegisteredAt: c.RegisteredAt.UTC(),
			CreatedAt:    c.CreatedAt.UTC(),
			UpdatedAt:    c.UpdatedAt.UTC(),
		}
	}
	return dto
}
