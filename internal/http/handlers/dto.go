package handlers

import (
	"encoding/json"
	"time"

	"service-courier/internal/listing"
)

type courierDTO struct {
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

type courierListResponse struct {
	Data []courierDTO `json:"data"`
	Meta listing.Meta `json:"meta"`
}

// courierRequest documents the write payload. Every key is optional on update;
// blank strings are treated as null.
type courierRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Level        *int    `json:"level"`
	Status       *string `json:"status" enums:"active,inactive"`
	RegisteredAt *string `json:"registered_at" example:"2024-01-02 15:04:05"`
}

// rawPayload keeps the request keys undecoded so absent, null and
// mistyped values can be told apart per field.
type rawPayload map[string]json.RawMessage
