package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"service-courier/internal/domain"
)

var jsonNull = []byte("null")

// toInput decodes every known field. Type mismatches travel inside the
// Optional so they are reported together with the other validation errors.
func (p rawPayload) toInput() domain.CourierInput {
	return domain.CourierInput{
		Name:         p.optString("name"),
		Phone:        p.optString("phone"),
		Email:        p.optString("email"),
		Level:        p.optInt("level"),
		Status:       p.optString("status"),
		RegisteredAt: p.optString("registered_at"),
	}
}

// optString trims the value and treats a blank string as null.
func (p rawPayload) optString(key string) domain.Optional[string] {
	raw, ok := p[key]
	if !ok {
		return domain.Optional[string]{}
	}
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return domain.Null[string]()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Invalid[string](fmt.Sprintf("The %s field must be a string.", key))
	}
	if s = strings.TrimSpace(s); s == "" {
		return domain.Null[string]()
	}
	return domain.Some(s)
}

// optInt accepts a JSON integer or a string holding one.
func (p rawPayload) optInt(key string) domain.Optional[int] {
	raw, ok := p[key]
	if !ok {
		return domain.Optional[int]{}
	}
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return domain.Null[int]()
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return domain.Some(n)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return domain.Null[int]()
		}
		if n, err := strconv.Atoi(s); err == nil {
			return domain.Some(n)
		}
	}
	return domain.Invalid[int](fmt.Sprintf("The %s field must be an integer.", key))
}

func modelToResponse(c domain.Courier) courierDTO {
	return courierDTO{
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

func modelsToResponse(list []domain.Courier) []courierDTO {
	out := make([]courierDTO, 0, len(list))
	for _, c := range list {
		out = append(out, modelToResponse(c))
	}
	return out
}
