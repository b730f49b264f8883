package domain

import "time"

// CourierStatus represents the status of a courier.
type CourierStatus string

// Courier represents a courier record.
type Courier struct {
	ID           int64
	Name         string
	Phone        *string
	Email        *string
	Level        int
	Status       CourierStatus
	RegisteredAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Optional is a value taken from a write request.
// Set reports whether the key was present at all, Null whether it was
// explicitly null (blank strings are normalized to null before this point).
// Invalid holds the message for a value sent with the wrong JSON type.
type Optional[T any] struct {
	Set     bool
	Null    bool
	Invalid string
	Value   T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a present Optional holding null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Invalid returns a present Optional whose value could not be decoded.
func Invalid[T any](msg string) Optional[T] {
	return Optional[T]{Set: true, Invalid: msg}
}

// Present reports whether the key was sent with a usable non-null value.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null && o.Invalid == ""
}

// Ptr returns a pointer to the value, or nil when absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// CourierInput is a decoded create/update payload before validation.
type CourierInput struct {
	Name         Optional[string]
	Phone        Optional[string]
	Email        Optional[string]
	Level        Optional[int]
	Status       Optional[string]
	RegisteredAt Optional[string]
}

// PartialCourierUpdate carries validated changes for a courier.
// A nil pointer means “do not change” that attribute; Phone and Email
// use Optional because they can also be cleared.
type PartialCourierUpdate struct {
	ID           int64
	Name         *string
	Phone        Optional[string]
	Email        Optional[string]
	Level        *int
	Status       *CourierStatus
	RegisteredAt *time.Time
}

// Empty reports whether the update changes nothing.
func (u PartialCourierUpdate) Empty() bool {
	return u.Name == nil && !u.Phone.Set && !u.Email.Set &&
		u.Level == nil && u.Status == nil && u.RegisteredAt == nil
}
