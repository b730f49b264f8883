package domain

// List of possible courier statuses
const (
	StatusActive   CourierStatus = "active"
	StatusInactive CourierStatus = "inactive"
)

// DefaultStatus is assigned when a create request omits status.
const DefaultStatus = StatusActive

var allowedStatuses = [...]CourierStatus{
	StatusActive, StatusInactive,
}

// Valid checks if the CourierStatus is valid
func (s CourierStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Level bounds for storage.
const (
	MinLevel = 1
	MaxLevel = 5
)

// filterableLevels are the only levels the listing endpoint filters on.
var filterableLevels = [...]int{2, 3}

// ValidLevel checks that a level can be stored.
func ValidLevel(l int) bool {
	return l >= MinLevel && l <= MaxLevel
}

// FilterableLevel reports whether the listing may filter by this level.
func FilterableLevel(l int) bool {
	for _, v := range filterableLevels {
		if l == v {
			return true
		}
	}
	return false
}
