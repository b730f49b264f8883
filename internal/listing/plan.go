package listing

import "math"

// SortField is a column the listing can be ordered by.
type SortField string

// Sortable columns.
const (
	SortName         SortField = "name"
	SortRegisteredAt SortField = "registered_at"
)

// Direction is an ordering direction.
type Direction string

// Ordering directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Page size bounds.
const (
	DefaultPerPage = 15
	MinPerPage     = 1
	MaxPerPage     = 100
)

// Plan is a fully resolved listing query.
// Terms are ANDed substring matches on name; an empty Levels means no level filter.
// Results are always ordered by Sort/Direction, then by id ascending.
type Plan struct {
	Terms     []string
	Levels    []int
	Sort      SortField
	Direction Direction
	PerPage   int
	Page      int
}

// DefaultPlan is the plan for a request without any parameters.
func DefaultPlan() Plan {
	return Plan{
		Sort:      SortName,
		Direction: Asc,
		PerPage:   DefaultPerPage,
		Page:      1,
	}
}

// Offset returns the number of rows skipped before the current page.
// It saturates instead of overflowing for plans not built by Compose.
func (p Plan) Offset() int {
	if p.Page <= 1 || p.PerPage <= 0 {
		return 0
	}
	if p.Page-1 > (math.MaxInt-MaxPerPage)/p.PerPage {
		return math.MaxInt - MaxPerPage
	}
	return (p.Page - 1) * p.PerPage
}
