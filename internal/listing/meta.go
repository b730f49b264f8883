package listing

// Meta is the pagination metadata of the listing envelope.
// From and To are 1-based item indexes and are nil for an empty page.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Count       int   `json:"count"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

// Page is one page of results with its metadata.
type Page[T any] struct {
	Items []T
	Meta  Meta
}

// NewPage wraps the items fetched for plan, given the total number of matches.
func NewPage[T any](plan Plan, items []T, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Meta: NewMeta(plan, len(items), total)}
}

// NewMeta computes pagination metadata for a page holding count items.
func NewMeta(plan Plan, count int, total int64) Meta {
	perPage := max(plan.PerPage, 1)
	m := Meta{
		CurrentPage: max(plan.Page, 1),
		PerPage:     perPage,
		Count:       count,
		Total:       total,
		TotalPages:  totalPages(total, perPage),
	}
	if count > 0 {
		from := plan.Offset() + 1
		to := plan.Offset() + count
		m.From, m.To = &from, &to
	}
	return m
}

// totalPages is ceil(total/perPage), never less than 1.
func totalPages(total int64, perPage int) int {
	pp := int64(perPage)
	pages := int((total + pp - 1) / pp)
	return max(pages, 1)
}
