// Package listing turns raw listing query parameters into a query plan and
// shapes pagination metadata for the response envelope.
//
// Composition never fails: every malformed parameter falls back to a
// documented default instead of rejecting the request.
package listing

import "net/url"

// Query parameter names.
const (
	ParamSearch    = "search"
	ParamLevel     = "level"
	ParamSort      = "sort"
	ParamDirection = "direction"
	ParamPerPage   = "per_page"
	ParamPage      = "page"
)

// Params are the raw, untrusted listing parameters. Empty means absent.
type Params struct {
	Search    string
	Level     string
	Sort      string
	Direction string
	PerPage   string
	Page      string
}

// ParamsFromQuery extracts listing parameters from a URL query string.
func ParamsFromQuery(q url.Values) Params {
	return Params{
		Search:    q.Get(ParamSearch),
		Level:     q.Get(ParamLevel),
		Sort:      q.Get(ParamSort),
		Direction: q.Get(ParamDirection),
		PerPage:   q.Get(ParamPerPage),
		Page:      q.Get(ParamPage),
	}
}
