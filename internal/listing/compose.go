package listing

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"service-courier/internal/domain"
)

// Step resolves one aspect of the plan from the raw parameters.
type Step func(p Params, plan *Plan)

// DefaultSteps is the ordered list of steps Compose applies.
var DefaultSteps = []Step{
	SearchStep,
	LevelStep,
	SortStep,
	PerPageStep,
	PageStep,
}

// Compose builds a plan from raw parameters. With no steps given it uses DefaultSteps.
func Compose(p Params, steps ...Step) Plan {
	if len(steps) == 0 {
		steps = DefaultSteps
	}
	plan := DefaultPlan()
	for _, step := range steps {
		step(p, &plan)
	}
	return plan
}

// SearchStep splits the trimmed search string on whitespace into terms.
// Invalid UTF-8 and NUL bytes are dropped, postgres rejects both in text.
func SearchStep(p Params, plan *Plan) {
	plan.Terms = strings.Fields(sanitizeText(p.Search))
	if len(plan.Terms) == 0 {
		plan.Terms = nil
	}
}

func sanitizeText(s string) string {
	if utf8.ValidString(s) && !strings.ContainsRune(s, 0) {
		return s
	}
	return strings.ReplaceAll(strings.ToValidUTF8(s, ""), "\x00", "")
}

// LevelStep keeps the comma-separated levels that parse and are filterable.
// Nothing left means no level filter at all.
func LevelStep(p Params, plan *Plan) {
	plan.Levels = nil
	if strings.TrimSpace(p.Level) == "" {
		return
	}
	seen := make(map[int]struct{}, 2)
	for _, part := range strings.Split(p.Level, ",") {
		lvl, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || !domain.FilterableLevel(lvl) {
			continue
		}
		if _, dup := seen[lvl]; dup {
			continue
		}
		seen[lvl] = struct{}{}
		plan.Levels = append(plan.Levels, lvl)
	}
}

// SortStep orders by registered_at in the requested direction, otherwise by name ascending.
func SortStep(p Params, plan *Plan) {
	if SortField(p.Sort) != SortRegisteredAt {
		// direction only applies to registered_at
		plan.Sort, plan.Direction = SortName, Asc
		return
	}
	plan.Sort = SortRegisteredAt
	plan.Direction = ParseDirection(p.Direction)
}

// ParseDirection returns Desc for "desc" in any case and Asc for anything else.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// PerPageStep parses per_page (default 15) and clamps it to [1, 100].
// Integers too large for int saturate instead of falling back to the default.
func PerPageStep(p Params, plan *Plan) {
	plan.PerPage = ClampPerPage(atoiOr(p.PerPage, DefaultPerPage))
}

// ClampPerPage clamps n to [MinPerPage, MaxPerPage].
func ClampPerPage(n int) int {
	return max(MinPerPage, min(n, MaxPerPage))
}

// MaxPage keeps the row offset of any page within int.
const MaxPage = math.MaxInt / MaxPerPage

// PageStep parses page; missing, malformed and values below 1 give page 1.
// Pages above MaxPage are capped to it.
func PageStep(p Params, plan *Plan) {
	plan.Page = max(1, min(atoiOr(p.Page, 1), MaxPage))
}

// atoiOr parses s as an int. Out of range integers saturate to the int
// bounds, anything else that does not parse gives def.
func atoiOr(s string, def int) int {
	// при ErrRange Atoi уже возвращает значение, прижатое к границе int
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return n
	}
	return def
}
