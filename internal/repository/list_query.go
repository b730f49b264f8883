package repository

import (
	"strconv"
	"strings"

	"service-courier/internal/listing"
)

// queryBuilder collects AND-ed conditions and their positional arguments.
type queryBuilder struct {
	conds []string
	args  []any
}

// arg registers a value and returns its placeholder.
func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *queryBuilder) where(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *queryBuilder) whereClause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// predicateBuilder adds the conditions for one part of a listing plan.
type predicateBuilder func(b *queryBuilder, plan listing.Plan)

var listPredicates = []predicateBuilder{
	searchPredicate,
	levelPredicate,
}

// searchPredicate requires name to contain every term, case-insensitively.
func searchPredicate(b *queryBuilder, plan listing.Plan) {
	for _, term := range plan.Terms {
		b.where("name ILIKE " + b.arg("%"+escapeLike(term)+"%") + ` ESCAPE '\'`)
	}
}

func levelPredicate(b *queryBuilder, plan listing.Plan) {
	if len(plan.Levels) == 0 {
		return
	}
	b.where("level = ANY(" + b.arg(plan.Levels) + ")")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// orderBy renders the ORDER BY clause; id is the tie-break so pages are stable.
func orderBy(plan listing.Plan) string {
	col, dir := "name", "ASC"
	if plan.Sort == listing.SortRegisteredAt {
		col = "registered_at"
		if plan.Direction == listing.Desc {
			dir = "DESC"
		}
	}
	return " ORDER BY " + col + " " + dir + ", id ASC"
}

type listQuery struct {
	countSQL  string
	countArgs []any
	pageSQL   string
	pageArgs  []any
}

func buildListQuery(plan listing.Plan) listQuery {
	b := &queryBuilder{}
	for _, p := range listPredicates {
		p(b, plan)
	}
	where := b.whereClause()
	countArgs := append([]any(nil), b.args...)

	limit := b.arg(plan.PerPage)
	offset := b.arg(plan.Offset())

	return listQuery{
		countSQL:  "SELECT count(*) FROM couriers" + where,
		countArgs: countArgs,
		pageSQL: "SELECT " + courierColumns + " FROM couriers" + where + orderBy(plan) +
			" LIMIT " + limit + " OFFSET " + offset,
		pageArgs: b.args,
	}
}
