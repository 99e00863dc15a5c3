package querybuilder

import (
	"fmt"
	"strings"
)

// QueryBuilder assembles parameterized SELECT statements for the history
// listing endpoints. Clauses use "?" placeholders; Build renumbers them into
// the $n form Postgres expects.
type QueryBuilder interface {
	Select(cols ...string) QueryBuilder
	From(table string) QueryBuilder
	Where(clause string, args ...interface{}) QueryBuilder
	And(clause string, args ...interface{}) QueryBuilder
	OrderBy(col string, asc bool) QueryBuilder
	Limit(n int) QueryBuilder
	Build() (string, []interface{})
}

type condition struct {
	clause string
	args   []interface{}
}

type queryBuilder struct {
	schema     string
	table      string
	cols       []string
	conditions []condition
	orderBy    []string
	limit      int
}

func NewQueryBuilder(schema string) QueryBuilder {
	return &queryBuilder{
		schema: schema,
	}
}

func (q *queryBuilder) Select(cols ...string) QueryBuilder {
	q.cols = append(q.cols, cols...)
	return q
}

func (q *queryBuilder) From(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Where(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, condition{clause: clause, args: args})
	return q
}

func (q *queryBuilder) And(clause string, args ...interface{}) QueryBuilder {
	return q.Where(clause, args...)
}

func (q *queryBuilder) OrderBy(col string, asc bool) QueryBuilder {
	orderVector := "ASC"
	if !asc {
		orderVector = "DESC"
	}
	q.orderBy = append(q.orderBy, fmt.Sprintf("%s %s", col, orderVector))
	return q
}

func (q *queryBuilder) Limit(n int) QueryBuilder {
	q.limit = n
	return q
}

func (q *queryBuilder) Build() (string, []interface{}) {
	query := fmt.Sprintf("SELECT %s FROM %s.%s", strings.Join(q.cols, ", "), q.schema, q.table)

	args := make([]interface{}, 0)
	if len(q.conditions) > 0 {
		parts := make([]string, 0, len(q.conditions))
		for _, cond := range q.conditions {
			parts = append(parts, cond.clause)
			args = append(args, cond.args...)
		}
		query += fmt.Sprintf(" WHERE %s", strings.Join(parts, " AND "))
	}

	if len(q.orderBy) > 0 {
		query += fmt.Sprintf(" ORDER BY %s", strings.Join(q.orderBy, ", "))
	}

	if q.limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.limit)
	}

	return numberPlaceholders(query), args
}

// numberPlaceholders rewrites each "?" into sequential $1, $2, ...
func numberPlaceholders(query string) string {
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
