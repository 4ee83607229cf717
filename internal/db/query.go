package db

import (
	"fmt"
	"strings"
)

// Args accumulates positional query arguments and hands out their $N
// placeholders.
type Args struct {
	values []any
}

// Add appends v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

// Values returns the accumulated arguments in placeholder order.
func (a *Args) Values() []any {
	return a.values
}

// Len returns the number of accumulated arguments.
func (a *Args) Len() int {
	return len(a.values)
}

// Clause is a SQL boolean expression over the job_postings table, aliased j.
// SQL appends any arguments it needs to args and returns the expression text.
type Clause interface {
	SQL(args *Args) string
}

// whereSQL renders c as a WHERE clause, or "" when c is nil.
func whereSQL(c Clause, args *Args) string {
	if c == nil {
		return ""
	}
	expr := strings.TrimSpace(c.SQL(args))
	if expr == "" {
		return ""
	}
	return "WHERE " + expr
}

// EscapeLike escapes LIKE/ILIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ContainsPattern returns an ILIKE pattern matching any value containing s.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
