package querier

import (
	"fmt"
	"strings"
)

// Assignments collects column = value pairs for a partial UPDATE.
type Assignments struct {
	columns []string
	args    []any
}

func (a *Assignments) Set(column string, value any) {
	a.columns = append(a.columns, column)
	a.args = append(a.args, value)
}

func (a *Assignments) Len() int {
	return len(a.columns)
}

// UpdateSQL renders UPDATE table SET ... WHERE id = $n. extra is appended
// verbatim to the SET list (e.g. "updated_at = now()").
func (a *Assignments) UpdateSQL(table, id string, extra ...string) (string, []any) {
	parts := make([]string, 0, len(a.columns)+len(extra))
	for i, column := range a.columns {
		parts = append(parts, fmt.Sprintf("%s = $%d", column, i+1))
	}
	parts = append(parts, extra...)
	args := append(append([]any{}, a.args...), id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(parts, ", "), len(args))
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns term into an ILIKE pattern matching it as a literal
// substring.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// NullIfEmpty maps "" to SQL NULL.
func NullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
