package shared

import (
	"strconv"
	"strings"
)

// Where accumulates AND-ed predicates with positional arguments.
type Where struct {
	clauses []string
	args    []any
}

// Add appends a predicate; every "?" in cond is replaced by the next
// placeholder bound to the same arg.
func (w *Where) Add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(w.args))))
}

// AddSearch matches term case-insensitively against any of columns.
func (w *Where) AddSearch(term string, columns ...string) {
	if term == "" || len(columns) == 0 {
		return
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE ?"
	}
	w.Add("("+strings.Join(parts, " OR ")+")", "%"+term+"%")
}

// SQL renders the WHERE clause, or an empty string.
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// Args returns the bound arguments.
func (w *Where) Args() []any {
	return w.args
}

// Page appends LIMIT/OFFSET placeholders and returns the suffix and full args.
func (w *Where) Page(f ListFilters) (string, []any) {
	if f.Limit <= 0 {
		return "", w.args
	}
	n := len(w.args)
	args := append(append([]any{}, w.args...), f.Limit, f.Offset())
	return " LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2), args
}

// SortOrder whitelists sortBy against columns, falling back to def.
func SortOrder(sortBy, sortDir string, columns map[string]string, def string) string {
	dir := "ASC"
	if sortDir == SortDesc {
		dir = "DESC"
	}
	col, ok := columns[sortBy]
	if !ok {
		col = def
	}
	return col + " " + dir + ", id " + dir
}
