package repositories

import (
	"fmt"
	"strings"

	"github.com/sampleapp/accounts/internal/core/domain/user"
)

// Condition is one atomic predicate contributed by a single present filter
// field: equality for one value, set-membership for several.
type Condition struct {
	Column string
	Values []any
}

// appendCondition adds a predicate for column when values are present. A
// nil or empty slice contributes nothing.
func appendCondition[T any](conds []Condition, column string, values []T) []Condition {
	if len(values) == 0 {
		return conds
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return append(conds, Condition{Column: column, Values: args})
}

func userConditions(f user.Filter) []Condition {
	var conds []Condition
	conds = appendCondition(conds, "id", f.IDs)
	conds = appendCondition(conds, "username", f.Usernames)
	conds = appendCondition(conds, "email", f.Emails)
	return conds
}

func tokenConditions(f user.TokenFilter) []Condition {
	var conds []Condition
	conds = appendCondition(conds, "id", f.IDs)
	conds = appendCondition(conds, "user_id", f.UserIDs)
	conds = appendCondition(conds, "token", f.Tokens)
	return conds
}

// whereOr renders the ordered predicate list into an OR-joined WHERE body
// with positional placeholders. Column names are code constants, every
// value travels as a query parameter. An empty list renders an empty
// clause; callers must have rejected that case already.
func whereOr(conds []Condition) (string, []any) {
	var sb strings.Builder
	var args []any
	for i, c := range conds {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		if len(c.Values) == 1 {
			args = append(args, c.Values[0])
			fmt.Fprintf(&sb, "%s = $%d", c.Column, len(args))
			continue
		}
		placeholders := make([]string, len(c.Values))
		for j, v := range c.Values {
			args = append(args, v)
			placeholders[j] = fmt.Sprintf("$%d", len(args))
		}
		fmt.Fprintf(&sb, "%s IN (%s)", c.Column, strings.Join(placeholders, ", "))
	}
	return sb.String(), args
}
