package querybuilder

import (
	"fmt"
	"strings"

	"fitfam/internal/apperror"
)

// Syntax renders the comparisons whose spelling differs between databases
type Syntax interface {
	PartialMatch(column string) string
	DateEquals(column string) string
}

// Fragment is a piece of SQL and the arguments for its placeholders, in order
type Fragment struct {
	SQL  string
	Args []any
}

// Builder hands out placeholders while collecting their arguments.
// The n-th placeholder written always refers to the n-th argument.
type Builder struct {
	args []any
}

// Bind appends value and returns its placeholder
func (b *Builder) Bind(value any) string {
	b.args = append(b.args, value)
	return "?"
}

// Args returns the arguments bound so far
func (b *Builder) Args() []any {
	return b.args
}

// BuildInsert renders "(c1, c2) VALUES (?, ?)" for every recognised field in data
func BuildInsert(data Values, fields FieldMap) (Fragment, error) {
	var b Builder
	var columns, placeholders []string

	for _, name := range data.names {
		field, ok := fields.Lookup(name)
		if !ok {
			continue
		}
		columns = append(columns, field.Column)
		placeholders = append(placeholders, b.Bind(data.values[name]))
	}

	if len(columns) == 0 {
		return Fragment{}, apperror.EmptyInput("No data")
	}

	sql := fmt.Sprintf("(%s) VALUES (%s)", strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	return Fragment{SQL: sql, Args: b.Args()}, nil
}

// BuildFilter renders "WHERE ..." with one AND'd condition per recognised field.
// An empty filter renders an empty fragment.
func BuildFilter(syntax Syntax, data Values, fields FieldMap) Fragment {
	var b Builder
	conditions := filterConditions(&b, syntax, data, fields)
	if len(conditions) == 0 {
		return Fragment{}
	}
	return Fragment{SQL: "WHERE " + strings.Join(conditions, " AND "), Args: b.Args()}
}

// BuildFilterInto appends the AND'd conditions for data to b and returns them unjoined
func BuildFilterInto(b *Builder, syntax Syntax, data Values, fields FieldMap) []string {
	return filterConditions(b, syntax, data, fields)
}

func filterConditions(b *Builder, syntax Syntax, data Values, fields FieldMap) []string {
	var conditions []string
	for _, name := range data.names {
		field, ok := fields.Lookup(name)
		if !ok {
			continue
		}
		value := data.values[name]

		switch field.Mode {
		case PartialMatch:
			b.Bind(Contains(value))
			conditions = append(conditions, syntax.PartialMatch(field.Column))
		case DateEquals:
			b.Bind(value)
			conditions = append(conditions, syntax.DateEquals(field.Column))
		default:
			conditions = append(conditions, field.Column+" = "+b.Bind(value))
		}
	}
	return conditions
}

// BuildUpdate renders "SET c1 = ?, c2 = ?" for every recognised field in data
func BuildUpdate(data Values, fields FieldMap) (Fragment, error) {
	var b Builder
	var assignments []string

	for _, name := range data.names {
		field, ok := fields.Lookup(name)
		if !ok {
			continue
		}
		assignments = append(assignments, field.Column+" = "+b.Bind(data.values[name]))
	}

	if len(assignments) == 0 {
		return Fragment{}, apperror.EmptyInput("No data")
	}

	return Fragment{SQL: "SET " + strings.Join(assignments, ", "), Args: b.Args()}, nil
}

// Contains wraps value for a partial match
func Contains(value any) string {
	return fmt.Sprintf("%%%v%%", value)
}
