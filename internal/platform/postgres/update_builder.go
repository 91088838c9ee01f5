package postgres

import (
	"fmt"
	"strings"
)

// updateBuilder assembles "UPDATE t SET a = $1, b = $2 WHERE ..." from the
// fields a partial form actually sets.
type updateBuilder struct {
	table string
	sets  []string
	where []string
	args  []any
}

func newUpdate(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

func (b *updateBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// set adds column = value.
func (b *updateBuilder) set(column string, value any) *updateBuilder {
	b.sets = append(b.sets, column+" = "+b.arg(value))
	return b
}

// setCast adds column = value::typ, for values bound as text literals.
func (b *updateBuilder) setCast(column string, value any, typ string) *updateBuilder {
	b.sets = append(b.sets, column+" = "+b.arg(value)+"::"+typ)
	return b
}

// setIf adds the column when value is non-nil. The pointed-to value is
// bound, so a set-but-empty optional text column is written as ''.
func setIf[T any](b *updateBuilder, column string, value *T) {
	if value != nil {
		b.set(column, *value)
	}
}

func (b *updateBuilder) whereEq(column string, value any) *updateBuilder {
	b.where = append(b.where, column+" = "+b.arg(value))
	return b
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// build renders the statement. Callers check empty() first.
func (b *updateBuilder) build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(b.sets, ", "))
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	return sb.String(), b.args
}
