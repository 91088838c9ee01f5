package postgres

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// intArrayScanner decodes an INT[] column. database/sql hands arrays over
// in their text form, which pgtype parses.
func intArrayScanner(dest *[]int32) interface{ Scan(src any) error } {
	return pgtype.NewMap().SQLScanner(dest)
}

// intArrayLiteral renders ids as a Postgres array literal, bound as text
// and cast to int[] in the statement.
func intArrayLiteral(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func toInts(ids []int32) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
