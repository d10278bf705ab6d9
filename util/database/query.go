package database

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
)

// Dialect builds prepared ($n) Postgres statements.
var Dialect = goqu.Dialect("postgres")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns a LIKE pattern matching s anywhere, with s's own
// wildcards escaped.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// PageQuery is a filtered dataset split into a count and a page read.
type PageQuery struct {
	From    *goqu.SelectDataset
	CountOn string
	Columns []any
	Order   []exp.OrderedExpression
	Limit   int
	Offset  int
}

// Run counts the matching rows, then reads one page and hands the rows to
// scan.
func (p PageQuery) Run(ctx context.Context, q Querier, scan func(pgx.Rows) error) (total int, err error) {
	countSQL, countArgs, err := p.From.Select(goqu.COUNT(goqu.I(p.CountOn))).Prepared(true).ToSQL()
	if err != nil {
		return 0, err
	}
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return 0, err
	}

	listSQL, listArgs, err := p.From.Select(p.Columns...).
		Order(p.Order...).
		Limit(uint(p.Limit)).
		Offset(uint(p.Offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, err
	}
	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return 0, err
		}
	}
	return total, rows.Err()
}
