package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
)

// Postgres implements Store over database/sql with the pq driver.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) SelectWhere(ctx context.Context, table string, pred Pred) ([]Row, error) {
	where, args := buildWhere(pred)
	query := fmt.Sprintf("SELECT * FROM %s%s", pq.QuoteIdentifier(table), where)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("select "+table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, classify("select "+table, err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, classify("select "+table, err)
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("select "+table, err)
	}
	return out, nil
}

func (p *Postgres) InsertMany(ctx context.Context, table string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	query, args := buildInsert(table, rows)
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return classify("insert "+table, err)
	}
	return nil
}

func (p *Postgres) UpsertMany(ctx context.Context, table string, rows []Row, conflictKeys []string) error {
	if len(rows) == 0 {
		return nil
	}
	query, args := buildInsert(table, rows)

	cols := sortedColumns(rows[0])
	keys := make(map[string]bool, len(conflictKeys))
	quotedKeys := make([]string, 0, len(conflictKeys))
	for _, k := range conflictKeys {
		keys[k] = true
		quotedKeys = append(quotedKeys, pq.QuoteIdentifier(k))
	}
	var updates []string
	for _, col := range cols {
		if !keys[col] {
			q := pq.QuoteIdentifier(col)
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", q, q))
		}
	}

	if len(updates) == 0 {
		query += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(quotedKeys, ", "))
	} else {
		query += fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s",
			strings.Join(quotedKeys, ", "), strings.Join(updates, ", "))
	}

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return classify("upsert "+table, err)
	}
	return nil
}

func (p *Postgres) DeleteWhere(ctx context.Context, table string, pred Pred) error {
	where, args := buildWhere(pred)
	query := fmt.Sprintf("DELETE FROM %s%s", pq.QuoteIdentifier(table), where)
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return classify("delete "+table, err)
	}
	return nil
}

func buildWhere(pred Pred) (string, []any) {
	if len(pred) == 0 {
		return "", nil
	}
	cols := make([]string, 0, len(pred))
	for col := range pred {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	clauses := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for i, col := range cols {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(col), i+1))
		args = append(args, pred[col])
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// buildInsert builds a multi-row INSERT with a deterministic column
// order. All rows in one call must share the same column set.
func buildInsert(table string, rows []Row) (string, []any) {
	cols := sortedColumns(rows[0])
	quoted := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = pq.QuoteIdentifier(col)
	}

	var args []any
	placeholders := make([]string, 0, len(rows))
	n := 1
	for _, row := range rows {
		marks := make([]string, len(cols))
		for i, col := range cols {
			marks[i] = fmt.Sprintf("$%d", n)
			args = append(args, row[col])
			n++
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		pq.QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	return query, args
}

func sortedColumns(row Row) []string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}
