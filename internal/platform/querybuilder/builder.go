package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition renders one predicate of a WHERE clause, binding its values as $n arguments.
type Condition interface {
	render(w *writer)
}

type writer struct {
	sql  strings.Builder
	args []any
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.sql.WriteString("$")
	w.sql.WriteString(strconv.Itoa(len(w.args)))
}

// expr copies s, replacing each '?' with the next bound value.
func (w *writer) expr(s string, values []any) {
	next := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '?' && next < len(values) {
			w.bind(values[next])
			next++
			continue
		}
		w.sql.WriteByte(s[i])
	}
}

type compare struct {
	column string
	op     string
	value  any
}

func (c compare) render(w *writer) {
	w.sql.WriteString(c.column)
	w.sql.WriteString(" ")
	w.sql.WriteString(c.op)
	w.sql.WriteString(" ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition  { return compare{column: column, op: "=", value: value} }
func Gte(column string, value any) Condition { return compare{column: column, op: ">=", value: value} }

type nullCheck struct {
	column string
	not    bool
}

func (c nullCheck) render(w *writer) {
	w.sql.WriteString(c.column)
	if c.not {
		w.sql.WriteString(" IS NOT NULL")
		return
	}
	w.sql.WriteString(" IS NULL")
}

func IsNull(column string) Condition  { return nullCheck{column: column} }
func NotNull(column string) Condition { return nullCheck{column: column, not: true} }

type rawCondition struct {
	sql  string
	args []any
}

func (c rawCondition) render(w *writer) { w.expr(c.sql, c.args) }

// Expr is a free-form predicate using '?' placeholders.
func Expr(sql string, args ...any) Condition {
	return rawCondition{sql: sql, args: args}
}

type SelectBuilder struct {
	columns []string
	from    string
	joins   []string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.from = table
	return b
}

func (b *SelectBuilder) Join(clause string) *SelectBuilder {
	b.joins = append(b.joins, "JOIN "+clause)
	return b
}

func (b *SelectBuilder) LeftJoin(clause string) *SelectBuilder {
	b.joins = append(b.joins, "LEFT JOIN "+clause)
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.from) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	w := &writer{}
	w.sql.WriteString("SELECT ")
	w.sql.WriteString(strings.Join(b.columns, ", "))
	w.sql.WriteString(" FROM ")
	w.sql.WriteString(b.from)
	for _, join := range b.joins {
		w.sql.WriteString(" ")
		w.sql.WriteString(join)
	}
	for i, cond := range b.where {
		if i == 0 {
			w.sql.WriteString(" WHERE ")
		} else {
			w.sql.WriteString(" AND ")
		}
		cond.render(w)
	}
	if len(b.orderBy) > 0 {
		w.sql.WriteString(" ORDER BY ")
		w.sql.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.sql.WriteString(" LIMIT ")
		w.sql.WriteString(strconv.Itoa(b.limit))
	}
	return w.sql.String(), w.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends a trailing clause such as ON CONFLICT or RETURNING.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	w := &writer{args: make([]any, 0, len(b.rows)*len(b.columns))}
	w.sql.WriteString("INSERT INTO ")
	w.sql.WriteString(b.table)
	w.sql.WriteString(" (")
	w.sql.WriteString(strings.Join(b.columns, ", "))
	w.sql.WriteString(") VALUES ")

	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			w.sql.WriteString(", ")
		}
		w.sql.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				w.sql.WriteString(", ")
			}
			w.bind(value)
		}
		w.sql.WriteString(")")
	}
	if b.suffix != "" {
		w.sql.WriteString(" ")
		w.sql.WriteString(b.suffix)
	}
	return w.sql.String(), w.args, nil
}
