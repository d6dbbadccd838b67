// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package sqlfilter translates RQL queries into SQLite WHERE clauses so that a
// local copy of API resources can be filtered with the same expressions that
// are sent to the API.
//
// Values are always passed as named arguments; only the column expressions
// configured in [Columns] and the table name are written into the SQL.
package sqlfilter

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rqlkit/rql"
)

// ErrUnsupported is returned for queries that have no SQL translation, such
// as fields without a column or the all() and any() quantifiers.
var ErrUnsupported = errors.New("unsupported query")

// Columns maps RQL field paths, such as "product.id", to SQL column
// expressions. Only mapped fields can be used in a query.
type Columns map[string]string

// Translator turns queries into SQL for a fixed set of columns.
type Translator struct {
	columns Columns
}

// New returns a Translator for the given columns. The map is copied.
func New(columns Columns) *Translator {
	t := &Translator{columns: Columns{}}
	for field, column := range columns {
		t.columns[field] = column
	}
	return t
}

// Where returns the condition for q and its named arguments. The empty query
// returns an empty condition; the caller is expected to leave out the WHERE
// keyword in that case.
func (t *Translator) Where(q *rql.Query) (string, []any, error) {
	b := newWhereBuilder(t.columns)
	if err := b.write(q); err != nil {
		return "", nil, fmt.Errorf("cannot translate %s: %w", q, err)
	}
	return b.sql.String(), b.namedInputs, nil
}

// Select returns a SELECT statement over table filtered by q. The selected
// columns, ordering and paging are taken from p: fields in p.Select (or all
// mapped fields sorted by name when empty) are selected in order, fields in
// p.Order prefixed with "-" sort descending.
func (t *Translator) Select(table string, q *rql.Query, p rql.Params) (string, []any, error) {
	where, args, err := t.Where(q)
	if err != nil {
		return "", nil, err
	}

	fields := p.Select
	if len(fields) == 0 {
		fields = make([]string, 0, len(t.columns))
		for field := range t.columns {
			fields = append(fields, field)
		}
		sort.Strings(fields)
	}

	var s strings.Builder
	s.WriteString("SELECT ")
	for i, field := range fields {
		column, ok := t.columns[field]
		if !ok {
			return "", nil, fmt.Errorf("cannot select %q: %w: unknown field", field, ErrUnsupported)
		}
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(column)
	}
	s.WriteString(" FROM ")
	s.WriteString(table)
	if where != "" {
		s.WriteString(" WHERE ")
		s.WriteString(where)
	}
	for i, field := range p.Order {
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		column, ok := t.columns[field]
		if !ok {
			return "", nil, fmt.Errorf("cannot order by %q: %w: unknown field", field, ErrUnsupported)
		}
		if i == 0 {
			s.WriteString(" ORDER BY ")
		} else {
			s.WriteString(", ")
		}
		s.WriteString(column)
		if desc {
			s.WriteString(" DESC")
		}
	}
	if p.Limit > 0 || p.Offset > 0 {
		limit := p.Limit
		if limit <= 0 {
			// SQLite requires a LIMIT before OFFSET.
			limit = -1
		}
		s.WriteString(" LIMIT " + strconv.Itoa(limit) + " OFFSET " + strconv.Itoa(p.Offset))
	}
	return s.String(), args, nil
}

// whereBuilder accumulates the SQL and the named inputs of a condition.
type whereBuilder struct {
	columns Columns
	sql     strings.Builder
	// namedInputs are the named input values corresponding to the
	// placeholders in the SQL.
	namedInputs []any
}

func newWhereBuilder(columns Columns) *whereBuilder {
	return &whereBuilder{columns: columns, namedInputs: []any{}}
}

// addInput writes a placeholder for val and records its named input.
func (b *whereBuilder) addInput(val any) {
	name := "rql_" + strconv.Itoa(len(b.namedInputs))
	b.namedInputs = append(b.namedInputs, sql.Named(name, val))
	b.sql.WriteString("@" + name)
}

func (b *whereBuilder) column(field string) (string, error) {
	column, ok := b.columns[field]
	if !ok {
		return "", fmt.Errorf("%w: unknown field %q", ErrUnsupported, field)
	}
	return column, nil
}

func (b *whereBuilder) write(q *rql.Query) error {
	switch op := q.Op(); op {
	case rql.OpEmpty:
		return nil
	case rql.OpAnd, rql.OpOr:
		sep := " AND "
		if op == rql.OpOr {
			sep = " OR "
		}
		b.sql.WriteByte('(')
		for i, child := range q.Children() {
			if i > 0 {
				b.sql.WriteString(sep)
			}
			if err := b.write(child); err != nil {
				return err
			}
		}
		b.sql.WriteByte(')')
		return nil
	case rql.OpNot:
		b.sql.WriteString("NOT (")
		if err := b.write(q.Children()[0]); err != nil {
			return err
		}
		b.sql.WriteByte(')')
		return nil
	case rql.OpAll, rql.OpAny:
		return fmt.Errorf("%w: %s() over array fields", ErrUnsupported, op)
	}

	column, err := b.column(q.Field())
	if err != nil {
		return err
	}
	switch op := q.Op(); op {
	case rql.OpLike, rql.OpILike:
		return b.writeLike(column, op, q.Value().Text())
	case rql.OpIn, rql.OpOut:
		return b.writeIn(column, op, q.Value().Items())
	}
	return b.writeComparison(column, q.Op(), q.Value())
}

var comparisonOps = map[rql.Op]string{
	rql.OpEq: " = ",
	rql.OpNe: " <> ",
	rql.OpGt: " > ",
	rql.OpGe: " >= ",
	rql.OpLe: " <= ",
	rql.OpLt: " < ",
}

func (b *whereBuilder) writeComparison(column string, op rql.Op, v rql.Value) error {
	switch v.Kind() {
	case rql.KindFunc:
		return b.writeFunc(column, op, v.Text())
	case rql.KindProperty:
		other, err := b.column(v.Text())
		if err != nil {
			return err
		}
		b.sql.WriteString(column + comparisonOps[op] + other)
		return nil
	}
	b.sql.WriteString(column + comparisonOps[op])
	b.addInput(v.Text())
	return nil
}

// writeFunc translates comparisons with null() and empty(). Only eq and ne are
// meaningful for them.
func (b *whereBuilder) writeFunc(column string, op rql.Op, name string) error {
	if op != rql.OpEq && op != rql.OpNe {
		return fmt.Errorf("%w: %s() with %s", ErrUnsupported, name, op)
	}
	eq := op == rql.OpEq
	switch {
	case name == "null" && eq:
		b.sql.WriteString(column + " IS NULL")
	case name == "null":
		b.sql.WriteString(column + " IS NOT NULL")
	case name == "empty" && eq:
		b.sql.WriteString("(" + column + " IS NULL OR " + column + " = '')")
	case name == "empty":
		b.sql.WriteString("(" + column + " IS NOT NULL AND " + column + " <> '')")
	default:
		return fmt.Errorf("%w: function %s()", ErrUnsupported, name)
	}
	return nil
}

// writeLike uses GLOB for like, which is case sensitive and shares the "*"
// wildcard, and LIKE for ilike.
func (b *whereBuilder) writeLike(column string, op rql.Op, pattern string) error {
	if op == rql.OpLike {
		b.sql.WriteString(column + " GLOB ")
		b.addInput(globPattern(pattern))
		return nil
	}
	b.sql.WriteString(column + " LIKE ")
	b.addInput(likePattern(pattern))
	b.sql.WriteString(` ESCAPE '\'`)
	return nil
}

func (b *whereBuilder) writeIn(column string, op rql.Op, items []string) error {
	if len(items) == 0 {
		// Nothing is in an empty list.
		if op == rql.OpIn {
			b.sql.WriteString("0")
		} else {
			b.sql.WriteString("1")
		}
		return nil
	}
	b.sql.WriteString(column)
	if op == rql.OpOut {
		b.sql.WriteString(" NOT")
	}
	b.sql.WriteString(" IN (")
	for i, item := range items {
		if i > 0 {
			b.sql.WriteString(", ")
		}
		b.addInput(unquote(item))
	}
	b.sql.WriteByte(')')
	return nil
}

// globPattern keeps "*" as the wildcard and escapes the other GLOB
// metacharacters.
func globPattern(pattern string) string {
	var s strings.Builder
	for _, r := range pattern {
		switch r {
		case '?', '[', ']':
			s.WriteByte('[')
			s.WriteRune(r)
			s.WriteByte(']')
		default:
			s.WriteRune(r)
		}
	}
	return s.String()
}

// likePattern turns "*" into "%" and escapes the LIKE metacharacters.
func likePattern(pattern string) string {
	var s strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			s.WriteByte('%')
		case '%', '_', '\\':
			s.WriteByte('\\')
			s.WriteRune(r)
		default:
			s.WriteRune(r)
		}
	}
	return s.String()
}

// unquote removes the quotes around list items parsed from quoted text.
func unquote(item string) string {
	if len(item) >= 2 && item[0] == '\'' && item[len(item)-1] == '\'' {
		return item[1 : len(item)-1]
	}
	return item
}
