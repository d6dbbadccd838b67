// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package rql

import (
	"fmt"
	"strings"

	"github.com/rqlkit/rql/internal/convert"
)

// keywordOps are the operator suffixes recognised in keyword names. "oneof"
// is an alias of "in".
var keywordOps = map[string]Op{
	"eq":    OpEq,
	"ne":    OpNe,
	"gt":    OpGt,
	"ge":    OpGe,
	"le":    OpLe,
	"lt":    OpLt,
	"like":  OpLike,
	"ilike": OpILike,
	"in":    OpIn,
	"out":   OpOut,
	"oneof": OpIn,
}

// KV is a keyword and its value. See [F] for the keyword syntax.
type KV struct {
	Name  string
	Value any
}

// F builds a comparison from a keyword and a value. The keyword is a field
// path with segments separated by "__", optionally followed by an operator:
//
//	F("status", "active")              // eq(status,'active')
//	F("product__id__ne", "PRD-1")      // ne(product.id,'PRD-1')
//	F("status__in", []string{"a","b"}) // in(status,(a,b))
//
// Without an operator suffix the comparison is "eq".
func F(name string, value any) (*Query, error) {
	tokens := strings.Split(name, "__")
	op := OpEq
	if len(tokens) > 1 {
		if kop, ok := keywordOps[tokens[len(tokens)-1]]; ok {
			op = kop
			tokens = tokens[:len(tokens)-1]
		}
	}
	return newLeaf(op, strings.Join(tokens, "."), value)
}

// New builds one comparison per keyword and joins them with "and", in order.
// New with no arguments returns the empty query.
func New(kvs ...KV) (*Query, error) {
	q := Empty()
	for _, kv := range kvs {
		leaf, err := F(kv.Name, kv.Value)
		if err != nil {
			return nil, err
		}
		q = q.And(leaf)
	}
	return q, nil
}

// Must returns q or panics if err is not nil. It is intended for queries built
// from constants.
func Must(q *Query, err error) *Query {
	if err != nil {
		panic(err)
	}
	return q
}

func newLeaf(op Op, field string, value any) (*Query, error) {
	if field == "" {
		return nil, fmt.Errorf("%w for %s", ErrEmptyPath, op)
	}
	if strings.HasPrefix(field, "'") || strings.ContainsAny(field, delimiters) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, field)
	}
	v, err := leafValue(op, value)
	if err != nil {
		return nil, fmt.Errorf("cannot build %s(%s,...): %w", op, field, err)
	}
	return newNode(op, field, v, nil), nil
}

// leafValue converts a Go value into the Value written for op.
func leafValue(op Op, value any) (Value, error) {
	v, isValue := value.(Value)
	switch {
	case op == OpIn || op == OpOut:
		if isValue {
			if v.kind != KindList {
				return Value{}, fmt.Errorf("%w: %s needs a list", ErrInvalidValue, op)
			}
			return v, checkItems(v.items)
		}
		items, err := convert.Items(value)
		if err != nil {
			return Value{}, err
		}
		return List(items...), checkItems(items)
	case op == OpLike || op == OpILike:
		if isValue {
			switch v.kind {
			case KindQuoted:
				return v, checkQuoted(v.text)
			case KindRaw:
				return v, checkText(v.text)
			case KindProperty:
				return raw(v.text), checkText(v.text)
			}
			return Value{}, fmt.Errorf("%w: %s needs a pattern", ErrInvalidValue, op)
		}
		text, err := convert.Text(value)
		if err != nil {
			return Value{}, err
		}
		return raw(text), checkText(text)
	}

	if isValue {
		switch v.kind {
		case KindQuoted, KindFunc:
			return v, nil
		case KindProperty, KindRaw:
			return Prop(v.text), checkText(v.text)
		}
		return Value{}, fmt.Errorf("%w: %s needs a single value", ErrInvalidValue, op)
	}
	text, err := convert.Text(value)
	if err != nil {
		return Value{}, err
	}
	return Quoted(text), checkQuoted(text)
}

// delimiters end a bare token.
const delimiters = ",()"

// checkText rejects unquoted text that would not survive a round trip.
func checkText(text string) error {
	switch {
	case text == "":
		return fmt.Errorf("%w: empty unquoted value", ErrInvalidValue)
	case strings.HasPrefix(text, "'"):
		return fmt.Errorf("%w: unquoted value %q starts with a quote", ErrInvalidValue, text)
	case strings.ContainsAny(text, delimiters):
		return fmt.Errorf("%w: unquoted value %q contains one of %q", ErrInvalidValue, text, delimiters)
	}
	return nil
}

// checkQuoted rejects quoted text holding a quote that would close it early.
func checkQuoted(text string) error {
	if strings.Contains(text, "',") || strings.Contains(text, "')") {
		return fmt.Errorf("%w: quoted value %q closes its quote early", ErrInvalidValue, text)
	}
	return nil
}

// checkItems accepts bare items and items already written between quotes.
func checkItems(items []string) error {
	for i, item := range items {
		if len(item) >= 2 && item[0] == '\'' && item[len(item)-1] == '\'' {
			if err := checkQuoted(item[1 : len(item)-1]); err != nil {
				return fmt.Errorf("list item %d: %w", i, err)
			}
			continue
		}
		if err := checkText(item); err != nil {
			return fmt.Errorf("list item %d: %w", i, err)
		}
	}
	return nil
}
