// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package rql

import (
	"strings"

	"github.com/rqlkit/rql/internal/convert"
)

// ValueKind tells how a Value is written in an expression.
type ValueKind uint8

const (
	// KindNone is the kind of the zero Value, held by non comparison nodes.
	KindNone ValueKind = iota
	// KindQuoted is a literal written between single quotes: 'text'.
	KindQuoted
	// KindProperty names another field and is written unquoted.
	KindProperty
	// KindList is a parenthesised list of unquoted items: (a,b).
	KindList
	// KindFunc is a function call without arguments such as null().
	KindFunc
	// KindRaw is text written verbatim, used for like patterns.
	KindRaw
)

// Value is the right hand side of a comparison.
type Value struct {
	kind  ValueKind
	text  string
	items []string
}

// Date is a calendar date. It is written as YYYY-MM-DD.
type Date = convert.Date

// DateOf returns the calendar date of a time.
var DateOf = convert.DateOf

// Quoted returns a literal value. It is always written between single quotes,
// even when it looks like a field name or a number.
func Quoted(text string) Value {
	return Value{kind: KindQuoted, text: text}
}

// Prop returns a reference to another field. It is written unquoted so the
// API compares against that field rather than a literal.
func Prop(path string) Value {
	return Value{kind: KindProperty, text: path}
}

// List returns a list value for "in" and "out".
func List(items ...string) Value {
	return Value{kind: KindList, items: append([]string{}, items...)}
}

// Func returns a call to an argumentless function, such as null().
func Func(name string) Value {
	return Value{kind: KindFunc, text: name}
}

func raw(text string) Value {
	return Value{kind: KindRaw, text: text}
}

// Kind returns the kind of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Text returns the unquoted text of a scalar value or the name of a function.
func (v Value) Text() string {
	return v.text
}

// Items returns a copy of the items of a list value.
func (v Value) Items() []string {
	if v.kind != KindList {
		return nil
	}
	return append([]string{}, v.items...)
}

// Equal reports whether both values have the same kind and text.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.text != o.text || len(v.items) != len(o.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// String returns the value as written in an expression.
func (v Value) String() string {
	var b strings.Builder
	v.writeTo(&b)
	return b.String()
}

func (v Value) writeTo(b *strings.Builder) {
	switch v.kind {
	case KindQuoted:
		b.WriteByte('\'')
		b.WriteString(v.text)
		b.WriteByte('\'')
	case KindProperty, KindRaw:
		b.WriteString(v.text)
	case KindList:
		b.WriteByte('(')
		b.WriteString(strings.Join(v.items, ","))
		b.WriteByte(')')
	case KindFunc:
		b.WriteString(v.text)
		b.WriteString("()")
	}
}
