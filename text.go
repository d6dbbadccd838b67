// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package rql

import (
	"strings"
)

// String returns the RQL text of the query. The empty query is "".
func (q *Query) String() string {
	var b strings.Builder
	q.node().writeTo(&b)
	return b.String()
}

func (q *Query) writeTo(b *strings.Builder) {
	switch {
	case q.op == OpEmpty:
	case q.op.IsLeaf():
		b.WriteString(q.op.String())
		b.WriteByte('(')
		b.WriteString(q.field)
		b.WriteByte(',')
		q.value.writeTo(b)
		b.WriteByte(')')
	default:
		b.WriteString(q.op.String())
		b.WriteByte('(')
		for i, child := range q.children {
			if i > 0 {
				b.WriteByte(',')
			}
			child.writeTo(b)
		}
		b.WriteByte(')')
	}
}

// GoString returns a short description of the query for debugging.
// Comparisons include their text, combinators only their operator.
func (q *Query) GoString() string {
	q = q.node()
	switch {
	case q.op == OpEmpty:
		return "<RQLQuery(empty)>"
	case q.op.IsLeaf():
		return "<RQLQuery(expr) " + q.String() + ">"
	}
	return "<RQLQuery(" + q.op.String() + ")>"
}

// Len returns the number of comparisons in the query: 0 for the empty query,
// 1 for a comparison, the sum over the children for "and" and "or", and the
// count of the single child for "not", "all" and "any".
func (q *Query) Len() int {
	q = q.node()
	if q.op == OpEmpty {
		return 0
	}
	if q.op.IsLeaf() {
		return 1
	}
	n := 0
	for _, child := range q.children {
		n += child.Len()
	}
	return n
}
