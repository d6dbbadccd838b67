// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package rql

// And returns the conjunction of q and o.
//
// The empty query is the identity and q.And(q) is q. Operands that are
// themselves "and" nodes are flattened, and repeated children are dropped
// keeping the first occurrence, so the children of the result keep the order
// in which they were first seen. When a single child remains it is returned
// on its own.
func (q *Query) And(o *Query) *Query {
	return combine(OpAnd, q, o)
}

// Or returns the disjunction of q and o. It follows the same rules as And,
// flattening only "or" operands.
func (q *Query) Or(o *Query) *Query {
	return combine(OpOr, q, o)
}

// Not returns the negation of q. Double negations are kept as they are. The
// negation of the empty query is the empty query.
func (q *Query) Not() *Query {
	return wrap(OpNot, q)
}

// All holds when q holds for every element of the array field it refers to.
func (q *Query) All() *Query {
	return wrap(OpAll, q)
}

// Any holds when q holds for at least one element of the array field it
// refers to.
func (q *Query) Any() *Query {
	return wrap(OpAny, q)
}

// And joins all the queries with [Query.And], left to right.
func And(qs ...*Query) *Query {
	return fold(OpAnd, qs)
}

// Or joins all the queries with [Query.Or], left to right.
func Or(qs ...*Query) *Query {
	return fold(OpOr, qs)
}

// Not is the same as q.Not().
func Not(q *Query) *Query {
	return q.Not()
}

func fold(op Op, qs []*Query) *Query {
	result := Empty()
	for _, q := range qs {
		result = combine(op, result, q)
	}
	return result
}

func wrap(op Op, q *Query) *Query {
	q = q.node()
	if q.op == OpEmpty {
		return q
	}
	return newNode(op, "", Value{}, []*Query{q})
}

func combine(op Op, a, b *Query) *Query {
	a, b = a.node(), b.node()
	if a.op == OpEmpty {
		return b
	}
	if b.op == OpEmpty {
		return a
	}
	if a.Equal(b) {
		return a
	}

	children := make([]*Query, 0, len(a.children)+len(b.children)+2)
	children = appendFlat(children, op, a)
	children = appendFlat(children, op, b)
	children = dedup(children)
	if len(children) == 1 {
		return children[0]
	}
	return newNode(op, "", Value{}, children)
}

// appendFlat appends the children of q if it is an op node, or q itself.
func appendFlat(children []*Query, op Op, q *Query) []*Query {
	if q.op == op {
		return append(children, q.children...)
	}
	return append(children, q)
}

// dedup removes structurally equal repeats, keeping the first occurrence. The
// input slice is reused.
func dedup(children []*Query) []*Query {
	seen := make(map[uint64][]*Query, len(children))
	out := children[:0]
next:
	for _, child := range children {
		for _, s := range seen[child.hash] {
			if s.Equal(child) {
				continue next
			}
		}
		seen[child.hash] = append(seen[child.hash], child)
		out = append(out, child)
	}
	return out
}
