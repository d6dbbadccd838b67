// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package rql

import (
	"encoding/binary"
	"errors"

	"github.com/dchest/siphash"

	"github.com/rqlkit/rql/internal/convert"
)

// ErrInvalidValue is returned when a value cannot be used with an operator,
// for example a map in a comparison or a string given to "in".
var ErrInvalidValue = convert.ErrUnsupported

// ErrEvaluated is returned when navigating from a query that has already been
// materialised into a comparison.
var ErrEvaluated = errors.New("expression already evaluated")

// ErrEmptyPath is returned when a comparison is built without a field.
var ErrEmptyPath = errors.New("empty field path")

// ErrInvalidPath is returned when a field path holds characters that cannot
// be written back as RQL, such as ',' or '('.
var ErrInvalidPath = errors.New("invalid field path")

// ErrParse is wrapped by every error returned from [Parse].
var ErrParse = errors.New("cannot parse expression")

// Op is the operator of a query node.
type Op uint8

const (
	OpEmpty Op = iota
	OpEq
	OpNe
	OpGt
	OpGe
	OpLe
	OpLt
	OpLike
	OpILike
	OpIn
	OpOut
	OpNot
	OpAnd
	OpOr
	OpAll
	OpAny
)

var opNames = [...]string{
	OpEmpty: "",
	OpEq:    "eq",
	OpNe:    "ne",
	OpGt:    "gt",
	OpGe:    "ge",
	OpLe:    "le",
	OpLt:    "lt",
	OpLike:  "like",
	OpILike: "ilike",
	OpIn:    "in",
	OpOut:   "out",
	OpNot:   "not",
	OpAnd:   "and",
	OpOr:    "or",
	OpAll:   "all",
	OpAny:   "any",
}

// String returns the RQL function name of the operator.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "invalid"
}

// IsLeaf reports whether nodes with this operator compare a field with a value.
func (op Op) IsLeaf() bool {
	return op >= OpEq && op <= OpOut
}

// isScalar reports whether the operator compares against a single value.
func (op Op) isScalar() bool {
	return op >= OpEq && op <= OpLt
}

func lookupOp(name string) (Op, bool) {
	for op, n := range opNames {
		if n != "" && n == name {
			return Op(op), true
		}
	}
	return OpEmpty, false
}

// Query is an immutable RQL expression tree. A Query is either empty, a
// comparison of a field with a value, or a combination of other queries.
//
// Queries are never modified after construction and can be shared between
// goroutines. A nil *Query behaves like [Empty].
type Query struct {
	op       Op
	field    string
	value    Value
	children []*Query
	hash     uint64
}

var empty = newNode(OpEmpty, "", Value{}, nil)

// Empty returns the empty query. It serialises to "" and is the identity of
// [Query.And] and [Query.Or].
func Empty() *Query {
	return empty
}

// newNode builds a node and computes its structural hash. The children slice
// is owned by the node from then on.
func newNode(op Op, field string, value Value, children []*Query) *Query {
	q := &Query{op: op, field: field, value: value, children: children}
	q.hash = q.computeHash()
	return q
}

// node returns q, or the empty query if q is nil.
func (q *Query) node() *Query {
	if q == nil {
		return empty
	}
	return q
}

// Op returns the operator of the root node.
func (q *Query) Op() Op {
	return q.node().op
}

// Field returns the dotted field path of a comparison, or "".
func (q *Query) Field() string {
	return q.node().field
}

// Value returns the value of a comparison. The zero Value is returned for
// other nodes.
func (q *Query) Value() Value {
	return q.node().value
}

// Children returns a copy of the operands of a combinator node.
func (q *Query) Children() []*Query {
	q = q.node()
	if len(q.children) == 0 {
		return nil
	}
	return append([]*Query(nil), q.children...)
}

// IsEmpty reports whether q is the empty query.
func (q *Query) IsEmpty() bool {
	return q.node().op == OpEmpty
}

// Hash returns the structural hash of the query. Equal queries have equal
// hashes.
func (q *Query) Hash() uint64 {
	return q.node().hash
}

// Equal reports whether q and o have the same structure: the same operator,
// field, value and children in the same order.
func (q *Query) Equal(o *Query) bool {
	q, o = q.node(), o.node()
	if q == o {
		return true
	}
	if q.hash != o.hash || q.op != o.op || q.field != o.field ||
		!q.value.Equal(o.value) || len(q.children) != len(o.children) {
		return false
	}
	for i := range q.children {
		if !q.children[i].Equal(o.children[i]) {
			return false
		}
	}
	return true
}

// SipHash keys for the structural hash. Hashes are not persisted so the keys
// only need to be fixed for the lifetime of the process.
const (
	k0, k1 = 0x72716c2d6b657930, 0x72716c2d6b657931
)

func (q *Query) computeHash() uint64 {
	var buf []byte
	buf = append(buf, byte(q.op))
	buf = appendString(buf, q.field)
	buf = append(buf, byte(q.value.kind))
	buf = appendString(buf, q.value.text)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(q.value.items)))
	for _, item := range q.value.items {
		buf = appendString(buf, item)
	}
	for _, child := range q.children {
		buf = binary.LittleEndian.AppendUint64(buf, child.hash)
	}
	return siphash.Hash(k0, k1, buf)
}

// appendString appends s prefixed with its length so that adjacent strings
// cannot be confused.
func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}
