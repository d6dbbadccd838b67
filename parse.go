// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package rql

import (
	"fmt"

	"github.com/rqlkit/rql/internal/parse"
)

// Parse reads RQL text back into a query. For any query q built with this
// package, Parse(q.String()) returns a query equal to q. The empty string
// parses to the empty query.
//
// Errors wrap [ErrParse] and report the column of the offending input. The
// parse either succeeds or fails as a whole.
func Parse(s string) (*Query, error) {
	if s == "" {
		return Empty(), nil
	}
	if q, ok := queryCache.get(s); ok {
		return q, nil
	}

	call, err := parse.NewParser().Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err)
	}
	q, err := fromCall(call)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err)
	}
	return queryCache.put(s, q), nil
}

// MustParse is the same as [Parse] except that it panics on error.
func MustParse(s string) *Query {
	q, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return q
}

// fromCall converts a parsed call into a query node.
func fromCall(call *parse.Call) (*Query, error) {
	if call.Name == "null" || call.Name == "empty" {
		return nil, parse.ErrorAt(call.Pos(), "%s() can only be used as a value", call.Name)
	}
	op, ok := lookupOp(call.Name)
	if !ok {
		return nil, parse.ErrorAt(call.Pos(), "unknown function %q", call.Name)
	}

	switch {
	case op.IsLeaf():
		return leafFromCall(op, call)
	case op == OpAnd || op == OpOr:
		if len(call.Args) == 0 {
			return nil, parse.ErrorAt(call.Pos(), "%s() needs at least one argument", op)
		}
		q := Empty()
		for _, arg := range call.Args {
			child, err := childFromArg(op, arg)
			if err != nil {
				return nil, err
			}
			q = combine(op, q, child)
		}
		return q, nil
	default:
		if len(call.Args) != 1 {
			return nil, parse.ErrorAt(call.Pos(), "%s() needs exactly one argument, got %d", op, len(call.Args))
		}
		child, err := childFromArg(op, call.Args[0])
		if err != nil {
			return nil, err
		}
		return wrap(op, child), nil
	}
}

func childFromArg(op Op, arg parse.Node) (*Query, error) {
	call, ok := arg.(*parse.Call)
	if !ok {
		return nil, parse.ErrorAt(arg.Pos(), "arguments of %s() must be expressions", op)
	}
	return fromCall(call)
}

func leafFromCall(op Op, call *parse.Call) (*Query, error) {
	if len(call.Args) != 2 {
		return nil, parse.ErrorAt(call.Pos(), "%s() needs a field and a value, got %d arguments", op, len(call.Args))
	}
	field, ok := call.Args[0].(*parse.Scalar)
	if !ok || field.Quoted {
		return nil, parse.ErrorAt(call.Args[0].Pos(), "first argument of %s() must be a field name", op)
	}

	arg := call.Args[1]
	var value Value
	switch arg := arg.(type) {
	case *parse.Scalar:
		switch {
		case op == OpIn || op == OpOut:
			return nil, parse.ErrorAt(arg.Pos(), "%s() needs a list", op)
		case arg.Quoted:
			value = Quoted(arg.Text)
		case op.isScalar():
			value = Prop(arg.Text)
		default:
			value = raw(arg.Text)
		}
	case *parse.List:
		if op != OpIn && op != OpOut {
			return nil, parse.ErrorAt(arg.Pos(), "%s() does not take a list", op)
		}
		items := make([]string, len(arg.Items))
		for i, item := range arg.Items {
			items[i] = item.Text
			if item.Quoted {
				items[i] = "'" + item.Text + "'"
			}
		}
		value = List(items...)
	case *parse.Call:
		if !op.isScalar() || (arg.Name != "null" && arg.Name != "empty") {
			return nil, parse.ErrorAt(arg.Pos(), "unexpected call to %q in %s()", arg.Name, op)
		}
		if len(arg.Args) != 0 {
			return nil, parse.ErrorAt(arg.Pos(), "%s() takes no arguments", arg.Name)
		}
		value = Func(arg.Name)
	}
	return newNode(op, field.Text, value, nil), nil
}
