// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package parse

import (
	"strings"
)

// Node is an element of the syntax tree produced by the parser. The tree only
// records the shape of the input; deciding what a call means is left to the
// caller.
type Node interface {
	// String returns a representation of the node for debugging and testing
	// purposes.
	String() string

	// Pos returns the byte offset of the node in the input.
	Pos() int

	// node is a marker method.
	node()
}

// Call represents "name(arg,...)". Args is empty for "name()".
type Call struct {
	Name string
	Args []Node
	pos  int
}

func (c *Call) String() string {
	var b strings.Builder
	b.WriteString("Call[")
	b.WriteString(c.Name)
	for _, arg := range c.Args {
		b.WriteByte(' ')
		b.WriteString(arg.String())
	}
	b.WriteByte(']')
	return b.String()
}

func (c *Call) Pos() int { return c.pos }

// Marker function for Node.
func (c *Call) node() {}

// List represents a parenthesised list of scalars, "(a,b,...)".
type List struct {
	Items []*Scalar
	pos   int
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteString("List[")
	for i, item := range l.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item.String())
	}
	b.WriteByte(']')
	return b.String()
}

func (l *List) Pos() int { return l.pos }

// Marker function for Node.
func (l *List) node() {}

// Scalar is a single token, either between single quotes or bare.
type Scalar struct {
	// Text does not include the surrounding quotes.
	Text   string
	Quoted bool
	pos    int
}

func (s *Scalar) String() string {
	if s.Quoted {
		return "Quoted[" + s.Text + "]"
	}
	return "Bare[" + s.Text + "]"
}

func (s *Scalar) Pos() int { return s.pos }

// Marker function for Node.
func (s *Scalar) node() {}
