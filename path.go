// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package rql

import (
	"fmt"
	"strings"
)

// Path accumulates a dotted field path and turns into a comparison when one
// of its terminal methods is called. Paths are immutable: N returns a new
// Path and leaves the receiver untouched, so a common prefix can be shared.
//
//	product := rql.P("product")
//	q, err := product.N("id").Eq("PRD-1") // eq(product.id,'PRD-1')
type Path struct {
	segments []string
}

// P returns a path made of the given segments. P() is the root path.
func P(segments ...string) *Path {
	return &Path{segments: append([]string(nil), segments...)}
}

// N returns a new path with segment appended.
func (p *Path) N(segment string) *Path {
	segments := make([]string, 0, len(p.segments)+1)
	segments = append(segments, p.segments...)
	return &Path{segments: append(segments, segment)}
}

// String returns the dotted path.
func (p *Path) String() string {
	return strings.Join(p.segments, ".")
}

func (p *Path) Eq(value any) (*Query, error) { return newLeaf(OpEq, p.String(), value) }
func (p *Path) Ne(value any) (*Query, error) { return newLeaf(OpNe, p.String(), value) }
func (p *Path) Gt(value any) (*Query, error) { return newLeaf(OpGt, p.String(), value) }
func (p *Path) Ge(value any) (*Query, error) { return newLeaf(OpGe, p.String(), value) }
func (p *Path) Le(value any) (*Query, error) { return newLeaf(OpLe, p.String(), value) }
func (p *Path) Lt(value any) (*Query, error) { return newLeaf(OpLt, p.String(), value) }

// Like matches the path against a pattern where "*" is a wildcard.
func (p *Path) Like(pattern any) (*Query, error) { return newLeaf(OpLike, p.String(), pattern) }

// ILike is the case insensitive version of Like.
func (p *Path) ILike(pattern any) (*Query, error) { return newLeaf(OpILike, p.String(), pattern) }

// In requires a slice, an array or a [List] value.
func (p *Path) In(values any) (*Query, error) { return newLeaf(OpIn, p.String(), values) }

// OneOf is an alias of In.
func (p *Path) OneOf(values any) (*Query, error) { return p.In(values) }

func (p *Path) Out(values any) (*Query, error) { return newLeaf(OpOut, p.String(), values) }

// Null compares the path with null(): eq when isNull is true, ne otherwise.
func (p *Path) Null(isNull bool) (*Query, error) {
	return p.function(isNull, "null")
}

// Empty compares the path with empty(): eq when isEmpty is true, ne
// otherwise.
func (p *Path) Empty(isEmpty bool) (*Query, error) {
	return p.function(isEmpty, "empty")
}

func (p *Path) function(flag bool, name string) (*Query, error) {
	op := OpNe
	if flag {
		op = OpEq
	}
	return newLeaf(op, p.String(), Func(name))
}

// N starts a path from the empty query. Any other query has already been
// evaluated and cannot be navigated; ErrEvaluated is returned for those.
func (q *Query) N(segment string) (*Path, error) {
	if !q.IsEmpty() {
		return nil, fmt.Errorf("%w: cannot navigate to %q from %s", ErrEvaluated, segment, q)
	}
	return P(segment), nil
}
