// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package rql

import (
	"net/url"
	"strconv"
	"strings"
)

// Params are the query string parameters that travel next to the filter
// expression in a request URL.
type Params struct {
	// Order lists the sort fields; a leading "-" sorts descending.
	Order []string
	// Select lists the fields to include in (or, with "-", exclude from) the
	// response.
	Select []string
	// Limit is the page size. Zero leaves it to the server.
	Limit int
	// Offset is the index of the first item of the page. It is written
	// whenever Limit or Offset is set.
	Offset int
	// Extra holds any other parameters. They are URL encoded and sorted by
	// key.
	Extra url.Values
}

// Build returns the query string for q and p, including the leading "?":
//
//	?eq(status,'active')&order=created&select=id,name&limit=10&offset=0
//
// Parts that are not set are left out; the result is "" when nothing is set.
func (q *Query) Build(p Params) string {
	var parts []string
	if s := q.String(); s != "" {
		parts = append(parts, s)
	}
	if len(p.Order) > 0 {
		parts = append(parts, "order="+strings.Join(p.Order, ","))
	}
	if len(p.Select) > 0 {
		parts = append(parts, "select="+strings.Join(p.Select, ","))
	}
	if p.Limit > 0 {
		parts = append(parts, "limit="+strconv.Itoa(p.Limit))
	}
	if p.Limit > 0 || p.Offset > 0 {
		parts = append(parts, "offset="+strconv.Itoa(p.Offset))
	}
	if extra := p.Extra.Encode(); extra != "" {
		parts = append(parts, extra)
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

// Request accumulates the state a service builds up before issuing a list
// call: a filter, ordering, field selection and paging. Each method returns
// a modified copy and leaves the receiver unchanged.
type Request struct {
	filter *Query
	params Params
}

// NewRequest returns a request with no filter and no parameters.
func NewRequest() Request {
	return Request{filter: Empty()}
}

// Filter joins q to the current filter with "and".
func (r Request) Filter(q *Query) Request {
	r.filter = r.filter.And(q)
	return r
}

// Order replaces the sort fields.
func (r Request) Order(fields ...string) Request {
	r.params.Order = append([]string(nil), fields...)
	return r
}

// Select replaces the selected fields.
func (r Request) Select(fields ...string) Request {
	r.params.Select = append([]string(nil), fields...)
	return r
}

// Page sets the page size and offset.
func (r Request) Page(limit, offset int) Request {
	r.params.Limit = limit
	r.params.Offset = offset
	return r
}

// Set sets an extra parameter, replacing any previous value of key.
func (r Request) Set(key, value string) Request {
	extra := url.Values{}
	for k, vs := range r.params.Extra {
		extra[k] = append([]string(nil), vs...)
	}
	extra.Set(key, value)
	r.params.Extra = extra
	return r
}

// Query returns the accumulated filter.
func (r Request) Query() *Query {
	return r.filter.node()
}

// Params returns a copy of the accumulated parameters.
func (r Request) Params() Params {
	p := r.params
	p.Order = append([]string(nil), p.Order...)
	p.Select = append([]string(nil), p.Select...)
	if p.Extra != nil {
		extra := url.Values{}
		for k, vs := range p.Extra {
			extra[k] = append([]string(nil), vs...)
		}
		p.Extra = extra
	}
	return p
}

// String returns the query string of the request, see [Query.Build].
func (r Request) String() string {
	return r.filter.Build(r.params)
}
