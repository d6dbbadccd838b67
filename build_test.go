package rql_test

import (
	"net/url"

	. "gopkg.in/check.v1"

	"github.com/rqlkit/rql"
)

type BuildSuite struct{}

var _ = Suite(&BuildSuite{})

func (s *BuildSuite) TestBuild(c *C) {
	active := eq(c, "status", "active")
	tests := []struct {
		summary  string
		query    *rql.Query
		params   rql.Params
		expected string
	}{{
		summary:  "nothing",
		query:    rql.Empty(),
		expected: "",
	}, {
		summary:  "filter only",
		query:    active,
		expected: "?eq(status,'active')",
	}, {
		summary:  "order and select",
		query:    active,
		params:   rql.Params{Order: []string{"created"}, Select: []string{"id", "name"}},
		expected: "?eq(status,'active')&order=created&select=id,name",
	}, {
		summary:  "paging",
		query:    active,
		params:   rql.Params{Limit: 10},
		expected: "?eq(status,'active')&limit=10&offset=0",
	}, {
		summary:  "offset without limit",
		query:    rql.Empty(),
		params:   rql.Params{Offset: 20},
		expected: "?offset=20",
	}, {
		summary:  "descending order without filter",
		query:    nil,
		params:   rql.Params{Order: []string{"-created", "name"}},
		expected: "?order=-created,name",
	}, {
		summary: "extra parameters are encoded and sorted",
		query:   active,
		params: rql.Params{
			Select: []string{"-audit"},
			Limit:  5,
			Offset: 10,
			Extra:  url.Values{"z": {"1"}, "a": {"x y"}},
		},
		expected: "?eq(status,'active')&select=-audit&limit=5&offset=10&a=x+y&z=1",
	}}
	for i, t := range tests {
		c.Assert(t.query.Build(t.params), Equals, t.expected, Commentf("test %d failed (%s)", i, t.summary))
	}
}

func (s *BuildSuite) TestRequest(c *C) {
	base := rql.NewRequest().Filter(eq(c, "status", "active"))
	page := base.
		Filter(eq(c, "product__id", "PRD-1")).
		Order("-created").
		Select("id", "name").
		Page(50, 100)

	c.Assert(base.String(), Equals, "?eq(status,'active')")
	c.Assert(page.String(), Equals,
		"?and(eq(status,'active'),eq(product.id,'PRD-1'))&order=-created&select=id,name&limit=50&offset=100")
	c.Assert(page.Query().Len(), Equals, 2)

	// Adding the same filter twice has no effect.
	c.Assert(page.Filter(eq(c, "status", "active")).String(), Equals, page.String())

	withExtra := page.Set("render", "true")
	c.Assert(withExtra.String(), Equals, page.String()+"&render=true")
	c.Assert(page.Params().Extra, IsNil)

	params := withExtra.Params()
	params.Order[0] = "changed"
	params.Extra.Set("render", "false")
	c.Assert(withExtra.String(), Equals, page.String()+"&render=true")
}

func (s *BuildSuite) TestZeroRequest(c *C) {
	var r rql.Request
	c.Assert(r.String(), Equals, "")
	c.Assert(r.Query().IsEmpty(), Equals, true)
	c.Assert(r.Filter(eq(c, "a", 1)).String(), Equals, "?eq(a,'1')")
}
