package rql_test

import (
	"errors"
	"fmt"
	"sync"
	"time"

	. "gopkg.in/check.v1"

	"github.com/rqlkit/rql"
)

type ParseSuite struct{}

var _ = Suite(&ParseSuite{})

func (s *ParseSuite) SetUpTest(c *C) {
	rql.ResetParseCache()
}

func (s *ParseSuite) TestRoundTripText(c *C) {
	inputs := []string{
		"",
		"eq(id,'ID')",
		"eq(field,other.field)",
		"ne(deleted,null())",
		"eq(description,empty())",
		"gt(created,'2024-01-02T03:04:05+00:00')",
		"like(name,*cloud*)",
		"ilike(name,'*quoted*')",
		"in(status,(a,b))",
		"out(status,())",
		"in(status,('a',b))",
		"not(eq(id,'ID'))",
		"not(not(eq(id,'ID')))",
		"and(eq(id,'ID'),in(status,(a,b)))",
		"or(and(eq(a,'1'),eq(b,'2')),eq(d,'3'))",
		"any(and(eq(lines.item.id,'ITM-1'),gt(lines.quantity,'2')))",
		"all(eq(tags.name,'x'))",
		"eq(name,'O'Brien')",
		"eq(name,'a,b')",
		"eq(名前,'日本')",
	}
	for i, input := range inputs {
		q, err := rql.Parse(input)
		c.Assert(err, IsNil, Commentf("test %d failed:\ninput: %s", i, input))
		c.Assert(q.String(), Equals, input, Commentf("test %d failed:\ninput: %s", i, input))
	}
}

func (s *ParseSuite) TestRoundTripBuilt(c *C) {
	a := eq(c, "id", "ID")
	b := eq(c, "status__in", []string{"a", "b"})
	d := eq(c, "price__gt", 10.5)
	nul, err := rql.P("parent").Null(false)
	c.Assert(err, IsNil)
	like := eq(c, "name__ilike", "*x y*")
	prop := eq(c, "updated__ge", rql.Prop("created"))
	date := eq(c, "due__lt", rql.DateOf(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)))
	apostrophe := eq(c, "name", "O'Brien")
	trailing := eq(c, "name", "it's'")
	comma := eq(c, "name", "a, b (c)")
	quotedItems := eq(c, "code__in", rql.List("'x'", "y", "''"))
	spaced := eq(c, "title__like", "*a b*")

	queries := []*rql.Query{
		rql.Empty(),
		a,
		a.And(b),
		a.Or(b).And(d),
		a.And(b).Or(d.Not()),
		a.Not().Not(),
		rql.And(a, b, d, nul, like, prop, date),
		rql.Or(a.Any(), b.All(), like.And(prop).Not()),
		rql.And(apostrophe, trailing, comma),
		rql.Or(quotedItems, spaced).Not(),
	}
	for i, q := range queries {
		parsed, err := rql.Parse(q.String())
		c.Assert(err, IsNil, Commentf("test %d failed:\ninput: %s", i, q))
		c.Assert(parsed.String(), Equals, q.String(), Commentf("test %d failed", i))
		c.Assert(parsed.Equal(q), Equals, true, Commentf("test %d failed:\ninput: %s", i, q))
		c.Assert(parsed.Hash(), Equals, q.Hash(), Commentf("test %d failed", i))
	}
}

func (s *ParseSuite) TestValueKinds(c *C) {
	q := rql.MustParse("and(eq(a,'x'),eq(b,x),like(c,x*),eq(d,null()),in(e,(1,2)))")
	children := q.Children()
	c.Assert(children, HasLen, 5)
	c.Assert(children[0].Value().Kind(), Equals, rql.KindQuoted)
	c.Assert(children[1].Value().Kind(), Equals, rql.KindProperty)
	c.Assert(children[2].Value().Kind(), Equals, rql.KindRaw)
	c.Assert(children[3].Value().Kind(), Equals, rql.KindFunc)
	c.Assert(children[3].Value().Text(), Equals, "null")
	c.Assert(children[4].Value().Kind(), Equals, rql.KindList)
	c.Assert(children[4].Value().Items(), DeepEquals, []string{"1", "2"})
}

func (s *ParseSuite) TestNormalises(c *C) {
	// Text not produced by this package is normalised through the same
	// algebra as built queries.
	c.Assert(rql.MustParse("and(eq(a,'1'))").String(), Equals, "eq(a,'1')")
	c.Assert(rql.MustParse("and(eq(a,'1'),eq(a,'1'),eq(b,'2'))").String(), Equals, "and(eq(a,'1'),eq(b,'2'))")
	c.Assert(rql.MustParse("and(and(eq(a,'1'),eq(b,'2')),eq(d,'3'))").String(), Equals, "and(eq(a,'1'),eq(b,'2'),eq(d,'3'))")
}

func (s *ParseSuite) TestParseErrors(c *C) {
	tests := []struct {
		input string
		err   string
	}{{
		input: "eq(id,'ID'",
		err:   `cannot parse expression: column 1: missing closing parenthesis in call to "eq"`,
	}, {
		input: "foo(id,'ID')",
		err:   `cannot parse expression: column 1: unknown function "foo"`,
	}, {
		input: "and(eq(a,'1'),bar(b))",
		err:   `cannot parse expression: column 15: unknown function "bar"`,
	}, {
		input: "and()",
		err:   `cannot parse expression: column 1: and\(\) needs at least one argument`,
	}, {
		input: "not()",
		err:   `cannot parse expression: column 1: not\(\) needs exactly one argument, got 0`,
	}, {
		input: "not(eq(a,'1'),eq(b,'2'))",
		err:   `cannot parse expression: column 1: not\(\) needs exactly one argument, got 2`,
	}, {
		input: "and(a,eq(b,'2'))",
		err:   `cannot parse expression: column 5: arguments of and\(\) must be expressions`,
	}, {
		input: "eq(a)",
		err:   `cannot parse expression: column 1: eq\(\) needs a field and a value, got 1 arguments`,
	}, {
		input: "eq()",
		err:   `cannot parse expression: column 1: eq\(\) needs a field and a value, got 0 arguments`,
	}, {
		input: "eq('a',b)",
		err:   `cannot parse expression: column 4: first argument of eq\(\) must be a field name`,
	}, {
		input: "in(a,b)",
		err:   `cannot parse expression: column 6: in\(\) needs a list`,
	}, {
		input: "eq(a,(b,c))",
		err:   `cannot parse expression: column 6: eq\(\) does not take a list`,
	}, {
		input: "eq(a,now())",
		err:   `cannot parse expression: column 6: unexpected call to "now" in eq\(\)`,
	}, {
		input: "like(a,null())",
		err:   `cannot parse expression: column 8: unexpected call to "null" in like\(\)`,
	}, {
		input: "eq(a,null(b))",
		err:   `cannot parse expression: column 6: null\(\) takes no arguments`,
	}, {
		input: "null()",
		err:   `cannot parse expression: column 1: null\(\) can only be used as a value`,
	}, {
		input: "eq(id,'ID') ",
		err:   `cannot parse expression: column 12: unexpected ' ' after expression`,
	}}
	for i, t := range tests {
		q, err := rql.Parse(t.input)
		c.Assert(err, ErrorMatches, t.err, Commentf("test %d failed:\ninput: %s", i, t.input))
		c.Assert(errors.Is(err, rql.ErrParse), Equals, true)
		c.Assert(q, IsNil)
	}
	c.Assert(rql.ParseCacheLen(), Equals, 0)
}

func (s *ParseSuite) TestMustParsePanics(c *C) {
	c.Assert(func() { rql.MustParse("eq(") }, PanicMatches, "cannot parse expression: .*")
}

func (s *ParseSuite) TestCache(c *C) {
	q1, err := rql.Parse("eq(a,'1')")
	c.Assert(err, IsNil)
	q2, err := rql.Parse("eq(a,'1')")
	c.Assert(err, IsNil)
	c.Assert(q1, Equals, q2)
	c.Assert(rql.ParseCacheLen(), Equals, 1)

	empty, err := rql.Parse("")
	c.Assert(err, IsNil)
	c.Assert(empty, Equals, rql.Empty())
	c.Assert(rql.ParseCacheLen(), Equals, 1)
}

func (s *ParseSuite) TestCacheEviction(c *C) {
	old := rql.SetParseCacheSize(2)
	defer rql.SetParseCacheSize(old)

	first := rql.MustParse("eq(a,'1')")
	rql.MustParse("eq(a,'2')")
	rql.MustParse("eq(a,'3')")
	c.Assert(rql.ParseCacheLen(), Equals, 2)

	again := rql.MustParse("eq(a,'1')")
	c.Assert(again == first, Equals, false)
	c.Assert(again.Equal(first), Equals, true)
	c.Assert(rql.ParseCacheLen(), Equals, 2)
}

func (s *ParseSuite) TestConcurrentParse(c *C) {
	const workers = 8
	var wg sync.WaitGroup
	results := make([][]*rql.Query, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				q, err := rql.Parse(fmt.Sprintf("and(eq(a,'%d'),in(b,(x,y)))", i))
				if err != nil {
					panic(err)
				}
				results[w] = append(results[w], q)
			}
		}(w)
	}
	wg.Wait()
	for w := 1; w < workers; w++ {
		for i := range results[w] {
			c.Assert(results[w][i], Equals, results[0][i])
		}
	}
}
