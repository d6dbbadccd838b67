/*
Package rql builds, prints and parses RQL (Resource Query Language) filter
expressions, the query syntax used in the URLs of list endpoints:

	GET /v1/orders?and(eq(status,'active'),in(product.id,(PRD-1,PRD-2)))&order=-created

# Basics

A filter is an immutable [Query]. Comparisons are built from keywords, where
"__" separates the segments of a field path and an optional operator suffix
picks the comparison:

	active := rql.Must(rql.F("status", "active"))             // eq(status,'active')
	recent := rql.Must(rql.F("audit__created__at__gt", since)) // gt(audit.created.at,'2024-01-02T00:00:00+00:00')
	picked := rql.Must(rql.F("product__id__in", ids))          // in(product.id,(PRD-1,PRD-2))

or with a [Path], which is convenient when several comparisons share a prefix:

	product := rql.P("product")
	q, err := product.N("name").ILike("*cloud*")               // ilike(product.name,*cloud*)

Queries are combined with [Query.And], [Query.Or] and [Query.Not]:

	q := active.And(recent).Or(picked.Not())

Combining is normalised: the empty query is the identity, a query combined
with itself is returned unchanged, nested "and" (or "or") nodes are flattened
and repeated children are dropped. Equal inputs therefore always produce the
same text, in the order the operands were given.

# Values

Scalar comparisons (eq, ne, gt, ge, le, lt) quote their value:

	rql.F("amount__gt", 10)                      // gt(amount,'10')

To compare with another field use [Prop], whose value is written unquoted:

	rql.F("updated__gt", rql.Prop("created"))    // gt(updated,created)

Patterns for like and ilike, and the items of in and out lists, are written
unquoted. Booleans are written as true/false and times and dates as ISO-8601.

# Text

[Query.String] returns the RQL text and [Parse] reads it back; for every
query built by this package, Parse(q.String()) is equal to q. [Query.Build]
and [Request] add the ordering, selection and paging parameters expected by
list endpoints.
*/
package rql
