package query

import (
	"slices"
)

// Set is the collection of active queries, holding at most one query per
// predicate name. A Set is never modified in place: With and Without return
// a new Set. Queries are kept in catalog order.
type Set struct {
	queries []Query
}

// NewSet builds a set from queries. Later queries replace earlier ones with
// the same predicate name.
func NewSet(queries ...Query) Set {
	s := Set{}
	for _, q := range queries {
		s = s.With(q)
	}
	return s
}

// With returns a set containing q, replacing any active query with the same
// predicate name.
func (s Set) With(q Query) Set {
	out := make([]Query, 0, len(s.queries)+1)
	for _, existing := range s.queries {
		if existing.Name() != q.Name() {
			out = append(out, existing)
		}
	}
	out = append(out, q)

	slices.SortStableFunc(out, func(a, b Query) int {
		return a.Definition.order - b.Definition.order
	})
	return Set{queries: out}
}

// Without returns a set with the query for name removed.
func (s Set) Without(name string) Set {
	out := make([]Query, 0, len(s.queries))
	for _, existing := range s.queries {
		if existing.Name() != name {
			out = append(out, existing)
		}
	}
	return Set{queries: out}
}

func (s Set) Get(name string) (Query, bool) {
	for _, q := range s.queries {
		if q.Name() == name {
			return q, true
		}
	}
	return Query{}, false
}

// Queries returns the active queries in catalog order.
func (s Set) Queries() []Query {
	return slices.Clone(s.queries)
}

func (s Set) Len() int {
	return len(s.queries)
}

func (s Set) IsEmpty() bool {
	return len(s.queries) == 0
}
