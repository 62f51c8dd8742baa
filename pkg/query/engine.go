package query

import (
	"github.com/mwantia/lensdb/pkg/lens"
)

// Apply returns the records satisfying every query in set. An empty set
// returns records unchanged. Each step narrows the result of the previous
// one, so the outcome does not depend on the order queries were added.
func Apply(records []lens.Record, set Set) []lens.Record {
	return ApplyObserved(records, set, nil)
}

// ApplyObserved is Apply, calling observe for each query actually evaluated.
// Queries after the result became empty are skipped and not observed.
func ApplyObserved(records []lens.Record, set Set, observe func(Query)) []lens.Record {
	if set.IsEmpty() {
		return records
	}

	result := records
	for _, q := range set.queries {
		if observe != nil {
			observe(q)
		}
		result = q.Definition.Filter(result, q.Value)
		if len(result) == 0 {
			break
		}
	}
	return result
}
