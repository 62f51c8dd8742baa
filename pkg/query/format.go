package query

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatValue renders the query value the way the user entered it. Meter-unit
// values are converted back from millimeters with decimal arithmetic so that
// "0.1" round-trips through 100 to "0.1".
func FormatValue(q Query) string {
	if q.Definition.Unit == UnitMeters {
		return decimal.NewFromFloat(q.Value).Shift(-3).String()
	}
	return strconv.FormatFloat(q.Value, 'f', -1, 64)
}

// Label is the display text of an active query. Boolean predicates show the
// prefix only.
func Label(q Query) string {
	if q.Definition.Kind == Boolean {
		return q.Definition.Prefix
	}
	return q.Definition.Prefix + FormatValue(q) + q.Definition.Suffix
}
