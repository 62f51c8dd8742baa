package query

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ParseValues reads the active set from query-string parameters. A predicate
// is matched by its exact name first and by its lowercased name second.
// Unknown keys are ignored. Invalid numeric values are reported as a joined
// ErrInvalidInput error while the valid entries are still returned.
func ParseValues(c *Catalog, values url.Values) (Set, error) {
	set := Set{}
	var errs []error

	for _, def := range c.defs {
		raw, ok := lookupValue(values, def.Name)
		if !ok {
			continue
		}

		if def.Kind == Boolean {
			// Booleans switch on with any parseable value.
			if _, err := ParseValue(raw); err != nil {
				continue
			}
		}

		q, err := c.Build(def.Name, raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		set = set.With(q)
	}

	return set, errors.Join(errs...)
}

// ParseQuery parses a raw query string such as "MaxPrice=100000&IsDripProof=0".
func ParseQuery(c *Catalog, rawQuery string) (Set, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return Set{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return ParseValues(c, values)
}

func lookupValue(values url.Values, name string) (string, bool) {
	if v, ok := values[name]; ok && len(v) > 0 {
		return v[0], true
	}
	if v, ok := values[strings.ToLower(name)]; ok && len(v) > 0 {
		return v[0], true
	}
	return "", false
}

// EncodeQuery serializes set as "Name=value&Name2=value2" in catalog order.
// Values are written in display form so ParseQuery restores the same set.
func EncodeQuery(set Set) string {
	parts := make([]string, 0, set.Len())
	for _, q := range set.queries {
		parts = append(parts, url.QueryEscape(q.Name())+"="+url.QueryEscape(FormatValue(q)))
	}
	return strings.Join(parts, "&")
}

// ShareURL appends the encoded set to base.
func ShareURL(base string, set Set) string {
	if set.IsEmpty() {
		return base
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + EncodeQuery(set)
}
