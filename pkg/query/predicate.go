package query

import (
	"fmt"

	"github.com/mwantia/lensdb/pkg/lens"
)

// Kind separates predicates that compare against a user supplied number from
// predicates that test a property of the lens and ignore the value.
type Kind int

const (
	Numeric Kind = iota
	Boolean
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "numeric":
		*k = Numeric
	case "boolean":
		*k = Boolean
	default:
		return fmt.Errorf("unknown predicate kind '%s'", text)
	}
	return nil
}

// Unit describes how user input maps onto the stored field value.
type Unit int

const (
	UnitNone Unit = iota
	// UnitMeters predicates take meters from the user and compare against
	// fields stored in millimeters.
	UnitMeters
)

func (u Unit) String() string {
	if u == UnitMeters {
		return "meters"
	}
	return ""
}

func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *Unit) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*u = UnitNone
	case "meters":
		*u = UnitMeters
	default:
		return fmt.Errorf("unknown predicate unit '%s'", text)
	}
	return nil
}

// Comparator names the test a definition performs. It is informational; the
// behavior lives in Definition.Match.
type Comparator string

const (
	AtMost  Comparator = "<="
	AtLeast Comparator = ">="
	Equal   Comparator = "="
	IsTrue  Comparator = "true"
	Derived Comparator = "derived"
)

// Definition is a named, stateless filter rule together with the label
// fragments shown around its value.
type Definition struct {
	Name       string
	Prefix     string
	Suffix     string
	Kind       Kind
	Unit       Unit
	Field      string
	Comparator Comparator

	// Match must be pure. Boolean definitions ignore value.
	Match func(rec lens.Record, value float64) bool

	order int
}

// Filter keeps the records matching value, preserving their relative order.
// The input slice is never modified.
func (d *Definition) Filter(records []lens.Record, value float64) []lens.Record {
	out := make([]lens.Record, 0, len(records))
	for _, rec := range records {
		if d.Match(rec, value) {
			out = append(out, rec)
		}
	}
	return out
}

func atMost(name, field, prefix, suffix string, unit Unit, get func(lens.Record) float64) Definition {
	return Definition{
		Name:       name,
		Prefix:     prefix,
		Suffix:     suffix,
		Kind:       Numeric,
		Unit:       unit,
		Field:      field,
		Comparator: AtMost,
		Match: func(rec lens.Record, value float64) bool {
			return get(rec) <= value
		},
	}
}

func atLeast(name, field, prefix, suffix string, get func(lens.Record) float64) Definition {
	return Definition{
		Name:       name,
		Prefix:     prefix,
		Suffix:     suffix,
		Kind:       Numeric,
		Field:      field,
		Comparator: AtLeast,
		Match: func(rec lens.Record, value float64) bool {
			return get(rec) >= value
		},
	}
}

func equal(name, field, prefix, suffix string, get func(lens.Record) float64) Definition {
	return Definition{
		Name:       name,
		Prefix:     prefix,
		Suffix:     suffix,
		Kind:       Numeric,
		Field:      field,
		Comparator: Equal,
		Match: func(rec lens.Record, value float64) bool {
			return get(rec) == value
		},
	}
}

func flag(name, field, prefix string, comparator Comparator, test func(lens.Record) bool) Definition {
	return Definition{
		Name:       name,
		Prefix:     prefix,
		Kind:       Boolean,
		Field:      field,
		Comparator: comparator,
		Match: func(rec lens.Record, _ float64) bool {
			return test(rec)
		},
	}
}
