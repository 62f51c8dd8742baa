package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// booleanSentinel is the value stored for predicates that ignore their input.
const booleanSentinel = 0

// maxExponent bounds the decimal exponent of accepted input. float64 cannot
// represent anything outside it, and converting larger exponents is costly.
const maxExponent = 400

// Query is a predicate bound to a concrete comparison value. Values of
// meter-unit predicates are held in millimeters.
type Query struct {
	Definition *Definition
	Value      float64
}

func (q Query) Name() string {
	return q.Definition.Name
}

// Build turns raw user input into a query for the named predicate.
func (c *Catalog) Build(name, raw string) (Query, error) {
	def, err := c.Lookup(name)
	if err != nil {
		return Query{}, err
	}

	if def.Kind == Boolean {
		return Query{Definition: def, Value: booleanSentinel}, nil
	}

	value, err := ParseValue(raw)
	if err != nil {
		return Query{}, fmt.Errorf("predicate '%s': %w", name, err)
	}

	if def.Unit == UnitMeters {
		value = value.Shift(3)
	}

	f, _ := value.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Query{}, fmt.Errorf("predicate '%s': %w: '%s' is out of range", name, ErrInvalidInput, raw)
	}

	return Query{Definition: def, Value: f}, nil
}

// ParseValue parses raw as an exact decimal number. Empty input, text, NaN or
// infinity spellings and values outside the float64 range are rejected.
func ParseValue(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: value is empty", ErrInvalidInput)
	}

	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, fmt.Errorf("%w: '%s' is not a number in range", ErrInvalidInput, raw)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: '%s' is not a number", ErrInvalidInput, raw)
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, fmt.Errorf("%w: '%s' is out of range", ErrInvalidInput, raw)
	}
	return d, nil
}
