package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNumeric(t *testing.T) {
	cat := Default()

	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"MaxWideFocalLength", "28", 28},
		{"MaxWideFNumber", "2.8", 2.8},
		{"MaxPrice", " 100000 ", 100000},
		{"MinMaxPhotographingMagnification", "0.5", 0.5},
		{"MaxWeight", "1e3", 1000},
		{"FocalLengthRange", "-1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.input, func(t *testing.T) {
			q, err := cat.Build(tt.name, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.name, q.Name())
			assert.Equal(t, tt.expected, q.Value)
		})
	}
}

func TestBuildMetersToMillimeters(t *testing.T) {
	cat := Default()

	tests := []struct {
		input    string
		expected float64
	}{
		{"0.1", 100},
		{"0.2", 200},
		{"0.3", 300},
		{"0.15", 150},
		{"0.245", 245},
		{"1.1", 1100},
		{"0.07", 70},
		{"2", 2000},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q, err := cat.Build("MaxWideMinFocusDistance", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, q.Value)

			q, err = cat.Build("MaxTelephotoMinFocusDistance", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, q.Value)
		})
	}
}

func TestBuildInvalidInput(t *testing.T) {
	cat := Default()

	for _, input := range []string{"", "   ", "abc", "NaN", "Infinity", "-Inf", "12mm", "1,000", "1e400"} {
		t.Run(input, func(t *testing.T) {
			_, err := cat.Build("MaxPrice", input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestBuildRejectsHugeExponentsQuickly(t *testing.T) {
	cat := Default()

	for _, input := range []string{"1e200000000", "-1e200000000", "0e200000000", "1e-200000000", "1e2147483647"} {
		t.Run(input, func(t *testing.T) {
			start := time.Now()
			_, err := cat.Build("MaxPrice", input)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Less(t, time.Since(start), time.Second)

			_, err = cat.Build("MaxWideMinFocusDistance", input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestBuildAcceptsSmallExponents(t *testing.T) {
	q, err := Default().Build("MaxPrice", "1e-3")
	require.NoError(t, err)
	assert.Equal(t, 0.001, q.Value)

	q, err = Default().Build("MaxWeight", "1.5e2")
	require.NoError(t, err)
	assert.Equal(t, 150.0, q.Value)
}

func TestBuildBooleanIgnoresValue(t *testing.T) {
	cat := Default()

	for _, input := range []string{"", "abc", "1", "NaN"} {
		q, err := cat.Build("IsDripProof", input)
		require.NoError(t, err)
		assert.Equal(t, float64(booleanSentinel), q.Value)
	}
}

func TestBuildUnknownPredicate(t *testing.T) {
	_, err := Default().Build("MaxAperture", "1.4")
	assert.ErrorIs(t, err, ErrUnknownPredicate)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestInvalidInputLeavesSetUnchanged(t *testing.T) {
	cat := Default()

	q, err := cat.Build("MaxWeight", "300")
	require.NoError(t, err)
	set := NewSet(q)

	if bad, err := cat.Build("MaxPrice", "abc"); err == nil {
		set = set.With(bad)
	} else {
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	assert.Equal(t, 1, set.Len())
	_, ok := set.Get("MaxPrice")
	assert.False(t, ok)
}
