package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindTextRoundTrip(t *testing.T) {
	for _, k := range []Kind{Numeric, Boolean} {
		text, err := k.MarshalText()
		require.NoError(t, err)

		var got Kind
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, k, got)
	}

	var k Kind
	assert.Error(t, k.UnmarshalText([]byte("unknown")))
	assert.Error(t, k.UnmarshalText([]byte("")))
}

func TestUnitTextRoundTrip(t *testing.T) {
	for _, u := range []Unit{UnitNone, UnitMeters} {
		text, err := u.MarshalText()
		require.NoError(t, err)

		var got Unit
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, u, got)
	}

	var u Unit
	assert.Error(t, u.UnmarshalText([]byte("millimeters")))
}

func TestKindAndUnitInJSON(t *testing.T) {
	type wire struct {
		Kind Kind `json:"kind"`
		Unit Unit `json:"unit"`
	}

	data, err := json.Marshal(wire{Kind: Boolean, Unit: UnitMeters})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"boolean","unit":"meters"}`, string(data))

	var got wire
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, wire{Kind: Boolean, Unit: UnitMeters}, got)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"fuzzy"}`), &got))
}
