package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	cat := Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"MaxWideFocalLength", "28", "広角端の換算焦点距離が28mm 以下"},
		{"MaxWideFNumber", "2.8", "広角端のF値がF2.8 以下"},
		{"MaxWideMinFocusDistance", "0.1", "広角端の最短撮影距離が0.1m 以下"},
		{"MaxTelephotoMinFocusDistance", "1.5", "望遠端の最短撮影距離が1.5m 以下"},
		{"FilterDiameter", "58", "フィルター径が58mm"},
		{"MaxPrice", "100000", "レンズの希望小売価格が100000円 以下"},
		{"IsDripProof", "", "防塵防滴である"},
		{"IsLeicaL", "1", "ライカLマウントである"},
		{"FocalLengthRange", "3", "焦点距離の取りうる倍率(＝望遠端/広角端)が3倍以上"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Label(mustBuild(t, cat, tt.name, tt.input)))
		})
	}
}

func TestMeterValuesRoundTrip(t *testing.T) {
	cat := Default()

	inputs := []string{
		"0.1", "0.2", "0.3", "0.15", "0.25", "0.245", "0.001", "0.009",
		"0.7", "0.85", "1", "1.2", "1.15", "2.345", "10", "0.333", "0.999",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			q := mustBuild(t, cat, "MaxWideMinFocusDistance", input)
			assert.Equal(t, input, FormatValue(q))
		})
	}
}

func TestMeterValuesCanonicalForm(t *testing.T) {
	cat := Default()

	assert.Equal(t, "0.1", FormatValue(mustBuild(t, cat, "MaxWideMinFocusDistance", "0.10")))
	assert.Equal(t, "0.5", FormatValue(mustBuild(t, cat, "MaxWideMinFocusDistance", "0.500")))
}

func TestFormatValueNonMeter(t *testing.T) {
	cat := Default()

	assert.Equal(t, "0.1", FormatValue(mustBuild(t, cat, "MinMaxPhotographingMagnification", "0.1")))
	assert.Equal(t, "1000", FormatValue(mustBuild(t, cat, "MaxWeight", "1e3")))
	assert.Equal(t, "0", FormatValue(mustBuild(t, cat, "IsZoom", "")))
}
