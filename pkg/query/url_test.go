package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValues(t *testing.T) {
	cat := Default()

	values := url.Values{
		"MaxPrice":                {"100000"},
		"maxwidemInfocusdistance": {"0.3"},
		"maxwidemInfocus":         {"1"},
		"isdripproof":             {"1"},
		"page":                    {"2"},
	}

	set, err := ParseValues(cat, values)
	require.NoError(t, err)

	assert.Equal(t, []string{"MaxPrice", "IsDripProof"}, names(set))
}

func TestParseValuesLowercaseFallback(t *testing.T) {
	cat := Default()

	set, err := ParseQuery(cat, "maxwideminfocusdistance=0.3&MaxWeight=300&maxweight=100")
	require.NoError(t, err)

	q, ok := set.Get("MaxWideMinFocusDistance")
	require.True(t, ok)
	assert.Equal(t, float64(300), q.Value)

	q, ok = set.Get("MaxWeight")
	require.True(t, ok)
	assert.Equal(t, float64(300), q.Value, "exact name takes precedence")
}

func TestParseValuesInvalid(t *testing.T) {
	cat := Default()

	set, err := ParseQuery(cat, "MaxPrice=abc&MaxWeight=300&IsDripProof=yes")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "MaxPrice")

	assert.Equal(t, []string{"MaxWeight"}, names(set), "valid entries survive, unparseable booleans stay off")
}

func TestEncodeQuery(t *testing.T) {
	cat := Default()

	set := NewSet(
		mustBuild(t, cat, "IsDripProof", ""),
		mustBuild(t, cat, "MaxWideMinFocusDistance", "0.2"),
		mustBuild(t, cat, "MaxPrice", "80000"),
	)

	assert.Equal(t, "MaxWideMinFocusDistance=0.2&MaxPrice=80000&IsDripProof=0", EncodeQuery(set))
	assert.Equal(t, "", EncodeQuery(Set{}))
}

func TestQueryStringRoundTrip(t *testing.T) {
	cat := Default()

	set := NewSet(
		mustBuild(t, cat, "MaxWideFNumber", "2.8"),
		mustBuild(t, cat, "MaxTelephotoMinFocusDistance", "0.245"),
		mustBuild(t, cat, "IsInnerZoom", ""),
		mustBuild(t, cat, "FocalLengthRange", "3"),
	)

	parsed, err := ParseQuery(cat, "?"+EncodeQuery(set))
	require.NoError(t, err)
	assert.Equal(t, set.Queries(), parsed.Queries())
}

func TestShareURL(t *testing.T) {
	cat := Default()
	set := NewSet(mustBuild(t, cat, "MaxWeight", "250"))

	assert.Equal(t, "https://example.com/lens/?MaxWeight=250", ShareURL("https://example.com/lens/", set))
	assert.Equal(t, "https://example.com/?v=1&MaxWeight=250", ShareURL("https://example.com/?v=1", set))
	assert.Equal(t, "https://example.com/", ShareURL("https://example.com/", Set{}))
}
