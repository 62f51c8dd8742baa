package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(set Set) []string {
	out := []string{}
	for _, q := range set.Queries() {
		out = append(out, q.Name())
	}
	return out
}

func TestSetReplacesSameName(t *testing.T) {
	cat := Default()

	set := Set{}.
		With(mustBuild(t, cat, "MaxPrice", "50000")).
		With(mustBuild(t, cat, "MaxPrice", "90000"))

	assert.Equal(t, 1, set.Len())
	q, ok := set.Get("MaxPrice")
	assert.True(t, ok)
	assert.Equal(t, float64(90000), q.Value)
}

func TestSetIsImmutable(t *testing.T) {
	cat := Default()

	base := NewSet(mustBuild(t, cat, "MaxWeight", "300"))
	grown := base.With(mustBuild(t, cat, "IsDripProof", ""))
	shrunk := grown.Without("MaxWeight")

	assert.Equal(t, []string{"MaxWeight"}, names(base))
	assert.Equal(t, []string{"MaxWeight", "IsDripProof"}, names(grown))
	assert.Equal(t, []string{"IsDripProof"}, names(shrunk))

	queries := grown.Queries()
	queries[0] = mustBuild(t, cat, "MaxPrice", "1")
	assert.Equal(t, []string{"MaxWeight", "IsDripProof"}, names(grown))
}

func TestSetKeepsCatalogOrder(t *testing.T) {
	cat := Default()

	set := NewSet(
		mustBuild(t, cat, "IsInnerZoom", ""),
		mustBuild(t, cat, "MaxPrice", "100000"),
		mustBuild(t, cat, "MaxWideFocalLength", "24"),
	)

	assert.Equal(t, []string{"MaxWideFocalLength", "MaxPrice", "IsInnerZoom"}, names(set))
}

func TestSetWithoutUnknownName(t *testing.T) {
	cat := Default()

	set := NewSet(mustBuild(t, cat, "MaxWeight", "300"))
	assert.Equal(t, set.Queries(), set.Without("MaxPrice").Queries())
	assert.True(t, Set{}.Without("MaxPrice").IsEmpty())
}
