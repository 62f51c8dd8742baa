package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mwantia/lensdb/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(SQLiteConfig{Path: filepath.Join(t.TempDir(), "data", "lensdb.db")})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Connect(ctx))
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Migrate(ctx)
	require.NoError(t, err)
	return s
}

func TestNewSQLiteStoreRequiresPath(t *testing.T) {
	_, err := NewSQLiteStore(SQLiteConfig{})
	assert.Error(t, err)
}

func TestCloseTwice(t *testing.T) {
	s := newTestStore(t)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Cleanup())
	assert.Error(t, s.Health(context.Background()))
}

func TestLensCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Health(ctx))

	l := &models.Lens{Maker: "オリンパス", Name: "M.ZUIKO DIGITAL ED 12-40mm F2.8 PRO", WideFocalLength: 24, TelephotoFocalLength: 80}
	require.NoError(t, s.CreateLens(ctx, l))
	require.NotZero(t, l.ID)

	got, err := s.GetLens(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.Name, got.Name)

	got.Price = 98000
	require.NoError(t, s.SaveLens(ctx, got))

	got, err = s.GetLens(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(98000), got.Price)

	require.NoError(t, s.DeleteLens(ctx, l.ID))
	_, err = s.GetLens(ctx, l.ID)
	assert.ErrorIs(t, err, ErrLensNotFound)
	assert.ErrorIs(t, s.DeleteLens(ctx, l.ID), ErrLensNotFound)
}

func TestSaveLensInsertsWithExplicitID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveLens(ctx, &models.Lens{ID: 42, Maker: "LAOWA", Name: "7.5mm F2"}))

	got, err := s.GetLens(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "LAOWA", got.Maker)
}

func TestReplaceLenses(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.CreateLens(ctx, &models.Lens{Maker: "old", Name: "old"}))

	err := s.ReplaceLenses(ctx, []models.Lens{
		{ID: 5, Maker: "a", Name: "five"},
		{Maker: "b", Name: "generated"},
		{ID: 2, Maker: "c", Name: "two"},
	})
	require.NoError(t, err)

	lenses, err := s.ListLenses(ctx)
	require.NoError(t, err)
	require.Len(t, lenses, 3)
	assert.Equal(t, uint(2), lenses[0].ID)
	assert.Equal(t, uint(5), lenses[1].ID)
	assert.Equal(t, uint(6), lenses[2].ID)
	assert.Equal(t, "generated", lenses[2].Name)

	require.NoError(t, s.ReplaceLenses(ctx, nil))
	count, err := s.CountLenses(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecordRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	l := models.Lens{ID: 3, Maker: "パナソニック", Name: "LEICA DG 15mm", Mount: "マイクロフォーサーズ", WideMinFocusDistance: 200, IsDripProof: true}
	require.NoError(t, s.SaveLens(ctx, &l))

	lenses, err := s.ListLenses(ctx)
	require.NoError(t, err)

	records := models.Records(lenses)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].ID)
	assert.Equal(t, float64(200), records[0].WideMinFocusDistance)
	assert.True(t, records[0].IsDripProof)

	back := models.FromRecord(records[0])
	assert.Equal(t, l.Mount, back.Mount)
	assert.Equal(t, l.ID, back.ID)
	assert.True(t, back.CreatedAt.IsZero())
}
