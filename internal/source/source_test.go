package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	config "github.com/mwantia/lensdb/internal/config/server"
	"github.com/mwantia/lensdb/pkg/db/models"
	"github.com/mwantia/lensdb/pkg/db/store"
	"github.com/mwantia/lensdb/pkg/lens"
	"github.com/mwantia/lensdb/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) log.LoggerService {
	cfg := config.GetServerDefault().Log
	cfg.Level = "debug"
	return log.NewLoggerServiceWithWriter("source", cfg, buf)
}

func writeLenses(t *testing.T, path string, records []lens.Record) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, lens.Encode(f, records))
}

func TestReloaderFromFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "lens_data.json")
	writeLenses(t, path, []lens.Record{{ID: 1, Maker: "シグマ", Name: "56mm F1.4"}})

	cfg := config.GetServerDefault()
	cfg.Data.Path = path

	loader, err := NewLoader(&cfg, nil, testLogger(&buf))
	require.NoError(t, err)

	holder := lens.NewHolder()
	r := NewReloader(loader, holder, nil, testLogger(&buf))
	require.NoError(t, r.Reload(context.Background()))

	snap := holder.Load()
	require.Len(t, snap.Records, 1)
	assert.Equal(t, path, snap.Source)
	assert.Contains(t, buf.String(), "Loaded 1 lenses")
}

func TestReloaderKeepsSnapshotOnError(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "lens_data.json")
	writeLenses(t, path, []lens.Record{{ID: 1, Maker: "a", Name: "b"}})

	holder := lens.NewHolder()
	r := NewReloader(&FileLoader{Path: path, Logger: testLogger(&buf)}, holder, nil, testLogger(&buf))
	require.NoError(t, r.Reload(context.Background()))
	before := holder.Load()

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	assert.Error(t, r.Reload(context.Background()))
	assert.Same(t, before, holder.Load())
}

func TestFileLoaderLogsDroppedRecords(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "lens_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 1}]`), 0o644))

	records, err := (&FileLoader{Path: path, Logger: testLogger(&buf)}).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Contains(t, buf.String(), "Skipping lens entry")
}

func TestStoreLoader(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "lensdb.db")

	st, err := store.NewSQLiteStore(store.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	require.NoError(t, st.Connect(ctx))
	t.Cleanup(func() { _ = st.Close() })
	_, err = st.Migrate(ctx)
	require.NoError(t, err)

	require.NoError(t, st.ReplaceLenses(ctx, []models.Lens{{ID: 2, Maker: "b", Name: "two"}, {ID: 1, Maker: "a", Name: "one"}}))

	cfg := config.GetServerDefault()
	cfg.Data.Source = config.DataSourceSQLite
	cfg.Metadata.SQLite.Path = dbPath

	var buf bytes.Buffer
	_, err = NewLoader(&cfg, nil, testLogger(&buf))
	assert.Error(t, err)

	loader, err := NewLoader(&cfg, st, testLogger(&buf))
	require.NoError(t, err)

	records, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, "sqlite:"+dbPath, loader.Name())
}
