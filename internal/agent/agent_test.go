package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	config "github.com/mwantia/lensdb/internal/config/server"
	"github.com/mwantia/lensdb/pkg/db/models"
	"github.com/mwantia/lensdb/pkg/lens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.BaseServerConfig {
	t.Helper()

	cfg := config.GetServerDefault()
	cfg.ShutdownTimeout = "2s"
	cfg.Log.Level = "error"
	cfg.HTTP.Address = "127.0.0.1:0"
	cfg.HTTP.Mode = "test"
	cfg.Data.Debounce = "20ms"
	return &cfg
}

func serve(t *testing.T, a *LensAgent) (context.CancelFunc, <-chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()
	return cancel, done
}

func TestServeFromFileAndReload(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Path = filepath.Join(t.TempDir(), "lens_data.json")

	f, err := os.Create(cfg.Data.Path)
	require.NoError(t, err)
	require.NoError(t, lens.Encode(f, []lens.Record{{ID: 1, Maker: "a", Name: "one"}}))
	require.NoError(t, f.Close())

	a := NewAgent(cfg)
	cancel, done := serve(t, a)

	require.Eventually(t, func() bool { return len(a.Snapshot().Records) == 1 }, 2*time.Second, 10*time.Millisecond)

	f, err = os.Create(cfg.Data.Path)
	require.NoError(t, err)
	require.NoError(t, lens.Encode(f, []lens.Record{{ID: 1, Maker: "a", Name: "one"}, {ID: 2, Maker: "b", Name: "two"}}))
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool { return len(a.Snapshot().Records) == 2 }, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("agent did not shut down")
	}
}

func TestServeStartsEmptyWithoutData(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Path = filepath.Join(t.TempDir(), "lens_data.json")

	a := NewAgent(cfg)
	cancel, done := serve(t, a)
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// Wait until the watcher is up before the file appears.
	require.Eventually(t, func() bool {
		a.mutex.RLock()
		defer a.mutex.RUnlock()
		return a.watcher != nil && a.watcher.IsWatching()
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, a.Snapshot().Records)

	f, err := os.Create(cfg.Data.Path)
	require.NoError(t, err)
	require.NoError(t, lens.Encode(f, []lens.Record{{ID: 1, Maker: "a", Name: "one"}}))
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool { return len(a.Snapshot().Records) == 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestServeFromSQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Source = config.DataSourceSQLite
	cfg.Metadata.SQLite.Path = filepath.Join(t.TempDir(), "lensdb.db")

	st, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, st.ReplaceLenses(context.Background(), []models.Lens{{Maker: "a", Name: "one"}}))
	require.NoError(t, st.Close())

	a := NewAgent(cfg)
	cancel, done := serve(t, a)

	require.Eventually(t, func() bool { return len(a.Snapshot().Records) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, a.Snapshot().Records[0].ID)

	cancel()
	assert.NoError(t, <-done)
	assert.Error(t, a.store.Health(context.Background()), "store is closed after shutdown")
}

func TestServeClosesStoreWhenServerFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Source = config.DataSourceSQLite
	cfg.Metadata.SQLite.Path = filepath.Join(t.TempDir(), "lensdb.db")
	cfg.HTTP.Address = "127.0.0.1:-1"

	a := NewAgent(cfg)
	err := a.Serve(context.Background())
	require.Error(t, err)

	require.NotNil(t, a.store)
	assert.Error(t, a.store.Health(context.Background()))
}

func TestCloseStoreIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metadata.SQLite.Path = filepath.Join(t.TempDir(), "lensdb.db")

	st, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)

	a := NewAgent(cfg)
	assert.NoError(t, a.closeStore(), "no store configured")

	a.store = st
	assert.NoError(t, a.closeStore())
	assert.NoError(t, st.Cleanup())
	assert.NoError(t, a.closeStore())
	assert.Error(t, st.Health(context.Background()))
}
