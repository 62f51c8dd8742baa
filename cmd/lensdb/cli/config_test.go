package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigReadsFileAndEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "lensdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  address: \":9090\"\ndata:\n  strict: true\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LENSDB_TEST_PUBLIC_URL=https://lens.example/\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("LENSDB_TEST_PUBLIC_URL") })
	t.Setenv("LENSDB_DATA_PATH", "/srv/lens_data.json")

	require.NoError(t, initConfig(path))

	assert.Equal(t, ":9090", viper.GetString("http.address"))
	assert.True(t, viper.GetBool("data.strict"))
	assert.Equal(t, "/srv/lens_data.json", viper.GetString("data.path"))
	assert.Equal(t, "https://lens.example/", os.Getenv("LENSDB_TEST_PUBLIC_URL"))
}

func TestInitConfigMissingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Error(t, initConfig(filepath.Join(t.TempDir(), "missing.yaml")))
}
