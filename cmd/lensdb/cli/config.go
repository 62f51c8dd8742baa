package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	configPaths = []string{".", "./config", "/etc/lensdb", "$HOME/.lensdb"}
	envFiles    = []string{".env", ".env.local"}
)

// loadEnvFiles loads .env files from each directory. Missing files are fine
// and variables that are already set are never overwritten.
func loadEnvFiles(dirs ...string) {
	for _, dir := range dirs {
		for _, name := range envFiles {
			_ = godotenv.Load(filepath.Join(dir, name))
		}
	}
}

func initConfig(path string) error {
	if path != "" {
		loadEnvFiles(".", filepath.Dir(path))
		viper.SetConfigFile(path)
	} else {
		loadEnvFiles(configPaths...)
		viper.SetConfigName("lensdb")
		viper.SetConfigType("yaml")
		for _, dir := range configPaths {
			viper.AddConfigPath(dir)
		}
	}

	// LENSDB_HTTP_ADDRESS overrides http.address and so on.
	viper.SetEnvPrefix("LENSDB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}
