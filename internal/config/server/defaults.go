package server

import "github.com/spf13/viper"

func GetServerDefault() BaseServerConfig {
	return BaseServerConfig{
		ShutdownTimeout: "10s",

		Log: LogServerConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogServerRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},

		Data: DataServerConfig{
			Source:   DataSourceFile,
			Path:     "./lens_data.json",
			Strict:   false,
			Watch:    true,
			Debounce: "500ms",
		},

		Metadata: MetadataServerConfig{
			Type: "sqlite",
			SQLite: MetadataSQLiteConfig{
				Path: "./lensdb.db",
			},
		},

		HTTP: HTTPServerConfig{
			Address:     ":8080",
			PublicURL:   "http://localhost:8080/",
			Mode:        "release",
			CORSOrigins: []string{"http://localhost:3000"},
		},
	}
}

func setDefaults() {
	defaults := GetServerDefault()

	viper.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)

	viper.SetDefault("data.source", defaults.Data.Source)
	viper.SetDefault("data.path", defaults.Data.Path)
	viper.SetDefault("data.strict", defaults.Data.Strict)
	viper.SetDefault("data.watch", defaults.Data.Watch)
	viper.SetDefault("data.debounce", defaults.Data.Debounce)

	viper.SetDefault("metadata.type", defaults.Metadata.Type)
	viper.SetDefault("metadata.sqlite.path", defaults.Metadata.SQLite.Path)

	viper.SetDefault("http.address", defaults.HTTP.Address)
	viper.SetDefault("http.public_url", defaults.HTTP.PublicURL)
	viper.SetDefault("http.mode", defaults.HTTP.Mode)
	viper.SetDefault("http.cors_origins", defaults.HTTP.CORSOrigins)
}
