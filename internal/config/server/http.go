package server

type HTTPServerConfig struct {
	Address     string   `mapstructure:"address"      yaml:"address"`
	PublicURL   string   `mapstructure:"public_url"   yaml:"public_url"`
	Mode        string   `mapstructure:"mode"         yaml:"mode"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}
