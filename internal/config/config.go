package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the runtime settings for the indicator backend.
type Config struct {
	ListenAddr     string   `mapstructure:"listen_addr"`
	DataDir        string   `mapstructure:"data_dir"`
	LabelsFile     string   `mapstructure:"labels_file"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
	PostgresURL    string   `mapstructure:"postgres_url"`
	PostgresLimit  int      `mapstructure:"postgres_limit"`
	HTTPTimeoutSec int      `mapstructure:"http_timeout_sec"`
}

// Load reads configuration from file, env, and defaults.
// Precedence: env (NATDYN_*) > config file > defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NATDYN")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8001")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("labels_file", "")
	v.SetDefault("cors_origins", []string{
		"http://localhost:3000", "http://localhost:3001", "http://127.0.0.1:3000",
	})
	v.SetDefault("postgres_url", "")
	v.SetDefault("postgres_limit", 1000)
	v.SetDefault("http_timeout_sec", 60)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("nationaldynamics")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
