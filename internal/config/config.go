package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	Capacity       int           `mapstructure:"capacity"`
	SessionTimeout time.Duration `mapstructure:"session_timeout"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	Secret         string        `mapstructure:"secret"`
}

// Load reads config/config.<env>.yaml (selected by CONFIG_ENV, default "dev"),
// falling back to defaults when the file is absent. Environment variables with
// the LOBBYWIRE_ prefix override both.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("capacity", 8)
	v.SetDefault("session_timeout", "60m")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("secret", "")

	v.SetEnvPrefix("LOBBYWIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Capacity < 1 {
		return nil, fmt.Errorf("capacity must be at least 1, got %d", cfg.Capacity)
	}
	return &cfg, nil
}
