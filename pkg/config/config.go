package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config carries every tunable of the storefront query engine. Values come
// from STOREFRONT_* environment variables with an optional storefront.yaml
// on top of the defaults.
type Config struct {
	ListenAddr    string  `mapstructure:"listen_addr"`
	CatalogUrl    string  `mapstructure:"catalog_url"`
	RedisAddr     string  `mapstructure:"redis_addr"`
	RedisPassword string  `mapstructure:"redis_password"`
	RedisDb       int     `mapstructure:"redis_db"`
	AmqpUrl       string  `mapstructure:"amqp_url"`
	ChannelPrefix string  `mapstructure:"channel_prefix"`
	MaxPrice      float64 `mapstructure:"max_price"`

	DebounceWindow time.Duration `mapstructure:"debounce_window"`
	MinQueryLength int           `mapstructure:"min_query_length"`
	CacheTtl       time.Duration `mapstructure:"cache_ttl"`
	CatalogTimeout time.Duration `mapstructure:"catalog_timeout"`
	SessionIdle    time.Duration `mapstructure:"session_idle"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("catalog_url", "http://localhost:1337")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("amqp_url", "")
	v.SetDefault("channel_prefix", "storefront")
	v.SetDefault("max_price", 10000.0)
	v.SetDefault("debounce_window", 300*time.Millisecond)
	v.SetDefault("min_query_length", 2)
	v.SetDefault("cache_ttl", time.Minute)
	v.SetDefault("catalog_timeout", 10*time.Second)
	v.SetDefault("session_idle", 30*time.Minute)
}

// Load reads configuration from the environment and, when present, a
// storefront.yaml in the working directory. A missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("storefront")
	v.AutomaticEnv()
	v.SetConfigName("storefront")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
