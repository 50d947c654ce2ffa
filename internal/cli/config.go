package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the resolved session and transport configuration.
//
// Headers and Query hold key=value pairs. In the environment they are
// comma separated: DISPATCH_HEADERS="Authorization=Bearer x,X-Env=dev".
type Config struct {
	Host      string        `mapstructure:"host"`
	Headers   []string      `mapstructure:"headers"`
	Query     []string      `mapstructure:"query"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	RequestID bool          `mapstructure:"request_id"`
	RPS       int           `mapstructure:"rps"`
	Burst     int           `mapstructure:"burst"`
}

var configKeys = []string{"host", "headers", "query", "timeout", "user_agent", "request_id", "rps", "burst"}

// loadConfig resolves Config from v's bound flags, the environment and the
// config file. A missing default config or env file is not an error; a
// missing explicit one is.
func loadConfig(v *viper.Viper, configFile, envFile string) (Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("burst", 1)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(cliName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}

	return nil
}

// parsePairs splits key=value pairs. Only the first '=' separates, so
// values may contain '='.
func parsePairs(pairs []string) (map[string]string, error) {
	m := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid pair %q: expected key=value", pair)
		}
		m[k] = strings.TrimSpace(v)
	}

	return m, nil
}
