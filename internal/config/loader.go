// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load builds the configuration in ascending priority:
// defaults -> optional configs/config.yaml -> environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := loadConfigFile(v, "configs/config.yaml"); err != nil {
		return nil, err
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnv(v)

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings the process cannot run without. The
// returned error names the missing environment variable so startup
// failures are actionable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("missing required setting OPENAI_API_KEY")
	}
	if strings.TrimSpace(c.Database.Mongo.URI) == "" {
		return fmt.Errorf("missing required setting MONGODB_URI")
	}
	return nil
}

// loadConfigFile reads path, expands env placeholders and merges it into v.
// A missing file is not an error: a pure-environment deployment carries
// no config file at all.
func loadConfigFile(v *viper.Viper, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnv(string(content))

	if err := v.ReadConfig(strings.NewReader(expanded)); err != nil {
		return fmt.Errorf("failed to read processed config %s: %w", path, err)
	}
	return nil
}

// expandEnv replaces ${VAR} and ${VAR:default} placeholders.
func expandEnv(s string) string {
	re := regexp.MustCompile(`\${(\w+)(:([^}]*))?}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		submatch := re.FindStringSubmatch(match)
		key := submatch[1]
		hasDefault := submatch[2] != ""
		defVal := submatch[3]

		val, ok := os.LookupEnv(key)
		if ok {
			return val
		}
		if hasDefault {
			return defVal
		}
		return match
	})
}

// bindEnv maps the deployment environment variables onto config keys.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("llm.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.model", "IA_MODEL")
	_ = v.BindEnv("database.mongo.uri", "MONGODB_URI")
	_ = v.BindEnv("database.mongo.database", "MONGODB_DB")
	_ = v.BindEnv("server.http.port", "PORT")
	_ = v.BindEnv("security.cors.allowed_origins", "CORS_ORIGIN")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "edu-tutor-api")
	v.SetDefault("app.version", "v0.0.0")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 3000)
	v.SetDefault("server.http.read_timeout", "30s")
	v.SetDefault("server.http.write_timeout", "120s")
	v.SetDefault("server.http.idle_timeout", "120s")

	v.SetDefault("database.mongo.database", "eduteca")
	v.SetDefault("database.mongo.connect_timeout", "10s")

	v.SetDefault("cache.redis.host", "localhost")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.dial_timeout", "5s")
	v.SetDefault("cache.redis.read_timeout", "3s")
	v.SetDefault("cache.redis.write_timeout", "3s")

	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.endpoint", "localhost:4317")
	v.SetDefault("observability.tracing.sample_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("security.cors.allowed_origins", []string{"*"})
	v.SetDefault("security.rate_limit.enabled", false)
	v.SetDefault("security.rate_limit.requests_per_second", 5)
	v.SetDefault("security.rate_limit.burst", 10)
}
