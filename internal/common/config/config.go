// internal/common/config/config.go
package config

import (
	"time"

	"artvaluation-workers/internal/valuation"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Redis     RedisConfig             `mapstructure:"redis"`
	Server    ServerConfig            `mapstructure:"server"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Logging   LoggingConfig           `mapstructure:"logging"`
	Valuation ValuationConfig         `mapstructure:"valuation"`
	Registry  RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// RedisConfig configures the optional result cache. An empty address
// disables caching.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a cache address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// ServerConfig is the health and metrics HTTP listener.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// RegistryConfig points at the activity registry checked at startup.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ValuationConfig holds the model defaults every evaluation starts from.
type ValuationConfig struct {
	Assumptions valuation.Assumptions `mapstructure:"assumptions"`
	Scenarios   []valuation.Scenario  `mapstructure:"scenarios"`
	CacheTTL    int                   `mapstructure:"cache_ttl"` // milliseconds
}

// CacheTTLDuration returns the cache TTL as a duration.
func (v ValuationConfig) CacheTTLDuration() time.Duration {
	return GetDuration(v.CacheTTL)
}
