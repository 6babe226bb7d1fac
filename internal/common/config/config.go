// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Latency       LatencyConfig      `mapstructure:"latency"`
	Extractor     ExtractorConfig    `mapstructure:"extractor"`
	Search        SearchConfig       `mapstructure:"search"`
	Events        EventsConfig       `mapstructure:"events"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// StorageConfig selects and configures the requisition snapshot backend.
type StorageConfig struct {
	// Backend is one of "memory", "redis", "postgres".
	Backend     string         `mapstructure:"backend"`
	SnapshotKey string         `mapstructure:"snapshot_key"`
	Postgres    PostgresConfig `mapstructure:"postgres"`
	Redis       RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LatencyConfig drives the simulated network round trip in front of every
// store operation. Disabled entirely when Enabled is false (tests, batch use).
type LatencyConfig struct {
	Enabled bool `mapstructure:"enabled"`
	MinMs   int  `mapstructure:"min_ms"`
	MaxMs   int  `mapstructure:"max_ms"`
}

// ExtractorConfig holds settings for the external fill-form extraction service.
type ExtractorConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	Timeout          int    `mapstructure:"timeout"` // milliseconds
	MarkConfidential bool   `mapstructure:"mark_confidential"`
}

// SearchConfig configures the parsed-profile search index.
type SearchConfig struct {
	Enabled       bool                `mapstructure:"enabled"`
	Index         string              `mapstructure:"index"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

// EventsConfig sizes the in-process event bus.
type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

// NotificationConfig holds settings for lifecycle notifications.
type NotificationConfig struct {
	Email struct {
		Enabled   bool     `mapstructure:"enabled"`
		FromEmail string   `mapstructure:"from_email"`
		To        []string `mapstructure:"to"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled bool   `mapstructure:"enabled"`
		Phone   string `mapstructure:"phone"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds the /metrics listener settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}
