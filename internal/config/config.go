package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultSnapshotPath    = "dbInfo.bin"
	DefaultReportPath      = "validateResult.xlsx"
	DefaultRemediationPath = "remediation.sql"
	DefaultConcurrency     = 4
	DefaultTimeout         = 5 * time.Second

	// EnvDSN is consulted when source.dsn is empty.
	EnvDSN = "SCHEMAWATCH_DSN"
)

type Config struct {
	Source      SourceConfig      `yaml:"source"`
	Inspector   InspectorConfig   `yaml:"inspector"`
	Snapshot    SnapshotConfig    `yaml:"snapshot"`
	Report      ReportConfig      `yaml:"report"`
	Remediation RemediationConfig `yaml:"remediation"`
}

type SourceConfig struct {
	Type   string `yaml:"type"`
	DSN    string `yaml:"dsn"`
	Schema string `yaml:"schema"`
}

type InspectorConfig struct {
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

type SnapshotConfig struct {
	Path string `yaml:"path"`
}

type ReportConfig struct {
	Path    string      `yaml:"path"`
	Console bool        `yaml:"console"`
	Kafka   KafkaConfig `yaml:"kafka"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Enabled reports whether drift events should be published.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type RemediationConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoadConfig reads path, expands ${VAR} references in the DSN (falling back
// to $SCHEMAWATCH_DSN) and applies defaults. The result is not validated;
// call Validate once flag overrides are in.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: config path is required", ErrInvalidConfig)
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse config: %w", ErrInvalidConfig, err)
	}

	cfg.Source.DSN = os.ExpandEnv(cfg.Source.DSN)
	if cfg.Source.DSN == "" {
		cfg.Source.DSN = os.Getenv(EnvDSN)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset optional fields. Connection settings never get
// defaults.
func (c *Config) ApplyDefaults() {
	if c.Source.Type == "" {
		c.Source.Type = "mysql"
	}
	if c.Inspector.Concurrency == 0 {
		c.Inspector.Concurrency = DefaultConcurrency
	}
	if c.Inspector.Timeout == 0 {
		c.Inspector.Timeout = DefaultTimeout
	}
	if c.Snapshot.Path == "" {
		c.Snapshot.Path = DefaultSnapshotPath
	}
	if c.Report.Path == "" {
		c.Report.Path = DefaultReportPath
	}
	if c.Remediation.Path == "" {
		c.Remediation.Path = DefaultRemediationPath
	}
}

// Validate checks the settings needed to reach the source. Report settings
// are checked separately by ValidateReport since capture never writes one.
func (c *Config) Validate() error {
	if c.Source.Type != "mysql" {
		return fmt.Errorf("%w: source.type must be mysql", ErrInvalidConfig)
	}
	if c.Source.DSN == "" {
		return fmt.Errorf("%w: source.dsn is required", ErrInvalidConfig)
	}
	if c.Source.Schema == "" {
		return fmt.Errorf("%w: source.schema is required", ErrInvalidConfig)
	}
	if c.Inspector.Concurrency < 0 {
		return fmt.Errorf("%w: inspector.concurrency must not be negative", ErrInvalidConfig)
	}
	if c.Inspector.Timeout < 0 {
		return fmt.Errorf("%w: inspector.timeout must not be negative", ErrInvalidConfig)
	}
	if c.Snapshot.Path == "" {
		return fmt.Errorf("%w: snapshot.path is required", ErrInvalidConfig)
	}
	return nil
}

// ValidateReport checks the output settings used by compare.
func (c *Config) ValidateReport() error {
	if !strings.HasSuffix(c.Report.Path, ".xlsx") {
		return fmt.Errorf("%w: report.path must end with .xlsx, got %q", ErrInvalidConfig, c.Report.Path)
	}
	if c.Report.Kafka.Enabled() && c.Report.Kafka.Topic == "" {
		return fmt.Errorf("%w: report.kafka.topic is required when brokers are set", ErrInvalidConfig)
	}
	if c.Remediation.Enabled && c.Remediation.Path == "" {
		return fmt.Errorf("%w: remediation.path is required", ErrInvalidConfig)
	}
	return nil
}
