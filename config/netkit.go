package config

import (
	"fmt"
	"time"

	"github.com/kbukum/netkit/httpclient"
	"github.com/kbukum/netkit/validation"
)

// Metrics exporters accepted by TelemetryConfig.
const (
	MetricsPrometheus = "prometheus"
	MetricsOTLP       = "otlp"
)

// AuthConfig holds the credentials and endpoints used to obtain tokens.
type AuthConfig struct {
	Email       string        `yaml:"email" mapstructure:"email" validate:"omitempty,email"`
	Password    string        `yaml:"password" mapstructure:"password"`
	LoginPath   string        `yaml:"login_path" mapstructure:"login_path"`
	RefreshPath string        `yaml:"refresh_path" mapstructure:"refresh_path"`
	Leeway      time.Duration `yaml:"leeway" mapstructure:"leeway"`
}

// HasCredentials reports whether a login can be attempted.
func (a AuthConfig) HasCredentials() bool {
	return a.Email != "" && a.Password != ""
}

// TelemetryConfig selects the metrics and tracing exporters.
type TelemetryConfig struct {
	Metrics   string `yaml:"metrics" mapstructure:"metrics" validate:"omitempty,oneof=prometheus otlp"`
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
	Tracing   bool   `yaml:"tracing" mapstructure:"tracing"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure  bool   `yaml:"insecure" mapstructure:"insecure"`
}

// Config is the configuration of a netkit client binary.
//
//	name: netkit
//	client:
//	  base_url: https://api.example.com
//	  timeout: 10s
//	  max_retries: 2
//	auth:
//	  login_path: /auth/login
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Client    httpclient.Config `yaml:"client" mapstructure:"client"`
	Auth      AuthConfig        `yaml:"auth" mapstructure:"auth"`
	Telemetry TelemetryConfig   `yaml:"telemetry" mapstructure:"telemetry"`
}

// Defaults returns the configuration used before any file or variable is read.
func Defaults(serviceName string) *Config {
	return &Config{
		ServiceConfig: ServiceConfig{Name: serviceName},
		Client:        httpclient.DefaultConfig(),
		Auth: AuthConfig{
			LoginPath:   "/auth/login",
			RefreshPath: "/auth/refresh",
			Leeway:      30 * time.Second,
		},
		Telemetry: TelemetryConfig{Namespace: "netkit", Endpoint: "localhost:4318", Insecure: true},
	}
}

// ApplyDefaults fills in values left empty by the sources.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Client.ApplyDefaults()
}

// Validate checks the service fields and every validate tag.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(c)
}

// Load reads the configuration for serviceName. Sources are applied in order
// of precedence: NETKIT_* environment variables, the .env file, the YAML
// file, then Defaults.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	cfg := Defaults(serviceName)
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", serviceName, err)
	}
	return cfg, nil
}

// LoadClientConfig loads only the client section for serviceName.
func LoadClientConfig(serviceName string, opts ...LoaderOption) (httpclient.Config, error) {
	cfg := Defaults(serviceName)
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return httpclient.Config{}, err
	}
	cfg.Client.ApplyDefaults()
	if err := validation.ValidateStruct(cfg.Client); err != nil {
		return httpclient.Config{}, fmt.Errorf("config %s: client: %w", serviceName, err)
	}
	return cfg.Client, nil
}
