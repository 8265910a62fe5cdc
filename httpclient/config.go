package httpclient

import (
	"fmt"
	"maps"
	"time"

	"github.com/kbukum/netkit/security"
	"github.com/kbukum/netkit/validation"
	"github.com/kbukum/netkit/version"
)

// Default configuration values.
const (
	DefaultTimeout               = 30 * time.Second
	DefaultMaxRetries            = 2
	DefaultRetryBaseDelay        = 350 * time.Millisecond
	DefaultMaxConcurrentRequests = 6
	DefaultAuthHeaderName        = "Authorization"
	DefaultAuthScheme            = "Bearer "
)

// Config configures a Client. A Client keeps its own copy, so mutating a
// Config after New has no effect on the client built from it.
type Config struct {
	// Name identifies the client in logs, spans and metrics.
	Name string `yaml:"name" mapstructure:"name"`
	// BaseURL is prepended to every request path.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	// Timeout bounds each attempt. Zero or negative disables it.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// MaxRetries is the number of retries after the first attempt. Zero or
	// negative means a single attempt.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// RetryBaseDelay is the backoff base, floored at resilience.MinBackoffBase.
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" mapstructure:"retry_base_delay"`
	// MaxConcurrentRequests caps in-flight logical calls. Zero or negative means unlimited.
	MaxConcurrentRequests int `yaml:"max_concurrent_requests" mapstructure:"max_concurrent_requests"`
	// DefaultHeaders are sent with every request unless overridden per call.
	DefaultHeaders map[string]string `yaml:"default_headers" mapstructure:"default_headers"`
	// AuthHeaderName and AuthScheme form the auth header: AuthHeaderName: AuthScheme+token.
	AuthHeaderName string `yaml:"auth_header_name" mapstructure:"auth_header_name"`
	AuthScheme     string `yaml:"auth_scheme" mapstructure:"auth_scheme"`
	// AutoRefreshToken enables one refresh-and-replay per call on 401.
	AutoRefreshToken bool `yaml:"auto_refresh_token" mapstructure:"auto_refresh_token"`
	// UserAgent defaults to netkit/<version>.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// RateLimit caps physical sends per second across all calls. Zero disables it.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst" validate:"gte=0"`

	// TLS configures the default transport. Ignored when a transport or
	// *http.Client is supplied through options.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	LogRequests  bool `yaml:"log_requests" mapstructure:"log_requests"`
	LogResponses bool `yaml:"log_responses" mapstructure:"log_responses"`
}

// DefaultConfig returns the stock client configuration.
func DefaultConfig() Config {
	return Config{
		Name:                  "httpclient",
		Timeout:               DefaultTimeout,
		MaxRetries:            DefaultMaxRetries,
		RetryBaseDelay:        DefaultRetryBaseDelay,
		MaxConcurrentRequests: DefaultMaxConcurrentRequests,
		DefaultHeaders:        map[string]string{},
		AuthHeaderName:        DefaultAuthHeaderName,
		AuthScheme:            DefaultAuthScheme,
		AutoRefreshToken:      true,
	}
}

// ApplyDefaults fills in values that have no meaningful zero.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "httpclient"
	}
	if c.AuthHeaderName == "" {
		c.AuthHeaderName = DefaultAuthHeaderName
	}
	if c.AuthScheme == "" {
		c.AuthScheme = DefaultAuthScheme
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
	if c.DefaultHeaders == nil {
		c.DefaultHeaders = map[string]string{}
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("httpclient config: %w", err)
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("httpclient config: %w", err)
	}
	return nil
}

// MaxAttempts returns the total number of attempts per logical call.
func (c *Config) MaxAttempts() int {
	return max(1, 1+c.MaxRetries)
}

func (c Config) clone() Config {
	c.DefaultHeaders = maps.Clone(c.DefaultHeaders)
	if c.TLS != nil {
		tls := *c.TLS
		c.TLS = &tls
	}
	return c
}
