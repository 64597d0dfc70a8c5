// Package config loads CLI configuration from an HCL file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"golang.org/x/oauth2"

	"github.com/nylas/nylas-ruby-sub000/pkg/api"
)

// Environment variables that override file settings.
const (
	EnvAPIKey      = "NYLAS_API_KEY"
	EnvAccessToken = "NYLAS_ACCESS_TOKEN"
	EnvAPIServer   = "NYLAS_API_SERVER"
)

// Config is the CLI configuration.
type Config struct {
	// API configures the API client.
	API *API `hcl:"api,block"`

	// OAuth configures the authorize command.
	OAuth *OAuth `hcl:"oauth,block"`

	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `hcl:"log_level,optional"`
}

// API configures the API client.
type API struct {
	Server      string            `hcl:"server,optional"`
	APIKey      string            `hcl:"api_key,optional"`
	AccessToken string            `hcl:"access_token,optional"`
	Timeout     string            `hcl:"timeout,optional"`
	TLSVerify   *bool             `hcl:"tls_verify,optional"`
	UserAgent   string            `hcl:"user_agent,optional"`
	Headers     map[string]string `hcl:"headers,optional"`
}

// OAuth configures the hosted authentication flow.
type OAuth struct {
	ClientID     string   `hcl:"client_id"`
	ClientSecret string   `hcl:"client_secret,optional"`
	RedirectURL  string   `hcl:"redirect_url"`
	Scopes       []string `hcl:"scopes,optional"`
	LoginHint    string   `hcl:"login_hint,optional"`
}

// Default returns a config with no credentials.
func Default() *Config {
	return &Config{
		API: &API{
			Server:  api.DefaultBaseURL,
			Timeout: "30s",
		},
		LogLevel: "warn",
	}
}

// Load reads the HCL file at path, when path is not empty, and applies
// environment overrides.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		src, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		var fileCfg Config
		if err := hclsimple.Decode(path, src, nil, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding config file: %w", err)
		}
		cfg.merge(&fileCfg)
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(other *Config) {
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.OAuth != nil {
		c.OAuth = other.OAuth
	}
	if other.API == nil {
		return
	}
	if other.API.Server != "" {
		c.API.Server = other.API.Server
	}
	if other.API.Timeout != "" {
		c.API.Timeout = other.API.Timeout
	}
	c.API.APIKey = other.API.APIKey
	c.API.AccessToken = other.API.AccessToken
	c.API.TLSVerify = other.API.TLSVerify
	c.API.UserAgent = other.API.UserAgent
	c.API.Headers = other.API.Headers
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIServer); ok && v != "" {
		c.API.Server = v
	}
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.API.APIKey = v
	}
	if v, ok := lookup(EnvAccessToken); ok && v != "" {
		c.API.AccessToken = v
	}
}

// Validate reports every problem in the configuration.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validation.Validate(strings.ToLower(c.LogLevel),
		validation.In("trace", "debug", "info", "warn", "error")); err != nil {
		result = multierror.Append(result, fmt.Errorf("log_level: %w", err))
	}
	if c.API != nil && c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			result = multierror.Append(result, fmt.Errorf("api.timeout: %w", err))
		}
	}
	if c.OAuth != nil {
		err := validation.ValidateStruct(c.OAuth,
			validation.Field(&c.OAuth.ClientID, validation.Required),
			validation.Field(&c.OAuth.RedirectURL, validation.Required),
		)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("oauth: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// APIConfig returns the API client configuration.
func (c *Config) APIConfig() (*api.Config, error) {
	cfg := api.DefaultConfig()
	cfg.BaseURL = c.API.Server
	cfg.APIKey = c.API.APIKey
	cfg.AccessToken = c.API.AccessToken
	cfg.Headers = c.API.Headers
	if c.API.TLSVerify != nil {
		cfg.TLSVerify = c.API.TLSVerify
	}
	if c.API.UserAgent != "" {
		cfg.UserAgent = c.API.UserAgent
	}
	if c.API.Timeout != "" {
		d, err := time.ParseDuration(c.API.Timeout)
		if err != nil {
			return nil, fmt.Errorf("api.timeout: %w", err)
		}
		cfg.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid api configuration: %w", err)
	}
	return cfg, nil
}

// OAuthConfig returns the OAuth2 configuration for the hosted
// authentication endpoints of the configured server.
func (c *Config) OAuthConfig() (*oauth2.Config, error) {
	if c.OAuth == nil {
		return nil, fmt.Errorf("oauth block is required")
	}
	server := strings.TrimRight(c.API.Server, "/")
	return &oauth2.Config{
		ClientID:     c.OAuth.ClientID,
		ClientSecret: c.OAuth.ClientSecret,
		RedirectURL:  c.OAuth.RedirectURL,
		Scopes:       c.OAuth.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   server + "/oauth/authorize",
			TokenURL:  server + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, nil
}
