package api

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the public API endpoint.
const DefaultBaseURL = "https://api.nylas.com"

// Config contains configuration for the API client.
type Config struct {
	// BaseURL is the API server, e.g. "https://api.nylas.com".
	BaseURL string `json:"baseUrl"`

	// APIKey authenticates with HTTP basic auth (the key is the user name).
	APIKey string `json:"-"`

	// AccessToken is a static bearer token.
	AccessToken string `json:"-"`

	// TokenSource supplies bearer tokens, e.g. a refreshing OAuth2 source.
	// It takes precedence over AccessToken.
	TokenSource oauth2.TokenSource `json:"-"`

	// TLSVerify controls TLS certificate verification.
	// Set to false only for development/testing with self-signed certs
	TLSVerify *bool `json:"tlsVerify,omitempty"`

	// Timeout bounds each request, including reading the body.
	// Default: 30 seconds
	Timeout time.Duration `json:"timeout,omitempty"`

	// UserAgent is sent with every request.
	UserAgent string `json:"userAgent,omitempty"`

	// Headers are added to every request.
	Headers map[string]string `json:"headers,omitempty"`

	// HTTPClient replaces the client built by NewHTTPClient.
	HTTPClient *http.Client `json:"-"`

	// Logger (optional).
	Logger hclog.Logger `json:"-"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		BaseURL:   DefaultBaseURL,
		TLSVerify: &tlsVerify,
		Timeout:   30 * time.Second,
		UserAgent: "nylas-go",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.APIKey,
			validation.When(c.AccessToken == "" && c.TokenSource == nil,
				validation.Required.Error("an api key, access token or token source is required"))),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// NewHTTPClient creates a configured HTTP client
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	// Configure TLS verification
	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}

func (c *Config) tokenSource() oauth2.TokenSource {
	if c.TokenSource != nil {
		return oauth2.ReuseTokenSource(nil, c.TokenSource)
	}
	if c.AccessToken != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: c.AccessToken,
			TokenType:   "Bearer",
		})
	}
	return nil
}
