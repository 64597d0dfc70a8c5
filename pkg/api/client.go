package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

// Client executes requests against the service.
type Client struct {
	config *Config
	http   *http.Client
	tokens oauth2.TokenSource
	logger hclog.Logger
}

// NewClient creates a new API client
func NewClient(cfg *Config) (*Client, error) {
	// Apply defaults
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.TLSVerify == nil {
		cfg.TLSVerify = defaults.TLSVerify
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid API client config: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = cfg.NewHTTPClient()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Client{
		config: cfg,
		http:   httpClient,
		tokens: cfg.tokenSource(),
		logger: logger.Named("api-client"),
	}, nil
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Execute performs the request and returns the decoded JSON body. A 204
// response, or an empty body from a DELETE, yields nil.
func (c *Client) Execute(ctx context.Context, r Request) (any, error) {
	status, body, err := c.do(ctx, r, "application/json")
	if err != nil {
		return nil, err
	}

	if status == http.StatusNoContent {
		return nil, nil
	}
	if len(bytes.TrimSpace(body)) == 0 && r.Method == http.MethodDelete {
		return nil, nil
	}

	var result any
	if err := JSON.Unmarshal(body, &result); err != nil {
		return nil, &ParseError{StatusCode: status, Body: body, Err: err}
	}
	return result, nil
}

// Download performs the request and returns the raw response body, for
// endpoints that serve file content rather than JSON.
func (c *Client) Download(ctx context.Context, r Request) ([]byte, error) {
	_, body, err := c.do(ctx, r, "*/*")
	return body, err
}

func (c *Client) do(ctx context.Context, r Request, accept string) (int, []byte, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	endpoint := c.config.BaseURL + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		if q := EncodeQuery(r.Query); q != "" {
			endpoint += "?" + q
		}
	}

	bodyReader, contentType, err := encodeBody(r)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.authenticate(req); err != nil {
		return 0, nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-Id", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("sending request", "method", method, "path", r.Path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, c.transportError(method, endpoint, err)
	}
	defer resp.Body.Close()

	// Read response body
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, c.transportError(method, endpoint, err)
	}

	c.logger.Debug("received response", "method", method, "path", r.Path,
		"status", resp.StatusCode, "request_id", requestID)

	// Handle HTTP errors
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var decoded any
		if len(respBody) > 0 {
			_ = JSON.Unmarshal(respBody, &decoded)
		}
		apiErr := newError(resp.StatusCode, decoded)
		c.logger.Warn("request failed", "method", method, "path", r.Path,
			"status", resp.StatusCode, "type", apiErr.Type, "request_id", requestID)
		return resp.StatusCode, respBody, apiErr
	}

	return resp.StatusCode, respBody, nil
}

func (c *Client) authenticate(req *http.Request) error {
	if c.config.APIKey != "" {
		req.SetBasicAuth(c.config.APIKey, "")
		return nil
	}
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain access token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}

func (c *Client) transportError(method, endpoint string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		c.logger.Warn("request timed out", "method", method, "url", endpoint)
		return &TimeoutError{Method: method, URL: endpoint, Err: err}
	}
	return &TransportError{Method: method, URL: endpoint, Err: err}
}

func encodeBody(r Request) (io.Reader, string, error) {
	if r.Upload != nil {
		return encodeUpload(r.Upload)
	}
	if r.Payload == nil {
		return nil, "", nil
	}
	bodyBytes, err := JSON.Marshal(r.Payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewReader(bodyBytes), "application/json", nil
}

func encodeUpload(u *Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range u.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %q: %w", k, err)
		}
	}

	field := u.Field
	if field == "" {
		field = "file"
	}
	contentType := u.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, u.Filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if u.Content != nil {
		if _, err := io.Copy(part, u.Content); err != nil {
			return nil, "", fmt.Errorf("failed to read upload content: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
