package imgbb

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultEndpoint is the ImgBB upload API.
	DefaultEndpoint = "https://api.imgbb.com/1/upload"

	// DefaultTimeout bounds one upload request, including reading the response.
	DefaultTimeout = 30 * time.Second
)

// Client uploads images to the ImgBB API. A Client holds no per-call state
// and is safe for concurrent use.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// Option is a functional option for Client
type Option func(*Client)

// WithEndpoint overrides the upload endpoint URL
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTimeout overrides the request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient sets the HTTP client used to send requests. Its Timeout is
// replaced by the client timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new ImgBB client
func New(opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := &http.Client{}
	if c.httpClient != nil {
		copied := *c.httpClient
		hc = &copied
	}
	hc.Timeout = c.timeout
	c.httpClient = hc

	return c
}

// Endpoint returns the upload endpoint URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Timeout returns the request timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

type uploadConfig struct {
	name       string
	expiration int
}

// UploadOption sets an optional upload parameter.
type UploadOption func(*uploadConfig)

// WithName sets the name of the uploaded image. By default the API assigns one.
func WithName(name string) UploadOption {
	return func(cfg *uploadConfig) {
		cfg.name = name
	}
}

// WithExpiration sets the auto-deletion delay in seconds. 0 keeps the image
// permanently; other values must be within [MinExpiration, MaxExpiration].
func WithExpiration(seconds int) UploadOption {
	return func(cfg *uploadConfig) {
		cfg.expiration = seconds
	}
}

var defaultClient = New()

// Upload uploads src with a client using the default endpoint and timeout.
func Upload(ctx context.Context, key string, src Source, opts ...UploadOption) (*Response, error) {
	return defaultClient.Upload(ctx, key, src, opts...)
}

// Upload validates the input, sends a single POST request and returns the
// decoded API response. Validation failures never reach the network. There
// are no retries.
func (c *Client) Upload(ctx context.Context, key string, src Source, opts ...UploadOption) (*Response, error) {
	var cfg uploadConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := validateExpiration(cfg.expiration); err != nil {
		return nil, err
	}

	p, err := src.resolve()
	if err != nil {
		return nil, err
	}
	if p.kind == payloadBytes {
		if err := validateSize(int64(len(p.data))); err != nil {
			return nil, err
		}
	}

	form := buildForm(key, p, &cfg)
	return c.send(ctx, form)
}

func buildForm(key string, p *payload, cfg *uploadConfig) url.Values {
	form := url.Values{}
	form.Set("key", key)

	switch p.kind {
	case payloadURL:
		form.Set("image", p.url)
	case payloadBytes:
		form.Set("image", base64.StdEncoding.EncodeToString(p.data))
	}

	if cfg.name != "" {
		form.Set("name", cfg.name)
	}
	if cfg.expiration != 0 {
		form.Set("expiration", strconv.Itoa(cfg.expiration))
	}

	return form
}

func (c *Client) send(ctx context.Context, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create upload request",
			goerr.V("endpoint", c.endpoint),
			goerr.T(ErrTagImgBB),
		)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}

	return translate(resp.StatusCode, body)
}

// transportError names the configured timeout only when the client timeout
// fired. A deadline or cancellation from the caller's context is reported
// as such.
func (c *Client) transportError(ctx context.Context, err error) error {
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return timeoutError(err, "upload timed out: "+ctxErr.Error())
	case ctxErr != nil:
		return apiError(err, "upload canceled: "+ctxErr.Error(), 0, err.Error())
	}

	if isTimeout(err) {
		return timeoutError(err, "upload timed out after "+formatTimeout(c.timeout))
	}
	return apiError(err, "network error", 0, err.Error())
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func formatTimeout(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%d seconds", int(d/time.Second))
	}
	return d.String()
}

// translate maps a received HTTP response to a Response or an API error.
// Success is decided from a generic parse, so an accepted upload whose data
// does not match ImageData is still returned, with Raw intact.
func translate(statusCode int, body []byte) (*Response, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, apiError(err, "invalid response from server", statusCode, string(body))
	}

	var success bool
	_ = json.Unmarshal(fields["success"], &success)

	ok2xx := statusCode >= 200 && statusCode < 300
	if !ok2xx || !success {
		msg := "API returned an error"
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(fields["error"], &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return nil, apiError(nil, fmt.Sprintf("imgbb API error: HTTP %d: %s", statusCode, msg), statusCode, string(body))
	}

	resp := &Response{
		Data:    decodeImageData(fields["data"]),
		Success: true,
		Status:  statusCode,
		Raw:     json.RawMessage(body),
	}
	var status int
	if json.Unmarshal(fields["status"], &status) == nil && status != 0 {
		resp.Status = status
	}

	return resp, nil
}
