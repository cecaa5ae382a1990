package rentalsdk

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request made by an SDKClient.
const DefaultTimeout = 10 * time.Second

// SDKClient is a client for the car rental API.
type SDKClient struct {
	BaseURL string

	// HTTPClient sends authenticated calls through the pipeline.
	HTTPClient *http.Client

	// PublicHTTPClient sends calls that must not carry or invalidate a
	// credential (login, registration, health).
	PublicHTTPClient *http.Client
}

type clientOptions struct {
	timeout     time.Duration
	base        http.RoundTripper
	tokens      TokenSource
	invalidator Invalidator
	logger      *slog.Logger
}

// Option configures NewSDKClient.
type Option func(*clientOptions)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithTransport sets the round tripper underneath the pipeline.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.base = rt }
}

// WithCredentials attaches tokens to authenticated calls and reports 401s
// to inv. inv may be nil.
func WithCredentials(tokens TokenSource, inv Invalidator) Option {
	return func(o *clientOptions) {
		o.tokens = tokens
		o.invalidator = inv
	}
}

// WithLogger sets the logger used by the pipeline.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewSDKClient creates a client for the API at baseURL.
func NewSDKClient(baseURL string, opts ...Option) *SDKClient {
	o := clientOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	base := o.base
	if base == nil {
		base = http.DefaultTransport
	}

	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: o.timeout,
			Transport: &Transport{
				Base:        base,
				Tokens:      o.tokens,
				Invalidator: o.invalidator,
				Logger:      o.logger,
			},
		},
		PublicHTTPClient: &http.Client{
			Timeout:   o.timeout,
			Transport: base,
		},
	}
}
