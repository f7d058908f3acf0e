package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diogo/phonechat/internal/models"
)

// Doer executes HTTP requests. tls_client.HttpClient satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChatClientInterface defines the operations the widget needs from the backend
type ChatClientInterface interface {
	Send(ctx context.Context, message string) (*models.ChatReply, error)
	Endpoint() string
	Timeout() time.Duration
}

// ChatClient posts user messages to {baseURL}/api/chat
type ChatClient struct {
	httpClient   Doer
	baseURL      string
	timeout      time.Duration
	userAgent    string
	logger       zerolog.Logger
	newRequestID func() string
}

// Ensure ChatClient implements ChatClientInterface
var _ ChatClientInterface = (*ChatClient)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*ChatClient)

// WithBaseURL sets the backend host. An empty value keeps the local default.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ChatClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout bounds each Send. Zero disables the widget timeout and leaves
// the transport's own behaviour in charge.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ChatClient) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the transport (used in tests)
func WithHTTPClient(client Doer) ClientOption {
	return func(c *ChatClient) {
		c.httpClient = client
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *ChatClient) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) ClientOption {
	return func(c *ChatClient) {
		c.userAgent = userAgent
	}
}

// WithRequestIDFunc overrides request id generation
func WithRequestIDFunc(fn func() string) ClientOption {
	return func(c *ChatClient) {
		c.newRequestID = fn
	}
}

// NewClient creates a new ChatClient
func NewClient(opts ...ClientOption) (*ChatClient, error) {
	client := &ChatClient{
		baseURL:      models.DefaultBaseURL,
		timeout:      models.DefaultTimeout,
		userAgent:    "phonechat",
		logger:       zerolog.Nop(),
		newRequestID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(300),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the full chat endpoint URL
func (c *ChatClient) Endpoint() string {
	return c.baseURL + models.EndpointChat
}

// BaseURL returns the configured backend host
func (c *ChatClient) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-send deadline, zero when disabled
func (c *ChatClient) Timeout() time.Duration {
	return c.timeout
}
