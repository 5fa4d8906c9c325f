// Package client implements the apca.Client interface over the endpoint
// definitions.
package client

import (
	"github.com/cosmic-lab-inc/apca/internal/constants"
	internalhttp "github.com/cosmic-lab-inc/apca/internal/http"
	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

// Client implements apca.Client.
type Client struct {
	transport apca.Transport
	baseURL   string
	creds     apca.Credentials
	logger    apca.Logger

	trades apca.TradesClient
	quotes apca.QuotesClient
	bars   apca.BarsClient
}

// New creates a client from the config. Credential presence is the caller's
// concern (pkg/apcaclient enforces it); an empty credential simply produces
// authentication failures from the service.
func New(config *apca.Config) (*Client, error) {
	if config == nil {
		return nil, apca.ErrConfigRequired
	}

	baseURL := config.DataEndpoint
	if baseURL == "" {
		baseURL = constants.DefaultDataEndpoint
	}

	transport := internalhttp.NewClient(httpOptions(config)...)

	client := &Client{
		transport: transport,
		baseURL:   baseURL,
		creds:     apca.Credentials{KeyID: config.KeyID, Secret: config.Secret},
		logger:    config.Logger,
	}
	client.initializeResourceClients()

	return client, nil
}

// NewWithTransport creates a client over a caller-provided transport. Tests
// use it to substitute the network.
func NewWithTransport(transport apca.Transport, baseURL string, creds apca.Credentials) *Client {
	client := &Client{
		transport: transport,
		baseURL:   baseURL,
		creds:     creds,
	}
	client.initializeResourceClients()

	return client
}

// httpOptions builds transport options from config.
func httpOptions(config *apca.Config) []internalhttp.Option {
	var opts []internalhttp.Option

	if config.Logger != nil {
		opts = append(opts, internalhttp.WithLogger(config.Logger))

		if config.Debug {
			chain := apca.NewInterceptorChain()
			chain.AddRequestInterceptor(apca.LoggingInterceptor(config.Logger))
			chain.AddResponseInterceptor(apca.LoggingResponseInterceptor(config.Logger))
			opts = append(opts, internalhttp.WithInterceptors(chain))
		}
	}

	if config.Debug {
		opts = append(opts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		waitMin := constants.DefaultRetryWaitMin
		waitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			waitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			waitMax = config.RetryWaitMax
		}

		opts = append(opts, internalhttp.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	if config.RateLimit > 0 {
		opts = append(opts, internalhttp.WithRateLimit(config.RateLimit))
	}

	return opts
}

// Trades implements apca.Client.Trades.
func (c *Client) Trades() apca.TradesClient {
	return c.trades
}

// Quotes implements apca.Client.Quotes.
func (c *Client) Quotes() apca.QuotesClient {
	return c.quotes
}

// Bars implements apca.Client.Bars.
func (c *Client) Bars() apca.BarsClient {
	return c.bars
}

// initializeResourceClients wires the per-endpoint clients.
func (c *Client) initializeResourceClients() {
	c.trades = NewTradesClient(c.transport, c.baseURL, c.creds)
	c.quotes = NewQuotesClient(c.transport, c.baseURL, c.creds)
	c.bars = NewBarsClient(c.transport, c.baseURL, c.creds)
}
