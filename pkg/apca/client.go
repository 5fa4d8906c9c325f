package apca

import (
	"context"
	"time"
)

// Client is the typed surface over the market-data API.
type Client interface {
	Trades() TradesClient
	Quotes() QuotesClient
	Bars() BarsClient
}

// TradesClient accesses the historic trades endpoint.
type TradesClient interface {
	// List fetches one page of trades.
	List(ctx context.Context, req *ListRequest) (*TradePage, error)
	// ListAll walks every page and returns the trades in server order.
	ListAll(ctx context.Context, req *ListRequest) ([]Trade, error)
	// Pages returns an iterator over the enumeration, starting from
	// req.PageToken.
	Pages(req *ListRequest) *PageIterator[Trade]
}

// QuotesClient accesses the historic and latest quote endpoints.
type QuotesClient interface {
	List(ctx context.Context, req *ListRequest) (*QuotePage, error)
	ListAll(ctx context.Context, req *ListRequest) ([]Quote, error)
	Pages(req *ListRequest) *PageIterator[Quote]
	// Latest fetches the most recent quote for a symbol.
	Latest(ctx context.Context, req *LatestQuoteRequest) (*LatestQuote, error)
}

// BarsClient accesses the historic bars endpoint.
type BarsClient interface {
	List(ctx context.Context, req *BarsRequest) (*BarPage, error)
	ListAll(ctx context.Context, req *BarsRequest) ([]Bar, error)
	Pages(req *BarsRequest) *PageIterator[Bar]
}

// Logger is the structured logging interface used by the HTTP layer and
// helpers. Implementations are free to back it with any logging library.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// Credentials are injected verbatim as headers on every request; when KeyID
// or Secret is empty the constructor in pkg/apcaclient falls back to the
// APCA_API_KEY_ID and APCA_API_SECRET_KEY environment variables.
//
// Retry behavior and client-side rate limiting live entirely at the transport
// boundary. The endpoint layer itself never retries: callers seeing a rate
// limit or transport failure decide whether and how to retry.
type Config struct {
	// DataEndpoint is the market-data base URL. Defaults to
	// https://data.alpaca.markets.
	DataEndpoint string
	// StreamEndpoint is the websocket base URL for the push feed. Defaults to
	// wss://stream.data.alpaca.markets/v2.
	StreamEndpoint string

	// KeyID is the API key id.
	KeyID string
	// Secret is the API secret.
	Secret string

	// RetryMax is the maximum number of retries for network-level failures.
	// Received status codes are never retried by the transport; they go to
	// the classifier untouched.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration
	// RateLimit caps outgoing requests per second on the client side. Zero
	// disables client-side limiting.
	RateLimit int

	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger is an optional structured logger.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}
