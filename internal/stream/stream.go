// Package stream implements the persistent market-data push connection. Only
// the credential and feed conventions are shared with the REST layer; the
// status classifier does not apply here.
package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cosmic-lab-inc/apca/internal/constants"
	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

// Message types pushed by the feed.
const (
	MessageTypeTrade        = "t"
	MessageTypeQuote        = "q"
	MessageTypeBar          = "b"
	MessageTypeSuccess      = "success"
	MessageTypeError        = "error"
	MessageTypeSubscription = "subscription"
)

var (
	ErrAuthenticationFailed = errors.New("stream authentication failed")
	ErrNotConnected         = errors.New("stream not connected")
)

// Message is one push message. The service multiplexes trades, quotes, bars,
// and control messages over a single frame format, discriminated by Type.
type Message struct {
	Type   string `json:"T"`
	Symbol string `json:"S,omitempty"`

	// Trade fields.
	Price float64 `json:"p,omitempty"`
	Size  float64 `json:"s,omitempty"`

	// Quote fields.
	AskPrice float64 `json:"ap,omitempty"`
	AskSize  float64 `json:"as,omitempty"`
	BidPrice float64 `json:"bp,omitempty"`
	BidSize  float64 `json:"bs,omitempty"`

	// Bar fields.
	Open   float64 `json:"o,omitempty"`
	High   float64 `json:"h,omitempty"`
	Low    float64 `json:"l,omitempty"`
	Close  float64 `json:"c,omitempty"`
	Volume float64 `json:"v,omitempty"`

	Timestamp time.Time `json:"t,omitzero"`

	// Control fields.
	Msg  string `json:"msg,omitempty"`
	Code int    `json:"code,omitempty"`
}

// Config holds the stream connection configuration.
type Config struct {
	// Endpoint is the websocket base URL. Defaults to the production stream.
	Endpoint string
	// Feed selects the data source tier. Defaults to IEX.
	Feed apca.Feed
	// KeyID and Secret authenticate the connection.
	KeyID  string
	Secret string
	// Buffer is the message channel capacity. Defaults to 64.
	Buffer int
	// Logger is an optional structured logger.
	Logger apca.Logger
}

// Client is a connected market-data stream.
type Client struct {
	conn     *websocket.Conn
	writeMu  sync.Mutex
	messages chan Message
	quit     chan struct{}
	done     chan struct{}
	closeErr error
	once     sync.Once
	logger   apca.Logger
}

type request struct {
	Action string   `json:"action"`
	Key    string   `json:"key,omitempty"`
	Secret string   `json:"secret,omitempty"`
	Trades []string `json:"trades,omitempty"`
	Quotes []string `json:"quotes,omitempty"`
	Bars   []string `json:"bars,omitempty"`
}

// Connect dials the stream, authenticates, and starts the read loop. The
// returned client delivers decoded messages on Messages until Close is called
// or the connection drops.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = constants.DefaultStreamEndpoint
	}

	feed := cfg.Feed
	if feed == "" {
		feed = apca.FeedIEX
	}

	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = 64
	}

	url := endpoint + "/" + string(feed)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}

	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	client := &Client{
		conn:     conn,
		messages: make(chan Message, buffer),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   cfg.Logger,
	}

	err = client.authenticate(ctx, cfg.KeyID, cfg.Secret)
	if err != nil {
		_ = conn.Close()

		return nil, err
	}

	go client.readLoop()

	// Close the connection when the dialing context is canceled.
	go func() {
		select {
		case <-ctx.Done():
			_ = client.Close()
		case <-client.done:
		}
	}()

	return client, nil
}

// authenticate performs the auth handshake: the service greets with a success
// control message, then acknowledges the auth action with another.
func (c *Client) authenticate(ctx context.Context, keyID, secret string) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetReadDeadline(deadline)
	}
	defer func() {
		_ = c.conn.SetReadDeadline(time.Time{})
	}()

	_, err := c.readBatch()
	if err != nil {
		return fmt.Errorf("reading greeting: %w", err)
	}

	err = c.send(request{Action: "auth", Key: keyID, Secret: secret})
	if err != nil {
		return fmt.Errorf("sending auth: %w", err)
	}

	batch, err := c.readBatch()
	if err != nil {
		return fmt.Errorf("reading auth response: %w", err)
	}

	for _, msg := range batch {
		if msg.Type == MessageTypeSuccess {
			return nil
		}
	}

	return ErrAuthenticationFailed
}

// Subscribe requests push messages for the given symbols per channel. Any of
// the slices may be empty.
func (c *Client) Subscribe(trades, quotes, bars []string) error {
	select {
	case <-c.done:
		return ErrNotConnected
	default:
	}

	err := c.send(request{Action: "subscribe", Trades: trades, Quotes: quotes, Bars: bars})
	if err != nil {
		return fmt.Errorf("sending subscribe: %w", err)
	}

	return nil
}

// Unsubscribe stops push messages for the given symbols per channel.
func (c *Client) Unsubscribe(trades, quotes, bars []string) error {
	select {
	case <-c.done:
		return ErrNotConnected
	default:
	}

	err := c.send(request{Action: "unsubscribe", Trades: trades, Quotes: quotes, Bars: bars})
	if err != nil {
		return fmt.Errorf("sending unsubscribe: %w", err)
	}

	return nil
}

// Messages returns the channel of decoded push messages. It is closed when
// the connection ends; Err reports why.
func (c *Client) Messages() <-chan Message {
	return c.messages
}

// Err reports the reason the message channel closed, nil for a clean Close.
func (c *Client) Err() error {
	select {
	case <-c.done:
		return c.closeErr
	default:
		return nil
	}
}

// Close tears down the connection and waits for the read loop to exit.
func (c *Client) Close() error {
	c.once.Do(func() {
		close(c.quit)

		c.writeMu.Lock()
		_ = c.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		c.writeMu.Unlock()

		_ = c.conn.Close()
	})

	<-c.done

	return nil
}

func (c *Client) send(req request) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	err := c.conn.WriteJSON(req)
	if err != nil {
		return fmt.Errorf("writing message: %w", err)
	}

	return nil
}

// readBatch reads one frame. The service always sends arrays of messages.
func (c *Client) readBatch() ([]Message, error) {
	var batch []Message

	err := c.conn.ReadJSON(&batch)
	if err != nil {
		return nil, fmt.Errorf("reading frame: %w", err)
	}

	return batch, nil
}

func (c *Client) readLoop() {
	defer func() {
		_ = c.conn.Close()
		close(c.messages)
		close(c.done)
	}()

	for {
		var batch []Message

		err := c.conn.ReadJSON(&batch)
		if err != nil {
			select {
			case <-c.quit:
				// Shutdown initiated locally; a read error is expected.
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					c.closeErr = err
				}
			}

			return
		}

		for _, msg := range batch {
			if c.logger != nil && msg.Type == MessageTypeError {
				c.logger.Warn("stream error message", map[string]interface{}{
					"code": msg.Code,
					"msg":  msg.Msg,
				})
			}

			select {
			case c.messages <- msg:
			case <-c.quit:
				return
			}
		}
	}
}
