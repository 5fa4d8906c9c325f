package apca

import (
	"time"
)

// Feed selects the data source tier. It passes through as a plain query
// parameter; which feeds an account may use is the service's decision.
type Feed string

const (
	// FeedIEX is the Investors Exchange feed, available on free plans.
	FeedIEX Feed = "iex"
	// FeedSIP is the consolidated tape, available to unlimited subscriptions.
	FeedSIP Feed = "sip"
	// FeedOTC carries over-the-counter venues.
	FeedOTC Feed = "otc"
)

// Trade is a single historic trade.
type Trade struct {
	// Timestamp is the time of the trade.
	Timestamp time.Time `json:"t"`
	// Price is the trade price.
	Price float64 `json:"p"`
	// Size is the number of shares traded.
	Size uint64 `json:"s"`
}

// Quote is a single NBBO quote.
type Quote struct {
	// Timestamp is the time of the quote.
	Timestamp time.Time `json:"t"`
	AskPrice  float64   `json:"ap"`
	AskSize   uint64    `json:"as"`
	BidPrice  float64   `json:"bp"`
	BidSize   uint64    `json:"bs"`
}

// Bar is one aggregated OHLCV interval.
type Bar struct {
	// Timestamp is the start of the aggregation window.
	Timestamp time.Time `json:"t"`
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    float64   `json:"v"`
}

// TradePage is one page of historic trades. A missing or null trades field
// decodes to an empty page.
type TradePage struct {
	Trades []Trade `json:"trades"`
	// Symbol is the instrument the trades correspond to.
	Symbol string `json:"symbol"`
	// NextPageToken, when present, is the opaque cursor for the next page. It
	// must be forwarded verbatim; its structure is a server-side detail.
	NextPageToken *string `json:"next_page_token"`
}

// QuotePage is one page of historic quotes.
type QuotePage struct {
	Quotes        []Quote `json:"quotes"`
	Symbol        string  `json:"symbol"`
	NextPageToken *string `json:"next_page_token"`
}

// BarPage is one page of historic bars.
type BarPage struct {
	Bars          []Bar   `json:"bars"`
	Symbol        string  `json:"symbol"`
	NextPageToken *string `json:"next_page_token"`
}

// LatestQuote wraps the most recent quote for a symbol.
type LatestQuote struct {
	Symbol string `json:"symbol"`
	Quote  Quote  `json:"quote"`
}
