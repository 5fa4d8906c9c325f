package apca

import (
	"net/url"
	"strconv"
	"time"
)

// ListRequest holds the parameters shared by the historic list endpoints. The
// query parameter names are fixed by the service's contract and must match
// exactly, including the omission rules: an absent optional field does not
// appear in the query at all.
type ListRequest struct {
	// Symbol is the instrument to query. It becomes part of the URL path, not
	// the query string.
	Symbol string
	// Prefix picks the asset-class path prefix. The zero value is Stocks.
	Prefix MarketPrefix
	// Start filters items equal to or after this time.
	Start time.Time
	// End filters items equal to or before this time.
	End time.Time
	// Limit caps the number of items per page, 1 to 10000. Zero omits the
	// parameter; out-of-range values are reported by the service as invalid
	// input rather than checked here.
	Limit int
	// Feed selects the data source tier. Empty omits the parameter.
	Feed Feed
	// PageToken continues a prior enumeration. It is forwarded verbatim and
	// never inspected. Empty omits the parameter.
	PageToken string
}

// Values encodes the query parameters. Timestamps serialize as RFC 3339 so a
// whole-second input re-encodes bit for bit.
func (r *ListRequest) Values() url.Values {
	vals := url.Values{}
	vals.Set("start", r.Start.UTC().Format(time.RFC3339Nano))
	vals.Set("end", r.End.UTC().Format(time.RFC3339Nano))

	if r.Limit > 0 {
		vals.Set("limit", strconv.Itoa(r.Limit))
	}

	if r.Feed != "" {
		vals.Set("feed", string(r.Feed))
	}

	if r.PageToken != "" {
		vals.Set("page_token", r.PageToken)
	}

	return vals
}

// BarsRequest adds the aggregation window to the shared list parameters.
type BarsRequest struct {
	ListRequest
	// Timeframe is the bar aggregation window, e.g. "1Min", "1Hour", "1Day".
	Timeframe string
}

// Values encodes the query parameters including the timeframe.
func (r *BarsRequest) Values() url.Values {
	vals := r.ListRequest.Values()

	if r.Timeframe != "" {
		vals.Set("timeframe", r.Timeframe)
	}

	return vals
}

// LatestQuoteRequest addresses the most recent quote for a symbol.
type LatestQuoteRequest struct {
	Symbol string
	Prefix MarketPrefix
	// Feed selects the data source tier. Empty omits the parameter.
	Feed Feed
}

// Values encodes the query parameters.
func (r *LatestQuoteRequest) Values() url.Values {
	vals := url.Values{}

	if r.Feed != "" {
		vals.Set("feed", string(r.Feed))
	}

	return vals
}
