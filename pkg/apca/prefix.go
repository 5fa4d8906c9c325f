package apca

import (
	"errors"
	"fmt"
)

// MarketPrefix selects the URL path prefix for an asset class. The mapping to
// a path segment is total and fixed by the service's versioning; the zero
// value is Stocks.
type MarketPrefix int

const (
	// Stocks addresses the equities market-data endpoints.
	Stocks MarketPrefix = iota
	// Crypto addresses the US crypto market-data endpoints.
	Crypto
)

var ErrUnknownMarket = errors.New("unknown market")

// Path returns the literal path segment for the prefix, including both
// slashes.
func (p MarketPrefix) Path() string {
	switch p {
	case Crypto:
		return "/v1beta3/crypto/us/"
	default:
		return "/v2/stocks/"
	}
}

// String implements fmt.Stringer.
func (p MarketPrefix) String() string {
	switch p {
	case Crypto:
		return "crypto"
	default:
		return "stocks"
	}
}

// ParseMarketPrefix converts a textual market name, as accepted on the command
// line, into a prefix.
func ParseMarketPrefix(s string) (MarketPrefix, error) {
	switch s {
	case "stocks", "":
		return Stocks, nil
	case "crypto":
		return Crypto, nil
	default:
		return Stocks, fmt.Errorf("%w: %q", ErrUnknownMarket, s)
	}
}
