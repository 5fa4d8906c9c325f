package apca_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmic-lab-inc/apca/pkg/apca"
)

func TestMarketPrefix_Path(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/v2/stocks/", apca.Stocks.Path())
	assert.Equal(t, "/v1beta3/crypto/us/", apca.Crypto.Path())

	// The zero value addresses stocks
	var zero apca.MarketPrefix
	assert.Equal(t, "/v2/stocks/", zero.Path())
}

func TestMarketPrefix_ResolvedPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		prefix   apca.MarketPrefix
		symbol   string
		resource string
		expected string
	}{
		{"stock quotes", apca.Stocks, "SPY", "quotes", "/v2/stocks/SPY/quotes"},
		{"stock trades", apca.Stocks, "AAPL", "trades", "/v2/stocks/AAPL/trades"},
		{"crypto bars", apca.Crypto, "BTCUSD", "bars", "/v1beta3/crypto/us/BTCUSD/bars"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.prefix.Path()+tt.symbol+"/"+tt.resource)
		})
	}
}

func TestMarketPrefix_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "stocks", apca.Stocks.String())
	assert.Equal(t, "crypto", apca.Crypto.String())
}

func TestParseMarketPrefix(t *testing.T) {
	t.Parallel()

	prefix, err := apca.ParseMarketPrefix("stocks")
	require.NoError(t, err)
	assert.Equal(t, apca.Stocks, prefix)

	prefix, err = apca.ParseMarketPrefix("crypto")
	require.NoError(t, err)
	assert.Equal(t, apca.Crypto, prefix)

	prefix, err = apca.ParseMarketPrefix("")
	require.NoError(t, err)
	assert.Equal(t, apca.Stocks, prefix)

	_, err = apca.ParseMarketPrefix("bonds")
	require.Error(t, err)
	assert.ErrorIs(t, err, apca.ErrUnknownMarket)
}
