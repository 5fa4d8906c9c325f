// Package constants centralizes values shared across the client packages.
package constants

import "time"

// Service endpoints.
const (
	DefaultDataEndpoint   = "https://data.alpaca.markets"
	DefaultStreamEndpoint = "wss://stream.data.alpaca.markets/v2"
)

// Environment variables consulted when the config carries no credentials.
const (
	EnvKeyID  = "APCA_API_KEY_ID"
	EnvSecret = "APCA_API_SECRET_KEY"
)

// Transport defaults.
const (
	DefaultUserAgent    = "apca-go"
	DefaultRetryMax     = 3
	DefaultRetryWaitMin = 1 * time.Second
	DefaultRetryWaitMax = 30 * time.Second
	DefaultHTTPTimeout  = 30 * time.Second
)

// MaxPageLimit is the service-declared upper bound for the limit parameter.
// It is documentation, not client-side validation: violations come back as
// invalid-input errors from the service.
const MaxPageLimit = 10000

// DefaultTimeframe is the bar aggregation window used when none is given.
const DefaultTimeframe = "1Day"
